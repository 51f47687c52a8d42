package config

import (
	"errors"
	"os"
	"strings"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	UploadDir string

	// Object storage backend: "disk" or "cloudinary".
	StorageBackend string
	CloudinaryURL  string

	JWTSecret string

	// AI chat proxy (OpenAI-compatible endpoint).
	AIAPIKey  string
	AIBaseURL string
	AIModel   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "5000"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "bahaalert"),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		StorageBackend: strings.ToLower(getenv("STORAGE_BACKEND", "disk")),
		CloudinaryURL:  os.Getenv("CLOUDINARY_URL"),
		JWTSecret:      getenv("JWT_SECRET", "dev-secret-change-me"),
		AIAPIKey:       os.Getenv("AI_API_KEY"),
		AIBaseURL:      getenv("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		AIModel:        getenv("AI_MODEL", "gemini-1.5-flash"),
	}

	switch cfg.StorageBackend {
	case "disk", "cloudinary":
	default:
		return nil, errors.New("invalid STORAGE_BACKEND (want disk or cloudinary)")
	}
	if cfg.StorageBackend == "cloudinary" && cfg.CloudinaryURL == "" {
		return nil, errors.New("STORAGE_BACKEND=cloudinary requires CLOUDINARY_URL")
	}

	return cfg, nil
}

// getenv returns env var value or default.
func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
