package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nelnel19/BAHA-ALERT/config"
	"github.com/nelnel19/BAHA-ALERT/controllers"
	"github.com/nelnel19/BAHA-ALERT/database"
	"github.com/nelnel19/BAHA-ALERT/observability"
	"github.com/nelnel19/BAHA-ALERT/routes"
	"github.com/nelnel19/BAHA-ALERT/storage"
	"github.com/nelnel19/BAHA-ALERT/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := database.Connect(context.Background(), cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer database.Disconnect(context.Background())

	var objStorage storage.Storage
	switch cfg.StorageBackend {
	case "cloudinary":
		objStorage, err = storage.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
	default:
		objStorage = storage.NewDisk(cfg.UploadDir)
	}

	aiCfg := openai.DefaultConfig(cfg.AIAPIKey)
	aiCfg.BaseURL = cfg.AIBaseURL

	h := controllers.New(controllers.Handlers{
		Reports:   store.NewMongoReports(),
		Schedules: store.NewMongoSchedules(),
		Users:     store.NewMongoUsers(),
		Storage:   objStorage,
		Metrics:   observability.NewMetrics(),
		JWTSecret: cfg.JWTSecret,
		AI:        openai.NewClientWithConfig(aiCfg),
		AIModel:   cfg.AIModel,
	})

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "*",
		MaxAge:       int((12 * time.Hour).Seconds()),
	}))

	// Static preview for disk-stored images.
	app.Static("/uploads", "./"+cfg.UploadDir)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.Register(app, h)

	slog.Info("API listening", "port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
