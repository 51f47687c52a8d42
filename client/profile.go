package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Profile is the locally cached reporter identity. It never round-trips to
// the server as a whole; the my-reports query sends its fields individually.
type Profile struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
}

// ProfileCache persists the profile as a small JSON file on the device.
type ProfileCache struct {
	path string
}

func NewProfileCache(path string) *ProfileCache {
	return &ProfileCache{path: path}
}

// Load reads the cached profile. A missing file is an empty profile, not an
// error.
func (p *ProfileCache) Load() (Profile, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, nil
		}
		return Profile{}, err
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return Profile{}, err
	}
	return prof, nil
}

func (p *ProfileCache) Save(prof Profile) error {
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o600)
}

// EnrichContact stores the contact number only if the profile does not
// already have one. Returns whether anything was written.
func (p *ProfileCache) EnrichContact(contactNumber string) (bool, error) {
	if contactNumber == "" {
		return false, nil
	}
	prof, err := p.Load()
	if err != nil {
		return false, err
	}
	if prof.ContactNumber != "" {
		return false, nil
	}
	prof.ContactNumber = contactNumber
	if err := p.Save(prof); err != nil {
		return false, err
	}
	return true, nil
}
