package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Danger levels for a flood report. Moderate is applied when a submission
// leaves the level unspecified.
const (
	DangerLow      = "Low"
	DangerModerate = "Moderate"
	DangerHigh     = "High"
)

// ValidDangerLevel reports whether s is one of the known levels.
func ValidDangerLevel(s string) bool {
	switch s {
	case DangerLow, DangerModerate, DangerHigh:
		return true
	}
	return false
}

// FloodReport is a citizen-submitted flood sighting. ContactNumber is always
// stored digits-only. There is no link to the users collection; retrieval by
// owner matches reporterName/contactNumber at query time.
type FloodReport struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ReporterName  string             `bson:"reporterName" json:"reporterName"`
	ContactNumber string             `bson:"contactNumber" json:"contactNumber"`
	Location      string             `bson:"location,omitempty" json:"location"`
	Description   string             `bson:"description,omitempty" json:"description"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"`
	// ImagePublicId is kept so the stored image could be destroyed later.
	// Report deletion does not destroy it today (unlike LguSchedule).
	ImagePublicID string    `bson:"imagePublicId,omitempty" json:"imagePublicId,omitempty"`
	DangerLevel   string    `bson:"dangerLevel" json:"dangerLevel"`
	ReportedAt    time.Time `bson:"reportedAt" json:"reportedAt"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
