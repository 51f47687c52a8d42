package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LGU event categories.
const (
	CategoryPumpTruck   = "pump_truck"
	CategoryReliefGoods = "relief_goods"
	CategoryRoadClosure = "road_closure"
)

// ValidCategory reports whether s is one of the known schedule categories.
func ValidCategory(s string) bool {
	switch s {
	case CategoryPumpTruck, CategoryReliefGoods, CategoryRoadClosure:
		return true
	}
	return false
}

// LguSchedule is an announced local-government event. ImageURL and
// ImagePublicID travel together: the public id is what lets update and delete
// destroy the stored image.
type LguSchedule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description"`
	Date          time.Time          `bson:"date" json:"date"`
	Category      string             `bson:"category" json:"category"`
	Location      string             `bson:"location,omitempty" json:"location"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl"`
	ImagePublicID string             `bson:"imagePublicId,omitempty" json:"imagePublicId"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
