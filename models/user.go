package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document. Password holds the bcrypt hash and is never
// serialized. Reports are not linked to users; the client correlates them by
// name and contact number.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Fullname      string             `bson:"fullname,omitempty" json:"fullname,omitempty"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	Age           int                `bson:"age,omitempty" json:"age,omitempty"`
	ContactNumber string             `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	ProfileImage  string             `bson:"profileImage,omitempty" json:"profileImage"`
	Role          string             `bson:"role" json:"role"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
