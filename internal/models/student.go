package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Student struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	RollNumber string             `json:"rollNumber" bson:"rollNumber"` // Unique across all students
	ClassName  string             `json:"className" bson:"className"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
