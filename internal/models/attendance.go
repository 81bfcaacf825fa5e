package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

// ParseStatus validates the closed status enumeration.
func ParseStatus(s string) (AttendanceStatus, error) {
	switch AttendanceStatus(s) {
	case StatusPresent, StatusAbsent, StatusLate:
		return AttendanceStatus(s), nil
	}
	return "", fmt.Errorf("invalid attendance status %q", s)
}

// AttendanceRecord holds one student's status for one civil day.
// At most one record exists per (student_id, date) pair; Date is stored
// normalized to midnight UTC so the unique index carries that meaning.
type AttendanceRecord struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StudentID primitive.ObjectID `json:"student_id" bson:"student_id"`
	Date      time.Time          `json:"date" bson:"date"`
	Status    AttendanceStatus   `json:"status" bson:"status"`
	Remarks   string             `json:"remarks" bson:"remarks"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
