package attendance

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Krishna-Sai3112/SII-Project/internal/models"
)

// StudentFilter narrows FindStudents. Zero value selects everyone.
type StudentFilter struct {
	ClassName string
}

// RecordFilter selects attendance records whose date falls in [From, To].
// StudentID, when set, narrows to a single student.
type RecordFilter struct {
	From      time.Time
	To        time.Time
	StudentID primitive.ObjectID
}

// Store is the persistence surface the service depends on. Implementations
// must make UpsertAttendance atomic per (studentID, day) key: concurrent
// calls for the same key resolve to a single record, never duplicates.
type Store interface {
	FindStudents(ctx context.Context, f StudentFilter) ([]models.Student, error)
	FindAttendance(ctx context.Context, f RecordFilter) ([]models.AttendanceRecord, error)
	UpsertAttendance(ctx context.Context, studentID primitive.ObjectID, day time.Time,
		status models.AttendanceStatus, remarks string) (models.AttendanceRecord, error)
}
