package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Krishna-Sai3112/SII-Project/internal/attendance"
	"github.com/Krishna-Sai3112/SII-Project/internal/models"
)

// AttendanceStore implements attendance.Store on MongoDB collections.
type AttendanceStore struct {
	students    *mongo.Collection
	attendances *mongo.Collection
}

func NewAttendanceStore(client *mongo.Client, dbName string) *AttendanceStore {
	db := client.Database(dbName)
	return &AttendanceStore{
		students:    db.Collection("students"),
		attendances: db.Collection("attendances"),
	}
}

func (s *AttendanceStore) FindStudents(ctx context.Context, f attendance.StudentFilter) ([]models.Student, error) {
	filter := bson.M{}
	if f.ClassName != "" {
		filter["className"] = f.ClassName
	}

	opts := options.Find().SetSort(bson.D{{Key: "rollNumber", Value: 1}})
	cursor, err := s.students.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find students: %v: %w", err, attendance.ErrStore)
	}
	defer cursor.Close(ctx)

	var students []models.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode students: %v: %w", err, attendance.ErrStore)
	}
	return students, nil
}

func (s *AttendanceStore) FindAttendance(ctx context.Context, f attendance.RecordFilter) ([]models.AttendanceRecord, error) {
	filter := bson.M{
		"date": bson.M{"$gte": f.From, "$lte": f.To},
	}
	if !f.StudentID.IsZero() {
		filter["student_id"] = f.StudentID
	}

	cursor, err := s.attendances.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find attendance: %v: %w", err, attendance.ErrStore)
	}
	defer cursor.Close(ctx)

	var records []models.AttendanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode attendance: %v: %w", err, attendance.ErrStore)
	}
	return records, nil
}

// UpsertAttendance creates or overwrites the one record for (studentID, day)
// in a single conditional write. The unique (student_id, date) index makes
// concurrent attempts for the same key resolve to a single record; a
// duplicate-key race that still surfaces is reported as a conflict.
func (s *AttendanceStore) UpsertAttendance(ctx context.Context, studentID primitive.ObjectID, day time.Time,
	status models.AttendanceStatus, remarks string) (models.AttendanceRecord, error) {

	now := time.Now().UTC()
	filter := bson.M{"student_id": studentID, "date": day}
	update := bson.M{
		"$set":         bson.M{"status": status, "remarks": remarks, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var rec models.AttendanceRecord
	err := s.attendances.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.AttendanceRecord{}, fmt.Errorf("attendance for student %s on %s: %w",
				studentID.Hex(), day.Format("2006-01-02"), attendance.ErrConflict)
		}
		return models.AttendanceRecord{}, fmt.Errorf("upsert attendance: %v: %w", err, attendance.ErrStore)
	}
	return rec, nil
}
