package database

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Krishna-Sai3112/SII-Project/internal/attendance"
	"github.com/Krishna-Sai3112/SII-Project/internal/models"
)

// MemStore is a map-backed attendance.Store for tests and local runs
// without a Mongo instance. Upserts are keyed the same way as the
// (student_id, date) unique index.
type MemStore struct {
	mu       sync.RWMutex
	students map[primitive.ObjectID]models.Student
	records  map[string]models.AttendanceRecord

	// Err, when set, is returned from every operation to exercise
	// store-failure paths.
	Err error
}

func NewMemStore() *MemStore {
	return &MemStore{
		students: make(map[primitive.ObjectID]models.Student),
		records:  make(map[string]models.AttendanceRecord),
	}
}

// AddStudent registers a student and assigns an id.
func (m *MemStore) AddStudent(name, rollNumber, className string) models.Student {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := models.Student{
		ID:         primitive.NewObjectID(),
		Name:       name,
		RollNumber: rollNumber,
		ClassName:  className,
		CreatedAt:  time.Now().UTC(),
	}
	m.students[st.ID] = st
	return st
}

// RemoveStudent deletes a student, leaving any attendance records dangling.
func (m *MemStore) RemoveStudent(id primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.students, id)
}

func (m *MemStore) FindStudents(_ context.Context, f attendance.StudentFilter) ([]models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	students := make([]models.Student, 0, len(m.students))
	for _, st := range m.students {
		if f.ClassName != "" && st.ClassName != f.ClassName {
			continue
		}
		students = append(students, st)
	}
	return students, nil
}

func (m *MemStore) FindAttendance(_ context.Context, f attendance.RecordFilter) ([]models.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	var records []models.AttendanceRecord
	for _, rec := range m.records {
		if rec.Date.Before(f.From) || rec.Date.After(f.To) {
			continue
		}
		if !f.StudentID.IsZero() && rec.StudentID != f.StudentID {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (m *MemStore) UpsertAttendance(_ context.Context, studentID primitive.ObjectID, day time.Time,
	status models.AttendanceStatus, remarks string) (models.AttendanceRecord, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return models.AttendanceRecord{}, m.Err
	}
	now := time.Now().UTC()
	key := studentID.Hex() + "|" + day.Format("2006-01-02")
	rec, ok := m.records[key]
	if !ok {
		rec = models.AttendanceRecord{
			ID:        primitive.NewObjectID(),
			StudentID: studentID,
			Date:      day,
			CreatedAt: now,
		}
	}
	rec.Status = status
	rec.Remarks = remarks
	rec.UpdatedAt = now
	m.records[key] = rec
	return rec, nil
}

// RecordCount reports how many attendance records the store holds.
func (m *MemStore) RecordCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
