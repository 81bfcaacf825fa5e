package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Krishna-Sai3112/SII-Project/internal/models"
)

const dateLayout = "2006-01-02"

// Entry is one student's status change in a marking batch.
type Entry struct {
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
	Remarks   string `json:"remarks"`
}

// DailyEntry pairs a student with that day's record, nil when none exists.
type DailyEntry struct {
	Student    models.Student           `json:"student"`
	Attendance *models.AttendanceRecord `json:"attendance"`
}

// StudentSummary is one student's monthly roll-up.
type StudentSummary struct {
	Student              models.Student `json:"student"`
	TotalDays            int            `json:"totalDays"`
	PresentCount         int            `json:"presentCount"`
	AbsentCount          int            `json:"absentCount"`
	LateCount            int            `json:"lateCount"`
	AttendancePercentage float64        `json:"attendancePercentage"`
}

// ReportRow is one CSV line of the monthly report.
type ReportRow struct {
	RollNumber  string
	StudentName string
	ClassName   string
	Date        string
	Status      string
	Remarks     string
}

// Service implements attendance marking and the read-side aggregations
// over an abstract store. It holds no state of its own.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// MarkAttendance applies a batch of status changes for one date, one atomic
// upsert per entry. Entries missing studentId or status are skipped, a
// tolerance for partially filled client payloads. Entries are processed
// independently: a failure on one does not block the rest. The returned
// records are the successful writes in processing order; per-entry failures
// come back joined in err alongside them.
func (s *Service) MarkAttendance(ctx context.Context, date string, entries []Entry) ([]models.AttendanceRecord, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}

	var (
		results   []models.AttendanceRecord
		entryErrs []error
	)
	for _, e := range entries {
		if e.StudentID == "" || e.Status == "" {
			continue
		}
		status, err := models.ParseStatus(e.Status)
		if err != nil {
			entryErrs = append(entryErrs, fmt.Errorf("student %s: %v: %w", e.StudentID, err, ErrValidation))
			continue
		}
		studentID, err := primitive.ObjectIDFromHex(e.StudentID)
		if err != nil {
			entryErrs = append(entryErrs, fmt.Errorf("invalid student id %q: %w", e.StudentID, ErrValidation))
			continue
		}
		rec, err := s.store.UpsertAttendance(ctx, studentID, day, status, e.Remarks)
		if err != nil {
			entryErrs = append(entryErrs, err)
			continue
		}
		results = append(results, rec)
	}
	return results, errors.Join(entryErrs...)
}

// DailyView left-joins the roster (optionally one class) with the records of
// one civil day. Students without a record get a nil attendance; records
// whose student no longer exists are dropped. Sorted by roll number.
func (s *Service) DailyView(ctx context.Context, date, className string) ([]DailyEntry, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}

	students, err := s.store.FindStudents(ctx, StudentFilter{ClassName: className})
	if err != nil {
		return nil, err
	}
	records, err := s.store.FindAttendance(ctx, RecordFilter{From: day, To: endOfDay(day)})
	if err != nil {
		return nil, err
	}

	byStudent := make(map[primitive.ObjectID]models.AttendanceRecord, len(records))
	for _, rec := range records {
		byStudent[rec.StudentID] = rec
	}

	sortStudents(students)
	view := make([]DailyEntry, 0, len(students))
	for _, st := range students {
		entry := DailyEntry{Student: st}
		if rec, ok := byStudent[st.ID]; ok {
			entry.Attendance = &rec
		}
		view = append(view, entry)
	}
	return view, nil
}

// MonthlySummary computes per-student counts and the attendance percentage
// over the month's civil-day range. A student with no recorded days shows
// 0%, not a division-by-zero. Sorted by roll number.
func (s *Service) MonthlySummary(ctx context.Context, month, year int, className string) ([]StudentSummary, error) {
	from, to, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}

	students, err := s.store.FindStudents(ctx, StudentFilter{ClassName: className})
	if err != nil {
		return nil, err
	}
	records, err := s.store.FindAttendance(ctx, RecordFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	byStudent := make(map[primitive.ObjectID][]models.AttendanceRecord)
	for _, rec := range records {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}

	sortStudents(students)
	summary := make([]StudentSummary, 0, len(students))
	for _, st := range students {
		sum := StudentSummary{Student: st}
		for _, rec := range byStudent[st.ID] {
			switch rec.Status {
			case models.StatusPresent:
				sum.PresentCount++
			case models.StatusAbsent:
				sum.AbsentCount++
			case models.StatusLate:
				sum.LateCount++
			}
		}
		sum.TotalDays = len(byStudent[st.ID])
		if sum.TotalDays > 0 {
			pct := float64(sum.PresentCount+sum.LateCount) / float64(sum.TotalDays) * 100
			sum.AttendancePercentage = math.Round(pct*100) / 100
		}
		summary = append(summary, sum)
	}
	return summary, nil
}

// ReportRows projects the month's records into flat CSV rows, joined to
// their student. A dangling record keeps its row with "N/A" student fields
// so the report stays complete; with a class filter set there is no class
// to match against, so dangling rows are dropped instead. Sorted by date,
// then roll number.
func (s *Service) ReportRows(ctx context.Context, month, year int, className string) ([]ReportRow, error) {
	from, to, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}

	students, err := s.store.FindStudents(ctx, StudentFilter{})
	if err != nil {
		return nil, err
	}
	records, err := s.store.FindAttendance(ctx, RecordFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	rows := make([]ReportRow, 0, len(records))
	for _, rec := range records {
		st, ok := byID[rec.StudentID]
		if className != "" && (!ok || st.ClassName != className) {
			continue
		}
		row := ReportRow{
			RollNumber:  "N/A",
			StudentName: "N/A",
			ClassName:   "N/A",
			Date:        rec.Date.Format(dateLayout),
			Status:      capitalize(string(rec.Status)),
			Remarks:     rec.Remarks,
		}
		if ok {
			row.RollNumber = st.RollNumber
			row.StudentName = st.Name
			row.ClassName = st.ClassName
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].RollNumber < rows[j].RollNumber
	})
	return rows, nil
}

// parseDay accepts a plain calendar date or a full timestamp and normalizes
// it to midnight UTC.
func parseDay(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, fmt.Errorf("date is required: %w", ErrInvalidArgument)
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		t, err = time.Parse(time.RFC3339, date)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, ErrInvalidArgument)
	}
	return civilDay(t), nil
}

// civilDay truncates a timestamp to its calendar day in UTC.
func civilDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Nanosecond)
}

// monthRange returns the inclusive [first day, last instant] range of a
// 1-indexed month.
func monthRange(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %d: %w", month, ErrInvalidArgument)
	}
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid year %d: %w", year, ErrInvalidArgument)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last, nil
}

func sortStudents(students []models.Student) {
	sort.Slice(students, func(i, j int) bool {
		return students[i].RollNumber < students[j].RollNumber
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
