package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/Krishna-Sai3112/SII-Project/internal/attendance"
	"github.com/Krishna-Sai3112/SII-Project/internal/models"
	"github.com/Krishna-Sai3112/SII-Project/internal/utils"
)

// AttendanceHandler is the HTTP boundary over the attendance service.
type AttendanceHandler struct {
	svc    *attendance.Service
	mailer *utils.Mailer
}

func NewAttendanceHandler(svc *attendance.Service, mailer *utils.Mailer) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, mailer: mailer}
}

// statusFromErr maps service error kinds to HTTP status codes.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, attendance.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, attendance.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, attendance.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, attendance.ErrStore):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// MarkAttendance applies a batch of status changes for one date.
func (h *AttendanceHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date              string             `json:"date"`
		AttendanceRecords []attendance.Entry `json:"attendanceRecords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Date == "" || req.AttendanceRecords == nil {
		writeError(w, http.StatusBadRequest, "Date and attendance records array are required")
		return
	}

	results, err := h.svc.MarkAttendance(r.Context(), req.Date, req.AttendanceRecords)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Entries are independent; failed ones must not discard the rest.
		log.Printf("mark attendance: %d written, errors: %v", len(results), err)
		if len(results) == 0 {
			writeError(w, statusFromErr(err), err.Error())
			return
		}
	}
	if results == nil {
		results = []models.AttendanceRecord{}
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: results, Message: "Attendance marked successfully"})
}

// GetByDate returns the daily view: every student with that day's record.
func (h *AttendanceHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "Date is required")
		return
	}

	view, err := h.svc.DailyView(r.Context(), date, r.URL.Query().Get("className"))
	if err != nil {
		writeError(w, statusFromErr(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: view})
}

// GetMonthlySummary returns per-student counts and percentages for a month.
func (h *AttendanceHandler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.MonthlySummary(r.Context(), month, year, r.URL.Query().Get("className"))
	if err != nil {
		writeError(w, statusFromErr(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: summary})
}

// DownloadReport streams the month's attendance as a CSV attachment.
func (h *AttendanceHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	rows, err := h.svc.ReportRows(r.Context(), month, year, r.URL.Query().Get("className"))
	if err != nil {
		writeError(w, statusFromErr(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%d_%d.csv", month, year))
	if err := writeCSV(w, rows); err != nil {
		log.Printf("write csv report: %v", err)
	}
}

// EmailReport renders the same CSV and mails it out asynchronously.
func (h *AttendanceHandler) EmailReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month     int    `json:"month"`
		Year      int    `json:"year"`
		ClassName string `json:"className"`
		To        string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "Recipient email is required")
		return
	}

	rows, err := h.svc.ReportRows(r.Context(), req.Month, req.Year, req.ClassName)
	if err != nil {
		writeError(w, statusFromErr(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, rows); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	filename := fmt.Sprintf("attendance_%d_%d.csv", req.Month, req.Year)
	subject := fmt.Sprintf("Attendance report %d/%d", req.Month, req.Year)
	body := fmt.Sprintf("Attached is the attendance report for %d/%d.", req.Month, req.Year)
	go func() {
		if err := h.mailer.SendCSV(req.To, subject, body, filename, buf.Bytes()); err != nil {
			log.Printf("email report to %s: %v", req.To, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, envelope{Success: true, Message: "Report email queued"})
}

func monthYearParams(w http.ResponseWriter, r *http.Request) (month, year int, ok bool) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	if monthStr == "" || yearStr == "" {
		writeError(w, http.StatusBadRequest, "Month and year are required")
		return 0, 0, false
	}
	month, errM := strconv.Atoi(monthStr)
	year, errY := strconv.Atoi(yearStr)
	if errM != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "Month and year must be numbers")
		return 0, 0, false
	}
	return month, year, true
}

var csvHeader = []string{"Roll Number", "Student Name", "Class", "Date", "Status", "Remarks"}

func writeCSV(w io.Writer, rows []attendance.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.RollNumber, row.StudentName, row.ClassName, row.Date, row.Status, row.Remarks}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
