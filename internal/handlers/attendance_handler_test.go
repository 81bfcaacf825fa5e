package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krishna-Sai3112/SII-Project/internal/attendance"
	"github.com/Krishna-Sai3112/SII-Project/internal/database"
	"github.com/Krishna-Sai3112/SII-Project/internal/utils"
)

func setup(t *testing.T) (*mux.Router, *database.MemStore) {
	t.Helper()
	store := database.NewMemStore()
	svc := attendance.NewService(store)
	h := NewAttendanceHandler(svc, utils.NewMailer("localhost", 587, "", ""))

	router := mux.NewRouter()
	router.HandleFunc("/api/attendance/mark", h.MarkAttendance).Methods("POST")
	router.HandleFunc("/api/attendance/by-date", h.GetByDate).Methods("GET")
	router.HandleFunc("/api/attendance/monthly-summary", h.GetMonthlySummary).Methods("GET")
	router.HandleFunc("/api/attendance/report", h.DownloadReport).Methods("GET")
	router.HandleFunc("/api/attendance/report/email", h.EmailReport).Methods("POST")
	return router, store
}

func do(router *mux.Router, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestMarkAttendanceEndpoint(t *testing.T) {
	t.Run("rejects malformed payload", func(t *testing.T) {
		router, _ := setup(t)
		rec := do(router, http.MethodPost, "/api/attendance/mark", []byte("{not json"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires date and records array", func(t *testing.T) {
		router, _ := setup(t)
		rec := do(router, http.MethodPost, "/api/attendance/mark", []byte(`{"date":"2025-03-01"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
	})

	t.Run("rejects an unparseable date", func(t *testing.T) {
		router, _ := setup(t)
		body := []byte(`{"date":"March 1st","attendanceRecords":[]}`)
		rec := do(router, http.MethodPost, "/api/attendance/mark", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("marks a batch and echoes the written records", func(t *testing.T) {
		router, store := setup(t)
		a := store.AddStudent("Asha", "101", "10A")

		body, _ := json.Marshal(map[string]interface{}{
			"date": "2025-03-01",
			"attendanceRecords": []map[string]string{
				{"studentId": a.ID.Hex(), "status": "present"},
			},
		})
		rec := do(router, http.MethodPost, "/api/attendance/mark", body)
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		data, ok := env.Data.([]interface{})
		require.True(t, ok)
		assert.Len(t, data, 1)
		assert.Equal(t, 1, store.RecordCount())
	})

	t.Run("empty batch is a trivial success", func(t *testing.T) {
		router, _ := setup(t)
		body := []byte(`{"date":"2025-03-01","attendanceRecords":[]}`)
		rec := do(router, http.MethodPost, "/api/attendance/mark", body)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
	})

	t.Run("all-invalid batch reports the failure", func(t *testing.T) {
		router, store := setup(t)
		a := store.AddStudent("Asha", "101", "10A")
		body, _ := json.Marshal(map[string]interface{}{
			"date": "2025-03-01",
			"attendanceRecords": []map[string]string{
				{"studentId": a.ID.Hex(), "status": "vacationing"},
			},
		})
		rec := do(router, http.MethodPost, "/api/attendance/mark", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestGetByDateEndpoint(t *testing.T) {
	t.Run("requires a date", func(t *testing.T) {
		router, _ := setup(t)
		rec := do(router, http.MethodGet, "/api/attendance/by-date", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns the joined daily view", func(t *testing.T) {
		router, store := setup(t)
		store.AddStudent("Asha", "101", "10A")
		store.AddStudent("Chen", "201", "10B")

		rec := do(router, http.MethodGet, "/api/attendance/by-date?date=2025-03-01&className=10A", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		data, ok := env.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, data, 1)
		first := data[0].(map[string]interface{})
		assert.Nil(t, first["attendance"])
	})
}

func TestMonthlySummaryEndpoint(t *testing.T) {
	t.Run("requires month and year", func(t *testing.T) {
		router, _ := setup(t)
		rec := do(router, http.MethodGet, "/api/attendance/monthly-summary?month=3", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects non-numeric and out-of-range months", func(t *testing.T) {
		router, _ := setup(t)
		rec := do(router, http.MethodGet, "/api/attendance/monthly-summary?month=abc&year=2025", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(router, http.MethodGet, "/api/attendance/monthly-summary?month=13&year=2025", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns one summary per student", func(t *testing.T) {
		router, store := setup(t)
		store.AddStudent("Asha", "101", "10A")
		store.AddStudent("Bilal", "102", "10A")

		rec := do(router, http.MethodGet, "/api/attendance/monthly-summary?month=3&year=2025", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		data, ok := env.Data.([]interface{})
		require.True(t, ok)
		assert.Len(t, data, 2)
	})
}

func TestDownloadReportEndpoint(t *testing.T) {
	router, store := setup(t)
	a := store.AddStudent("Asha", "101", "10A")

	body, _ := json.Marshal(map[string]interface{}{
		"date": "2025-03-01",
		"attendanceRecords": []map[string]string{
			{"studentId": a.ID.Hex(), "status": "present", "remarks": "on time"},
		},
	})
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/api/attendance/mark", body).Code)

	rec := do(router, http.MethodGet, "/api/attendance/report?month=3&year=2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_3_2025.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Roll Number,Student Name,Class,Date,Status,Remarks", lines[0])
	assert.Equal(t, "101,Asha,10A,2025-03-01,Present,on time", lines[1])
}

func TestEmailReportEndpoint(t *testing.T) {
	t.Run("requires a recipient", func(t *testing.T) {
		router, _ := setup(t)
		rec := do(router, http.MethodPost, "/api/attendance/report/email", []byte(`{"month":3,"year":2025}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		router, _ := setup(t)
		body := []byte(`{"month":0,"year":2025,"to":"admin@school.test"}`)
		rec := do(router, http.MethodPost, "/api/attendance/report/email", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("accepts and queues the send", func(t *testing.T) {
		router, _ := setup(t)
		body := []byte(`{"month":3,"year":2025,"to":"admin@school.test"}`)
		rec := do(router, http.MethodPost, "/api/attendance/report/email", body)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}
