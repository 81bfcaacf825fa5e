package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Krishna-Sai3112/SII-Project/internal/attendance"
	"github.com/Krishna-Sai3112/SII-Project/internal/config"
	"github.com/Krishna-Sai3112/SII-Project/internal/database"
	"github.com/Krishna-Sai3112/SII-Project/internal/handlers"
	"github.com/Krishna-Sai3112/SII-Project/internal/middleware"
	"github.com/Krishna-Sai3112/SII-Project/internal/utils"
)

func SetupRouter(client *mongo.Client, cfg config.Config) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Logging, middleware.Metrics)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server is healthy"))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	studentHandler := handlers.NewStudentHandler(client, cfg.DatabaseName)
	router.HandleFunc("/api/students", studentHandler.GetStudents).Methods("GET")
	router.HandleFunc("/api/students", studentHandler.CreateStudent).Methods("POST")
	router.HandleFunc("/api/students/{id}", studentHandler.GetStudentByID).Methods("GET")
	router.HandleFunc("/api/students/{id}", studentHandler.UpdateStudent).Methods("PUT")
	router.HandleFunc("/api/students/{id}", studentHandler.DeleteStudent).Methods("DELETE")

	store := database.NewAttendanceStore(client, cfg.DatabaseName)
	svc := attendance.NewService(store)
	mailer := utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	attendanceHandler := handlers.NewAttendanceHandler(svc, mailer)
	router.HandleFunc("/api/attendance/mark", attendanceHandler.MarkAttendance).Methods("POST")
	router.HandleFunc("/api/attendance/by-date", attendanceHandler.GetByDate).Methods("GET")
	router.HandleFunc("/api/attendance/monthly-summary", attendanceHandler.GetMonthlySummary).Methods("GET")
	router.HandleFunc("/api/attendance/report", attendanceHandler.DownloadReport).Methods("GET")
	router.HandleFunc("/api/attendance/report/email", attendanceHandler.EmailReport).Methods("POST")

	return router
}
