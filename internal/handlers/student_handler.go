package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Krishna-Sai3112/SII-Project/internal/models"
)

type StudentHandler struct {
	collection *mongo.Collection
}

func NewStudentHandler(client *mongo.Client, dbName string) *StudentHandler {
	return &StudentHandler{
		collection: client.Database(dbName).Collection("students"),
	}
}

// GetStudents retrieves all students, optionally filtered by class or a
// case-insensitive search over name and roll number.
func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if className := r.URL.Query().Get("className"); className != "" {
		filter["className"] = className
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"rollNumber": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "className", Value: 1}, {Key: "rollNumber", Value: 1}})
	cursor, err := h.collection.Find(ctx, filter, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch students")
		return
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err = cursor.All(ctx, &students); err != nil {
		writeError(w, http.StatusInternalServerError, "Error decoding students")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: students})
}

// GetStudentByID retrieves a single student.
func (h *StudentHandler) GetStudentByID(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var student models.Student
	err = h.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "Student not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to fetch student")
		}
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: student})
}

// CreateStudent adds a new student to the roster.
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var newStudent models.Student
	if err := json.NewDecoder(r.Body).Decode(&newStudent); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Validate required fields
	if newStudent.Name == "" || newStudent.RollNumber == "" || newStudent.ClassName == "" {
		writeError(w, http.StatusBadRequest, "Name, roll number, and class name are required")
		return
	}

	newStudent.ID = primitive.NewObjectID()
	newStudent.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.collection.InsertOne(ctx, newStudent); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			writeError(w, http.StatusConflict, "Roll number already exists")
			return
		}
		log.Printf("create student: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create student")
		return
	}

	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: newStudent, Message: "Student added successfully"})
}

// UpdateStudent updates a student's name, roll number and class.
func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	var updated models.Student
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if updated.Name == "" || updated.RollNumber == "" || updated.ClassName == "" {
		writeError(w, http.StatusBadRequest, "Name, roll number, and class name are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":       updated.Name,
		"rollNumber": updated.RollNumber,
		"className":  updated.ClassName,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var student models.Student
	err = h.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "Student not found")
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			writeError(w, http.StatusConflict, "Roll number already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update student")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: student, Message: "Student updated successfully"})
}

// DeleteStudent removes a student. Attendance records referencing the
// student are left in place; reads treat them as dangling.
func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete student")
		return
	}
	if res.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Student not found")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Student deleted successfully"})
}
