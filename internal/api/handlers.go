package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jalan-exam/scanserver/internal/database"
	"github.com/jalan-exam/scanserver/internal/models"
	"github.com/jalan-exam/scanserver/internal/scanning"
	"github.com/jalan-exam/scanserver/internal/storage"
)

type App struct {
	Storage       storage.Storage
	KeyRepo       *database.AnswerKeyRepository
	ResultRepo    *database.ScanResultRepository
	StudentRepo   *database.StudentRepository
	Scanner       *scanning.Service
	MaxUploadSize int64
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type createAnswerKeyRequest struct {
	ExamCode    string   `json:"exam_code"`
	TeacherName string   `json:"teacher_name"`
	Answers     []string `json:"answers"`
}

func (app *App) CreateAnswerKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req createAnswerKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.ExamCode) == "" {
		writeError(w, http.StatusBadRequest, "exam_code is required")
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "answers must not be empty")
		return
	}
	for i, answer := range req.Answers {
		if strings.TrimSpace(answer) == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("answer for question %d is blank", i+1))
			return
		}
	}

	key := models.NewAnswerKey(strings.TrimSpace(req.ExamCode), strings.TrimSpace(req.TeacherName), req.Answers)
	if err := app.KeyRepo.Insert(r.Context(), key); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save answer key")
		return
	}

	writeJSON(w, http.StatusCreated, key)
}

func (app *App) ListAnswerKeysHandler(w http.ResponseWriter, r *http.Request) {
	keys, err := app.KeyRepo.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list answer keys")
		return
	}
	if keys == nil {
		keys = []*models.AnswerKey{}
	}
	writeJSON(w, http.StatusOK, keys)
}

func (app *App) GetAnswerKeyHandler(w http.ResponseWriter, r *http.Request) {
	key, err := app.KeyRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "answer key not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get answer key")
		return
	}
	writeJSON(w, http.StatusOK, key)
}

func (app *App) ApproveAnswerKeyHandler(w http.ResponseWriter, r *http.Request) {
	app.updateKeyStatus(w, r, models.AnswerKeyApproved)
}

func (app *App) ArchiveAnswerKeyHandler(w http.ResponseWriter, r *http.Request) {
	app.updateKeyStatus(w, r, models.AnswerKeyArchived)
}

func (app *App) updateKeyStatus(w http.ResponseWriter, r *http.Request, status string) {
	id := chi.URLParam(r, "id")
	if err := app.KeyRepo.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "answer key not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update answer key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": status})
}

func (app *App) ListResultsHandler(w http.ResponseWriter, r *http.Request) {
	results, err := app.ResultRepo.ListByAnswerKey(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	if results == nil {
		results = []*models.ScanResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (app *App) UpsertStudentsHandler(w http.ResponseWriter, r *http.Request) {
	var students []models.Student
	if err := json.NewDecoder(r.Body).Decode(&students); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved := 0
	for i := range students {
		student := students[i]
		student.StudentNumber = strings.TrimSpace(student.StudentNumber)
		if student.StudentNumber == "" {
			continue
		}
		if err := app.StudentRepo.Upsert(r.Context(), &student); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save students")
			return
		}
		saved++
	}

	writeJSON(w, http.StatusOK, map[string]int{"saved": saved})
}

func (app *App) ListStudentsHandler(w http.ResponseWriter, r *http.Request) {
	students, err := app.StudentRepo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list students")
		return
	}
	if students == nil {
		students = []*models.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

type reassignStudentRequest struct {
	StudentNumber string `json:"student_number"`
}

func (app *App) ReassignStudentHandler(w http.ResponseWriter, r *http.Request) {
	var req reassignStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.StudentNumber) == "" {
		writeError(w, http.StatusBadRequest, "student_number is required")
		return
	}

	err := app.Scanner.ReassignStudent(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.StudentNumber))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scan result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to reassign student")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
