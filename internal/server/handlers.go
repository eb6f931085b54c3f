package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/excel"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/quiz"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/scheduler"
	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

// maxImportBytes caps restored backup uploads
const maxImportBytes = 1 << 20

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Progress handlers

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	// Each observation of the state is a quote refresh opportunity
	s.quotes.RefreshIfStale(r.Context())
	respondJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	s.quotes.RefreshIfStale(r.Context())
	snapshot := s.store.Snapshot()
	respondJSON(w, http.StatusOK, map[string]string{
		"dailyQuote":    snapshot.DailyQuote,
		"lastQuoteDate": snapshot.LastQuoteDate,
	})
}

func (s *Server) handleImportProgress(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	if err := s.store.ImportWhole(payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_backup", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	payload, err := s.store.ExportSnapshot()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "export_failed", "failed to serialize progress")
		return
	}

	filename := fmt.Sprintf("cheenu_jee_protocol_%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	report, err := excel.BuildProgressReport(s.store.Snapshot())
	if err != nil {
		log.Printf("Failed to build progress report: %v", err)
		respondError(w, http.StatusInternalServerError, "export_failed", "failed to render progress report")
		return
	}

	filename := fmt.Sprintf("cheenu_jee_protocol_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}

// Quiz handlers

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, quiz.TopicCatalog())
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject models.Subject `json:"subject"`
		Topic   string         `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !req.Subject.IsValid() {
		respondError(w, http.StatusBadRequest, "validation_error", "subject must be Physics, Chemistry or Mathematics")
		return
	}

	question, err := s.quiz.NextQuestion(r.Context(), req.Subject, req.Topic)
	if errors.Is(err, quiz.ErrNoFreshQuestion) {
		respondError(w, http.StatusBadGateway, "generation_failed", "could not obtain a fresh question, retry")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "generation_failed", "question generation failed")
		return
	}

	respondJSON(w, http.StatusOK, question)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID  string `json:"questionId"`
		OptionIndex int    `json:"optionIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	verdict, err := s.quiz.SubmitAnswer(req.QuestionID, req.OptionIndex)
	if errors.Is(err, quiz.ErrUnknownQuestion) {
		respondError(w, http.StatusNotFound, "unknown_question", "question is not pending an answer")
		return
	}
	if errors.Is(err, quiz.ErrInvalidOption) {
		respondError(w, http.StatusBadRequest, "validation_error", "option index out of range")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "grading_failed", "failed to grade answer")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"verdict":  verdict,
		"progress": s.store.Snapshot(),
	})
}

// Task handlers

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Snapshot().Tasks)
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	task, ok, err := s.store.AddTask(req.Text)
	if err != nil {
		log.Printf("Failed to persist task: %v", err)
	}
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "task text must not be blank")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := s.store.ToggleTask(id)
	if err != nil {
		log.Printf("Failed to persist task toggle: %v", err)
	}
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_task", "no task with that id")
		return
	}

	respondJSON(w, http.StatusOK, s.store.Snapshot().Tasks)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := s.store.DeleteTask(id)
	if err != nil {
		log.Printf("Failed to persist task delete: %v", err)
	}
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_task", "no task with that id")
		return
	}

	respondJSON(w, http.StatusOK, s.store.Snapshot().Tasks)
}

// Notification handlers

func (s *Server) handleSetNotifications(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Enabled {
		if err := s.reminders.Arm(); err != nil {
			if errors.Is(err, scheduler.ErrUnsupported) {
				respondError(w, http.StatusForbidden, "unsupported", err.Error())
				return
			}
			respondError(w, http.StatusForbidden, "permission_denied", err.Error())
			return
		}
	} else {
		if err := s.reminders.Disarm(); err != nil {
			log.Printf("Failed to persist reminder state: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{
		"notificationsEnabled": s.store.Snapshot().NotificationsEnabled,
	})
}

// Chat handlers

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "message must not be blank")
		return
	}

	sessionID, reply, err := s.mentor.Send(r.Context(), req.SessionID, req.Message)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "chat_failed", "failed to process message")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": sessionID,
		"reply":     reply,
	})
}
