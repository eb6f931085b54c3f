package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/chat"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/progress"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/quiz"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/quote"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/scheduler"
)

// Server represents the HTTP API server
type Server struct {
	router    *chi.Mux
	store     *progress.Store
	quiz      *quiz.Service
	mentor    *chat.Mentor
	quotes    *quote.Refresher
	reminders *scheduler.Scheduler
}

// New creates a new API server over the application services
func New(
	store *progress.Store,
	quizService *quiz.Service,
	mentor *chat.Mentor,
	quotes *quote.Refresher,
	reminders *scheduler.Scheduler,
) *Server {
	s := &Server{
		store:     store,
		quiz:      quizService,
		mentor:    mentor,
		quotes:    quotes,
		reminders: reminders,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/progress", s.handleGetProgress)
		r.Post("/progress/import", s.handleImportProgress)
		r.Get("/progress/export", s.handleExportJSON)
		r.Get("/progress/export.xlsx", s.handleExportWorkbook)

		r.Get("/quote", s.handleGetQuote)

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/topics", s.handleTopics)
			r.Post("/questions", s.handleNextQuestion)
			r.Post("/answers", s.handleSubmitAnswer)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleAddTask)
			r.Post("/{id}/toggle", s.handleToggleTask)
			r.Delete("/{id}", s.handleDeleteTask)
		})

		r.Put("/notifications", s.handleSetNotifications)

		r.Post("/chat", s.handleChat)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			log.Printf("%s %s -> %d (%dms)",
				r.Method, r.URL.Path, ww.Status(), time.Since(start).Milliseconds())
		}()

		next.ServeHTTP(ww, r)
	})
}
