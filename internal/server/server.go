package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/pkg/core/conversation"
	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// Rate limit for the chat endpoint. Each turn fans out to calendar
// providers and the chat model, so it is kept deliberately low.
const chatRequestsPerMinute = 20

// ChatDriver handles one turn of the booking conversation
type ChatDriver interface {
	HandleTurn(ctx context.Context, wardID string, messages []conversation.Message) *conversation.TurnResult
}

// Store defines the lookups the API server needs
type Store interface {
	GetWard(ctx context.Context, id string) (*db.Ward, error)
	ListActiveInterviewTypes(ctx context.Context, wardID string) ([]db.InterviewType, error)
}

// Server exposes the scheduling API over HTTP
type Server struct {
	driver         ChatDriver
	store          Store
	logger         *zap.Logger
	allowedOrigins []string
}

// New creates a new API server
func New(driver ChatDriver, store Store, logger *zap.Logger, allowedOrigins []string) *Server {
	return &Server{
		driver:         driver,
		store:          store,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// Router builds the HTTP routing table
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/interview-types", s.handleListInterviewTypes)
		r.With(httprate.LimitByIP(chatRequestsPerMinute, time.Minute)).
			Post("/chat", s.handleChat)
	})

	return r
}
