package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WebinarBoT/internal/metrics"
	"github.com/Kerhoff/WebinarBoT/internal/repository"
)

// Server provides the operational HTTP endpoints: health, metrics and a
// read-only view of registration status.
type Server struct {
	users   repository.UserRepository
	metrics *metrics.Metrics
	logger  *logrus.Logger
	mux     *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(users repository.UserRepository, m *metrics.Metrics, logger *logrus.Logger) *Server {
	s := &Server{users: users, metrics: m, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
	s.mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userStatus is the public view of a user record.
type userStatus struct {
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username,omitempty"`
	Name         string    `json:"name"`
	IsSubscribed bool      `json:"is_subscribed"`
	IsRegistered bool      `json:"is_registered"`
	CreatedAt    time.Time `json:"created_at"`
}

// handleGetUser returns the registration status of one user by Telegram ID.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	user, err := s.users.GetByTelegramID(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", id).Error("failed to get user")
		s.respondError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		s.respondError(w, http.StatusNotFound, "user not found")
		return
	}

	s.respondJSON(w, http.StatusOK, userStatus{
		TelegramID:   user.TelegramID,
		Username:     user.Username,
		Name:         user.DisplayName(),
		IsSubscribed: user.IsSubscribed,
		IsRegistered: user.IsRegistered,
		CreatedAt:    user.CreatedAt,
	})
}
