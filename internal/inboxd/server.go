package inboxd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/acastano/inboxtui/internal/models"
)

// IdentityHeader carries the caller's agent name on write requests. The
// edit route refuses callers that do not own the message.
const IdentityHeader = "X-Agent-Identity"

// Server exposes the message store over HTTP.
type Server struct {
	store    *Store
	log      *slog.Logger
	validate *validator.Validate

	maxContent      int
	defaultPageSize int
	maxPageSize     int
}

// NewServer builds the HTTP layer on top of a store.
func NewServer(store *Store, log *slog.Logger, cfg Config) *Server {
	return &Server{
		store:           store,
		log:             log,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		maxContent:      cfg.MaxContentLength,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
}

// Routes registers all API routes on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/messages/", s.handleListAll)
	mux.HandleFunc("GET /api/v1/messages/{agent}", s.handleListAgent)
	mux.HandleFunc("POST /api/v1/messages/", s.handleCreate)
	mux.HandleFunc("PUT /api/v1/messages/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("PUT /api/v1/messages/{id}/edit", s.handleEdit)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// createRequest is the POST /messages/ body.
type createRequest struct {
	FromAgent string `json:"from_agent" validate:"required"`
	To        string `json:"to" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Subject   string `json:"subject"`
	Priority  string `json:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH"`
	Type      string `json:"message_type"`
	ThreadID  string `json:"thread_id"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.validate.Struct(req); err != nil {
		s.error(w, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}
	if s.maxContent > 0 && len(req.Content) > s.maxContent {
		s.error(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("content exceeds maximum length of %d", s.maxContent))
		return
	}
	if req.Priority == "" {
		req.Priority = string(models.PriorityNormal)
	}
	if req.Type == "" {
		req.Type = "MESSAGE"
	}

	now := time.Now().UTC()
	msg := &models.Message{
		ID:        NewMessageID(req.FromAgent, now),
		From:      req.FromAgent,
		To:        req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Timestamp: now.Format(time.RFC3339),
		Status:    models.StatusUnread,
		Priority:  models.Priority(req.Priority),
		Type:      req.Type,
		ThreadID:  req.ThreadID,
	}
	if err := s.store.Create(msg); err != nil {
		s.log.Error("create message failed", "error", err, "to", req.To)
		s.error(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	s.log.Info("message created", "id", msg.ID, "from", msg.From, "to", msg.To)
	s.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"message_id": msg.ID,
		"timestamp":  msg.Timestamp,
	})
}

func (s *Server) handleListAgent(w http.ResponseWriter, r *http.Request) {
	agent := r.PathValue("agent")
	offset, limit, ok := s.paging(w, r)
	if !ok {
		return
	}
	status, ok := s.statusFilter(w, r)
	if !ok {
		return
	}

	page, total, err := s.store.ListFor(agent, status, offset, limit)
	if err != nil {
		s.log.Error("list messages failed", "error", err, "agent", agent)
		s.error(w, http.StatusInternalServerError, "failed to read messages")
		return
	}
	if page == nil {
		page = []models.Message{}
	}
	s.json(w, http.StatusOK, map[string]any{
		"agent":    agent,
		"total":    total,
		"messages": page,
	})
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := s.paging(w, r)
	if !ok {
		return
	}
	status, ok := s.statusFilter(w, r)
	if !ok {
		return
	}

	msgs, err := s.store.ListAll(status, offset, limit)
	if err != nil {
		s.log.Error("list all messages failed", "error", err)
		s.error(w, http.StatusInternalServerError, "failed to read messages")
		return
	}
	s.json(w, http.StatusOK, msgs)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status := models.Status(r.URL.Query().Get("status"))
	if !models.ValidStatus(status) {
		s.error(w, http.StatusBadRequest,
			fmt.Sprintf("invalid status %q, must be one of unread, read, archived, sent", status))
		return
	}

	msg, err := s.store.Update(id, func(m *models.Message) {
		m.Status = status
	})
	if err != nil {
		s.storeError(w, err, id)
		return
	}

	s.log.Info("status updated", "id", id, "status", status)
	s.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"message_id": msg.ID,
		"new_status": msg.Status,
	})
}

// editRequest is the PUT /messages/{id}/edit body.
type editRequest struct {
	Content string `json:"content" validate:"required"`
	Subject string `json:"subject"`
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	identity := r.Header.Get(IdentityHeader)
	if identity == "" {
		s.error(w, http.StatusForbidden, "missing agent identity")
		return
	}

	var req editRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validate.Struct(req); err != nil {
		s.error(w, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}
	if s.maxContent > 0 && len(req.Content) > s.maxContent {
		s.error(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("content exceeds maximum length of %d", s.maxContent))
		return
	}

	// Ownership check before any mutation.
	current, err := s.store.Get(id)
	if err != nil {
		s.storeError(w, err, id)
		return
	}
	if current.From != identity {
		s.log.Warn("edit refused", "id", id, "owner", current.From, "caller", identity)
		s.error(w, http.StatusForbidden, "only the sender can edit a message")
		return
	}

	updated, err := s.store.Update(id, func(m *models.Message) {
		m.Content = req.Content
		if req.Subject != "" {
			m.Subject = strings.TrimSpace(req.Subject)
		}
		m.Edited = true
		m.LastEdited = time.Now().UTC().Format(time.RFC3339)
	})
	if err != nil {
		s.storeError(w, err, id)
		return
	}

	s.log.Info("message edited", "id", id, "by", identity)
	s.json(w, http.StatusOK, updated)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// paging parses offset/limit query parameters, applying defaults and the
// page-size ceiling. It writes the error response itself on bad input.
func (s *Server) paging(w http.ResponseWriter, r *http.Request) (offset, limit int, ok bool) {
	offset, limit = 0, s.defaultPageSize

	q := r.URL.Query()
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.error(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return 0, 0, false
		}
		offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.error(w, http.StatusBadRequest, "limit must be a positive integer")
			return 0, 0, false
		}
		limit = n
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	return offset, limit, true
}

// statusFilter parses the optional status query parameter of the list
// routes. It writes the error response itself on an unknown value.
func (s *Server) statusFilter(w http.ResponseWriter, r *http.Request) (models.Status, bool) {
	v := r.URL.Query().Get("status")
	if v == "" {
		return "", true
	}
	status := models.Status(v)
	if !models.ValidStatus(status) {
		s.error(w, http.StatusBadRequest,
			fmt.Sprintf("invalid status %q, must be one of unread, read, archived, sent", v))
		return "", false
	}
	return status, true
}

func (s *Server) storeError(w http.ResponseWriter, err error, id string) {
	if errors.Is(err, ErrNotFound) {
		s.error(w, http.StatusNotFound, fmt.Sprintf("Message %s not found", id))
		return
	}
	s.log.Error("store operation failed", "error", err, "id", id)
	s.error(w, http.StatusInternalServerError, "storage failure")
}

func (s *Server) json(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encode response failed", "error", err)
	}
}

// error writes the FastAPI-compatible {"detail": "..."} error shape the
// dashboard client parses.
func (s *Server) error(w http.ResponseWriter, code int, detail string) {
	s.json(w, code, map[string]string{"detail": detail})
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return "validation failed: " + strings.Join(fields, ", ")
	}
	return "validation failed"
}
