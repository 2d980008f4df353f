package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/usecase"
)

// AdminTokenHeader carries the admin token
const AdminTokenHeader = "X-Admin-Token"

// ChatRunner runs one text message through the conversation
type ChatRunner interface {
	Chat(ctx context.Context, phone, text string) *domain.Reply
}

// Server provides the admin HTTP API
type Server struct {
	chat         ChatRunner
	applications *usecase.ApplicationUsecase
	token        string
}

// NewServer creates a new admin API server. With an empty token every
// admin route answers 403.
func NewServer(chat ChatRunner, applications *usecase.ApplicationUsecase, token string) *Server {
	return &Server{
		chat:         chat,
		applications: applications,
		token:        token,
	}
}

// Register mounts the admin routes on r
func (s *Server) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)

		// Manual test send
		r.Post("/api/whatsapp/test", s.handleTestSend)

		// Applications
		r.Post("/api/applications", s.handleApply)
		r.Post("/api/applications/{id}/status", s.handleDecide)

		// Listings
		r.Get("/api/listings/{id}", s.handleGetListing)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(AdminTokenHeader)
		if s.token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			s.writeStatus(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TestSendRequest is the body of a manual test send
type TestSendRequest struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

func (s *Server) handleTestSend(w http.ResponseWriter, r *http.Request) {
	var req TestSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Phone == "" || req.Text == "" {
		http.Error(w, "phone and text are required", http.StatusBadRequest)
		return
	}

	s.writeJSON(w, s.chat.Chat(r.Context(), req.Phone, req.Text))
}

// ApplyRequest is the body of a new application
type ApplyRequest struct {
	ListingID     int64   `json:"listing_id"`
	ApplicantID   int64   `json:"applicant_id"`
	Message       string  `json:"message"`
	ProposedPrice float64 `json:"proposed_price"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	app, err := s.applications.Apply(r.Context(), &usecase.ApplyRequest{
		ListingID:     req.ListingID,
		ApplicantID:   req.ApplicantID,
		Message:       req.Message,
		ProposedPrice: req.ProposedPrice,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeStatus(w, http.StatusCreated, toApplicationView(app))
}

// DecideRequest is the body of a status change
type DecideRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	app, err := s.applications.Decide(r.Context(), id, domain.ApplicationStatus(req.Status))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, toApplicationView(app))
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	listing, err := s.applications.GetListing(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, toListingView(listing))
}

// ListingView is the JSON form of a listing
type ListingView struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Urgency     string     `json:"urgency_level"`
	Location    string     `json:"location"`
	City        string     `json:"city"`
	Courthouse  string     `json:"courthouse,omitempty"`
	PriceMin    float64    `json:"price_min"`
	PriceMax    float64    `json:"price_max"`
	Status      string     `json:"status"`
	AssignedTo  int64      `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func toListingView(l *domain.Listing) *ListingView {
	v := &ListingView{
		ID:          l.ID,
		UserID:      l.UserID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Urgency:     string(l.Urgency),
		Location:    l.Location,
		City:        l.City,
		Courthouse:  l.Courthouse,
		PriceMin:    l.PriceMin,
		PriceMax:    l.PriceMax,
		Status:      string(l.Status),
		AssignedTo:  l.AssignedTo,
		CreatedAt:   l.CreatedAt,
	}
	if !l.ExpiresAt.IsZero() {
		expires := l.ExpiresAt
		v.ExpiresAt = &expires
	}
	return v
}

// ApplicationView is the JSON form of an application
type ApplicationView struct {
	ID            int64     `json:"id"`
	ListingID     int64     `json:"listing_id"`
	ApplicantID   int64     `json:"applicant_id"`
	Message       string    `json:"message"`
	ProposedPrice float64   `json:"proposed_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func toApplicationView(a *domain.Application) *ApplicationView {
	return &ApplicationView{
		ID:            a.ID,
		ListingID:     a.ListingID,
		ApplicantID:   a.ApplicantID,
		Message:       a.Message,
		ProposedPrice: a.ProposedPrice,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
	}
}

// ============ Helpers ============

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	s.writeStatus(w, http.StatusOK, data)
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeStatus(w, errorStatus(err), map[string]string{"error": err.Error()})
}

// errorStatus maps domain errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrListingClosed),
		errors.Is(err, domain.ErrOwnListing),
		errors.Is(err, domain.ErrAlreadyApplied),
		errors.Is(err, domain.ErrStatusAlreadySet):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
