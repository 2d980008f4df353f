package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/muratcankoptayyy/tevkil-platform/internal/api"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
	"github.com/muratcankoptayyy/tevkil-platform/internal/service"
)

// maxWebhookBody bounds an inbound webhook payload
const maxWebhookBody = 1 << 20

// WebhookVerifier answers the Meta subscription handshake
type WebhookVerifier interface {
	VerifyWebhook(mode, token, challenge string) (string, bool)
}

// InboundHandler processes one parsed inbound message
type InboundHandler interface {
	HandleInbound(ctx context.Context, msg *domain.InboundMessage) service.InboundResult
}

// WhatsAppServer serves the WhatsApp webhook, health check and admin API
type WhatsAppServer struct {
	verifier WebhookVerifier
	inbound  InboundHandler
	admin    *api.Server
	port     string
	sweeper  *service.Sweeper

	server *http.Server
}

// NewWhatsAppServer creates a new WhatsApp server. admin and sweeper may be nil.
func NewWhatsAppServer(
	verifier WebhookVerifier,
	inbound InboundHandler,
	admin *api.Server,
	sweeper *service.Sweeper,
	port string,
) *WhatsAppServer {
	return &WhatsAppServer{
		verifier: verifier,
		inbound:  inbound,
		admin:    admin,
		sweeper:  sweeper,
		port:     port,
	}
}

// Routes builds the HTTP router
func (s *WhatsAppServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	// Meta webhook
	r.Get("/api/whatsapp/webhook", s.handleVerify)
	r.Post("/api/whatsapp/webhook", s.handleWebhook)

	if s.admin != nil {
		s.admin.Register(r)
	}
	return r
}

// Start starts the sweeper and blocks serving HTTP
func (s *WhatsAppServer) Start() error {
	if s.sweeper != nil {
		s.sweeper.Start(context.Background())
	}

	s.server = &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("[Server] Listening on :%s\n", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and stops the sweeper
func (s *WhatsAppServer) Stop(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
	return err
}

func (s *WhatsAppServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleVerify answers the subscription handshake with the raw challenge
func (s *WhatsAppServer) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	challenge, ok := s.verifier.VerifyWebhook(q.Get("hub.mode"), q.Get("hub.verify_token"), q.Get("hub.challenge"))
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, challenge)
}

// handleWebhook always answers 200 so Meta does not retry a delivery
// that was already handled or is not a message.
func (s *WhatsAppServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		fmt.Printf("[Server] Failed to read webhook body: %v\n", err)
		writeJSON(w, map[string]string{"status": "ignored"})
		return
	}

	msg, ok := data.ParseWebhook(body)
	if !ok {
		writeJSON(w, map[string]string{"status": "ignored"})
		return
	}

	// The reply goes out even when Meta hangs up early
	ctx := context.WithoutCancel(r.Context())
	result := s.inbound.HandleInbound(ctx, msg)
	writeJSON(w, map[string]string{"status": string(result)})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
