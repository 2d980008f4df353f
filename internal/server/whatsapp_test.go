package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
	"github.com/muratcankoptayyy/tevkil-platform/internal/service"
)

// MockInbound records inbound messages
type MockInbound struct {
	messages []*domain.InboundMessage
	result   service.InboundResult
}

func (m *MockInbound) HandleInbound(ctx context.Context, msg *domain.InboundMessage) service.InboundResult {
	m.messages = append(m.messages, msg)
	return m.result
}

const textPayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{
          "from": "905551234567",
          "id": "wamid.1",
          "timestamp": "1700000000",
          "type": "text",
          "text": {"body": "#YARDIM"}
        }]
      }
    }]
  }]
}`

const statusPayload = `{
  "entry": [{
    "changes": [{
      "value": {
        "statuses": [{"id": "wamid.1", "status": "delivered"}]
      }
    }]
  }]
}`

func newTestServer(inbound *MockInbound) *WhatsAppServer {
	verifier := data.NewWhatsAppClient(data.WhatsAppConfig{VerifyToken: "verify-me"})
	return NewWhatsAppServer(verifier, inbound, nil, nil, "0")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&MockInbound{})

	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("Expected ok status, got %s", w.Body.String())
	}
}

func TestVerifyWebhook(t *testing.T) {
	srv := newTestServer(&MockInbound{})

	tests := []struct {
		name  string
		query string
		code  int
		body  string
	}{
		{"valid", "hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", http.StatusOK, "12345"},
		{"wrong token", "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=12345", http.StatusForbidden, ""},
		{"wrong mode", "hub.mode=unsubscribe&hub.verify_token=verify-me&hub.challenge=12345", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/whatsapp/webhook?"+tt.query, nil))
			if w.Code != tt.code {
				t.Errorf("Expected status %d, got %d", tt.code, w.Code)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("Expected body %q, got %q", tt.body, w.Body.String())
			}
		})
	}
}

func TestWebhook_TextMessage(t *testing.T) {
	inbound := &MockInbound{result: service.InboundProcessed}
	srv := newTestServer(inbound)

	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(textPayload)))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(inbound.messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(inbound.messages))
	}
	if inbound.messages[0].Text != "#YARDIM" || inbound.messages[0].From != "905551234567" {
		t.Errorf("Unexpected message: %+v", inbound.messages[0])
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "processed" {
		t.Errorf("Expected processed, got %s", resp["status"])
	}
}

func TestWebhook_IgnoredPayloads(t *testing.T) {
	inbound := &MockInbound{result: service.InboundProcessed}
	srv := newTestServer(inbound)

	for _, body := range []string{statusPayload, "not json", "{}"} {
		w := httptest.NewRecorder()
		srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(body)))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 for %q, got %d", body, w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["status"] != "ignored" {
			t.Errorf("Expected ignored for %q, got %s", body, resp["status"])
		}
	}

	if len(inbound.messages) != 0 {
		t.Errorf("Expected no messages handled, got %d", len(inbound.messages))
	}
}

func TestWebhook_DuplicateStillAcknowledged(t *testing.T) {
	inbound := &MockInbound{result: service.InboundDuplicate}
	srv := newTestServer(inbound)

	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(textPayload)))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "duplicate") {
		t.Errorf("Expected duplicate status, got %s", w.Body.String())
	}
}
