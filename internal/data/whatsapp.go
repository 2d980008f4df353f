package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

const (
	defaultGraphBaseURL = "https://graph.facebook.com"
	defaultGraphVersion = "v21.0"
)

// WhatsAppConfig configures the Meta WhatsApp Cloud API client
type WhatsAppConfig struct {
	PhoneNumberID string
	AccessToken   string
	APIVersion    string
	VerifyToken   string
	BaseURL       string // Override for tests
}

// WhatsAppClient talks to the WhatsApp Cloud API
type WhatsAppClient struct {
	cfg        WhatsAppConfig
	httpClient *http.Client
}

// NewWhatsAppClient creates a new WhatsApp Cloud API client
func NewWhatsAppClient(cfg WhatsAppConfig) *WhatsAppClient {
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultGraphVersion
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGraphBaseURL
	}
	return &WhatsAppClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWhatsAppRepo creates the outbound message repository
func NewWhatsAppRepo(client *WhatsAppClient) repo.MessageRepo {
	return client
}

func (c *WhatsAppClient) messagesURL() string {
	return fmt.Sprintf("%s/%s/%s/messages", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.APIVersion, c.cfg.PhoneNumberID)
}

func (c *WhatsAppClient) post(ctx context.Context, payload any) error {
	if c.cfg.PhoneNumberID == "" || c.cfg.AccessToken == "" {
		return fmt.Errorf("whatsapp credentials missing")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.messagesURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call whatsapp api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp api status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// SendText sends a text message
func (c *WhatsAppClient) SendText(ctx context.Context, to, text string) error {
	to = strings.NewReplacer("+", "", " ", "").Replace(to)

	err := c.post(ctx, textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{PreviewURL: true, Body: text},
	})
	if err != nil {
		return err
	}
	fmt.Printf("[WhatsApp] Message sent to %s\n", to)
	return nil
}

// MarkRead marks an inbound message as read
func (c *WhatsAppClient) MarkRead(ctx context.Context, messageID string) error {
	return c.post(ctx, map[string]string{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	})
}

// VerifyWebhook answers the subscription handshake
func (c *WhatsAppClient) VerifyWebhook(mode, token, challenge string) (string, bool) {
	if mode == "subscribe" && c.cfg.VerifyToken != "" && token == c.cfg.VerifyToken {
		fmt.Println("[Webhook] Verification succeeded")
		return challenge, true
	}
	fmt.Printf("[Webhook] Verification failed (mode=%q)\n", mode)
	return "", false
}

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      *struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhook extracts the first message of a webhook delivery.
// Status updates and malformed payloads return false.
func ParseWebhook(body []byte) (*domain.InboundMessage, bool) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		fmt.Printf("[Webhook] Failed to parse payload: %v\n", err)
		return nil, false
	}

	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil, false
	}
	messages := payload.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return nil, false
	}

	m := messages[0]
	if m.ID == "" || m.From == "" {
		return nil, false
	}

	msg := &domain.InboundMessage{
		ID:   m.ID,
		From: m.From,
		Type: domain.MessageType(m.Type),
	}
	if sec, err := strconv.ParseInt(m.Timestamp, 10, 64); err == nil {
		msg.Timestamp = time.Unix(sec, 0)
	}
	if msg.Type == domain.MessageTypeText && m.Text != nil {
		msg.Text = m.Text.Body
		msg.HasText = true
	}
	return msg, true
}
