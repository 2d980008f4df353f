package repo

import (
	"context"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

// MessageRepo is the outbound messaging transport
type MessageRepo interface {
	// SendText sends a text message to a phone number
	SendText(ctx context.Context, to, text string) error

	// MarkRead acknowledges an inbound message
	MarkRead(ctx context.Context, messageID string) error
}

// SMSRepo is the SMS gateway
type SMSRepo interface {
	SendSMS(ctx context.Context, phone, text string) error
}

// EventPublisher publishes marketplace events
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
	Close() error
}
