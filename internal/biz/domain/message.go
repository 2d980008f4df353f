package domain

import "time"

// MessageType is the WhatsApp message type
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeDocument MessageType = "document"
)

// InboundMessage is one message delivered by the webhook
type InboundMessage struct {
	ID        string
	From      string
	Type      MessageType
	Text      string
	HasText   bool
	Timestamp time.Time
}

// IsText reports whether the message can go to the conversation flow
func (m *InboundMessage) IsText() bool {
	return m.Type == MessageTypeText && m.HasText
}
