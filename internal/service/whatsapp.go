package service

import (
	"context"
	"fmt"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/usecase"
)

// InboundResult tells the webhook what happened to a delivery
type InboundResult string

const (
	InboundProcessed InboundResult = "processed"
	InboundDuplicate InboundResult = "duplicate"
	InboundNonText   InboundResult = "non_text"
)

// WhatsAppService runs inbound WhatsApp messages through the conversation
type WhatsAppService struct {
	convUC      *usecase.ConversationUsecase
	messageRepo repo.MessageRepo
	guard       repo.DeliveryGuard
}

// NewWhatsAppService creates a new WhatsApp service
func NewWhatsAppService(
	convUC *usecase.ConversationUsecase,
	messageRepo repo.MessageRepo,
	guard repo.DeliveryGuard,
) *WhatsAppService {
	return &WhatsAppService{
		convUC:      convUC,
		messageRepo: messageRepo,
		guard:       guard,
	}
}

// HandleInbound processes one delivered message. Transport errors are
// logged and never returned; the webhook always acknowledges.
func (s *WhatsAppService) HandleInbound(ctx context.Context, msg *domain.InboundMessage) InboundResult {
	// 1. Drop redeliveries before any side effect
	if !s.guard.ShouldProcess(msg.ID) {
		fmt.Printf("[Webhook] Duplicate delivery %s ignored\n", msg.ID)
		return InboundDuplicate
	}

	// 2. Mark as read
	if err := s.messageRepo.MarkRead(ctx, msg.ID); err != nil {
		fmt.Printf("[Webhook] Failed to mark %s read: %v\n", msg.ID, err)
	}

	// 3. Non-text messages get a notice
	if !msg.IsText() {
		fmt.Printf("[Webhook] %s message from %s\n", msg.Type, msg.From)
		s.send(ctx, msg.From, s.convUC.Replies().NonTextNotice(msg.Type))
		return InboundNonText
	}

	// 4. Conversation
	fmt.Printf("[Webhook] Message from %s: %s\n", msg.From, preview(msg.Text))
	reply := s.convUC.ProcessMessage(ctx, msg.From, msg.Text)

	// 5. Answer
	s.send(ctx, msg.From, reply.Message)
	return InboundProcessed
}

// Chat runs text through the conversation without the transport
func (s *WhatsAppService) Chat(ctx context.Context, phone, text string) *domain.Reply {
	return s.convUC.ProcessMessage(ctx, phone, text)
}

func (s *WhatsAppService) send(ctx context.Context, to, text string) {
	if text == "" {
		return
	}
	if err := s.messageRepo.SendText(ctx, to, text); err != nil {
		fmt.Printf("[Webhook] Failed to reply to %s: %v\n", to, err)
	}
}

func preview(text string) string {
	r := []rune(text)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return text
}
