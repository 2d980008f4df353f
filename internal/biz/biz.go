package biz

import (
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/usecase"
)

// Repos are the ports the usecases depend on
type Repos struct {
	Accounts     repo.AccountRepo
	Listings     repo.ListingRepo
	Applications repo.ApplicationRepo
	Proposals    repo.ProposalStore
	AI           repo.ListingAI // Optional
	Messages     repo.MessageRepo
	SMS          repo.SMSRepo        // Optional
	Events       repo.EventPublisher // Optional
}

// Usecases contains all usecases
type Usecases struct {
	Identity     *usecase.IdentityUsecase
	Notification *usecase.NotificationUsecase
	Application  *usecase.ApplicationUsecase
	Conversation *usecase.ConversationUsecase
}

// NewUsecases wires the usecase layer
func NewUsecases(r Repos, cfg domain.BotConfig) *Usecases {
	identity := usecase.NewIdentityUsecase(r.Accounts, cfg.CountryCode)
	notifier := usecase.NewNotificationUsecase(r.Messages, r.SMS, r.Events, usecase.NewReplies(cfg))

	return &Usecases{
		Identity:     identity,
		Notification: notifier,
		Application:  usecase.NewApplicationUsecase(r.Accounts, r.Listings, r.Applications, notifier),
		Conversation: usecase.NewConversationUsecase(
			identity,
			r.Listings,
			r.Applications,
			r.Proposals,
			r.AI,
			notifier,
			cfg,
		),
	}
}
