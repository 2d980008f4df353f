package data

import (
	"errors"
	"fmt"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// Options collects what the repositories need to start
type Options struct {
	DatabaseURL  string
	SQLitePath   string
	WhatsApp     WhatsAppConfig
	AI           AIConfig
	SMS          SMSConfig
	AMQPURL      string
	AMQPExchange string
	ProposalTTL  time.Duration
}

// Repositories contains all repositories
type Repositories struct {
	Store        *Store
	Accounts     repo.AccountRepo
	Listings     repo.ListingRepo
	Applications repo.ApplicationRepo
	Proposals    repo.ProposalStore
	Guard        repo.DeliveryGuard
	AI           repo.ListingAI // nil in command-only mode
	WhatsApp     *WhatsAppClient
	Messages     repo.MessageRepo
	SMS          repo.SMSRepo // nil without Netgsm credentials
	Events       repo.EventPublisher
}

// NewRepositories creates all repositories
func NewRepositories(opts Options) (*Repositories, error) {
	store, err := OpenStore(opts.DatabaseURL, opts.SQLitePath)
	if err != nil {
		return nil, err
	}

	ai, err := NewOpenAIRepo(opts.AI)
	if err != nil {
		if !errors.Is(err, domain.ErrAIUnavailable) {
			store.Close()
			return nil, err
		}
		fmt.Println("[Data] AI key not set, natural language listings disabled")
		ai = nil
	}

	// The broker is optional; events are logged when it is unreachable
	var events repo.EventPublisher
	if opts.AMQPURL != "" {
		events, err = NewAMQPPublisher(opts.AMQPURL, opts.AMQPExchange)
		if err != nil {
			fmt.Printf("[Data] Warning: %v, falling back to log-only events\n", err)
		}
	}
	if events == nil {
		events = NewLogPublisher()
	}

	wa := NewWhatsAppClient(opts.WhatsApp)

	return &Repositories{
		Store:        store,
		Accounts:     NewAccountRepo(store),
		Listings:     NewListingRepo(store),
		Applications: NewApplicationRepo(store),
		Proposals:    NewProposalStore(opts.ProposalTTL),
		Guard:        NewDeliveryGuard(DeliveryRetention),
		AI:           ai,
		WhatsApp:     wa,
		Messages:     NewWhatsAppRepo(wa),
		SMS:          NewSMSRepo(opts.SMS),
		Events:       events,
	}, nil
}

// Close releases the database and broker connections
func (r *Repositories) Close() error {
	if r.Events != nil {
		r.Events.Close()
	}
	return r.Store.Close()
}
