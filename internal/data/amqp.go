package data

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// DefaultExchange is the topic exchange for marketplace events
const DefaultExchange = "tevkil.events"

// amqpPublisher publishes events to a topic exchange, routed by event type
type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher connects to the broker and declares the exchange
func NewAMQPPublisher(url, exchange string) (repo.EventPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	fmt.Printf("[AMQP] Publishing to exchange %s\n", exchange)
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event *domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	// Channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(p.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ch.Close()
	return p.conn.Close()
}

// logPublisher is used when no broker is configured
type logPublisher struct{}

// NewLogPublisher creates a publisher that only logs events
func NewLogPublisher() repo.EventPublisher {
	return logPublisher{}
}

func (logPublisher) Publish(ctx context.Context, event *domain.Event) error {
	fmt.Printf("[Events] %s %s\n", event.Type, event.ID)
	return nil
}

func (logPublisher) Close() error { return nil }

// EventHandler processes one delivered event. A returned error requeues
// the delivery once.
type EventHandler func(ctx context.Context, event *domain.Event, payload json.RawMessage) error

// EventConsumer binds a durable queue to the exchange and dispatches deliveries
type EventConsumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewEventConsumer declares queue and binds it for each routing key
func NewEventConsumer(url, exchange, queue string, routingKeys ...string) (*EventConsumer, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	fail := func(err error) (*EventConsumer, error) {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := declareExchange(ch, exchange); err != nil {
		return fail(err)
	}

	q, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fail(fmt.Errorf("failed to declare queue: %w", err))
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return fail(fmt.Errorf("failed to bind queue to %s: %w", key, err))
		}
	}

	return &EventConsumer{conn: conn, ch: ch, queue: q.Name}, nil
}

type rawEvent struct {
	ID         string           `json:"id"`
	Type       domain.EventType `json:"type"`
	OccurredAt time.Time        `json:"occurred_at"`
	Payload    json.RawMessage  `json:"payload"`
}

// Run consumes until ctx is cancelled or the channel closes
func (c *EventConsumer) Run(ctx context.Context, handle EventHandler) error {
	msgs, err := c.ch.Consume(
		c.queue,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	fmt.Printf("[AMQP] Consuming from %s\n", c.queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.dispatch(ctx, d, handle)
		}
	}
}

func (c *EventConsumer) dispatch(ctx context.Context, d amqp.Delivery, handle EventHandler) {
	var raw rawEvent
	if err := json.Unmarshal(d.Body, &raw); err != nil {
		fmt.Printf("[AMQP] Invalid event: %v\n", err)
		d.Ack(false)
		return
	}

	event := &domain.Event{ID: raw.ID, Type: raw.Type, OccurredAt: raw.OccurredAt}
	if err := handle(ctx, event, raw.Payload); err != nil {
		fmt.Printf("[AMQP] Failed to handle %s %s: %v\n", raw.Type, raw.ID, err)
		// Requeue once; a redelivered failure is dropped
		if !d.Redelivered {
			d.Nack(false, true)
			return
		}
	}
	d.Ack(false)
}

// Close closes the channel and connection
func (c *EventConsumer) Close() error {
	c.ch.Close()
	return c.conn.Close()
}
