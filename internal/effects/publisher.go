package effects

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EffectQueueName is the broker queue presentation collaborators consume.
const EffectQueueName = "leoplay.effects"

// Event is the envelope published for one batch of effect commands.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Session   string    `json:"session,omitempty"`
	Commands  []Command `json:"commands"`
	EmittedAt time.Time `json:"emitted_at"`
}

// Connection manages the RabbitMQ connection with automatic reconnection.
type Connection struct {
	url        string
	conn       *amqp.Connection
	channel    *amqp.Channel
	mu         sync.RWMutex
	closed     bool
	reconnects int
}

// NewConnection dials the broker and declares the effects queue.
func NewConnection(url string) (*Connection, error) {
	c := &Connection{url: url}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Connection) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	c.conn, err = amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	// Effects are transient presentation hints; a short TTL keeps stale
	// celebrations from replaying after a consumer restart.
	_, err = c.channel.QueueDeclare(
		EffectQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-message-ttl": int32(30000),
		},
	)
	if err != nil {
		c.channel.Close()
		c.conn.Close()
		return fmt.Errorf("declare effects queue: %w", err)
	}

	go c.handleReconnect()

	slog.Info("connected to effect broker", "queue", EffectQueueName)
	return nil
}

func (c *Connection) handleReconnect() {
	notifyClose := c.conn.NotifyClose(make(chan *amqp.Error, 1))

	err := <-notifyClose
	if err == nil {
		return // normal close
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	slog.Warn("effect broker connection lost, reconnecting", "error", err)

	for i := 0; i < 10; i++ {
		c.mu.Lock()
		c.reconnects++
		c.mu.Unlock()

		backoff := time.Duration(1<<i) * time.Second
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
		time.Sleep(backoff)

		if err := c.connect(); err != nil {
			slog.Error("effect broker reconnection failed", "error", err, "attempt", i+1)
			continue
		}
		slog.Info("reconnected to effect broker", "attempts", i+1)
		return
	}
	slog.Error("giving up on effect broker after 10 reconnection attempts")
}

// IsConnected reports whether the underlying connection is open.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close shuts the connection down.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Connection) publishJSON(ctx context.Context, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	c.mu.RLock()
	ch := c.channel
	c.mu.RUnlock()

	return ch.PublishWithContext(
		ctx,
		"",              // exchange
		EffectQueueName, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Transient,
			Body:         body,
		},
	)
}

// Publisher dispatches effect commands by publishing them to the broker for
// out-of-process presentation collaborators.
type Publisher struct {
	conn    *Connection
	session string
	logger  *slog.Logger
}

// NewPublisher creates a broker-backed dispatcher. session tags every event
// so consumers can filter per play session; empty is fine for CLI use.
func NewPublisher(conn *Connection, session string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conn: conn, session: session, logger: logger}
}

func (p *Publisher) Dispatch(ctx context.Context, commands ...Command) error {
	if len(commands) == 0 {
		return nil
	}

	event := Event{
		ID:        uuid.New(),
		Session:   p.session,
		Commands:  commands,
		EmittedAt: time.Now().UTC(),
	}
	if err := p.conn.publishJSON(ctx, event); err != nil {
		return fmt.Errorf("publish effects: %w", err)
	}

	p.logger.Debug("effects published",
		"event", event.ID,
		"session", p.session,
		"commands", len(commands),
	)
	return nil
}

// Consume delivers published effect events until ctx is cancelled. Used by
// tests and by headless presentation collaborators.
func (c *Connection) Consume(ctx context.Context, handler func(Event)) error {
	c.mu.RLock()
	ch := c.channel
	c.mu.RUnlock()

	deliveries, err := ch.Consume(
		EffectQueueName,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume effects queue: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				slog.Warn("dropping malformed effect event", "error", err)
				continue
			}
			handler(event)
		}
	}
}
