package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	EventTenantCreated   = "rental.tenant.created"
	EventRoomCreated     = "rental.room.created"
	EventLeaseCreated    = "rental.lease.created"
	EventLeaseTerminated = "rental.lease.terminated"
)

// TenantCreatedEvent is published when a new tenant is registered
type TenantCreatedEvent struct {
	EventType string    `json:"event_type"`
	TenantID  uint      `json:"tenant_id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomCreatedEvent is published when a new room is listed
type RoomCreatedEvent struct {
	EventType string    `json:"event_type"`
	RoomID    uint      `json:"room_id"`
	Number    string    `json:"number"`
	Building  string    `json:"building"`
	Timestamp time.Time `json:"timestamp"`
}

// LeaseEvent is published on lease creation and termination
type LeaseEvent struct {
	EventType  string    `json:"event_type"`
	ContractID uint      `json:"contract_id"`
	TenantID   uint      `json:"tenant_id"`
	RoomID     uint      `json:"room_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

var (
	publisher     *Publisher
	publisherOnce sync.Once
	publisherMu   sync.RWMutex
)

// Publisher wraps the NATS JetStream connection for rental lifecycle events
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// InitPublisher initializes the singleton NATS publisher. Publishing is
// best-effort: when NATS_URL is unset the publisher stays nil and every
// Publish call becomes a no-op.
func InitPublisher(logger *logrus.Logger) error {
	var initErr error
	publisherOnce.Do(func() {
		natsURL := os.Getenv("NATS_URL")
		if natsURL == "" {
			logger.Warn("NATS_URL not set, event publishing disabled")
			return
		}

		opts := []nats.Option{
			nats.Name("rental-service"),
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2 * time.Second),
			nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
				logger.WithError(err).Warn("NATS disconnected")
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
			}),
		}

		conn, err := nats.Connect(natsURL, opts...)
		if err != nil {
			initErr = fmt.Errorf("failed to connect to NATS: %w", err)
			return
		}

		js, err := conn.JetStream()
		if err != nil {
			conn.Close()
			initErr = fmt.Errorf("failed to create JetStream context: %w", err)
			return
		}

		// Ensure the rental events stream exists. LimitsPolicy allows
		// multiple downstream consumers.
		_, err = js.AddStream(&nats.StreamConfig{
			Name:        "RENTAL_EVENTS",
			Description: "Stream for rental lifecycle events",
			Subjects:    []string{"rental.>"},
			Storage:     nats.FileStorage,
			Retention:   nats.LimitsPolicy,
			MaxAge:      24 * time.Hour * 7,
			MaxMsgs:     100000,
			Discard:     nats.DiscardOld,
		})
		if err != nil && err != nats.ErrStreamNameAlreadyInUse {
			logger.WithError(err).Warn("Could not create RENTAL_EVENTS stream (may already exist)")
		}

		publisherMu.Lock()
		publisher = &Publisher{
			conn:   conn,
			js:     js,
			logger: logger.WithField("component", "events.publisher"),
		}
		publisherMu.Unlock()

		logger.WithField("url", natsURL).Info("NATS events publisher initialized")
	})
	return initErr
}

// GetPublisher returns the singleton publisher instance (nil when disabled)
func GetPublisher() *Publisher {
	publisherMu.RLock()
	defer publisherMu.RUnlock()
	return publisher
}

// PublishTenantCreated publishes a tenant created event
func (p *Publisher) PublishTenantCreated(ctx context.Context, event *TenantCreatedEvent) error {
	event.EventType = EventTenantCreated
	return p.publish(EventTenantCreated, event)
}

// PublishRoomCreated publishes a room created event
func (p *Publisher) PublishRoomCreated(ctx context.Context, event *RoomCreatedEvent) error {
	event.EventType = EventRoomCreated
	return p.publish(EventRoomCreated, event)
}

// PublishLeaseCreated publishes a lease created event
func (p *Publisher) PublishLeaseCreated(ctx context.Context, event *LeaseEvent) error {
	event.EventType = EventLeaseCreated
	return p.publish(EventLeaseCreated, event)
}

// PublishLeaseTerminated publishes a lease terminated event
func (p *Publisher) PublishLeaseTerminated(ctx context.Context, event *LeaseEvent) error {
	event.EventType = EventLeaseTerminated
	return p.publish(EventLeaseTerminated, event)
}

func (p *Publisher) publish(subject string, event interface{}) error {
	if p == nil || p.js == nil {
		return nil
	}

	// Stamp the timestamp on the concrete event types
	switch e := event.(type) {
	case *TenantCreatedEvent:
		e.Timestamp = time.Now().UTC()
	case *RoomCreatedEvent:
		e.Timestamp = time.Now().UTC()
	case *LeaseEvent:
		e.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := p.js.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"subject": subject,
		"seq":     ack.Sequence,
	}).Debug("Published event")
	return nil
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Close closes the publisher connection
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
