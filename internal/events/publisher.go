package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects published after a change commits
const (
	SubjectTenantCreated    = "property.tenant.created"
	SubjectTenantMoved      = "property.tenant.moved"
	SubjectTenantCheckedOut = "property.tenant.checked_out"
	SubjectTenantDeleted    = "property.tenant.deleted"
	SubjectRequestSubmitted = "property.request.submitted"
	SubjectRequestCompleted = "property.request.completed"
)

// Event is the envelope written to the bus
type Event struct {
	Subject    string      `json:"subject"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Publisher announces committed changes. Implementations must not block
// the caller on delivery failures.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{})
	Close()
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) {}

func (NopPublisher) Close() {}

// NATSPublisher publishes events as JSON on a NATS connection
type NATSPublisher struct {
	conn   *nats.Conn
	logger *logrus.Logger
}

// Connect dials NATS and returns a publisher on that connection
func Connect(url string, logger *logrus.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("property-desk"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(10 * time.Second),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// Publish encodes the event and hands it to the connection. Errors are logged.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) {
	payload, err := Encode(subject, data, time.Now().UTC())
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to encode event")
		return
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
	}
}

// Close drains the connection
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// Encode builds the JSON envelope for an event
func Encode(subject string, data interface{}, at time.Time) ([]byte, error) {
	return json.Marshal(Event{
		Subject:    subject,
		OccurredAt: at,
		Data:       data,
	})
}
