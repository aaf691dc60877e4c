package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects for lifecycle events
const (
	SubjectFirmCreated       = "firm.created"
	SubjectFirmStatusChanged = "firm.status_changed"
	SubjectLawyerCreated     = "lawyer.created"
	SubjectClientCreated     = "client.created"
	SubjectCaseCreated       = "case.created"
	SubjectCaseStatusChanged = "case.status_changed"
)

// Event is the envelope published for every lifecycle event
type Event struct {
	EventID    string                 `json:"eventId"`
	EventType  string                 `json:"eventType"`
	FirmID     string                 `json:"firmId,omitempty"`
	EntityID   string                 `json:"entityId,omitempty"`
	ActorID    string                 `json:"actorId,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Publisher publishes lifecycle events to NATS. Publishing is best-effort:
// with no broker configured the publisher is a no-op, and failures are logged
// but never propagated to the request path.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS at the given URL. An empty URL or a failed
// connection yields a disabled publisher rather than an error.
func NewPublisher(natsURL string, logger *logrus.Logger) *Publisher {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}
	entry := logger.WithField("component", "events")

	if natsURL == "" {
		entry.Info("NATS_URL not set, lifecycle events disabled")
		return &Publisher{conn: nil, logger: entry}
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("lawpractice-service"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		entry.WithError(err).Warn("Failed to connect to NATS, lifecycle events disabled")
		return &Publisher{conn: nil, logger: entry}
	}

	return &Publisher{conn: conn, logger: entry}
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// IsAvailable returns true if the publisher has a live connection
func (p *Publisher) IsAvailable() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Publish emits an event asynchronously
func (p *Publisher) Publish(subject string, firmID, entityID, actorID string, data map[string]interface{}) {
	if p.conn == nil {
		return
	}

	event := Event{
		EventID:    uuid.New().String(),
		EventType:  subject,
		FirmID:     firmID,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}

	go func() {
		payload, err := json.Marshal(event)
		if err != nil {
			p.logger.WithError(err).Error("Failed to marshal event")
			return
		}

		if err := p.conn.Publish(subject, payload); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"entityId":  event.EntityID,
				"firmId":    event.FirmID,
			}).WithError(err).Error("Failed to publish event")
			return
		}

		p.logger.WithFields(logrus.Fields{
			"eventType": event.EventType,
			"entityId":  event.EntityID,
			"firmId":    event.FirmID,
		}).Info("Event published")
	}()
}
