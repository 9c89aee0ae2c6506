package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event represents a domain event envelope
type Event struct {
	ID            string          `json:"event_id"`
	Type          string          `json:"type"`
	Version       int             `json:"version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event
func NewEvent(eventType, aggregateType, aggregateID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            ulid.Make().String(),
		Type:          eventType,
		Version:       1,
		OccurredAt:    time.Now().UTC(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Data:          dataBytes,
	}, nil
}

// WithCorrelation adds a correlation ID
func (e *Event) WithCorrelation(correlationID string) *Event {
	e.CorrelationID = correlationID
	return e
}

// DecodeData decodes the event data into a struct
func (e *Event) DecodeData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// EventPublisher publishes events to a message broker
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
}

// Gateway configuration event types. Any of these invalidates the
// in-process configuration cache.
const (
	EventGatewayConfigCreated     = "gateway.config.created"
	EventGatewayConfigUpdated     = "gateway.config.updated"
	EventGatewayConfigActivated   = "gateway.config.activated"
	EventGatewayConfigDeactivated = "gateway.config.deactivated"
	EventGatewayConfigDeleted     = "gateway.config.deleted"
)

// GatewayConfigChangedData is the data for gateway.config.* events
type GatewayConfigChangedData struct {
	ConfigurationID string `json:"configuration_id"`
	Gateway         string `json:"gateway"`
	FeeMode         string `json:"fee_mode"`
	IsActive        bool   `json:"is_active"`
}
