package gateway

import (
	"log/slog"

	natsio "github.com/nats-io/nats.go"

	"eventpay/internal/common/nats"
)

// ChangeFeed delivers configuration change notifications. Implementations
// wrap whatever transport carries the events (NATS in production, a stub
// in tests); the service only cares that something changed.
type ChangeFeed interface {
	// Subscribe registers a handler called with the event type on every
	// configuration change. It returns an unsubscribe function.
	Subscribe(onChange func(eventType string)) (func(), error)
}

// ConfigSubject matches every gateway configuration event published by the
// admin API (created, updated, activated, deactivated, deleted).
const ConfigSubject = "gateway.config.>"

// NATSChangeFeed is the production change feed: a core NATS subscription
// on the configuration event subjects.
type NATSChangeFeed struct {
	client *nats.Client
	logger *slog.Logger
}

// NewNATSChangeFeed creates a change feed over an established NATS client.
func NewNATSChangeFeed(client *nats.Client, logger *slog.Logger) *NATSChangeFeed {
	return &NATSChangeFeed{client: client, logger: logger}
}

// Subscribe implements ChangeFeed.
func (f *NATSChangeFeed) Subscribe(onChange func(eventType string)) (func(), error) {
	sub, err := f.client.Subscribe(ConfigSubject, func(msg *natsio.Msg) {
		onChange(msg.Subject)
	})
	if err != nil {
		return nil, err
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			f.logger.Error("unsubscribing from config changes", "error", err)
		}
	}, nil
}
