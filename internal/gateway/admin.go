package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"eventpay/internal/common/events"
	"eventpay/internal/gateway/domain"
	"eventpay/internal/gateway/store"
)

// Admin handles gateway configuration writes. Every successful write
// publishes a change event so cached readers across the fleet invalidate.
type Admin struct {
	store     *store.Store
	publisher events.EventPublisher
	logger    *slog.Logger
}

// NewAdmin creates an admin service. The publisher may be nil when the
// message broker is unavailable; writes then rely on TTL expiry or manual
// cache clears for propagation.
func NewAdmin(st *store.Store, publisher events.EventPublisher, logger *slog.Logger) *Admin {
	return &Admin{
		store:     st,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateConfigurationRequest is the request to create a configuration.
type CreateConfigurationRequest struct {
	Gateway           domain.Gateway     `json:"gateway" validate:"required,oneof=square stripe"`
	FeeMode           domain.FeeMode     `json:"fee_mode" validate:"required,oneof=pass_on absorb"`
	DomesticRate      domain.CardRate    `json:"domestic_rate"`
	InternationalRate domain.CardRate    `json:"international_rate"`
	PlatformFee       domain.PlatformFee `json:"platform_fee"`
}

// CreateConfiguration creates a new, inactive configuration.
func (a *Admin) CreateConfiguration(ctx context.Context, req CreateConfigurationRequest) (*domain.GatewayConfiguration, error) {
	id := ulid.Make().String()

	cfg, err := domain.NewConfiguration(id, req.Gateway, req.FeeMode, req.DomesticRate, req.InternationalRate, req.PlatformFee)
	if err != nil {
		return nil, fmt.Errorf("creating configuration: %w", err)
	}

	if err := a.store.Create(ctx, cfg); err != nil {
		return nil, err
	}

	a.logger.Info("gateway configuration created",
		"configuration_id", cfg.ID,
		"gateway", cfg.Gateway,
		"fee_mode", cfg.FeeMode,
	)

	a.publishChange(ctx, events.EventGatewayConfigCreated, cfg)

	return cfg, nil
}

// ActivateConfiguration makes a configuration the single active one.
func (a *Admin) ActivateConfiguration(ctx context.Context, id string) (*domain.GatewayConfiguration, error) {
	cfg, err := a.store.Activate(ctx, id)
	if err != nil {
		return nil, err
	}

	a.logger.Info("gateway configuration activated",
		"configuration_id", cfg.ID,
		"gateway", cfg.Gateway,
	)

	a.publishChange(ctx, events.EventGatewayConfigActivated, cfg)

	return cfg, nil
}

// DeactivateConfiguration disables a configuration, leaving no active one.
func (a *Admin) DeactivateConfiguration(ctx context.Context, id string) error {
	if err := a.store.Deactivate(ctx, id); err != nil {
		return err
	}

	a.logger.Info("gateway configuration deactivated", "configuration_id", id)

	cfg, err := a.store.GetByID(ctx, id)
	if err != nil {
		a.logger.Error("loading deactivated configuration for event", "error", err)
		return nil
	}
	a.publishChange(ctx, events.EventGatewayConfigDeactivated, cfg)

	return nil
}

// ListConfigurations lists configurations newest first.
func (a *Admin) ListConfigurations(ctx context.Context, limit, offset int) ([]*domain.GatewayConfiguration, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return a.store.List(ctx, limit, offset)
}

// publishChange emits a configuration change event. Publish failures are
// logged, not returned: the write already committed and readers still
// converge through TTL or restart.
func (a *Admin) publishChange(ctx context.Context, eventType string, cfg *domain.GatewayConfiguration) {
	if a.publisher == nil {
		return
	}

	event, err := events.NewEvent(eventType, "gateway_configuration", cfg.ID, events.GatewayConfigChangedData{
		ConfigurationID: cfg.ID,
		Gateway:         string(cfg.Gateway),
		FeeMode:         string(cfg.FeeMode),
		IsActive:        cfg.IsActive,
	})
	if err != nil {
		a.logger.Error("building config change event", "error", err)
		return
	}

	if err := a.publisher.Publish(ctx, event); err != nil {
		a.logger.Error("publishing config change event",
			"error", err,
			"event_type", eventType,
			"configuration_id", cfg.ID,
		)
	}
}
