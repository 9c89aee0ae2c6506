// Package gateway provides cached access to the active payment gateway
// configuration. Reads fail open: a backing-store failure is reported out
// of band and surfaces to callers as "no configuration", never as an
// error, so fee lookup can never block a checkout.
package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventpay/internal/common/database"
	"eventpay/internal/gateway/domain"
)

// ErrorReporter receives out-of-band failures from fail-open reads.
type ErrorReporter interface {
	Report(err error, metadata map[string]any)
}

// LogReporter reports errors through slog. It is the default sink when no
// external error tracker is wired in.
type LogReporter struct {
	Logger *slog.Logger
}

// Report implements ErrorReporter.
func (r *LogReporter) Report(err error, metadata map[string]any) {
	attrs := make([]any, 0, 2+2*len(metadata))
	attrs = append(attrs, "error", err)
	for k, v := range metadata {
		attrs = append(attrs, k, v)
	}
	r.Logger.Error("gateway configuration error", attrs...)
}

// ConfigFetcher retrieves the active configuration from the backing store.
type ConfigFetcher interface {
	GetActive(ctx context.Context) (*domain.GatewayConfiguration, error)
}

// Config holds configuration store settings.
type Config struct {
	// CacheTTL expires cached entries for environments without a change
	// feed. Zero disables expiry (the production path: the cache lives
	// until a change event or process restart).
	CacheTTL time.Duration `envconfig:"GATEWAY_CACHE_TTL" default:"0"`
}

// Service caches the active gateway configuration in memory and
// invalidates it when the change feed reports a write to the backing
// table. One Service instance owns at most one feed subscription.
type Service struct {
	fetcher  ConfigFetcher
	reporter ErrorReporter
	logger   *slog.Logger
	ttl      time.Duration

	mu          sync.RWMutex
	cached      *domain.GatewayConfiguration
	cachedAt    time.Time
	subActive   bool
	unsubscribe func()
}

// NewService creates a configuration service.
func NewService(cfg Config, fetcher ConfigFetcher, reporter ErrorReporter, logger *slog.Logger) *Service {
	if reporter == nil {
		reporter = &LogReporter{Logger: logger}
	}
	return &Service{
		fetcher:  fetcher,
		reporter: reporter,
		logger:   logger,
		ttl:      cfg.CacheTTL,
	}
}

// ActiveConfiguration returns the active gateway configuration, or nil when
// none is active or the backing store cannot be reached. Fetch failures are
// reported to the error sink and treated identically to "no configuration".
func (s *Service) ActiveConfiguration(ctx context.Context) *domain.GatewayConfiguration {
	s.mu.RLock()
	if s.cached != nil && (s.ttl == 0 || time.Since(s.cachedAt) < s.ttl) {
		cfg := s.cached
		s.mu.RUnlock()
		return cfg
	}
	s.mu.RUnlock()

	cfg, err := s.fetcher.GetActive(ctx)
	if err != nil {
		if database.IsNotFound(err) {
			// Normal "no configuration yet" state, not an error.
			return nil
		}
		s.reporter.Report(err, map[string]any{
			"operation": "get_active_configuration",
		})
		return nil
	}

	// Assign atomically from the fully-resolved fetch. A ClearCache racing
	// this fetch may be repopulated with a stale read; the next change
	// event reconciles.
	s.mu.Lock()
	s.cached = cfg
	s.cachedAt = time.Now()
	s.mu.Unlock()

	return cfg
}

// FeeCalculationValues returns normalized fee parameters for the
// calculator. Absent configuration yields absorb-mode zeros, the safe
// default where the customer pays exactly the net amount.
func (s *Service) FeeCalculationValues(ctx context.Context) domain.FeeCalculationValues {
	cfg := s.ActiveConfiguration(ctx)
	if cfg == nil {
		return domain.AbsorbDefaults()
	}
	return cfg.CalculationValues()
}

// ActiveGateway returns the identity of the active payment gateway.
func (s *Service) ActiveGateway(ctx context.Context) (domain.Gateway, bool) {
	cfg := s.ActiveConfiguration(ctx)
	if cfg == nil {
		return "", false
	}
	return cfg.Gateway, true
}

// ClearCache drops the cached configuration unconditionally. The next read
// re-queries the backing store.
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.cached = nil
	s.cachedAt = time.Time{}
	s.mu.Unlock()

	s.logger.Debug("gateway configuration cache cleared")
}

// CacheStatus describes the cache for monitoring and tests.
type CacheStatus struct {
	IsCached           bool    `json:"is_cached"`
	AgeSeconds         float64 `json:"age_seconds"`
	SubscriptionActive bool    `json:"subscription_active"`
}

// CacheStatus returns cache introspection data without side effects.
func (s *Service) CacheStatus() CacheStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := CacheStatus{
		IsCached:           s.cached != nil,
		SubscriptionActive: s.subActive,
	}
	if s.cached != nil {
		status.AgeSeconds = time.Since(s.cachedAt).Seconds()
	}
	return status
}

// StartInvalidation subscribes to the change feed and clears the cache on
// every configuration change event. The event payload is deliberately
// ignored: coarse invalidation avoids races with partial writes. A failed
// subscription leaves the service in fetch-then-cache mode.
func (s *Service) StartInvalidation(feed ChangeFeed) {
	unsubscribe, err := feed.Subscribe(func(eventType string) {
		s.logger.Info("gateway configuration changed, invalidating cache",
			"event_type", eventType,
		)
		s.ClearCache()
	})
	if err != nil {
		s.reporter.Report(err, map[string]any{
			"operation": "subscribe_config_changes",
		})
		s.logger.Warn("change subscription unavailable, cache will not auto-invalidate",
			"error", err,
		)
		return
	}

	s.mu.Lock()
	s.subActive = true
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

// Close tears down the change subscription if one is active.
func (s *Service) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.subActive = false
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
