package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpay/internal/common/database"
	"eventpay/internal/gateway/domain"
)

type stubFetcher struct {
	mu      sync.Mutex
	cfg     *domain.GatewayConfiguration
	err     error
	fetches int
}

func (f *stubFetcher) GetActive(ctx context.Context) (*domain.GatewayConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func (f *stubFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type stubReporter struct {
	mu      sync.Mutex
	reports []error
}

func (r *stubReporter) Report(err error, metadata map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, err)
}

func (r *stubReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

type stubFeed struct {
	onChange func(string)
	err      error
}

func (f *stubFeed) Subscribe(onChange func(eventType string)) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.onChange = onChange
	return func() { f.onChange = nil }, nil
}

func testConfig(t *testing.T) *domain.GatewayConfiguration {
	t.Helper()

	cfg, err := domain.NewConfiguration(
		"01HCONFIG",
		domain.GatewaySquare,
		domain.FeeModePassOn,
		domain.CardRate{Percentage: 2.20},
		domain.CardRate{Percentage: 3.50, FixedFee: 0.50},
		domain.PlatformFee{Percentage: 2.00, Minimum: 1.00, Cap: 20.00},
	)
	require.NoError(t, err)
	cfg.IsActive = true
	return cfg
}

func newTestService(cfg Config, fetcher ConfigFetcher, reporter ErrorReporter) *Service {
	return NewService(cfg, fetcher, reporter, slog.Default())
}

func TestActiveConfigurationCaches(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	svc := newTestService(Config{}, fetcher, nil)
	ctx := context.Background()

	first := svc.ActiveConfiguration(ctx)
	require.NotNil(t, first)

	second := svc.ActiveConfiguration(ctx)
	require.NotNil(t, second)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.fetchCount(), "second read must hit the cache")
}

func TestActiveConfigurationAbsentIsNotAnError(t *testing.T) {
	fetcher := &stubFetcher{err: database.ErrNotFound}
	reporter := &stubReporter{}
	svc := newTestService(Config{}, fetcher, reporter)

	cfg := svc.ActiveConfiguration(context.Background())

	assert.Nil(t, cfg)
	assert.Zero(t, reporter.count(), "no active row must not be reported as a failure")
}

func TestActiveConfigurationFailsOpen(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	reporter := &stubReporter{}
	svc := newTestService(Config{}, fetcher, reporter)

	cfg := svc.ActiveConfiguration(context.Background())

	assert.Nil(t, cfg, "fetch failure must look like absent configuration")
	assert.Equal(t, 1, reporter.count(), "fetch failure must reach the error sink")
}

func TestFeeCalculationValues(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	svc := newTestService(Config{}, fetcher, nil)

	values := svc.FeeCalculationValues(context.Background())

	assert.Equal(t, domain.FeeModePassOn, values.FeeMode)
	assert.InDelta(t, 0.022, values.DomesticRate.Percentage, 1e-5)
	assert.Equal(t, 20.00, values.PlatformFeeCap)
}

func TestFeeCalculationValuesFallbackToAbsorb(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
	}{
		{"no active configuration", &stubFetcher{err: database.ErrNotFound}},
		{"fetch failure", &stubFetcher{err: errors.New("timeout")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(Config{}, tc.fetcher, &stubReporter{})

			values := svc.FeeCalculationValues(context.Background())

			assert.Equal(t, domain.AbsorbDefaults(), values)
		})
	}
}

func TestActiveGateway(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	svc := newTestService(Config{}, fetcher, nil)

	gw, ok := svc.ActiveGateway(context.Background())
	require.True(t, ok)
	assert.Equal(t, domain.GatewaySquare, gw)

	empty := newTestService(Config{}, &stubFetcher{err: database.ErrNotFound}, nil)
	_, ok = empty.ActiveGateway(context.Background())
	assert.False(t, ok)
}

func TestClearCacheForcesRequery(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	svc := newTestService(Config{}, fetcher, nil)
	ctx := context.Background()

	svc.ActiveConfiguration(ctx)
	svc.ClearCache()
	svc.ActiveConfiguration(ctx)

	assert.Equal(t, 2, fetcher.fetchCount())
}

func TestCacheTTLExpiry(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	svc := newTestService(Config{CacheTTL: time.Nanosecond}, fetcher, nil)
	ctx := context.Background()

	svc.ActiveConfiguration(ctx)
	time.Sleep(time.Millisecond)
	svc.ActiveConfiguration(ctx)

	assert.Equal(t, 2, fetcher.fetchCount(), "expired entry must be refetched")
}

func TestCacheStatus(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	svc := newTestService(Config{}, fetcher, nil)

	status := svc.CacheStatus()
	assert.False(t, status.IsCached)
	assert.False(t, status.SubscriptionActive)

	svc.ActiveConfiguration(context.Background())

	status = svc.CacheStatus()
	assert.True(t, status.IsCached)
	assert.GreaterOrEqual(t, status.AgeSeconds, 0.0)
}

func TestChangeEventInvalidatesCache(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	svc := newTestService(Config{}, fetcher, nil)
	feed := &stubFeed{}
	ctx := context.Background()

	svc.StartInvalidation(feed)
	t.Cleanup(svc.Close)

	assert.True(t, svc.CacheStatus().SubscriptionActive)

	svc.ActiveConfiguration(ctx)
	require.True(t, svc.CacheStatus().IsCached)

	feed.onChange("gateway.config.activated")

	assert.False(t, svc.CacheStatus().IsCached)

	svc.ActiveConfiguration(ctx)
	assert.Equal(t, 2, fetcher.fetchCount())
}

func TestSubscriptionFailureDegrades(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	reporter := &stubReporter{}
	svc := newTestService(Config{}, fetcher, reporter)

	svc.StartInvalidation(&stubFeed{err: errors.New("broker down")})

	assert.False(t, svc.CacheStatus().SubscriptionActive)
	assert.Equal(t, 1, reporter.count())

	// Fetch-then-cache still works.
	cfg := svc.ActiveConfiguration(context.Background())
	assert.NotNil(t, cfg)
}

func TestConcurrentReadsAndInvalidations(t *testing.T) {
	fetcher := &stubFetcher{cfg: testConfig(t)}
	svc := newTestService(Config{}, fetcher, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cfg := svc.ActiveConfiguration(ctx)
				assert.NotNil(t, cfg)
			}
		}()
	}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				svc.ClearCache()
			}
		}()
	}
	wg.Wait()

	// Concurrent populate and clear must converge on the fetched value.
	assert.Equal(t, testConfig(t).ID, svc.ActiveConfiguration(ctx).ID)
}
