package fees

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpay/internal/gateway/domain"
)

type stubValues struct {
	values domain.FeeCalculationValues
	panics bool
}

func (s *stubValues) FeeCalculationValues(ctx context.Context) domain.FeeCalculationValues {
	if s.panics {
		panic("values provider exploded")
	}
	return s.values
}

func TestQuote(t *testing.T) {
	svc := NewService(&stubValues{values: passOnValues()}, slog.Default())

	result, err := svc.Quote(context.Background(), 1150, Options{IsDomestic: boolPtr(true)})
	require.NoError(t, err)

	assert.Equal(t, 1196.32, result.GrossAmount)
	assert.Equal(t, 20.00, result.PlatformFee)
	assert.Equal(t, 26.32, result.ProcessorFee)
}

func TestQuoteAbsorbProvider(t *testing.T) {
	provider := &stubValues{values: domain.FeeCalculationValues{FeeMode: domain.FeeModeAbsorb}}
	svc := NewService(provider, slog.Default())

	result, err := svc.Quote(context.Background(), 80, Options{UserCountry: "US"})
	require.NoError(t, err)

	assert.Equal(t, 80.00, result.GrossAmount)
	assert.Zero(t, result.DisplayedFeeTotal)
}

func TestQuoteRecoversFromPanic(t *testing.T) {
	svc := NewService(&stubValues{panics: true}, slog.Default())

	_, err := svc.Quote(context.Background(), 55.50, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calculating fees for amount 55.50")
	assert.Contains(t, err.Error(), "values provider exploded")
}
