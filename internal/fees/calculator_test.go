package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpay/internal/gateway/domain"
)

func passOnValues() domain.FeeCalculationValues {
	return domain.FeeCalculationValues{
		FeeMode:               domain.FeeModePassOn,
		DomesticRate:          domain.Rate{Percentage: 0.022, FixedFee: 0.00},
		InternationalRate:     domain.Rate{Percentage: 0.035, FixedFee: 0.50},
		PlatformFeePercentage: 0.02,
		PlatformFeeMinimum:    1.00,
		PlatformFeeCap:        20.00,
	}
}

func boolPtr(b bool) *bool      { return &b }
func f64Ptr(f float64) *float64 { return &f }

func TestCalculateAbsorbMode(t *testing.T) {
	values := domain.FeeCalculationValues{FeeMode: domain.FeeModeAbsorb}

	for _, amount := range []float64{0, 0.01, 25.50, 1150, 99999.99} {
		result := Calculate(amount, values, Options{})

		assert.Equal(t, amount, result.GrossAmount, "gross must equal net in absorb mode")
		assert.Zero(t, result.PlatformFee)
		assert.Zero(t, result.ProcessorFee)
		assert.Zero(t, result.DisplayedFeeTotal)
	}
}

func TestCalculatePassOn(t *testing.T) {
	tests := []struct {
		name             string
		netAmount        float64
		opts             Options
		wantPlatformFee  float64
		wantGross        float64
		wantProcessorFee float64
		wantDisplayed    float64
		wantDomestic     bool
	}{
		{
			name:             "domestic with platform fee capped",
			netAmount:        1150.00,
			opts:             Options{IsDomestic: boolPtr(true)},
			wantPlatformFee:  20.00, // 2% of 1150 = 23, capped at 20
			wantGross:        1196.32,
			wantProcessorFee: 26.32,
			wantDisplayed:    46.32,
			wantDomestic:     true,
		},
		{
			name:             "international with fixed fee",
			netAmount:        100.00,
			opts:             Options{IsDomestic: boolPtr(false)},
			wantPlatformFee:  2.00,
			wantGross:        106.22,
			wantProcessorFee: 4.22,
			wantDisplayed:    6.22,
			wantDomestic:     false,
		},
		{
			name:             "platform fee minimum enforced",
			netAmount:        10.00,
			opts:             Options{IsDomestic: boolPtr(true)},
			wantPlatformFee:  1.00, // 2% of 10 = 0.20, floored at 1.00
			wantGross:        11.25,
			wantProcessorFee: 0.25,
			wantDisplayed:    1.25,
			wantDomestic:     true,
		},
		{
			name:             "minimum applies at zero net amount",
			netAmount:        0,
			opts:             Options{IsDomestic: boolPtr(true)},
			wantPlatformFee:  1.00,
			wantGross:        1.02,
			wantProcessorFee: 0.02,
			wantDisplayed:    1.02,
			wantDomestic:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Calculate(tc.netAmount, passOnValues(), tc.opts)

			assert.Equal(t, tc.wantPlatformFee, result.PlatformFee, "platform fee")
			assert.Equal(t, tc.wantGross, result.GrossAmount, "gross amount")
			assert.Equal(t, tc.wantProcessorFee, result.ProcessorFee, "processor fee")
			assert.Equal(t, tc.wantDisplayed, result.DisplayedFeeTotal, "displayed fee total")
			assert.Equal(t, tc.wantDomestic, result.IsDomestic)
		})
	}
}

func TestNetPreservation(t *testing.T) {
	// After the processor deducts its cut from the gross, exactly
	// netAmount + platformFee must remain (within cent rounding).
	amounts := []float64{0.50, 10, 55.55, 100, 1150, 4999.99, 100000}

	for _, domestic := range []bool{true, false} {
		for _, net := range amounts {
			result := Calculate(net, passOnValues(), Options{IsDomestic: boolPtr(domestic)})

			remainder := result.GrossAmount - result.ProcessorFee
			assert.InDelta(t, net+result.PlatformFee, remainder, 0.011,
				"net preservation failed for net=%v domestic=%v", net, domestic)
		}
	}
}

func TestPlatformFeeBounds(t *testing.T) {
	values := passOnValues()

	for _, net := range []float64{0, 1, 49.99, 50, 500, 1000, 5000, 1e6} {
		result := Calculate(net, values, Options{IsDomestic: boolPtr(true)})

		assert.GreaterOrEqual(t, result.PlatformFee, values.PlatformFeeMinimum)
		assert.LessOrEqual(t, result.PlatformFee, values.PlatformFeeCap)
	}
}

func TestDomesticResolution(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		wantDomestic bool
	}{
		{"home country is domestic", Options{UserCountry: "AU"}, true},
		{"foreign country is international", Options{UserCountry: "US"}, false},
		{"no country defaults to international", Options{}, false},
		{"unrecognized country defaults to international", Options{UserCountry: "ZZ"}, false},
		{"explicit flag wins over country", Options{IsDomestic: boolPtr(true), UserCountry: "US"}, true},
		{"custom home country", Options{UserCountry: "NZ", HomeCountry: "NZ"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Calculate(100, passOnValues(), tc.opts)
			assert.Equal(t, tc.wantDomestic, result.IsDomestic)
		})
	}
}

func TestPlatformFeeOverrides(t *testing.T) {
	opts := Options{
		IsDomestic:            boolPtr(true),
		PlatformFeePercentage: f64Ptr(0.05),
		PlatformFeeCap:        f64Ptr(100.00),
	}

	result := Calculate(1000, passOnValues(), opts)

	// 5% of 1000 = 50, below the overridden cap of 100.
	assert.Equal(t, 50.00, result.PlatformFee)
	assert.Equal(t, 0.05, result.Breakdown.PlatformFeePercentage)
	assert.Equal(t, 100.00, result.Breakdown.PlatformFeeCap)
}

func TestBreakdownEchoesRates(t *testing.T) {
	values := passOnValues()
	result := Calculate(100, values, Options{IsDomestic: boolPtr(false)})

	require.Equal(t, domain.FeeModePassOn, result.Breakdown.FeeMode)
	assert.Equal(t, values.InternationalRate, result.Breakdown.CardRate)
	assert.Equal(t, values.PlatformFeeMinimum, result.Breakdown.PlatformFeeMinimum)
}

func TestCalculateWithDefaults(t *testing.T) {
	result := CalculateWithDefaults(1150, Options{UserCountry: "AU"})

	assert.True(t, result.IsDomestic)
	assert.Equal(t, 20.00, result.PlatformFee)
	assert.Equal(t, 1196.32, result.GrossAmount)
}
