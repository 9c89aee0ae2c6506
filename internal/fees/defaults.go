package fees

import "eventpay/internal/gateway/domain"

// DefaultValues are the static rate parameters for contexts without
// database access (build-time tooling, offline estimates). They mirror the
// production Square configuration: 2.2% domestic, 3.5% + $0.50
// international, 2% platform fee floored at $1 and capped at $20.
func DefaultValues() domain.FeeCalculationValues {
	return domain.FeeCalculationValues{
		FeeMode: domain.FeeModePassOn,
		DomesticRate: domain.Rate{
			Percentage: 0.022,
			FixedFee:   0.00,
		},
		InternationalRate: domain.Rate{
			Percentage: 0.035,
			FixedFee:   0.50,
		},
		PlatformFeePercentage: 0.02,
		PlatformFeeMinimum:    1.00,
		PlatformFeeCap:        20.00,
	}
}

// CalculateWithDefaults is the offline variant of Calculate, using
// DefaultValues instead of the configuration store.
func CalculateWithDefaults(netAmount float64, opts Options) Result {
	return Calculate(netAmount, DefaultValues(), opts)
}
