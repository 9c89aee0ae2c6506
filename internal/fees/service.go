package fees

import (
	"context"
	"fmt"
	"log/slog"

	"eventpay/internal/gateway/domain"
)

// ValuesProvider supplies normalized fee parameters, typically the gateway
// configuration service. It never errors: absent or unreachable
// configuration surfaces as absorb-mode defaults.
type ValuesProvider interface {
	FeeCalculationValues(ctx context.Context) domain.FeeCalculationValues
}

// Service is the configuration-backed fee calculator.
type Service struct {
	values ValuesProvider
	logger *slog.Logger
}

// NewService creates a fee service.
func NewService(values ValuesProvider, logger *slog.Logger) *Service {
	return &Service{values: values, logger: logger}
}

// Quote calculates the fee breakdown for a net amount using the active
// gateway configuration. Configuration unavailability is not an error (the
// provider falls back to absorb mode); an error from this method means a
// defect, and callers should fail the checkout step.
func (s *Service) Quote(ctx context.Context, netAmount float64, opts Options) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("calculating fees for amount %.2f: %v", netAmount, r)
		}
	}()

	values := s.values.FeeCalculationValues(ctx)
	result = Calculate(netAmount, values, opts)

	s.logger.Debug("fee quote calculated",
		"net_amount", result.NetAmount,
		"gross_amount", result.GrossAmount,
		"platform_fee", result.PlatformFee,
		"processor_fee", result.ProcessorFee,
		"fee_mode", result.Breakdown.FeeMode,
		"is_domestic", result.IsDomestic,
	)

	return result, nil
}
