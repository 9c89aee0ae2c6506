// Package fees computes the gross amount a customer is charged so that an
// event organiser receives an exact net amount after processor and
// platform fees.
//
// The processor's percentage applies to the gross charge, not the net, so
// the gross is solved by inverting the fee formula rather than adding fees
// on top:
//
//	gross = (net + platformFee + fixedFee) / (1 - rate)
package fees

import (
	"eventpay/internal/common/money"
	"eventpay/internal/gateway/domain"
)

// DefaultHomeCountry is the platform's home country. Cards from any other
// country, or from an unknown country, are charged international rates.
const DefaultHomeCountry = "AU"

// Options adjusts a single calculation. All fields are optional.
type Options struct {
	// IsDomestic forces the card rate selection. When nil, UserCountry
	// decides.
	IsDomestic *bool
	// UserCountry is an ISO 3166-1 alpha-2 code. A card is domestic iff
	// it equals the home country; empty or unrecognized defaults to
	// international so customers are never undercharged.
	UserCountry string
	// HomeCountry overrides DefaultHomeCountry.
	HomeCountry string
	// PlatformFeePercentage and PlatformFeeCap override the configured
	// platform fee for callers bypassing the configuration store.
	PlatformFeePercentage *float64
	PlatformFeeCap        *float64
}

// Breakdown echoes the rate parameters a calculation used, for audit.
type Breakdown struct {
	FeeMode               domain.FeeMode `json:"fee_mode"`
	CardRate              domain.Rate    `json:"card_rate"`
	PlatformFeePercentage float64        `json:"platform_fee_percentage"`
	PlatformFeeMinimum    float64        `json:"platform_fee_minimum"`
	PlatformFeeCap        float64        `json:"platform_fee_cap"`
}

// Result is the outcome of a fee calculation. All monetary fields are
// rounded to cents.
type Result struct {
	NetAmount         float64   `json:"net_amount"`
	PlatformFee       float64   `json:"platform_fee"`
	ProcessorFee      float64   `json:"processor_fee"`
	GrossAmount       float64   `json:"gross_amount"`
	DisplayedFeeTotal float64   `json:"displayed_fee_total"`
	IsDomestic        bool      `json:"is_domestic"`
	Breakdown         Breakdown `json:"breakdown"`
}

// Calculate computes the gross charge for a required net amount. It is a
// pure function: no I/O, no validation of the net amount (constraining
// inputs is the caller's responsibility), and deterministic for given
// parameters. Intermediate math keeps full precision; rounding to cents
// happens once, at the return boundary.
func Calculate(netAmount float64, values domain.FeeCalculationValues, opts Options) Result {
	isDomestic := resolveDomestic(opts)

	if values.FeeMode == domain.FeeModeAbsorb {
		return Result{
			NetAmount:   money.RoundCents(netAmount),
			GrossAmount: money.RoundCents(netAmount),
			IsDomestic:  isDomestic,
			Breakdown: Breakdown{
				FeeMode: domain.FeeModeAbsorb,
			},
		}
	}

	rate := values.InternationalRate
	if isDomestic {
		rate = values.DomesticRate
	}

	pfPercentage := values.PlatformFeePercentage
	if opts.PlatformFeePercentage != nil {
		pfPercentage = *opts.PlatformFeePercentage
	}
	pfCap := values.PlatformFeeCap
	if opts.PlatformFeeCap != nil {
		pfCap = *opts.PlatformFeeCap
	}
	pfMinimum := values.PlatformFeeMinimum

	// The minimum applies even at a zero net amount: the clamp is literal.
	platformFee := money.Clamp(netAmount*pfPercentage, pfMinimum, pfCap)

	grossAmount := (netAmount + platformFee + rate.FixedFee) / (1 - rate.Percentage)
	processorFee := grossAmount*rate.Percentage + rate.FixedFee
	displayedFeeTotal := grossAmount - netAmount

	return Result{
		NetAmount:         money.RoundCents(netAmount),
		PlatformFee:       money.RoundCents(platformFee),
		ProcessorFee:      money.RoundCents(processorFee),
		GrossAmount:       money.RoundCents(grossAmount),
		DisplayedFeeTotal: money.RoundCents(displayedFeeTotal),
		IsDomestic:        isDomestic,
		Breakdown: Breakdown{
			FeeMode:               domain.FeeModePassOn,
			CardRate:              rate,
			PlatformFeePercentage: pfPercentage,
			PlatformFeeMinimum:    pfMinimum,
			PlatformFeeCap:        pfCap,
		},
	}
}

// resolveDomestic decides the card rate selection. Explicit IsDomestic
// wins; otherwise the user's country is compared against the home country.
// Unknown origin is treated as international.
func resolveDomestic(opts Options) bool {
	if opts.IsDomestic != nil {
		return *opts.IsDomestic
	}
	if opts.UserCountry == "" {
		return false
	}
	home := opts.HomeCountry
	if home == "" {
		home = DefaultHomeCountry
	}
	return opts.UserCountry == home
}
