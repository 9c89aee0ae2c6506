// Package domain contains the payment gateway configuration model.
package domain

import (
	"errors"
	"time"

	"eventpay/internal/common/money"
)

// Gateway identifies the payment processor in use.
type Gateway string

const (
	GatewaySquare Gateway = "square"
	GatewayStripe Gateway = "stripe"
)

// FeeMode determines who carries the processing and platform fees.
type FeeMode string

const (
	// FeeModePassOn charges all fees to the customer on top of the net amount.
	FeeModePassOn FeeMode = "pass_on"
	// FeeModeAbsorb has the organiser absorb all fees; the customer pays
	// exactly the net amount.
	FeeModeAbsorb FeeMode = "absorb"
)

// Valid reports whether the fee mode is a known value.
func (m FeeMode) Valid() bool {
	return m == FeeModePassOn || m == FeeModeAbsorb
}

// CardRate is a processor fee rate as stored: a whole-number percentage
// (2.20 means 2.20%) plus a fixed fee in currency units.
type CardRate struct {
	Percentage float64 `json:"percentage"`
	FixedFee   float64 `json:"fixed_fee"`
}

// PlatformFee is the platform's fee as stored: a whole-number percentage
// bounded by a minimum floor and a cap ceiling, all in currency units.
type PlatformFee struct {
	Percentage float64 `json:"percentage"`
	Minimum    float64 `json:"minimum"`
	Cap        float64 `json:"cap"`
}

// GatewayConfiguration is the single active payment gateway record.
// At most one configuration is active at a time; that invariant is
// enforced by a partial unique index in the backing store.
type GatewayConfiguration struct {
	ID                string      `json:"id"`
	Gateway           Gateway     `json:"gateway"`
	FeeMode           FeeMode     `json:"fee_mode"`
	DomesticRate      CardRate    `json:"domestic_rate"`
	InternationalRate CardRate    `json:"international_rate"`
	PlatformFee       PlatformFee `json:"platform_fee"`
	IsActive          bool        `json:"is_active"`
	EnabledAt         *time.Time  `json:"enabled_at,omitempty"`
	DisabledAt        *time.Time  `json:"disabled_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// NewConfiguration creates a gateway configuration after checking the
// structural invariants the calculator relies on.
func NewConfiguration(id string, gateway Gateway, feeMode FeeMode, domestic, international CardRate, platformFee PlatformFee) (*GatewayConfiguration, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	if gateway != GatewaySquare && gateway != GatewayStripe {
		return nil, errors.New("unknown gateway")
	}
	if !feeMode.Valid() {
		return nil, errors.New("unknown fee mode")
	}
	if domestic.Percentage < 0 || domestic.FixedFee < 0 ||
		international.Percentage < 0 || international.FixedFee < 0 {
		return nil, errors.New("card rates must be non-negative")
	}
	if platformFee.Percentage < 0 || platformFee.Minimum < 0 || platformFee.Cap < 0 {
		return nil, errors.New("platform fee must be non-negative")
	}
	if platformFee.Cap < platformFee.Minimum {
		return nil, errors.New("platform fee cap must be at least the minimum")
	}

	now := time.Now().UTC()
	return &GatewayConfiguration{
		ID:                id,
		Gateway:           gateway,
		FeeMode:           feeMode,
		DomesticRate:      domestic,
		InternationalRate: international,
		PlatformFee:       platformFee,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Rate is a processor fee rate at the calculator boundary: the percentage
// is a decimal fraction (0.022 means 2.20%), never a whole-number percent.
type Rate struct {
	Percentage float64 `json:"percentage"`
	FixedFee   float64 `json:"fixed_fee"`
}

// FeeCalculationValues is the contract between the configuration store and
// the fee calculator. All percentages are decimal fractions rounded to 4
// decimal places and all monetary values are rounded to cents.
type FeeCalculationValues struct {
	FeeMode               FeeMode `json:"fee_mode"`
	DomesticRate          Rate    `json:"domestic_rate"`
	InternationalRate     Rate    `json:"international_rate"`
	PlatformFeePercentage float64 `json:"platform_fee_percentage"`
	PlatformFeeMinimum    float64 `json:"platform_fee_minimum"`
	PlatformFeeCap        float64 `json:"platform_fee_cap"`
}

// CalculationValues converts the stored configuration into calculator form.
func (c *GatewayConfiguration) CalculationValues() FeeCalculationValues {
	return FeeCalculationValues{
		FeeMode: c.FeeMode,
		DomesticRate: Rate{
			Percentage: money.PercentToRate(c.DomesticRate.Percentage),
			FixedFee:   money.RoundCents(c.DomesticRate.FixedFee),
		},
		InternationalRate: Rate{
			Percentage: money.PercentToRate(c.InternationalRate.Percentage),
			FixedFee:   money.RoundCents(c.InternationalRate.FixedFee),
		},
		PlatformFeePercentage: money.PercentToRate(c.PlatformFee.Percentage),
		PlatformFeeMinimum:    money.RoundCents(c.PlatformFee.Minimum),
		PlatformFeeCap:        money.RoundCents(c.PlatformFee.Cap),
	}
}

// AbsorbDefaults is the safe fallback when no configuration is active or
// the backing store cannot be reached: no fees are charged to anyone and
// the customer pays exactly the net amount.
func AbsorbDefaults() FeeCalculationValues {
	return FeeCalculationValues{FeeMode: FeeModeAbsorb}
}
