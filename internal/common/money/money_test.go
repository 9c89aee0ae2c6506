package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1196.31901, 1196.32},
		{4.2176, 4.22},
		{0.005, 0.01},
		{0.004, 0.00},
		{-1.005, -1.0},
		{0, 0},
	}

	for _, tc := range tests {
		assert.InDelta(t, tc.want, RoundCents(tc.in), 1e-9, "RoundCents(%v)", tc.in)
	}
}

func TestPercentToRate(t *testing.T) {
	tests := []struct {
		percent float64
		want    float64
	}{
		{2.20, 0.022},
		{3.5, 0.035},
		{2.0, 0.02},
		{0, 0},
		{1.75, 0.0175},
	}

	for _, tc := range tests {
		assert.InDelta(t, tc.want, PercentToRate(tc.percent), 1e-5, "PercentToRate(%v)", tc.percent)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0.2, 1, 20), "below floor")
	assert.Equal(t, 20.0, Clamp(23, 1, 20), "above ceiling")
	assert.Equal(t, 5.0, Clamp(5, 1, 20), "within bounds")
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(100))
	assert.False(t, IsFinite(1/zero()))
	assert.False(t, IsFinite(zero()/zero()))
}

func zero() float64 { return 0 }

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1196.32", Format(1196.32, AUD))
	assert.Equal(t, "-$5.00", Format(-5, USD))
	assert.Equal(t, "10.00 EUR", Format(10, Currency("EUR")))
}
