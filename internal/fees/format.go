package fees

import (
	"eventpay/internal/common/money"
)

// Fee labels shown to the customer. International cards get an explicit
// label so the higher rate is disclosed.
const (
	LabelDomesticFees      = "Processing fees"
	LabelInternationalFees = "International processing fees"
)

// FeeLabel returns the display label for the processing fee line.
func FeeLabel(isDomestic bool) string {
	if isDomestic {
		return LabelDomesticFees
	}
	return LabelInternationalFees
}

// DisplayLine is one row of a customer-facing fee breakdown.
type DisplayLine struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// DisplayBreakdown renders a result as order summary lines. Absorb-mode
// results show no fee line since the customer pays exactly the net amount.
func DisplayBreakdown(result Result, currency money.Currency) []DisplayLine {
	lines := []DisplayLine{
		{Label: "Subtotal", Amount: money.Format(result.NetAmount, currency)},
	}

	if result.DisplayedFeeTotal > 0 {
		lines = append(lines, DisplayLine{
			Label:  FeeLabel(result.IsDomestic),
			Amount: money.Format(result.DisplayedFeeTotal, currency),
		})
	}

	lines = append(lines, DisplayLine{
		Label:  "Total",
		Amount: money.Format(result.GrossAmount, currency),
	})

	return lines
}
