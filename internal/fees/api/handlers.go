// Package api exposes the fee quote endpoint used by checkout flows.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventpay/internal/common/api"
	"eventpay/internal/common/money"
	"eventpay/internal/fees"
)

// Handler handles fee quote HTTP requests
type Handler struct {
	service *fees.Service
}

// NewHandler creates a new fees handler
func NewHandler(service *fees.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the fee routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/quote", h.Quote)
	r.Get("/labels", h.Labels)

	return r
}

// QuoteRequest is the API request for a fee quote.
type QuoteRequest struct {
	NetAmount             float64  `json:"net_amount" validate:"gte=0"`
	UserCountry           string   `json:"user_country" validate:"omitempty,len=2"`
	IsDomestic            *bool    `json:"is_domestic"`
	PlatformFeePercentage *float64 `json:"platform_fee_percentage" validate:"omitempty,gte=0"`
	PlatformFeeCap        *float64 `json:"platform_fee_cap" validate:"omitempty,gte=0"`
	Currency              string   `json:"currency" validate:"omitempty,len=3"`
}

// QuoteResponse is the fee quote with its display breakdown.
type QuoteResponse struct {
	fees.Result
	FeeLabel string             `json:"fee_label"`
	Display  []fees.DisplayLine `json:"display"`
}

// Quote handles POST /quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := api.DecodeAndValidate(r, &req); err != nil {
		api.ValidationError(w, err)
		return
	}

	opts := fees.Options{
		IsDomestic:            req.IsDomestic,
		UserCountry:           req.UserCountry,
		PlatformFeePercentage: req.PlatformFeePercentage,
		PlatformFeeCap:        req.PlatformFeeCap,
	}

	result, err := h.service.Quote(r.Context(), req.NetAmount, opts)
	if err != nil {
		api.InternalError(w, "failed to calculate fees")
		return
	}

	currency := money.Currency(req.Currency)
	if currency == "" {
		currency = money.AUD
	}

	api.WriteData(w, http.StatusOK, QuoteResponse{
		Result:   result,
		FeeLabel: fees.FeeLabel(result.IsDomestic),
		Display:  fees.DisplayBreakdown(result, currency),
	})
}

// Labels handles GET /labels. Checkout UIs use it to render the fee line
// label before a quote exists; ?domestic=false selects the international
// label.
func (h *Handler) Labels(w http.ResponseWriter, r *http.Request) {
	domestic := r.URL.Query().Get("domestic") != "false"

	api.WriteData(w, http.StatusOK, map[string]string{
		"fee_label": fees.FeeLabel(domestic),
	})
}
