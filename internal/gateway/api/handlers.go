// Package api exposes gateway configuration endpoints.
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventpay/internal/common/api"
	"eventpay/internal/common/database"
	"eventpay/internal/gateway"
)

// Handler handles gateway configuration HTTP requests
type Handler struct {
	service *gateway.Service
	admin   *gateway.Admin
}

// NewHandler creates a new gateway handler
func NewHandler(service *gateway.Service, admin *gateway.Admin) *Handler {
	return &Handler{service: service, admin: admin}
}

// Routes returns the gateway routes. Configuration writes and cache
// management sit behind the given admin authentication middleware.
func (h *Handler) Routes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/gateway", h.GetActiveGateway)
	r.Get("/cache/status", h.GetCacheStatus)

	r.Group(func(r chi.Router) {
		r.Use(adminAuth)

		r.Get("/configurations", h.ListConfigurations)
		r.Post("/configurations", h.CreateConfiguration)
		r.Post("/configurations/{id}/activate", h.ActivateConfiguration)
		r.Post("/configurations/{id}/deactivate", h.DeactivateConfiguration)
		r.Delete("/cache", h.ClearCache)
	})

	return r
}

// GetActiveGateway handles GET /gateway
func (h *Handler) GetActiveGateway(w http.ResponseWriter, r *http.Request) {
	gw, ok := h.service.ActiveGateway(r.Context())
	if !ok {
		api.WriteData(w, http.StatusOK, map[string]any{"gateway": nil})
		return
	}
	api.WriteData(w, http.StatusOK, map[string]any{"gateway": gw})
}

// GetCacheStatus handles GET /cache/status
func (h *Handler) GetCacheStatus(w http.ResponseWriter, r *http.Request) {
	api.WriteData(w, http.StatusOK, h.service.CacheStatus())
}

// ClearCache handles DELETE /cache
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	api.WriteData(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ListConfigurations handles GET /configurations
func (h *Handler) ListConfigurations(w http.ResponseWriter, r *http.Request) {
	params := api.GetPaginationParams(r, 50, 100)

	configs, total, err := h.admin.ListConfigurations(r.Context(), params.Limit, params.Offset)
	if err != nil {
		api.InternalError(w, "failed to list configurations")
		return
	}

	api.WritePaginated(w, configs, &api.Pagination{
		Limit:   params.Limit,
		Offset:  params.Offset,
		Total:   total,
		HasMore: int64(params.Offset+len(configs)) < total,
	})
}

// CreateConfiguration handles POST /configurations
func (h *Handler) CreateConfiguration(w http.ResponseWriter, r *http.Request) {
	var req gateway.CreateConfigurationRequest
	if err := api.DecodeAndValidate(r, &req); err != nil {
		api.ValidationError(w, err)
		return
	}

	cfg, err := h.admin.CreateConfiguration(r.Context(), req)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			api.Conflict(w, "configuration already exists")
			return
		}
		api.BadRequest(w, err.Error())
		return
	}

	api.WriteData(w, http.StatusCreated, cfg)
}

// ActivateConfiguration handles POST /configurations/{id}/activate
func (h *Handler) ActivateConfiguration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.BadRequest(w, "configuration ID required")
		return
	}

	cfg, err := h.admin.ActivateConfiguration(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			api.NotFound(w, "configuration not found")
			return
		}
		api.InternalError(w, "failed to activate configuration")
		return
	}

	api.WriteData(w, http.StatusOK, cfg)
}

// DeactivateConfiguration handles POST /configurations/{id}/deactivate
func (h *Handler) DeactivateConfiguration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.BadRequest(w, "configuration ID required")
		return
	}

	if err := h.admin.DeactivateConfiguration(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			api.NotFound(w, "configuration not found")
			return
		}
		api.InternalError(w, "failed to deactivate configuration")
		return
	}

	api.WriteData(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
