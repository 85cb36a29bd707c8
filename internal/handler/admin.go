package handler

import (
	"net/http"
	"strconv"

	"github.com/popgames/platform/internal/auth"
	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/service"
)

// AdminHandler serves the merchant-facing configuration endpoints. The
// shop identity comes from the verified session token, never the request
// body.
type AdminHandler struct {
	stores *service.StoreService
	config *service.ConfigService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(stores *service.StoreService, config *service.ConfigService) *AdminHandler {
	return &AdminHandler{stores: stores, config: config}
}

// GetStore handles GET /admin/store: returns the shop's configuration,
// bootstrapping the row on first visit.
func (h *AdminHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	shop := auth.ShopFromContext(r.Context())
	if shop == "" {
		RespondError(w, domain.ErrUnauthorized("no shop in context"))
		return
	}

	store, err := h.stores.EnsureStore(r.Context(), shop)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"store": store})
}

// SaveConfig handles POST /admin/store/config: the tier-configuration
// save. The body is form-encoded; absent fields leave the stored value
// unchanged.
func (h *AdminHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	shop := auth.ShopFromContext(r.Context())
	if shop == "" {
		RespondError(w, domain.ErrUnauthorized("no shop in context"))
		return
	}

	if err := r.ParseForm(); err != nil {
		RespondError(w, domain.ErrValidation("malformed form body"))
		return
	}

	update, err := parseConfigForm(r.PostForm.Get)
	if err != nil {
		RespondError(w, domain.ErrValidation(err.Error()))
		return
	}

	result, err := h.config.Save(r.Context(), shop, *update)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// LinkBilling handles POST /admin/billing/link.
func (h *AdminHandler) LinkBilling(w http.ResponseWriter, r *http.Request) {
	shop := auth.ShopFromContext(r.Context())
	if shop == "" {
		RespondError(w, domain.ErrUnauthorized("no shop in context"))
		return
	}

	var req struct {
		SubscriptionID string `json:"subscriptionId"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("malformed json body"))
		return
	}

	store, err := h.stores.LinkBilling(r.Context(), shop, req.SubscriptionID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"store": store})
}

// parseConfigForm builds a ConfigUpdate from form field accessors.
// Empty strings mean "not supplied".
func parseConfigForm(get func(string) string) (*domain.ConfigUpdate, error) {
	update := &domain.ConfigUpdate{}

	fractions := []struct {
		name string
		dst  **float64
	}{
		{"lowPctOff", &update.LowPctOff},
		{"midPctOff", &update.MidPctOff},
		{"highPctOff", &update.HighPctOff},
		{"lowProb", &update.LowProb},
		{"midProb", &update.MidProb},
		{"highProb", &update.HighProb},
	}
	for _, f := range fractions {
		raw := get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &parseError{field: f.name}
		}
		if err := domain.ValidateFraction(f.name, v); err != nil {
			return nil, err
		}
		*f.dst = &v
	}

	flags := []struct {
		name string
		dst  **bool
	}{
		{"useWordGame", &update.UseWordGame},
		{"useBirdGame", &update.UseBirdGame},
	}
	for _, f := range flags {
		raw := get(f.name)
		if raw == "" {
			continue
		}
		v := raw == "true"
		*f.dst = &v
	}

	return update, nil
}

type parseError struct {
	field string
}

func (e *parseError) Error() string { return "invalid number for field " + e.field }
