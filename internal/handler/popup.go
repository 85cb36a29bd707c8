package handler

import (
	"net/http"

	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/service"
)

// PopupHandler serves the storefront widget endpoint. Every request
// carries the shop as a query parameter and a JSON body whose shape
// selects exactly one operation; the shape is classified once at the
// boundary into a popupOp, and handlers dispatch on the tag.
type PopupHandler struct {
	stores  *service.StoreService
	consent *service.ConsentService
	stats   *service.StatsService
}

// NewPopupHandler creates a PopupHandler.
func NewPopupHandler(stores *service.StoreService, consent *service.ConsentService, stats *service.StatsService) *PopupHandler {
	return &PopupHandler{stores: stores, consent: consent, stats: stats}
}

type setUserStatsBody struct {
	Game  string `json:"game"`
	Score int    `json:"score"`
}

type popupRequest struct {
	Email              string            `json:"email"`
	GetDiscountOptions bool              `json:"getDiscountOptions"`
	GetGameOptions     bool              `json:"getGameOptions"`
	GetUserStats       bool              `json:"getUserStats"`
	SetUserStats       *setUserStatsBody `json:"setUserStats"`
}

// popupOp tags the operation a request shape selects.
type popupOp int

const (
	opResolveConsent popupOp = iota
	opDiscountOptions
	opGameOptions
	opGetUserStats
	opSetUserStats
)

// classify maps a request body onto exactly one operation. The shapes
// are mutually exclusive; anything else is rejected here so the
// per-operation code never inspects field presence.
func classify(req popupRequest) (popupOp, error) {
	switch {
	case req.GetDiscountOptions:
		return opDiscountOptions, nil
	case req.GetGameOptions:
		return opGameOptions, nil
	case req.Email != "" && req.GetUserStats:
		return opGetUserStats, nil
	case req.Email != "" && req.SetUserStats != nil:
		return opSetUserStats, nil
	case req.Email != "":
		return opResolveConsent, nil
	}
	return 0, domain.ErrValidation("request selects no operation")
}

// Handle handles POST /popup?shop=...
func (h *PopupHandler) Handle(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	if err := domain.ValidateShopDomain(shop); err != nil {
		RespondError(w, domain.ErrValidation(err.Error()))
		return
	}

	var req popupRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("malformed json body"))
		return
	}

	op, err := classify(req)
	if err != nil {
		RespondError(w, err)
		return
	}

	switch op {
	case opResolveConsent:
		h.resolveConsent(w, r, shop, req.Email)
	case opDiscountOptions:
		h.discountOptions(w, r, shop)
	case opGameOptions:
		h.gameOptions(w, r, shop)
	case opGetUserStats:
		h.getUserStats(w, r, req.Email)
	case opSetUserStats:
		h.setUserStats(w, r, shop, req.Email, *req.SetUserStats)
	}
}

func (h *PopupHandler) resolveConsent(w http.ResponseWriter, r *http.Request, shop, email string) {
	result, err := h.consent.Resolve(r.Context(), shop, email)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

func (h *PopupHandler) discountOptions(w http.ResponseWriter, r *http.Request, shop string) {
	store, err := h.stores.GetStore(r.Context(), shop)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"discountOptions": store.DiscountOptions()})
}

func (h *PopupHandler) gameOptions(w http.ResponseWriter, r *http.Request, shop string) {
	store, err := h.stores.GetStore(r.Context(), shop)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"gameOptions": store.GameOptions()})
}

func (h *PopupHandler) getUserStats(w http.ResponseWriter, r *http.Request, email string) {
	stats, err := h.stats.GetStats(r.Context(), email)
	if err != nil {
		RespondError(w, err)
		return
	}
	// A player with no recorded plays yields null, matching the widget's
	// first-visit expectation.
	RespondJSON(w, http.StatusOK, map[string]any{"userStats": stats})
}

func (h *PopupHandler) setUserStats(w http.ResponseWriter, r *http.Request, shop, email string, body setUserStatsBody) {
	game, err := domain.ParseGame(body.Game)
	if err != nil {
		RespondError(w, err)
		return
	}

	updated, err := h.stats.RecordPlay(r.Context(), shop, email, game, body.Score)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"updatedUserStats": updated})
}
