package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/infra"
	"github.com/popgames/platform/internal/provider"
	"github.com/popgames/platform/internal/repository"
)

// ConsentService ensures a customer exists in the commerce system with
// marketing consent SUBSCRIBED.
type ConsentService struct {
	db            repository.DBTX
	stores        repository.StoreRepository
	customers     CustomerAPI
	events        *infra.EventProducer
	logger        *slog.Logger
	fallbackToken string
}

// NewConsentService creates a ConsentService.
func NewConsentService(
	db repository.DBTX,
	stores repository.StoreRepository,
	customers CustomerAPI,
	events *infra.EventProducer,
	logger *slog.Logger,
	fallbackToken string,
) *ConsentService {
	return &ConsentService{
		db:            db,
		stores:        stores,
		customers:     customers,
		events:        events,
		logger:        logger,
		fallbackToken: fallbackToken,
	}
}

// ConsentResult is the storefront response for a consent resolution.
type ConsentResult struct {
	Email            string `json:"email"`
	CustomerResponse string `json:"customerResponse,omitempty"`
	ValidEmailGiven  bool   `json:"validEmailGiven"`
}

// Resolve looks up the customer by email (first match wins) and ensures
// consent is SUBSCRIBED. ValidEmailGiven reports whether a new opt-in
// action was taken: a consent update or a customer creation.
func (s *ConsentService) Resolve(ctx context.Context, shop, email string) (*ConsentResult, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	store, err := s.stores.FindByShop(ctx, s.db, shop)
	if err != nil {
		return nil, domain.ErrInternal("find store", err)
	}
	if store == nil {
		return nil, domain.ErrNotFound("store", shop)
	}
	token := store.AccessToken
	if token == "" {
		token = s.fallbackToken
	}

	existing, err := s.customers.FindCustomerByEmail(ctx, shop, token, email)
	if err != nil {
		return nil, domain.ErrUpstream("customer lookup failed", err)
	}

	result := &ConsentResult{Email: email}

	switch {
	case existing == nil:
		created, err := s.customers.CreateCustomer(ctx, shop, token, email)
		if err != nil {
			return nil, domain.ErrUpstream("customer create failed", err)
		}
		result.CustomerResponse = string(created)
		result.ValidEmailGiven = true

	case existing.MarketingState == provider.StateNotSubscribed || existing.MarketingState == provider.StateUnsubscribed:
		updated, err := s.customers.UpdateMarketingConsent(ctx, shop, token, existing.ID)
		if err != nil {
			return nil, domain.ErrUpstream("consent update failed", err)
		}
		result.CustomerResponse = string(updated)
		result.ValidEmailGiven = true

	default:
		// Already subscribed: no external call.
	}

	if result.ValidEmailGiven {
		s.events.Publish(ctx, domain.Event{
			ID:         uuid.New().String(),
			Type:       domain.EventConsentOptIn,
			Shop:       shop,
			Email:      email,
			OccurredAt: time.Now().UTC(),
		})
	}

	return result, nil
}
