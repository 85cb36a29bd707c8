package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/infra"
	"github.com/popgames/platform/internal/repository"
)

// billingPeriodDays is the app-subscription billing cycle length.
const billingPeriodDays = 30

// StoreService bootstraps store rows on first merchant visit and links
// the app subscription after billing approval.
type StoreService struct {
	db            repository.DBTX
	stores        repository.StoreRepository
	billing       BillingAPI
	events        *infra.EventProducer
	logger        *slog.Logger
	fallbackToken string
}

// NewStoreService creates a StoreService.
func NewStoreService(
	db repository.DBTX,
	stores repository.StoreRepository,
	billing BillingAPI,
	events *infra.EventProducer,
	logger *slog.Logger,
	fallbackToken string,
) *StoreService {
	return &StoreService{
		db:            db,
		stores:        stores,
		billing:       billing,
		events:        events,
		logger:        logger,
		fallbackToken: fallbackToken,
	}
}

// EnsureStore returns the shop's configuration, creating the row with
// tier defaults on the first authenticated visit.
func (s *StoreService) EnsureStore(ctx context.Context, shop string) (*domain.StoreConfig, error) {
	store, err := s.stores.FindByShop(ctx, s.db, shop)
	if err != nil {
		return nil, domain.ErrInternal("find store", err)
	}
	if store != nil {
		return store, nil
	}

	store, err = s.stores.Create(ctx, s.db, shop)
	if err != nil {
		return nil, domain.ErrInternal("create store", err)
	}
	s.logger.Info("store bootstrapped", "shop", shop)
	return store, nil
}

// GetStore returns the shop's configuration without creating it.
func (s *StoreService) GetStore(ctx context.Context, shop string) (*domain.StoreConfig, error) {
	store, err := s.stores.FindByShop(ctx, s.db, shop)
	if err != nil {
		return nil, domain.ErrInternal("find store", err)
	}
	if store == nil {
		return nil, domain.ErrNotFound("store", shop)
	}
	return store, nil
}

// LinkBilling resolves the subscription's line item id and persists the
// billing linkage. Idempotent: a store that is already linked is returned
// unchanged without calling the commerce API.
func (s *StoreService) LinkBilling(ctx context.Context, shop, subscriptionID string) (*domain.StoreConfig, error) {
	if subscriptionID == "" {
		return nil, domain.ErrValidation("subscription id is required")
	}

	store, err := s.GetStore(ctx, shop)
	if err != nil {
		return nil, err
	}
	if store.BillingID != "" {
		return store, nil
	}

	token := store.AccessToken
	if token == "" {
		token = s.fallbackToken
	}

	lineItemID, err := s.billing.SubscriptionLineItemID(ctx, shop, token, subscriptionID)
	if err != nil {
		return nil, domain.ErrUpstream("resolve subscription line item", err)
	}

	nextPeriod := time.Now().UTC().AddDate(0, 0, billingPeriodDays)
	if err := s.stores.UpdateBilling(ctx, s.db, shop, lineItemID, nextPeriod); err != nil {
		return nil, domain.ErrInternal("persist billing linkage", err)
	}

	s.events.Publish(ctx, domain.Event{
		ID:         uuid.New().String(),
		Type:       domain.EventBillingLinked,
		Shop:       shop,
		OccurredAt: time.Now().UTC(),
	})

	store.BillingID = lineItemID
	store.NextPeriod = &nextPeriod
	return store, nil
}
