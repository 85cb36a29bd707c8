package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/guard"
	"github.com/popgames/platform/internal/infra"
	"github.com/popgames/platform/internal/policy"
	"github.com/popgames/platform/internal/repository"
)

// ConfigService implements the tier-configuration save: validate, sync
// changed percentages to the discount system, persist all-or-nothing.
type ConfigService struct {
	db            repository.DBTX
	stores        repository.StoreRepository
	discounts     DiscountSyncer
	locks         *guard.KeyedMutex
	events        *infra.EventProducer
	logger        *slog.Logger
	fallbackToken string
}

// NewConfigService creates a ConfigService.
func NewConfigService(
	db repository.DBTX,
	stores repository.StoreRepository,
	discounts DiscountSyncer,
	locks *guard.KeyedMutex,
	events *infra.EventProducer,
	logger *slog.Logger,
	fallbackToken string,
) *ConfigService {
	return &ConfigService{
		db:            db,
		stores:        stores,
		discounts:     discounts,
		locks:         locks,
		events:        events,
		logger:        logger,
		fallbackToken: fallbackToken,
	}
}

// Save validates and persists a merchant's configuration update. The
// returned ConfigResult carries the merchant-facing outcome; a non-nil
// error means the save could not be attempted at all.
//
// The row is written in a single statement only after every changed tier
// has been synced. If any sync call fails the row is left untouched; the
// discount system may already hold the earlier tiers (it exposes no
// rollback), which is logged per tier and repaired by the next
// successful save.
func (s *ConfigService) Save(ctx context.Context, shop string, update domain.ConfigUpdate) (*domain.ConfigResult, error) {
	s.locks.Lock(shop)
	defer s.locks.Unlock(shop)

	store, err := s.stores.FindByShop(ctx, s.db, shop)
	if err != nil {
		return nil, domain.ErrInternal("find store", err)
	}
	if store == nil {
		return nil, domain.ErrNotFound("store", shop)
	}

	plan, rejected := policy.PlanConfigUpdate(*store, update)
	if rejected != nil {
		return rejected, nil
	}

	token := s.token(store)
	for _, change := range plan.Changes {
		ok, err := s.discounts.UpdateDiscountPercentage(ctx, shop, token, change.DiscountID, change.PctOff)
		if err != nil || !ok {
			s.logger.Warn("discount sync failed, aborting save",
				"shop", shop,
				"tier", string(change.Tier),
				"discount_id", change.DiscountID,
				"error", err,
			)
			return &domain.ConfigResult{Success: false, Message: policy.MsgUpdateFailed}, nil
		}
	}

	if err := s.stores.UpdateConfig(ctx, s.db, &plan.Merged); err != nil {
		return nil, domain.ErrInternal("persist config", err)
	}

	s.events.Publish(ctx, domain.Event{
		ID:         uuid.New().String(),
		Type:       domain.EventConfigUpdated,
		Shop:       shop,
		OccurredAt: time.Now().UTC(),
	})

	return &domain.ConfigResult{Success: true, Message: policy.MsgUpdated}, nil
}

func (s *ConfigService) token(store *domain.StoreConfig) string {
	if store.AccessToken != "" {
		return store.AccessToken
	}
	return s.fallbackToken
}
