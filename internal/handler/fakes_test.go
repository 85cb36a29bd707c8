package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/guard"
	"github.com/popgames/platform/internal/infra"
	"github.com/popgames/platform/internal/provider"
	"github.com/popgames/platform/internal/repository"
	"github.com/popgames/platform/internal/service"
)

const testShop = "test-shop.myshopify.com"

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func noopEvents() *infra.EventProducer {
	return infra.NewEventProducer("", false, testLogger())
}

// memStoreRepo is an in-memory StoreRepository for handler tests.
type memStoreRepo struct {
	rows map[string]*domain.StoreConfig
}

func newMemStoreRepo(stores ...*domain.StoreConfig) *memStoreRepo {
	r := &memStoreRepo{rows: make(map[string]*domain.StoreConfig)}
	for _, s := range stores {
		cp := *s
		r.rows[s.Shop] = &cp
	}
	return r
}

func (r *memStoreRepo) FindByShop(_ context.Context, _ repository.DBTX, shop string) (*domain.StoreConfig, error) {
	row, ok := r.rows[shop]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memStoreRepo) Create(_ context.Context, _ repository.DBTX, shop string) (*domain.StoreConfig, error) {
	if row, ok := r.rows[shop]; ok {
		cp := *row
		return &cp, nil
	}
	row := &domain.StoreConfig{
		Shop:      shop,
		LowPctOff: 0.10, MidPctOff: 0.15, HighPctOff: 0.25,
		LowProb: 0.5, MidProb: 0.3, HighProb: 0.2,
		UseWordGame: true, UseBirdGame: true,
		CurrencyCode: "USD",
	}
	r.rows[shop] = row
	cp := *row
	return &cp, nil
}

func (r *memStoreRepo) UpdateConfig(_ context.Context, _ repository.DBTX, cfg *domain.StoreConfig) error {
	row, ok := r.rows[cfg.Shop]
	if !ok {
		return fmt.Errorf("shop %s not found", cfg.Shop)
	}
	row.LowPctOff, row.MidPctOff, row.HighPctOff = cfg.LowPctOff, cfg.MidPctOff, cfg.HighPctOff
	row.LowProb, row.MidProb, row.HighProb = cfg.LowProb, cfg.MidProb, cfg.HighProb
	row.UseWordGame, row.UseBirdGame = cfg.UseWordGame, cfg.UseBirdGame
	return nil
}

func (r *memStoreRepo) UpdateBilling(_ context.Context, _ repository.DBTX, shop, billingID string, nextPeriod time.Time) error {
	row, ok := r.rows[shop]
	if !ok {
		return fmt.Errorf("shop %s not found", shop)
	}
	row.BillingID = billingID
	row.NextPeriod = &nextPeriod
	return nil
}

// memStatsRepo is an in-memory StatsRepository for handler tests.
type memStatsRepo struct {
	rows map[string]*domain.PlayerStats
}

func newMemStatsRepo() *memStatsRepo {
	return &memStatsRepo{rows: make(map[string]*domain.PlayerStats)}
}

func (r *memStatsRepo) FindByEmail(_ context.Context, _ repository.DBTX, email string) (*domain.PlayerStats, error) {
	row, ok := r.rows[email]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memStatsRepo) SavePlay(_ context.Context, _ repository.DBTX, email string, game domain.Game, stats domain.GameStats) error {
	row, ok := r.rows[email]
	if !ok {
		row = &domain.PlayerStats{Email: email}
		r.rows[email] = row
	}
	if game == domain.GameBird {
		row.BirdGamesPlayed, row.BirdGamesTotal, row.BirdGameBest = stats.Played, stats.Total, stats.Best
	} else {
		row.WordGamesPlayed, row.WordGamesTotal, row.WordGameBest = stats.Played, stats.Total, stats.Best
	}
	return nil
}

// stubSyncer accepts every discount update.
type stubSyncer struct {
	calls []string
}

func (s *stubSyncer) UpdateDiscountPercentage(_ context.Context, _, _, discountID string, _ float64) (bool, error) {
	s.calls = append(s.calls, discountID)
	return true, nil
}

// stubCustomerAPI treats every email as a brand-new customer.
type stubCustomerAPI struct{}

func (stubCustomerAPI) FindCustomerByEmail(_ context.Context, _, _, _ string) (*provider.Customer, error) {
	return nil, nil
}

func (stubCustomerAPI) UpdateMarketingConsent(_ context.Context, _, _, customerID string) (json.RawMessage, error) {
	return json.RawMessage(`{"customerEmailMarketingConsentUpdate":{}}`), nil
}

func (stubCustomerAPI) CreateCustomer(_ context.Context, _, _, email string) (json.RawMessage, error) {
	return json.RawMessage(`{"customerCreate":{"customer":{"email":"` + email + `"}}}`), nil
}

type stubBillingAPI struct {
	lineItemID string
}

func (s stubBillingAPI) SubscriptionLineItemID(_ context.Context, _, _, _ string) (string, error) {
	return s.lineItemID, nil
}

// testDeps wires the handlers onto in-memory collaborators.
type testDeps struct {
	stores *memStoreRepo
	stats  *memStatsRepo
	syncer *stubSyncer
	popup  *PopupHandler
	admin  *AdminHandler
}

func newTestDeps(stores ...*domain.StoreConfig) *testDeps {
	storeRepo := newMemStoreRepo(stores...)
	statsRepo := newMemStatsRepo()
	syncer := &stubSyncer{}
	locks := guard.NewKeyedMutex()
	events := noopEvents()
	logger := testLogger()

	storeSvc := service.NewStoreService(nil, storeRepo, stubBillingAPI{lineItemID: "gid://shopify/AppSubscriptionLineItem/1"}, events, logger, "")
	configSvc := service.NewConfigService(nil, storeRepo, syncer, locks, events, logger, "")
	consentSvc := service.NewConsentService(nil, storeRepo, stubCustomerAPI{}, events, logger, "")
	statsSvc := service.NewStatsService(nil, statsRepo, locks, events)

	return &testDeps{
		stores: storeRepo,
		stats:  statsRepo,
		syncer: syncer,
		popup:  NewPopupHandler(storeSvc, consentSvc, statsSvc),
		admin:  NewAdminHandler(storeSvc, configSvc),
	}
}

func testStore() *domain.StoreConfig {
	return &domain.StoreConfig{
		Shop:        testShop,
		AccessToken: "shpat_test",
		LowPctOff:   0.10, MidPctOff: 0.15, HighPctOff: 0.25,
		LowProb: 0.5, MidProb: 0.3, HighProb: 0.2,
		LowDiscountID: "d-low", MidDiscountID: "d-mid", HighDiscountID: "d-high",
		UseWordGame: true, UseBirdGame: true,
	}
}
