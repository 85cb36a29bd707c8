package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/infra"
	"github.com/popgames/platform/internal/provider"
	"github.com/popgames/platform/internal/repository"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func noopEvents() *infra.EventProducer {
	return infra.NewEventProducer("", false, testLogger())
}

// fakeStoreRepo is an in-memory StoreRepository keyed by shop.
type fakeStoreRepo struct {
	rows map[string]*domain.StoreConfig
	err  error
}

func newFakeStoreRepo(stores ...*domain.StoreConfig) *fakeStoreRepo {
	r := &fakeStoreRepo{rows: make(map[string]*domain.StoreConfig)}
	for _, s := range stores {
		cp := *s
		r.rows[s.Shop] = &cp
	}
	return r
}

func (r *fakeStoreRepo) FindByShop(_ context.Context, _ repository.DBTX, shop string) (*domain.StoreConfig, error) {
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.rows[shop]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeStoreRepo) Create(_ context.Context, _ repository.DBTX, shop string) (*domain.StoreConfig, error) {
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
		CreatedAt:    time.Now(), UpdatedAt: time.Now(),
	}
	r.rows[shop] = row
	cp := *row
	return &cp, nil
}

func (r *fakeStoreRepo) UpdateConfig(_ context.Context, _ repository.DBTX, cfg *domain.StoreConfig) error {
	row, ok := r.rows[cfg.Shop]
	if !ok {
		return fmt.Errorf("shop %s not found", cfg.Shop)
	}
	row.LowPctOff, row.MidPctOff, row.HighPctOff = cfg.LowPctOff, cfg.MidPctOff, cfg.HighPctOff
	row.LowProb, row.MidProb, row.HighProb = cfg.LowProb, cfg.MidProb, cfg.HighProb
	row.UseWordGame, row.UseBirdGame = cfg.UseWordGame, cfg.UseBirdGame
	return nil
}

func (r *fakeStoreRepo) UpdateBilling(_ context.Context, _ repository.DBTX, shop, billingID string, nextPeriod time.Time) error {
	row, ok := r.rows[shop]
	if !ok {
		return fmt.Errorf("shop %s not found", shop)
	}
	row.BillingID = billingID
	row.NextPeriod = &nextPeriod
	return nil
}

// fakeStatsRepo is an in-memory StatsRepository keyed by email.
type fakeStatsRepo struct {
	rows map[string]*domain.PlayerStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{rows: make(map[string]*domain.PlayerStats)}
}

func (r *fakeStatsRepo) FindByEmail(_ context.Context, _ repository.DBTX, email string) (*domain.PlayerStats, error) {
	row, ok := r.rows[email]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeStatsRepo) SavePlay(_ context.Context, _ repository.DBTX, email string, game domain.Game, stats domain.GameStats) error {
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

// fakeSyncer records discount sync calls and fails on demand.
type fakeSyncer struct {
	calls  []string // discount ids in call order
	failOn string   // discount id that reports rejection
	errOn  string   // discount id that returns a transport error
}

func (s *fakeSyncer) UpdateDiscountPercentage(_ context.Context, _, _, discountID string, _ float64) (bool, error) {
	s.calls = append(s.calls, discountID)
	if discountID == s.errOn {
		return false, fmt.Errorf("admin api returned 502")
	}
	if discountID == s.failOn {
		return false, nil
	}
	return true, nil
}

// fakeCustomerAPI scripts the consent resolver's collaborator.
type fakeCustomerAPI struct {
	existing *provider.Customer
	findErr  error

	updatedID    string
	createdEmail string
}

func (f *fakeCustomerAPI) FindCustomerByEmail(_ context.Context, _, _, _ string) (*provider.Customer, error) {
	return f.existing, f.findErr
}

func (f *fakeCustomerAPI) UpdateMarketingConsent(_ context.Context, _, _, customerID string) (json.RawMessage, error) {
	f.updatedID = customerID
	return json.RawMessage(`{"customerEmailMarketingConsentUpdate":{"customer":{"id":"` + customerID + `"}}}`), nil
}

func (f *fakeCustomerAPI) CreateCustomer(_ context.Context, _, _, email string) (json.RawMessage, error) {
	f.createdEmail = email
	return json.RawMessage(`{"customerCreate":{"customer":{"email":"` + email + `"}}}`), nil
}

// fakeBillingAPI resolves a fixed line item id.
type fakeBillingAPI struct {
	lineItemID string
	calls      int
}

func (f *fakeBillingAPI) SubscriptionLineItemID(_ context.Context, _, _, _ string) (string, error) {
	f.calls++
	if f.lineItemID == "" {
		return "", fmt.Errorf("subscription has no line items")
	}
	return f.lineItemID, nil
}
