package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/popgames/platform/internal/domain"
)

type storeRepo struct{}

// NewStoreRepository returns a pgx-backed StoreRepository.
func NewStoreRepository() StoreRepository {
	return &storeRepo{}
}

const storeColumns = `
	shop, access_token,
	low_pct_off, mid_pct_off, high_pct_off,
	low_prob, mid_prob, high_prob,
	low_discount_id, mid_discount_id, high_discount_id,
	use_word_game, use_bird_game,
	billing_id, next_period,
	total_sales, curr_sales, currency_code, has_coupon,
	created_at, updated_at`

func (r *storeRepo) FindByShop(ctx context.Context, db DBTX, shop string) (*domain.StoreConfig, error) {
	row := db.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE shop = $1`, shop)
	return scanStore(row)
}

func (r *storeRepo) Create(ctx context.Context, db DBTX, shop string) (*domain.StoreConfig, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO stores (shop) VALUES ($1)
		ON CONFLICT (shop) DO UPDATE SET updated_at = stores.updated_at
		RETURNING `+storeColumns, shop)
	return scanStore(row)
}

func (r *storeRepo) UpdateConfig(ctx context.Context, db DBTX, cfg *domain.StoreConfig) error {
	tag, err := db.Exec(ctx, `
		UPDATE stores SET
			low_pct_off = $2, mid_pct_off = $3, high_pct_off = $4,
			low_prob = $5, mid_prob = $6, high_prob = $7,
			use_word_game = $8, use_bird_game = $9,
			updated_at = now()
		WHERE shop = $1`,
		cfg.Shop,
		cfg.LowPctOff, cfg.MidPctOff, cfg.HighPctOff,
		cfg.LowProb, cfg.MidProb, cfg.HighProb,
		cfg.UseWordGame, cfg.UseBirdGame,
	)
	if err != nil {
		return fmt.Errorf("update store config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update store config: shop %s not found", cfg.Shop)
	}
	return nil
}

func (r *storeRepo) UpdateBilling(ctx context.Context, db DBTX, shop, billingID string, nextPeriod time.Time) error {
	tag, err := db.Exec(ctx, `
		UPDATE stores SET billing_id = $2, next_period = $3, updated_at = now()
		WHERE shop = $1`,
		shop, billingID, nextPeriod,
	)
	if err != nil {
		return fmt.Errorf("update store billing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update store billing: shop %s not found", shop)
	}
	return nil
}

func scanStore(row pgx.Row) (*domain.StoreConfig, error) {
	var s domain.StoreConfig
	var nextPeriod *time.Time
	err := row.Scan(
		&s.Shop, &s.AccessToken,
		&s.LowPctOff, &s.MidPctOff, &s.HighPctOff,
		&s.LowProb, &s.MidProb, &s.HighProb,
		&s.LowDiscountID, &s.MidDiscountID, &s.HighDiscountID,
		&s.UseWordGame, &s.UseBirdGame,
		&s.BillingID, &nextPeriod,
		&s.TotalSales, &s.CurrSales, &s.CurrencyCode, &s.HasCoupon,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan store: %w", err)
	}
	s.NextPeriod = nextPeriod
	return &s, nil
}
