package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/popgames/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// StoreRepository provides access to the stores table, keyed by shop domain.
type StoreRepository interface {
	// FindByShop returns a store row, or nil if the shop is not installed.
	FindByShop(ctx context.Context, db DBTX, shop string) (*domain.StoreConfig, error)

	// Create inserts a new store row with column defaults for the tier
	// configuration. Returns the created row.
	Create(ctx context.Context, db DBTX, shop string) (*domain.StoreConfig, error)

	// UpdateConfig writes the full merged tier configuration in one statement.
	UpdateConfig(ctx context.Context, db DBTX, cfg *domain.StoreConfig) error

	// UpdateBilling persists the subscription linkage fields.
	UpdateBilling(ctx context.Context, db DBTX, shop, billingID string, nextPeriod time.Time) error
}

// StatsRepository provides access to the player_stats table, keyed by email.
type StatsRepository interface {
	// FindByEmail returns a player's full stats row, or nil if absent.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.PlayerStats, error)

	// SavePlay writes the folded counters for one game, inserting the row
	// on first play. Only the named game's columns are touched.
	SavePlay(ctx context.Context, db DBTX, email string, game domain.Game, stats domain.GameStats) error
}
