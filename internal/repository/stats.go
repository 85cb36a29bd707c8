package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/popgames/platform/internal/domain"
)

type statsRepo struct{}

// NewStatsRepository returns a pgx-backed StatsRepository.
func NewStatsRepository() StatsRepository {
	return &statsRepo{}
}

func (r *statsRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.PlayerStats, error) {
	row := db.QueryRow(ctx, `
		SELECT email,
			word_games_played, word_games_total, word_game_best,
			bird_games_played, bird_games_total, bird_game_best,
			created_at, updated_at
		FROM player_stats WHERE email = $1`, email)

	var p domain.PlayerStats
	err := row.Scan(
		&p.Email,
		&p.WordGamesPlayed, &p.WordGamesTotal, &p.WordGameBest,
		&p.BirdGamesPlayed, &p.BirdGamesTotal, &p.BirdGameBest,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan player stats: %w", err)
	}
	return &p, nil
}

func (r *statsRepo) SavePlay(ctx context.Context, db DBTX, email string, game domain.Game, stats domain.GameStats) error {
	var query string
	switch game {
	case domain.GameWord:
		query = `
			INSERT INTO player_stats (email, word_games_played, word_games_total, word_game_best)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET
				word_games_played = EXCLUDED.word_games_played,
				word_games_total = EXCLUDED.word_games_total,
				word_game_best = EXCLUDED.word_game_best,
				updated_at = now()`
	case domain.GameBird:
		query = `
			INSERT INTO player_stats (email, bird_games_played, bird_games_total, bird_game_best)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET
				bird_games_played = EXCLUDED.bird_games_played,
				bird_games_total = EXCLUDED.bird_games_total,
				bird_game_best = EXCLUDED.bird_game_best,
				updated_at = now()`
	default:
		return fmt.Errorf("save play: unknown game %q", game)
	}

	if _, err := db.Exec(ctx, query, email, stats.Played, stats.Total, stats.Best); err != nil {
		return fmt.Errorf("save play: %w", err)
	}
	return nil
}
