package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/guard"
	"github.com/popgames/platform/internal/infra"
	"github.com/popgames/platform/internal/policy"
	"github.com/popgames/platform/internal/repository"
)

// StatsService records game plays and serves aggregate player statistics.
type StatsService struct {
	db     repository.DBTX
	stats  repository.StatsRepository
	locks  *guard.KeyedMutex
	events *infra.EventProducer
}

// NewStatsService creates a StatsService.
func NewStatsService(db repository.DBTX, stats repository.StatsRepository, locks *guard.KeyedMutex, events *infra.EventProducer) *StatsService {
	return &StatsService{db: db, stats: stats, locks: locks, events: events}
}

// RecordPlay folds one game result into the player's counters and returns
// the updated single-game projection. The read-fold-write runs under a
// per-email lock so concurrent plays by the same player cannot lose an
// update.
func (s *StatsService) RecordPlay(ctx context.Context, shop, email string, game domain.Game, score int) (*domain.GameStats, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	row, err := s.stats.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, domain.ErrInternal("find player stats", err)
	}

	var existing *domain.GameStats
	if row != nil {
		g := row.ForGame(game)
		existing = &g
	}

	folded := policy.FoldScore(game, existing, score)
	if err := s.stats.SavePlay(ctx, s.db, email, game, folded); err != nil {
		return nil, domain.ErrInternal("save play", err)
	}

	s.events.Publish(ctx, domain.Event{
		ID:         uuid.New().String(),
		Type:       domain.EventPlayRecorded,
		Shop:       shop,
		Email:      email,
		Game:       game,
		Score:      score,
		OccurredAt: time.Now().UTC(),
	})

	return &folded, nil
}

// GetStats returns a player's full six-counter row, or nil when the
// player has never finished a game.
func (s *StatsService) GetStats(ctx context.Context, email string) (*domain.PlayerStats, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	row, err := s.stats.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, domain.ErrInternal("find player stats", err)
	}
	return row, nil
}
