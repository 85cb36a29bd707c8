package domain

import "time"

// Game identifies one of the two pop-up mini-games.
type Game string

const (
	GameWord Game = "wordGame"
	GameBird Game = "birdGame"
)

// ParseGame validates a game identifier from the wire.
func ParseGame(s string) (Game, error) {
	switch Game(s) {
	case GameWord, GameBird:
		return Game(s), nil
	}
	return "", ErrValidation("unknown game: " + s)
}

// PlayerStats is a player_stats row, keyed by player email.
//
// The best-score direction differs per game: the word game counts guesses
// (fewer is better, best is a minimum), the bird game counts points (best
// is a maximum).
type PlayerStats struct {
	Email string `json:"email"`

	WordGamesPlayed int `json:"wordGamesPlayed"`
	WordGamesTotal  int `json:"wordGamesTotal"`
	WordGameBest    int `json:"wordGameBest"`

	BirdGamesPlayed int `json:"birdGamesPlayed"`
	BirdGamesTotal  int `json:"birdGamesTotal"`
	BirdGameBest    int `json:"birdGameBest"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// GameStats is the single-game projection returned after recording a play.
type GameStats struct {
	Played int `json:"played"`
	Total  int `json:"total"`
	Best   int `json:"best"`
}

// ForGame projects the counters for the named game.
func (p *PlayerStats) ForGame(game Game) GameStats {
	if game == GameBird {
		return GameStats{Played: p.BirdGamesPlayed, Total: p.BirdGamesTotal, Best: p.BirdGameBest}
	}
	return GameStats{Played: p.WordGamesPlayed, Total: p.WordGamesTotal, Best: p.WordGameBest}
}
