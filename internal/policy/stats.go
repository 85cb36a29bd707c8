package policy

import "github.com/popgames/platform/internal/domain"

// FoldScore folds a new score into a player's existing counters for one
// game. A nil existing means this is the player's first recorded play.
//
// The best-score direction is game-specific and intentional: the word
// game minimizes (fewer guesses is better), the bird game maximizes.
func FoldScore(game domain.Game, existing *domain.GameStats, score int) domain.GameStats {
	if existing == nil {
		return domain.GameStats{Played: 1, Total: score, Best: score}
	}

	best := existing.Best
	switch game {
	case domain.GameWord:
		if score < best {
			best = score
		}
	case domain.GameBird:
		if score > best {
			best = score
		}
	}

	return domain.GameStats{
		Played: existing.Played + 1,
		Total:  existing.Total + score,
		Best:   best,
	}
}
