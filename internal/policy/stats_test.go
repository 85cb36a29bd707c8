package policy

import (
	"testing"

	"github.com/popgames/platform/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFoldScore_FirstPlay(t *testing.T) {
	got := FoldScore(domain.GameWord, nil, 50)
	assert.Equal(t, domain.GameStats{Played: 1, Total: 50, Best: 50}, got)
}

func TestFoldScore_WordGameMinimizesBest(t *testing.T) {
	// Word game counts guesses: fewer is better.
	first := FoldScore(domain.GameWord, nil, 50)
	second := FoldScore(domain.GameWord, &first, 30)
	assert.Equal(t, domain.GameStats{Played: 2, Total: 80, Best: 30}, second)

	third := FoldScore(domain.GameWord, &second, 45)
	assert.Equal(t, domain.GameStats{Played: 3, Total: 125, Best: 30}, third)
}

func TestFoldScore_BirdGameMaximizesBest(t *testing.T) {
	first := FoldScore(domain.GameBird, nil, 3)
	second := FoldScore(domain.GameBird, &first, 5)
	assert.Equal(t, domain.GameStats{Played: 2, Total: 8, Best: 5}, second)

	third := FoldScore(domain.GameBird, &second, 2)
	assert.Equal(t, domain.GameStats{Played: 3, Total: 10, Best: 5}, third)
}

func TestFoldScore_EqualScoreKeepsBest(t *testing.T) {
	existing := domain.GameStats{Played: 1, Total: 4, Best: 4}
	got := FoldScore(domain.GameWord, &existing, 4)
	assert.Equal(t, domain.GameStats{Played: 2, Total: 8, Best: 4}, got)
}
