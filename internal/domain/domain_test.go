package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGame(t *testing.T) {
	g, err := ParseGame("wordGame")
	require.NoError(t, err)
	assert.Equal(t, GameWord, g)

	g, err = ParseGame("birdGame")
	require.NoError(t, err)
	assert.Equal(t, GameBird, g)

	_, err = ParseGame("snakeGame")
	require.Error(t, err)
	appErr, ok := err.(*AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("player@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidateShopDomain(t *testing.T) {
	assert.NoError(t, ValidateShopDomain("quickstart-9f306b3f.myshopify.com"))
	assert.Error(t, ValidateShopDomain(""))
	assert.Error(t, ValidateShopDomain("example.com"))
	assert.Error(t, ValidateShopDomain("evil.myshopify.com.attacker.net"))
}

func TestValidateFraction(t *testing.T) {
	assert.NoError(t, ValidateFraction("lowProb", 0))
	assert.NoError(t, ValidateFraction("lowProb", 0.5))
	assert.NoError(t, ValidateFraction("lowProb", 1))
	assert.Error(t, ValidateFraction("lowProb", -0.1))
	assert.Error(t, ValidateFraction("lowProb", 1.5))
}

func TestStoreConfigProjections(t *testing.T) {
	s := StoreConfig{
		LowPctOff: 0.1, MidPctOff: 0.2, HighPctOff: 0.3,
		LowProb: 0.5, MidProb: 0.3, HighProb: 0.2,
		UseWordGame: true, UseBirdGame: false,
	}

	d := s.DiscountOptions()
	assert.Equal(t, 0.1, d.LowPctOff)
	assert.Equal(t, 0.2, d.HighProb)

	g := s.GameOptions()
	assert.True(t, g.UseWordGame)
	assert.False(t, g.UseBirdGame)
}

func TestPlayerStatsForGame(t *testing.T) {
	p := PlayerStats{
		WordGamesPlayed: 2, WordGamesTotal: 80, WordGameBest: 30,
		BirdGamesPlayed: 1, BirdGamesTotal: 5, BirdGameBest: 5,
	}

	assert.Equal(t, GameStats{Played: 2, Total: 80, Best: 30}, p.ForGame(GameWord))
	assert.Equal(t, GameStats{Played: 1, Total: 5, Best: 5}, p.ForGame(GameBird))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	err := ErrInternal("boom", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
}
