//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertErrorCode checks that the response body carries the expected error code.
func AssertErrorCode(t *testing.T, resp *http.Response, expectedCode string) {
	t.Helper()
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, errResp.Code, errResp.Message)
	}
}

// AssertPlayerStats queries the player_stats row and asserts the word-game counters.
func AssertPlayerStats(t *testing.T, env *TestEnv, email string, played, total, best int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var p, tot, b int
	err := env.Pool.QueryRow(ctx,
		"SELECT word_games_played, word_games_total, word_game_best FROM player_stats WHERE email = $1",
		email).Scan(&p, &tot, &b)
	if err != nil {
		t.Fatalf("AssertPlayerStats: query: %v", err)
	}
	if p != played {
		t.Errorf("word_games_played: expected %d, got %d", played, p)
	}
	if tot != total {
		t.Errorf("word_games_total: expected %d, got %d", total, tot)
	}
	if b != best {
		t.Errorf("word_game_best: expected %d, got %d", best, b)
	}
}
