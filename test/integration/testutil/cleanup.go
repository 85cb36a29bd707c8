//go:build integration

package testutil

import (
	"context"
	"fmt"
	"time"
)

// CleanAll truncates all tables.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"player_stats",
		"stores",
	}

	for _, table := range tables {
		_, err := env.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil && env.t != nil {
			env.t.Logf("CleanAll: truncate %s: %v", table, err)
		}
	}
}
