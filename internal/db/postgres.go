package db

import (
	"context"
	"fmt"
	"time"

	"selam/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres builds the shared connection pool. Connections are
// established lazily; an unreachable server surfaces on first use so the
// service can start in degraded mode and fall back to the local store.
func ConnectPostgres(ctx context.Context, config *types.Config) (*pgxpool.Pool, error) {

	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if _, ok := poolConfig.ConnConfig.RuntimeParams["search_path"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["search_path"] = "selam"
	}

	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.MaxConnLifetime = 45 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return pool, nil
}
