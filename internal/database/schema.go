package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Schema holds the statements creating the snapshot tables. They are idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS market_price_snapshots (
		snapshot_id     UUID PRIMARY KEY,
		market_id       BIGINT NOT NULL,
		exchange_id     SMALLINT NOT NULL,
		fetched_at      TIMESTAMPTZ NOT NULL,
		in_play_delay   INTEGER NOT NULL,
		removed_runners TEXT NOT NULL DEFAULT '',
		selections      JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS market_price_snapshots_market_time
		ON market_price_snapshots (market_id, fetched_at DESC)`,
	`CREATE TABLE IF NOT EXISTS traded_volume_snapshots (
		snapshot_id UUID PRIMARY KEY,
		market_id   BIGINT NOT NULL,
		exchange_id SMALLINT NOT NULL,
		fetched_at  TIMESTAMPTZ NOT NULL,
		header      TEXT NOT NULL DEFAULT '',
		selections  JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS traded_volume_snapshots_market_time
		ON traded_volume_snapshots (market_id, fetched_at DESC)`,
}

// EnsureSchema creates the snapshot tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range Schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
