// Package writer persists decoded market snapshots to PostgreSQL.
//
// Tables:
//   - market_price_snapshots: one row per successful price fetch, ladders as JSONB
//   - traded_volume_snapshots: one row per successful traded volume fetch
//
// Writes are append-only batches keyed by snapshot id (ON CONFLICT DO NOTHING).
package writer
