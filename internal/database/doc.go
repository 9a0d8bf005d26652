// Package database provides the PostgreSQL connection pool and schema for the
// snapshot recorder.
//
// Tables:
//   - market_price_snapshots: decoded price ladders per fetch
//   - traded_volume_snapshots: decoded traded volume per fetch
package database
