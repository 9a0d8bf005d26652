// Package model defines shared data types used across the betfair-soap client and recorder.
//
// Conventions:
//   - Prices and amounts: decimal.Decimal, exactly as they appear on the wire
//   - Timestamps: int64 microseconds since Unix epoch
//   - IDs: int64 for market and selection ids, uuid.UUID for snapshot ids
package model
