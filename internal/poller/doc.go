// Package poller implements the market snapshot recorder loop.
//
// The poller:
//   - Fetches complete compressed prices (and optionally traded volume) for every
//     active market on each interval
//   - Bounds concurrency with one SOAP client per worker
//   - Logs each worker in lazily and again when the server reports NO_SESSION
//   - Keeps idle sessions alive between cycles
package poller
