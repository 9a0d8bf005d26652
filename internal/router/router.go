// Package router fans decoded market snapshots out to their consumers.
package router

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rickgao/betfair-soap/internal/model"
)

// Router copies every snapshot into each subscribed output queue.
type Router struct {
	logger *slog.Logger

	mu      sync.RWMutex
	outputs map[string]*Queue[model.MarketSnapshot]
	routed  int64
	refused int64
}

// NewRouter creates a router with no outputs.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		logger:  logger,
		outputs: make(map[string]*Queue[model.MarketSnapshot]),
	}
}

// Subscribe registers a named output queue. Subscribing an existing name returns
// its queue.
func (r *Router) Subscribe(name string, capacity int) *Queue[model.MarketSnapshot] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if q, ok := r.outputs[name]; ok {
		return q
	}
	q := NewQueue[model.MarketSnapshot](capacity)
	r.outputs[name] = q
	r.logger.Debug("router output subscribed", "output", name, "capacity", capacity)
	return q
}

// HandleSnapshot routes snap to every output. It never blocks.
func (r *Router) HandleSnapshot(_ context.Context, snap model.MarketSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, q := range r.outputs {
		if !q.Send(snap) {
			r.refused++
			r.logger.Debug("router output closed", "output", name, "market_id", snap.MarketID)
		}
	}
	r.routed++
	return nil
}

// Close closes every output queue.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.outputs {
		q.Close()
	}
}

// Stats returns current router statistics.
func (r *Router) Stats() RouterStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RouterStats{
		Routed:  r.routed,
		Refused: r.refused,
		Outputs: make(map[string]QueueStats, len(r.outputs)),
	}
	for name, q := range r.outputs {
		stats.Outputs[name] = q.Stats()
	}
	return stats
}
