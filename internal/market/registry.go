// Package market tracks which markets the recorder polls: a fixed list from
// configuration plus, for each followed event type, the next market the exchange
// reports for it.
package market

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rickgao/betfair-soap/internal/api"
	"github.com/rickgao/betfair-soap/internal/model"
)

// Config holds Market Registry configuration.
type Config struct {
	MarketIDs         []int64       // Always polled
	EventTypeIDs      []int64       // Follow the next market of these event types
	ReconcileInterval time.Duration // How often followed event types are refreshed
	Locale            string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval: time.Minute,
	}
}

// EventTypeSource lists the event types with open markets.
type EventTypeSource interface {
	GetActiveEventTypes(ctx context.Context, locale string) ([]model.EventType, error)
}

// Registry is a poller.MarketSource.
type Registry struct {
	cfg    Config
	source EventTypeSource
	logger *slog.Logger

	mu       sync.RWMutex
	followed map[int64]int64 // event type id -> next market id
	lastSync time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a new Market Registry. source may be nil when no event
// types are followed.
func NewRegistry(cfg Config, source EventTypeSource, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:      cfg,
		source:   source,
		logger:   logger,
		followed: make(map[int64]int64),
	}
}

// Start performs the initial sync and begins background reconciliation. It does
// nothing when no event types are followed.
func (r *Registry) Start(ctx context.Context) error {
	if len(r.cfg.EventTypeIDs) == 0 || r.source == nil {
		r.logger.Info("market registry started", "static_markets", len(r.cfg.MarketIDs))
		return nil
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	// Initial sync (blocking).
	if err := r.Sync(r.ctx); err != nil {
		r.cancel()
		return err
	}

	// Start background reconciliation.
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reconciliationLoop()
	}()

	r.logger.Info("market registry started",
		"static_markets", len(r.cfg.MarketIDs),
		"followed_event_types", len(r.cfg.EventTypeIDs),
		"active_markets", len(r.ActiveMarkets()),
	)
	return nil
}

// Stop gracefully shuts down.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("market registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ActiveMarkets returns the configured and followed market ids, sorted and
// without duplicates.
func (r *Registry) ActiveMarkets() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := slices.Clone(r.cfg.MarketIDs)
	for _, id := range r.followed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Followed returns a copy of the event type to next market mapping.
func (r *Registry) Followed() map[int64]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.followed)
}

// LastSync returns when followed event types were last refreshed.
func (r *Registry) LastSync() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSync
}

// Sync refreshes the next market of every followed event type. Event types the
// exchange no longer lists stop being followed until they reappear.
func (r *Registry) Sync(ctx context.Context) error {
	start := time.Now()

	types, err := r.source.GetActiveEventTypes(ctx, r.cfg.Locale)
	if err != nil {
		return err
	}

	wanted := make(map[int64]bool, len(r.cfg.EventTypeIDs))
	for _, id := range r.cfg.EventTypeIDs {
		wanted[id] = true
	}

	next := make(map[int64]int64)
	for _, et := range types {
		if wanted[et.ID] && et.NextMarketID != 0 {
			next[et.ID] = et.NextMarketID
		}
	}

	r.mu.Lock()
	for id, marketID := range next {
		if prev, ok := r.followed[id]; !ok || prev != marketID {
			r.logger.Info("following next market",
				"event_type_id", id,
				"market_id", marketID,
				"previous_market_id", prev,
			)
		}
	}
	r.followed = next
	r.lastSync = time.Now()
	r.mu.Unlock()

	r.logger.Debug("market registry synced",
		"event_types", len(types),
		"followed", len(next),
		"duration", time.Since(start),
	)
	return nil
}

// reconciliationLoop periodically re-syncs followed event types.
func (r *Registry) reconciliationLoop() {
	ticker := time.NewTicker(r.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.Sync(r.ctx); err != nil {
				r.logger.Warn("market registry sync failed", "error", err)
			}
		}
	}
}

// SessionSource adapts an api.Client so it logs in before listing event types
// and again when the session has expired.
type SessionSource struct {
	Client *api.Client
}

func (s SessionSource) GetActiveEventTypes(ctx context.Context, locale string) ([]model.EventType, error) {
	if s.Client.SessionToken() == "" {
		if _, err := s.Client.Login(ctx); err != nil {
			return nil, err
		}
	}

	types, err := s.Client.GetActiveEventTypes(ctx, locale)
	if !api.IsRemoteCode(err, api.CodeNoSession) {
		return types, err
	}

	if _, err := s.Client.Login(ctx); err != nil {
		return nil, err
	}
	return s.Client.GetActiveEventTypes(ctx, locale)
}
