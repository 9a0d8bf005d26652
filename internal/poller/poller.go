package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/betfair-soap/internal/api"
	"github.com/rickgao/betfair-soap/internal/model"
)

// MarketSource provides the market ids to poll.
type MarketSource interface {
	ActiveMarkets() []int64
}

// StaticMarkets is a fixed market list.
type StaticMarkets []int64

func (s StaticMarkets) ActiveMarkets() []int64 {
	return append([]int64(nil), s...)
}

// SnapshotHandler receives fetched snapshots.
type SnapshotHandler interface {
	HandleSnapshot(ctx context.Context, snapshot model.MarketSnapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(context.Context, model.MarketSnapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(ctx context.Context, s model.MarketSnapshot) error {
	return f(ctx, s)
}

// Config holds poller configuration.
type Config struct {
	Interval          time.Duration // Poll interval (default: 5s)
	Concurrency       int           // Clients polling in parallel (default: 4)
	Timeout           time.Duration // Per-request timeout (default: 10s)
	KeepAliveInterval time.Duration // Idle session refresh (default: 10m)
	TradedVolume      bool          // Fetch traded volume alongside prices
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:          5 * time.Second,
		Concurrency:       4,
		Timeout:           10 * time.Second,
		KeepAliveInterval: 10 * time.Minute,
		TradedVolume:      true,
	}
}

// Stats counts poller activity.
type Stats struct {
	Cycles     int64
	Snapshots  int64
	Errors     int64
	Logins     int64
	KeepAlives int64
}

// Poller periodically fetches market snapshots.
type Poller struct {
	cfg     Config
	clients chan *api.Client
	markets MarketSource
	handler SnapshotHandler
	logger  *slog.Logger

	cycles, snapshots, errs, logins, keepAlives atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller. newClient is called once per worker; every client
// must carry credentials.
func New(cfg Config, newClient func() *api.Client, markets MarketSource, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	clients := make(chan *api.Client, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		clients <- newClient()
	}

	return &Poller{
		cfg:     cfg,
		clients: clients,
		markets: markets,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("snapshot poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
		"traded_volume", p.cfg.TradedVolume,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("snapshot poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current counters.
func (p *Poller) Stats() Stats {
	return Stats{
		Cycles:     p.cycles.Load(),
		Snapshots:  p.snapshots.Load(),
		Errors:     p.errs.Load(),
		Logins:     p.logins.Load(),
		KeepAlives: p.keepAlives.Load(),
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	var keepAlive <-chan time.Time
	if p.cfg.KeepAliveInterval > 0 {
		t := time.NewTicker(p.cfg.KeepAliveInterval)
		defer t.Stop()
		keepAlive = t.C
	}

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		case <-keepAlive:
			p.keepAliveAll()
		}
	}
}

// pollAll fetches every active market with at most Concurrency in flight.
func (p *Poller) pollAll() {
	start := time.Now()
	p.cycles.Add(1)

	markets := p.markets.ActiveMarkets()
	if len(markets) == 0 {
		p.logger.Debug("no active markets to poll")
		return
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	var fetched, failed atomic.Int64

	for _, marketID := range markets {
		if p.ctx.Err() != nil {
			break
		}
		marketID := marketID
		g.Go(func() error {
			client := <-p.clients
			defer func() { p.clients <- client }()

			if err := p.pollMarket(client, marketID); err != nil {
				level := slog.LevelWarn
				if api.IsFatal(err) {
					level = slog.LevelError
				}
				p.logger.Log(p.ctx, level, "failed to poll market",
					"market_id", marketID,
					"request_id", client.RequestID(),
					"err", err,
				)
				failed.Add(1)
				p.errs.Add(1)
				return nil
			}

			fetched.Add(1)
			return nil
		})
	}

	g.Wait()

	p.logger.Info("poll cycle complete",
		"markets", len(markets),
		"fetched", fetched.Load(),
		"errors", failed.Load(),
		"duration", time.Since(start),
	)
}

// pollMarket fetches and handles a single market's snapshot. The snapshot is
// handed on when at least one section was fetched.
func (p *Poller) pollMarket(client *api.Client, marketID int64) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	snap := model.MarketSnapshot{
		ID:         uuid.New(),
		MarketID:   marketID,
		ExchangeID: int(client.Exchange()),
		FetchedAt:  api.NowMicro(),
	}

	var errs []error

	err := p.withSession(ctx, client, func() error {
		prices, err := client.GetCompleteMarketPrices(ctx, marketID)
		snap.Prices = prices
		return err
	})
	if err != nil {
		errs = append(errs, err)
	}

	if p.cfg.TradedVolume {
		err := p.withSession(ctx, client, func() error {
			volume, err := client.GetMarketTradedVolume(ctx, marketID)
			snap.Volume = volume
			return err
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	if snap.Prices == nil && snap.Volume == nil {
		return errors.Join(errs...)
	}

	if p.handler != nil {
		if err := p.handler.HandleSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("handle snapshot: %w", err)
		}
	}
	p.snapshots.Add(1)

	return errors.Join(errs...)
}

// withSession runs call after making sure the client is logged in, and once
// more after a fresh login if the server reports the session as gone.
func (p *Poller) withSession(ctx context.Context, client *api.Client, call func() error) error {
	if client.SessionToken() == "" {
		if err := p.login(ctx, client); err != nil {
			return err
		}
	}

	err := call()
	if !api.IsRemoteCode(err, api.CodeNoSession) {
		return err
	}

	p.logger.Info("session expired, logging in again")
	if err := p.login(ctx, client); err != nil {
		return err
	}
	return call()
}

func (p *Poller) login(ctx context.Context, client *api.Client) error {
	if _, err := client.Login(ctx); err != nil {
		client.SetSessionToken("")
		return err
	}
	p.logins.Add(1)
	return nil
}

// keepAliveAll refreshes every idle logged-in client. Clients whose session is
// gone are reset so the next poll logs them in.
func (p *Poller) keepAliveAll() {
	for i := 0; i < cap(p.clients); i++ {
		client := <-p.clients

		if client.SessionToken() != "" {
			ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
			err := client.KeepAlive(ctx)
			cancel()

			switch {
			case err == nil:
				p.keepAlives.Add(1)
			case api.IsRemoteCode(err, api.CodeNoSession):
				client.SetSessionToken("")
			default:
				p.logger.Warn("keep alive failed", "err", err)
			}
		}

		p.clients <- client
	}
}
