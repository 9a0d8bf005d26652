package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/betfair-soap/internal/api"
	"github.com/rickgao/betfair-soap/internal/auth"
	"github.com/rickgao/betfair-soap/internal/config"
	"github.com/rickgao/betfair-soap/internal/database"
	"github.com/rickgao/betfair-soap/internal/feed"
	"github.com/rickgao/betfair-soap/internal/market"
	"github.com/rickgao/betfair-soap/internal/poller"
	"github.com/rickgao/betfair-soap/internal/router"
	"github.com/rickgao/betfair-soap/internal/version"
	"github.com/rickgao/betfair-soap/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/recorder.local.yaml", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "config", *configPath)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"instance_id", cfg.Instance.ID,
		"exchange", cfg.API.Exchange,
	)

	creds, err := cfg.Credentials.Load()
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database, "bfrecorder-"+cfg.Instance.ID)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to create schema", "error", err)
		os.Exit(1)
	}
	logger.Info("database connected")

	newClient := func() *api.Client {
		return newAPIClient(cfg, creds, logger)
	}

	// Fan-out: every snapshot goes to the writer and, if enabled, the feed.
	rtr := router.NewRouter(logger)
	writerQueue := rtr.Subscribe("writer", cfg.Writer.BufferSize)

	snapshotWriter := writer.NewSnapshotWriter(writer.WriterConfig{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
	}, writerQueue, pool, logger)

	var (
		hub        *feed.Hub
		feedServer *http.Server
	)
	if cfg.Feed.Enabled {
		hub = feed.NewHub(rtr.Subscribe("feed", cfg.Writer.BufferSize), logger)
	}

	// Market registry
	registry := market.NewRegistry(market.Config{
		MarketIDs:         cfg.Poller.MarketIDs,
		EventTypeIDs:      cfg.Poller.EventTypeIDs,
		ReconcileInterval: cfg.Poller.ReconcileInterval,
		Locale:            cfg.Poller.Locale,
	}, market.SessionSource{Client: newClient()}, logger)

	logger.Info("starting market registry (initial sync)...")
	if err := registry.Start(ctx); err != nil {
		logger.Error("failed to start market registry", "error", err)
		os.Exit(1)
	}

	if err := snapshotWriter.Start(ctx); err != nil {
		logger.Error("failed to start writer", "error", err)
		os.Exit(1)
	}

	if hub != nil {
		if err := hub.Start(ctx); err != nil {
			logger.Error("failed to start feed", "error", err)
			os.Exit(1)
		}
		feedServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Feed.Port),
			Handler: createHandler(hub.Handler(cfg.Feed.Path), pool, registry, rtr),
		}
		go func() {
			logger.Info("starting feed server", "port", cfg.Feed.Port, "path", cfg.Feed.Path)
			if err := feedServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logger.Error("feed server error", "error", err)
			}
		}()
	}

	p := poller.New(poller.Config{
		Interval:          cfg.Poller.Interval,
		Concurrency:       cfg.Poller.Concurrency,
		Timeout:           cfg.API.Timeout,
		KeepAliveInterval: cfg.Poller.KeepAliveInterval,
		TradedVolume:      cfg.Poller.RecordVolume(),
	}, newClient, registry, rtr, logger)

	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	logger.Info("recorder running",
		"instance_id", cfg.Instance.ID,
		"active_markets", len(registry.ActiveMarkets()),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop producers before consumers so the writer drains everything polled.
	if err := p.Stop(shutdownCtx); err != nil {
		logger.Warn("poller stop", "error", err)
	}
	if err := registry.Stop(shutdownCtx); err != nil {
		logger.Warn("market registry stop", "error", err)
	}
	rtr.Close()

	if err := snapshotWriter.Stop(shutdownCtx); err != nil {
		logger.Warn("writer stop", "error", err)
	}
	if hub != nil {
		feedServer.Shutdown(shutdownCtx)
		if err := hub.Stop(shutdownCtx); err != nil {
			logger.Warn("feed stop", "error", err)
		}
	}

	stats := snapshotWriter.Stats()
	logger.Info("recorder stopped",
		"price_inserts", stats.PriceInserts,
		"volume_inserts", stats.VolumeInserts,
		"errors", stats.Errors,
	)
}

func newAPIClient(cfg *config.RecorderConfig, creds *auth.Credentials, logger *slog.Logger) *api.Client {
	return api.NewClient(
		api.WithEndpoints(api.Endpoints{
			Global:      cfg.API.GlobalURL,
			ExchangeUK:  cfg.API.ExchangeUKURL,
			ExchangeAUS: cfg.API.ExchangeAUSURL,
		}),
		api.WithExchange(api.Exchange(cfg.API.Exchange)),
		api.WithCredentials(creds),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)
}

// createHandler wraps the feed mux with database and registry diagnostics.
func createHandler(feedHandler http.Handler, pool *pgxpool.Pool, registry *market.Registry, rtr *router.Router) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", feedHandler)

	mux.HandleFunc("/debug/status", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]any{
			"markets":  registry.ActiveMarkets(),
			"followed": registry.Followed(),
			"synced":   registry.LastSync(),
			"router":   rtr.Stats(),
			"database": "connected",
		}
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(ctx); err != nil {
			status["database"] = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	})

	return mux
}
