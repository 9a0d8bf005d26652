package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickgao/betfair-soap/internal/model"
	"github.com/rickgao/betfair-soap/internal/router"
)

// BatchSender is satisfied by *pgxpool.Pool.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const insertPriceSQL = `
	INSERT INTO market_price_snapshots
		(snapshot_id, market_id, exchange_id, fetched_at, in_play_delay, removed_runners, selections)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (snapshot_id) DO NOTHING`

const insertVolumeSQL = `
	INSERT INTO traded_volume_snapshots
		(snapshot_id, market_id, exchange_id, fetched_at, header, selections)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (snapshot_id) DO NOTHING`

// SnapshotWriter consumes snapshots from a router queue and writes them in batches.
type SnapshotWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Input from the snapshot router
	input *router.Queue[model.MarketSnapshot]

	// Database
	db BatchSender

	// Batching
	batch       []row
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics WriterMetrics
}

// row is one insert: a price or a volume record.
type row struct {
	sql  string
	args []any
}

// NewSnapshotWriter creates a new SnapshotWriter.
func NewSnapshotWriter(
	cfg WriterConfig,
	input *router.Queue[model.MarketSnapshot],
	db BatchSender,
	logger *slog.Logger,
) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	return &SnapshotWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]row, 0, cfg.BatchSize),
	}
}

// Start begins consuming snapshots and writing to the database.
func (w *SnapshotWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	// Consumer goroutine
	w.wg.Add(1)
	go w.consumeLoop()

	// Flush ticker goroutine
	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("snapshot writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer. Snapshots still queued are written.
func (w *SnapshotWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping snapshot writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	// Wait for goroutines
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("snapshot writer stopped")
	case <-ctx.Done():
		w.logger.Warn("snapshot writer stop timed out")
	}

	// Final flush
	for _, snap := range w.input.Drain() {
		w.add(snap)
	}
	w.flushWith(ctx)

	return nil
}

// Stats returns current metrics.
func (w *SnapshotWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input queue and accumulates batches.
func (w *SnapshotWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		snap, ok := w.input.Receive(w.ctx)
		if !ok {
			return
		}
		if w.add(snap) {
			w.flush()
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *SnapshotWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// add transforms a snapshot into rows and reports whether the batch is full.
func (w *SnapshotWriter) add(snap model.MarketSnapshot) bool {
	rows, err := transform(snap)

	w.batchMu.Lock()
	defer w.batchMu.Unlock()

	if err != nil {
		w.metrics.Errors++
		w.logger.Error("encode snapshot failed", "market_id", snap.MarketID, "error", err)
		return false
	}
	w.batch = append(w.batch, rows...)
	return len(w.batch) >= w.cfg.BatchSize
}

// transform converts a snapshot to its price and volume rows. A snapshot
// without a volume section yields only a price row, and vice versa.
func transform(snap model.MarketSnapshot) ([]row, error) {
	id := snap.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	fetchedAt := time.UnixMicro(snap.FetchedAt).UTC()

	var rows []row
	if p := snap.Prices; p != nil {
		selections, err := json.Marshal(p.Selections)
		if err != nil {
			return nil, fmt.Errorf("marshal price selections: %w", err)
		}
		rows = append(rows, row{
			sql:  insertPriceSQL,
			args: []any{id, snap.MarketID, snap.ExchangeID, fetchedAt, p.InPlayDelay, p.RemovedRunners, selections},
		})
	}
	if v := snap.Volume; v != nil {
		selections, err := json.Marshal(v.Selections)
		if err != nil {
			return nil, fmt.Errorf("marshal volume selections: %w", err)
		}
		rows = append(rows, row{
			sql:  insertVolumeSQL,
			args: []any{id, snap.MarketID, snap.ExchangeID, fetchedAt, v.Header, selections},
		})
	}
	return rows, nil
}

// flush writes the current batch to the database.
func (w *SnapshotWriter) flush() {
	w.flushWith(w.ctx)
}

func (w *SnapshotWriter) flushWith(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]row, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	prices, volumes, conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.PriceInserts += int64(prices)
	w.metrics.VolumeInserts += int64(volumes)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed snapshots",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *SnapshotWriter) batchInsert(ctx context.Context, rows []row) (prices, volumes, conflicts int, err error) {
	if w.db == nil {
		return 0, 0, 0, fmt.Errorf("no database configured")
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(r.sql, r.args...)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, r := range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, 0, 0, err
		}
		switch {
		case ct.RowsAffected() == 0:
			conflicts++
		case r.sql == insertPriceSQL:
			prices++
		default:
			volumes++
		}
	}

	return prices, volumes, conflicts, nil
}
