// Package feed streams recorded market snapshots to websocket subscribers.
//
// Clients connect to the feed path (default /ws/prices), optionally filtering with
// ?market=101,202, and receive one JSON message per snapshot. A slow client
// loses messages rather than stalling the recorder.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/betfair-soap/internal/model"
	"github.com/rickgao/betfair-soap/internal/router"
)

const (
	writeTimeout  = 10 * time.Second
	pongWait      = 60 * time.Second
	pingInterval  = (pongWait * 9) / 10
	subscriberBuf = 64
)

// Message is the JSON frame sent for each snapshot.
type Message struct {
	Type       string              `json:"type"`
	SnapshotID string              `json:"snapshotId"`
	MarketID   int64               `json:"marketId"`
	ExchangeID int                 `json:"exchangeId"`
	FetchedAt  int64               `json:"fetchedAt"`
	Prices     *model.MarketPrices `json:"prices,omitempty"`
	Volume     *model.MarketVolume `json:"volume,omitempty"`
}

// Stats contains hub statistics.
type Stats struct {
	Subscribers int
	Broadcast   int64
	Sent        int64
	Dropped     int64
}

type subscriber struct {
	conn    *websocket.Conn
	send    chan []byte
	markets map[int64]bool // nil means every market
}

func (s *subscriber) wants(marketID int64) bool {
	return s.markets == nil || s.markets[marketID]
}

// Hub fans snapshots from a router queue out to websocket subscribers.
type Hub struct {
	logger   *slog.Logger
	input    *router.Queue[model.MarketSnapshot]
	upgrader websocket.Upgrader

	mu        sync.RWMutex
	subs      map[*subscriber]struct{}
	broadcast int64
	sent      int64
	dropped   int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHub creates a hub reading from input.
func NewHub(input *router.Queue[model.MarketSnapshot], logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		input:  input,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// Start begins broadcasting.
func (h *Hub) Start(ctx context.Context) error {
	h.ctx, h.cancel = context.WithCancel(ctx)

	h.wg.Add(1)
	go h.broadcastLoop()

	h.logger.Info("price feed started")
	return nil
}

// Stop stops broadcasting and disconnects every subscriber.
func (h *Hub) Stop(ctx context.Context) error {
	if h.cancel != nil {
		h.cancel()
	}

	h.mu.Lock()
	for s := range h.subs {
		h.removeLocked(s)
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.Info("price feed stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current hub statistics.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		Subscribers: len(h.subs),
		Broadcast:   h.broadcast,
		Sent:        h.sent,
		Dropped:     h.dropped,
	}
}

// Handler returns a mux serving the feed at path and a health check at /health.
func (h *Hub) Handler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := h.Stats()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"subscribers": stats.Subscribers,
			"broadcast":   stats.Broadcast,
			"dropped":     stats.Dropped,
		})
	})
	return mux
}

// ServeHTTP upgrades the request and registers the subscriber.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	markets, err := parseMarkets(r.URL.Query().Get("market"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	s := &subscriber{
		conn:    conn,
		send:    make(chan []byte, subscriberBuf),
		markets: markets,
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("feed subscriber connected", "remote", r.RemoteAddr, "markets", len(markets))

	go h.writePump(s)
	go h.readPump(s)
}

func parseMarkets(raw string) (map[int64]bool, error) {
	if raw == "" {
		return nil, nil
	}
	out := make(map[int64]bool)
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, nil
}

// broadcastLoop encodes each snapshot once and queues it for every interested
// subscriber.
func (h *Hub) broadcastLoop() {
	defer h.wg.Done()

	for {
		snap, ok := h.input.Receive(h.ctx)
		if !ok {
			return
		}

		data, err := json.Marshal(Message{
			Type:       "snapshot",
			SnapshotID: snap.ID.String(),
			MarketID:   snap.MarketID,
			ExchangeID: snap.ExchangeID,
			FetchedAt:  snap.FetchedAt,
			Prices:     snap.Prices,
			Volume:     snap.Volume,
		})
		if err != nil {
			h.logger.Error("encode snapshot failed", "market_id", snap.MarketID, "error", err)
			continue
		}

		h.mu.Lock()
		h.broadcast++
		for s := range h.subs {
			if !s.wants(snap.MarketID) {
				continue
			}
			select {
			case s.send <- data:
				h.sent++
			default:
				h.dropped++
			}
		}
		h.mu.Unlock()
	}
}

// writePump writes queued frames and pings. It owns all writes to the connection.
func (h *Hub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.remove(s)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(s)
				return
			}
		}
	}
}

// readPump discards client frames and detects disconnects.
func (h *Hub) readPump(s *subscriber) {
	defer h.remove(s)

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

// removeLocked must be called with mu held.
func (h *Hub) removeLocked(s *subscriber) {
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.send)
}
