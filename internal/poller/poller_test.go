package poller

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/betfair-soap/internal/api"
	"github.com/rickgao/betfair-soap/internal/auth"
	"github.com/rickgao/betfair-soap/internal/model"
)

const (
	pricesWire = "100:111~0~1000~2.5~0~0~0~0~0~0~0|5~10~0~0~0~3~20~0~0~0"
	volumeWire = "100:111~0~2.52~150.0~75.5|2.5~10.0|2.4~20.5"
)

func envelope(op, result string) string {
	return `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` +
		`<n:` + op + `Response xmlns:n="urn:test"><n:Result>` + result + `</n:Result></n:` + op + `Response>` +
		`</soap:Body></soap:Envelope>`
}

func ok(op, token, body string) string {
	return envelope(op, `<header><errorCode>OK</errorCode><sessionToken>`+token+`</sessionToken></header>`+
		body+`<errorCode>OK</errorCode>`)
}

func noSession(op string) string {
	return envelope(op, `<header><errorCode>NO_SESSION</errorCode><sessionToken></sessionToken></header>`+
		`<errorCode>API_ERROR</errorCode>`)
}

// soapServer answers every operation the poller uses. expire makes the next
// price request report NO_SESSION.
type soapServer struct {
	*httptest.Server

	mu      sync.Mutex
	calls   map[string]int
	expire  bool
	delay   time.Duration
	current atomic.Int32
	peak    atomic.Int32
}

func newSOAPServer(t *testing.T) *soapServer {
	t.Helper()
	s := &soapServer{calls: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *soapServer) handle(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body)
	op := r.Header.Get("SOAPAction")

	n := s.current.Add(1)
	defer s.current.Add(-1)
	for {
		old := s.peak.Load()
		if n <= old || s.peak.CompareAndSwap(old, n) {
			break
		}
	}

	s.mu.Lock()
	s.calls[op]++
	expire := s.expire && op == "getCompleteMarketPricesCompressed"
	if expire {
		s.expire = false
	}
	delay := s.delay
	s.mu.Unlock()

	time.Sleep(delay)

	switch {
	case expire:
		w.Write([]byte(noSession(op)))
	case op == "login":
		w.Write([]byte(ok(op, "tok", "<currency>GBP</currency>")))
	case op == "keepAlive":
		w.Write([]byte(ok(op, "tok", "")))
	case op == "getCompleteMarketPricesCompressed":
		w.Write([]byte(ok(op, "tok", "<completeMarketPrices>"+pricesWire+"</completeMarketPrices>")))
	case op == "getMarketTradedVolumeCompressed":
		w.Write([]byte(ok(op, "tok", "<tradedVolume>"+volumeWire+"</tradedVolume>")))
	default:
		http.Error(w, "unexpected "+op, http.StatusNotFound)
	}
}

func (s *soapServer) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *soapServer) clientFactory(t *testing.T) func() *api.Client {
	t.Helper()
	creds, err := auth.NewCredentials("bettor2024", "s3cretpass")
	if err != nil {
		t.Fatalf("NewCredentials failed: %v", err)
	}
	endpoints := api.Endpoints{Global: s.URL, ExchangeUK: s.URL, ExchangeAUS: s.URL}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return func() *api.Client {
		return api.NewClient(
			api.WithEndpoints(endpoints),
			api.WithCredentials(creds),
			api.WithLogger(logger),
			api.WithTimeout(5*time.Second),
		)
	}
}

func TestPoller_PollAll(t *testing.T) {
	server := newSOAPServer(t)

	var mu sync.Mutex
	var snapshots []model.MarketSnapshot
	handler := SnapshotHandlerFunc(func(_ context.Context, s model.MarketSnapshot) error {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, s)
		return nil
	})

	cfg := DefaultConfig()
	cfg.Interval = time.Hour // Long interval, we'll trigger manually.

	p := New(cfg, server.clientFactory(t), StaticMarkets{101, 202, 303}, handler, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p.ctx = ctx

	p.pollAll()

	if len(snapshots) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(snapshots))
	}
	for _, s := range snapshots {
		if s.Prices == nil || s.Volume == nil {
			t.Errorf("market %d: snapshot missing a section", s.MarketID)
		}
		if s.ExchangeID != 1 {
			t.Errorf("ExchangeID = %d, want 1", s.ExchangeID)
		}
		if s.FetchedAt == 0 {
			t.Error("FetchedAt not set")
		}
	}

	stats := p.Stats()
	if stats.Snapshots != 3 || stats.Errors != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if got := server.count("login"); got < 1 || got > cfg.Concurrency {
		t.Errorf("logins = %d, want between 1 and %d", got, cfg.Concurrency)
	}
}

func TestPoller_PricesOnly(t *testing.T) {
	server := newSOAPServer(t)

	var got atomic.Pointer[model.MarketSnapshot]
	handler := SnapshotHandlerFunc(func(_ context.Context, s model.MarketSnapshot) error {
		got.Store(&s)
		return nil
	})

	cfg := DefaultConfig()
	cfg.Concurrency = 1
	cfg.TradedVolume = false

	p := New(cfg, server.clientFactory(t), StaticMarkets{101}, handler, nil)
	p.ctx = context.Background()
	p.pollAll()

	snap := got.Load()
	if snap == nil {
		t.Fatal("handler was never called")
	}
	if snap.Volume != nil {
		t.Error("volume fetched with TradedVolume disabled")
	}
	if server.count("getMarketTradedVolumeCompressed") != 0 {
		t.Error("traded volume endpoint called")
	}
}

func TestPoller_ReloginOnNoSession(t *testing.T) {
	server := newSOAPServer(t)

	cfg := DefaultConfig()
	cfg.Concurrency = 1

	var handled atomic.Int32
	handler := SnapshotHandlerFunc(func(context.Context, model.MarketSnapshot) error {
		handled.Add(1)
		return nil
	})

	p := New(cfg, server.clientFactory(t), StaticMarkets{101}, handler, nil)
	p.ctx = context.Background()

	p.pollAll()
	if server.count("login") != 1 {
		t.Fatalf("logins = %d, want 1", server.count("login"))
	}

	server.mu.Lock()
	server.expire = true
	server.mu.Unlock()

	p.pollAll()

	if got := server.count("login"); got != 2 {
		t.Errorf("logins = %d, want 2 after NO_SESSION", got)
	}
	if handled.Load() != 2 {
		t.Errorf("handled = %d, want 2", handled.Load())
	}
	if p.Stats().Errors != 0 {
		t.Errorf("Errors = %d, want 0", p.Stats().Errors)
	}
}

func TestPoller_KeepAlive(t *testing.T) {
	server := newSOAPServer(t)

	cfg := DefaultConfig()
	cfg.Concurrency = 2

	p := New(cfg, server.clientFactory(t), StaticMarkets{101}, nil, nil)
	p.ctx = context.Background()

	// Nobody is logged in yet: keep alive is a no-op.
	p.keepAliveAll()
	if server.count("keepAlive") != 0 {
		t.Errorf("keepAlive calls = %d, want 0", server.count("keepAlive"))
	}

	p.pollAll()
	p.keepAliveAll()

	if got := server.count("keepAlive"); got != server.count("login") {
		t.Errorf("keepAlive calls = %d, want one per logged-in client (%d)", got, server.count("login"))
	}
}

func TestPoller_StartStop(t *testing.T) {
	server := newSOAPServer(t)

	var called atomic.Bool
	handler := SnapshotHandlerFunc(func(context.Context, model.MarketSnapshot) error {
		called.Store(true)
		return nil
	})

	cfg := DefaultConfig()
	cfg.Interval = 100 * time.Millisecond

	p := New(cfg, server.clientFactory(t), StaticMarkets{101}, handler, nil)

	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for at least one poll.
	time.Sleep(150 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !called.Load() {
		t.Error("handler was never called")
	}
}

func TestPoller_Concurrency(t *testing.T) {
	server := newSOAPServer(t)
	server.delay = 30 * time.Millisecond

	var markets StaticMarkets
	for i := int64(0); i < 20; i++ {
		markets = append(markets, 1000+i)
	}

	cfg := DefaultConfig()
	cfg.Concurrency = 5 // Limit to 5 concurrent.
	cfg.TradedVolume = false

	p := New(cfg, server.clientFactory(t), markets, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	p.ctx = ctx

	p.pollAll()

	if got := server.peak.Load(); got > 5 {
		t.Errorf("peak in-flight = %d, want <= 5", got)
	}
	if got := p.Stats().Snapshots; got != 20 {
		t.Errorf("Snapshots = %d, want 20", got)
	}
}

func TestPoller_FailedMarketCountsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	creds, _ := auth.NewCredentials("bettor2024", "s3cretpass")
	factory := func() *api.Client {
		return api.NewClient(
			api.WithEndpoints(api.Endpoints{Global: server.URL, ExchangeUK: server.URL}),
			api.WithCredentials(creds),
			api.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)
	}

	cfg := DefaultConfig()
	cfg.Concurrency = 1
	p := New(cfg, factory, StaticMarkets{101}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.ctx = context.Background()

	p.pollAll()

	if got := p.Stats().Errors; got != 1 {
		t.Errorf("Errors = %d, want 1", got)
	}
	if got := p.Stats().Snapshots; got != 0 {
		t.Errorf("Snapshots = %d, want 0", got)
	}
}
