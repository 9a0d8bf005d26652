package router

import (
	"context"
	"testing"

	"github.com/rickgao/betfair-soap/internal/model"
)

func TestRouter_FansOut(t *testing.T) {
	r := NewRouter(nil)
	storage := r.Subscribe("writer", 10)
	feed := r.Subscribe("feed", 10)

	snap := model.MarketSnapshot{MarketID: 101, ExchangeID: 1}
	if err := r.HandleSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("HandleSnapshot() error = %v", err)
	}

	for name, q := range map[string]*Queue[model.MarketSnapshot]{"writer": storage, "feed": feed} {
		got, ok := q.TryReceive()
		if !ok {
			t.Fatalf("%s queue empty", name)
		}
		if got.MarketID != 101 {
			t.Errorf("%s MarketID = %d, want 101", name, got.MarketID)
		}
	}

	stats := r.Stats()
	if stats.Routed != 1 {
		t.Errorf("Routed = %d, want 1", stats.Routed)
	}
	if len(stats.Outputs) != 2 {
		t.Errorf("Outputs = %d, want 2", len(stats.Outputs))
	}
}

func TestRouter_SubscribeIsIdempotent(t *testing.T) {
	r := NewRouter(nil)
	a := r.Subscribe("writer", 10)
	b := r.Subscribe("writer", 99)
	if a != b {
		t.Error("Subscribe() with an existing name returned a new queue")
	}
}

func TestRouter_ClosedOutputsAreCounted(t *testing.T) {
	r := NewRouter(nil)
	r.Subscribe("feed", 10)
	r.Close()

	r.HandleSnapshot(context.Background(), model.MarketSnapshot{MarketID: 1})

	if got := r.Stats().Refused; got != 1 {
		t.Errorf("Refused = %d, want 1", got)
	}
}
