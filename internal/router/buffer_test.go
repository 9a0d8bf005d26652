package router

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestQueue_BasicSendReceive(t *testing.T) {
	q := NewQueue[int](10)

	for i := 0; i < 5; i++ {
		if !q.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	if q.Len() != 5 {
		t.Errorf("Len() = %d, want 5", q.Len())
	}

	for i := 0; i < 5; i++ {
		val, ok := q.TryReceive()
		if !ok {
			t.Fatalf("TryReceive() returned false for item %d", i)
		}
		if val != i {
			t.Errorf("received %d, want %d", val, i)
		}
	}

	if _, ok := q.TryReceive(); ok {
		t.Error("TryReceive() on empty queue returned true")
	}
}

func TestQueue_EvictsOldestWhenFull(t *testing.T) {
	q := NewQueue[int](3)

	for i := 0; i < 5; i++ {
		q.Send(i)
	}

	stats := q.Stats()
	if stats.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", stats.Dropped)
	}
	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}

	got := q.Drain()
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Drain() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Drain()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQueue_ReceiveBlocksUntilSend(t *testing.T) {
	q := NewQueue[string](4)

	var wg sync.WaitGroup
	wg.Add(1)
	var got string
	go func() {
		defer wg.Done()
		got, _ = q.Receive(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	q.Send("snap")
	wg.Wait()

	if got != "snap" {
		t.Errorf("Receive() = %q, want %q", got, "snap")
	}
}

func TestQueue_ReceiveHonoursContext(t *testing.T) {
	q := NewQueue[int](4)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, ok := q.Receive(ctx); ok {
		t.Error("Receive() on empty queue returned true after context expiry")
	}
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue[int](4)
	q.Send(1)
	q.Close()

	if q.Send(2) {
		t.Error("Send() after Close returned true")
	}

	val, ok := q.Receive(context.Background())
	if !ok || val != 1 {
		t.Errorf("Receive() = %d, %v; want remaining item", val, ok)
	}
	if _, ok := q.Receive(context.Background()); ok {
		t.Error("Receive() on closed drained queue returned true")
	}
}

func TestQueue_ConcurrentSenders(t *testing.T) {
	q := NewQueue[int](1000)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Send(i)
			}
		}()
	}
	wg.Wait()

	if q.Len() != 500 {
		t.Errorf("Len() = %d, want 500", q.Len())
	}
	if q.Stats().TotalReceived != 500 {
		t.Errorf("TotalReceived = %d, want 500", q.Stats().TotalReceived)
	}
}
