package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/betfair-soap/internal/model"
)

func TestClient_ReceivesFilteredSnapshots(t *testing.T) {
	hub, input, server := startHub(t)

	cfg := DefaultClientConfig("ws" + strings.TrimPrefix(server.URL, "http") + "/ws/prices")
	cfg.Markets = []int64{202}
	client := NewClient(cfg, nil)
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { client.Close() })

	waitForSubscribers(t, hub, 1)
	assert.True(t, client.IsConnected())

	input.Send(model.MarketSnapshot{ID: uuid.New(), MarketID: 101})
	input.Send(model.MarketSnapshot{ID: uuid.New(), MarketID: 202, Prices: &model.MarketPrices{MarketID: 202}})

	select {
	case msg := <-client.Messages():
		assert.Equal(t, int64(202), msg.MarketID)
		require.NotNil(t, msg.Prices)
		assert.False(t, msg.ReceivedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestClient_ReportsDisconnect(t *testing.T) {
	hub, _, server := startHub(t)

	client := NewClient(DefaultClientConfig("ws"+strings.TrimPrefix(server.URL, "http")+"/ws/prices"), nil)
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { client.Close() })
	waitForSubscribers(t, hub, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, hub.Stop(ctx))

	select {
	case err := <-client.Errors():
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect not reported")
	}
	assert.Eventually(t, func() bool { return !client.IsConnected() }, time.Second, 10*time.Millisecond)
}

func TestClient_SilentHubIsStale(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("ws" + strings.TrimPrefix(server.URL, "http"))
	cfg.PingTimeout = 100 * time.Millisecond
	client := NewClient(cfg, nil)
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { client.Close() })

	select {
	case err := <-client.Errors():
		assert.ErrorIs(t, err, ErrStaleConnection)
	case <-time.After(2 * time.Second):
		t.Fatal("stale feed not reported")
	}
}

func TestClient_CloseIsFinal(t *testing.T) {
	client := NewClient(DefaultClientConfig("ws://127.0.0.1:1/ws/prices"), nil)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Connect(context.Background()), ErrAlreadyClosed)
}

func TestClient_Target(t *testing.T) {
	cfg := DefaultClientConfig("ws://localhost:8081/ws/prices")
	cfg.Markets = []int64{101, 202}
	target, err := NewClient(cfg, nil).target()
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8081/ws/prices?market=101%2C202", target)
}
