package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrStaleConnection = errors.New("feed stale: no ping from hub")
	ErrAlreadyClosed   = errors.New("feed client closed")
)

// ClientConfig configures a feed subscriber.
type ClientConfig struct {
	URL          string        // ws://host:port/ws/prices
	Markets      []int64       // empty subscribes to every market
	BufferSize   int           // undelivered frames kept before dropping
	WriteTimeout time.Duration // pong deadline
	PingTimeout  time.Duration // silence after which the feed is stale
}

// DefaultClientConfig returns sensible defaults for url.
func DefaultClientConfig(url string) ClientConfig {
	return ClientConfig{
		URL:          url,
		BufferSize:   256,
		WriteTimeout: 5 * time.Second,
		PingTimeout:  2 * pongWait,
	}
}

// Received is a decoded feed frame with its local receive time.
type Received struct {
	Message
	ReceivedAt time.Time
}

// Client subscribes to a recorder's snapshot feed. Frames arrive on Messages;
// the first read failure arrives on Errors and ends the subscription.
type Client struct {
	cfg    ClientConfig
	logger *slog.Logger

	messages chan Received
	errors   chan error
	closing  chan struct{}

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
}

// NewClient creates a feed client. Call Connect to start receiving.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1
	}
	return &Client{
		cfg:      cfg,
		logger:   logger,
		messages: make(chan Received, cfg.BufferSize),
		errors:   make(chan error, 1),
		closing:  make(chan struct{}),
	}
}

// Connect dials the feed with the configured market filter.
func (c *Client) Connect(ctx context.Context) error {
	target, err := c.target()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrAlreadyClosed
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}

	// Every hub ping pushes the read deadline out; silence trips it.
	conn.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout))
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(c.cfg.WriteTimeout))
	})

	c.conn = conn
	c.connected = true
	go c.readLoop(conn)

	c.logger.Debug("feed connected", "url", target)
	return nil
}

func (c *Client) target() (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	if len(c.cfg.Markets) == 0 {
		return u.String(), nil
	}

	ids := make([]string, len(c.cfg.Markets))
	for i, id := range c.cfg.Markets {
		ids[i] = strconv.FormatInt(id, 10)
	}
	q := u.Query()
	q.Set("market", strings.Join(ids, ","))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Close sends a normal closure and releases the connection. It is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.connected = false
	close(c.closing)

	if c.conn == nil {
		return nil
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

func (c *Client) Messages() <-chan Received {
	return c.messages
}

func (c *Client) Errors() <-chan error {
	return c.errors
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		at := time.Now()
		if err != nil {
			c.report(err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("undecodable feed frame", "error", err, "size", len(data))
			continue
		}

		select {
		case c.messages <- Received{Message: msg, ReceivedAt: at}:
		case <-c.closing:
			return
		default:
			c.logger.Warn("feed buffer full, frame dropped", "market_id", msg.MarketID)
		}
	}
}

// report delivers a read failure unless Close caused it.
func (c *Client) report(err error) {
	select {
	case <-c.closing:
		return
	default:
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		c.logger.Warn("feed stale", "timeout", c.cfg.PingTimeout)
		err = ErrStaleConnection
	}

	select {
	case c.errors <- err:
	default:
	}
}
