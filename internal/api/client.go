package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/betfair-soap/internal/auth"
)

// Exchange selects the exchange-service endpoint.
type Exchange int

const (
	ExchangeUK  Exchange = 1
	ExchangeAUS Exchange = 2
)

// Endpoints holds the service URLs.
type Endpoints struct {
	Global      string
	ExchangeUK  string
	ExchangeAUS string
}

// DefaultEndpoints are the production service URLs.
var DefaultEndpoints = Endpoints{
	Global:      "https://api.betfair.com/global/v3/BFGlobalService",
	ExchangeUK:  "https://api.betfair.com/exchange/v5/BFExchangeService",
	ExchangeAUS: "https://api-au.betfair.com/exchange/v5/BFExchangeService",
}

// Client is a stateful session facade over the Betfair SOAP services.
type Client struct {
	endpoints  Endpoints
	exchange   Exchange
	httpClient *http.Client
	logger     *slog.Logger
	creds      *auth.Credentials

	token   string
	session Session
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new SOAP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		endpoints: DefaultEndpoints,
		exchange:  ExchangeUK,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoints overrides the service URLs.
func WithEndpoints(e Endpoints) ClientOption {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithExchange sets the exchange used by the typed exchange wrappers.
func WithExchange(x Exchange) ClientOption {
	return func(c *Client) {
		c.exchange = x
	}
}

// WithCredentials sets the credentials used by Login.
func WithCredentials(creds *auth.Credentials) ClientOption {
	return func(c *Client) {
		c.creds = creds
	}
}

// Exchange returns the exchange used by the typed wrappers.
func (c *Client) Exchange() Exchange {
	return c.exchange
}

func (c *Client) endpoint(x Exchange) (string, bool) {
	switch x {
	case ExchangeUK:
		return c.endpoints.ExchangeUK, true
	case ExchangeAUS:
		return c.endpoints.ExchangeAUS, true
	default:
		return "", false
	}
}
