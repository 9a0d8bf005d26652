package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGlobalURL         = "https://api.betfair.com/global/v3/BFGlobalService"
	DefaultExchangeUKURL     = "https://api.betfair.com/exchange/v5/BFExchangeService"
	DefaultExchangeAUSURL    = "https://api-au.betfair.com/exchange/v5/BFExchangeService"
	DefaultExchange          = 1
	DefaultAPITimeout        = 30 * time.Second
	DefaultProductID         = 82
	DefaultIPAddress         = "0"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultPollInterval      = 5 * time.Second
	DefaultPollConcurrency   = 4
	DefaultKeepAliveInterval = 10 * time.Minute
	DefaultReconcileInterval = 1 * time.Minute
	DefaultBatchSize         = 500
	DefaultFlushInterval     = 1 * time.Second
	DefaultBufferSize        = 10000
	DefaultFeedPort          = 8081
	DefaultFeedPath          = "/ws/prices"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

func (c *RecorderConfig) applyDefaults() {
	// API defaults
	if c.API.GlobalURL == "" {
		c.API.GlobalURL = DefaultGlobalURL
	}
	if c.API.ExchangeUKURL == "" {
		c.API.ExchangeUKURL = DefaultExchangeUKURL
	}
	if c.API.ExchangeAUSURL == "" {
		c.API.ExchangeAUSURL = DefaultExchangeAUSURL
	}
	if c.API.Exchange == 0 {
		c.API.Exchange = DefaultExchange
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Credentials defaults
	if c.Credentials.ProductID == 0 {
		c.Credentials.ProductID = DefaultProductID
	}
	if c.Credentials.IPAddress == "" {
		c.Credentials.IPAddress = DefaultIPAddress
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.KeepAliveInterval == 0 {
		c.Poller.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if c.Poller.ReconcileInterval == 0 {
		c.Poller.ReconcileInterval = DefaultReconcileInterval
	}

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Writer.BufferSize == 0 {
		c.Writer.BufferSize = DefaultBufferSize
	}

	// Feed defaults
	if c.Feed.Port == 0 {
		c.Feed.Port = DefaultFeedPort
	}
	if c.Feed.Path == "" {
		c.Feed.Path = DefaultFeedPath
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
