package config

import "time"

// RecorderConfig is the root configuration for a price recorder instance.
type RecorderConfig struct {
	Instance    InstanceConfig    `yaml:"instance"`
	API         APIConfig         `yaml:"api"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Database    DBConfig          `yaml:"database"`
	Poller      PollerConfig      `yaml:"poller"`
	Writer      WriterConfig      `yaml:"writer"`
	Feed        FeedConfig        `yaml:"feed"`
	Log         LogConfig         `yaml:"log"`
}

// InstanceConfig identifies this recorder.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds Betfair service settings.
type APIConfig struct {
	GlobalURL      string        `yaml:"global_url"`
	ExchangeUKURL  string        `yaml:"exchange_uk_url"`
	ExchangeAUSURL string        `yaml:"exchange_aus_url"`
	Exchange       int           `yaml:"exchange"` // 1 = UK, 2 = Australia
	Timeout        time.Duration `yaml:"timeout"`
}

// CredentialsConfig holds the login parameters. Password may be given inline
// (usually as ${VAR}) or read from PasswordFile.
type CredentialsConfig struct {
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	PasswordFile     string `yaml:"password_file"`
	ProductID        int    `yaml:"product_id"`
	VendorSoftwareID int    `yaml:"vendor_software_id"`
	LocationID       int    `yaml:"location_id"`
	IPAddress        string `yaml:"ip_address"`
}

// DBConfig holds the PostgreSQL connection for snapshot storage.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PollerConfig holds market polling settings.
type PollerConfig struct {
	Interval          time.Duration `yaml:"interval"`
	Concurrency       int           `yaml:"concurrency"`
	KeepAliveInterval time.Duration `yaml:"keep_alive_interval"`
	MarketIDs         []int64       `yaml:"market_ids"`
	EventTypeIDs      []int64       `yaml:"event_type_ids"` // follow the next market of each
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	Locale            string        `yaml:"locale"`
	TradedVolume      *bool         `yaml:"traded_volume"` // default true
}

// WriterConfig holds batch writer settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// FeedConfig holds the websocket price feed settings.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// RecordVolume reports whether traded volume is fetched alongside prices.
func (p PollerConfig) RecordVolume() bool {
	return p.TradedVolume == nil || *p.TradedVolume
}
