package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rickgao/betfair-soap/internal/auth"
)

// SlogLevel maps the configured level name to a slog level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level %q is not one of debug, info, warn, error", l.Level)
	}
}

// NewLogger builds a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Load builds login credentials, reading the password file when one is set.
func (cr CredentialsConfig) Load() (*auth.Credentials, error) {
	password := cr.Password
	if cr.PasswordFile != "" {
		p, err := auth.LoadPassword(cr.PasswordFile)
		if err != nil {
			return nil, err
		}
		password = p
	}

	creds := &auth.Credentials{
		Username:         cr.Username,
		Password:         password,
		ProductID:        cr.ProductID,
		VendorSoftwareID: cr.VendorSoftwareID,
		LocationID:       cr.LocationID,
		IPAddress:        cr.IPAddress,
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	return creds, nil
}
