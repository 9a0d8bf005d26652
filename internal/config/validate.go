package config

import (
	"errors"
	"fmt"

	"github.com/rickgao/betfair-soap/internal/validate"
)

// Validate checks that all required fields are set and values are valid.
func (c *RecorderConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if !validate.Check(validate.TagExchangeID, c.API.Exchange) {
		return fmt.Errorf("api.exchange must be 1 (UK) or 2 (Australia), got %d", c.API.Exchange)
	}

	if err := c.Credentials.validate("credentials"); err != nil {
		return err
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if len(c.Poller.MarketIDs) == 0 && len(c.Poller.EventTypeIDs) == 0 {
		return errors.New("poller.market_ids or poller.event_type_ids must list at least one id")
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}
	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}

	if c.Writer.BatchSize < 1 {
		return errors.New("writer.batch_size must be >= 1")
	}
	if c.Writer.BufferSize < 1 {
		return errors.New("writer.buffer_size must be >= 1")
	}

	if c.Feed.Enabled && (c.Feed.Port < 1 || c.Feed.Port > 65535) {
		return fmt.Errorf("feed.port must be between 1 and 65535, got %d", c.Feed.Port)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	return nil
}

func (cr *CredentialsConfig) validate(prefix string) error {
	if !validate.Check(validate.TagUsername, cr.Username) {
		return fmt.Errorf("%s.username must be 8-20 alphanumeric characters", prefix)
	}
	switch {
	case cr.Password == "" && cr.PasswordFile == "":
		return fmt.Errorf("%s.password or %s.password_file is required", prefix, prefix)
	case cr.Password != "" && cr.PasswordFile != "":
		return fmt.Errorf("%s.password and %s.password_file are mutually exclusive", prefix, prefix)
	case cr.Password != "" && !validate.Check(validate.TagPassword, cr.Password):
		return fmt.Errorf("%s.password must be 8-20 characters", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
