package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Books.validate(); err != nil {
		return fmt.Errorf("books: %w", err)
	}
	if c.Reference.MaxAttempts < 1 {
		return fmt.Errorf("reference.max_attempts must be >= 1 (got %d)", c.Reference.MaxAttempts)
	}
	if err := c.Publisher.validate(); err != nil {
		return fmt.Errorf("publisher: %w", err)
	}
	if err := c.Outbox.validate(); err != nil {
		return fmt.Errorf("outbox: %w", err)
	}
	if c.Outbox.ClaimTTL <= c.Publisher.SendTimeout {
		return fmt.Errorf("outbox.claim_ttl (%s) must exceed publisher.send_timeout (%s)", c.Outbox.ClaimTTL, c.Publisher.SendTimeout)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("rate_limit: requests_per_second and burst must be positive when enabled")
	}
	if c.AMQP.URL == "" || c.AMQP.Exchange == "" {
		return fmt.Errorf("amqp: url and exchange are required")
	}

	return nil
}

func (l LogConfig) validate() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("unknown level %q", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
}

func (b BooksConfig) validate() error {
	if b.MaxTitleLength < 1 {
		return fmt.Errorf("max_title_length must be >= 1 (got %d)", b.MaxTitleLength)
	}
	if b.MaxNameLength < 1 {
		return fmt.Errorf("max_name_length must be >= 1 (got %d)", b.MaxNameLength)
	}
	if b.TxMaxAttempts < 1 {
		return fmt.Errorf("tx_max_attempts must be >= 1 (got %d)", b.TxMaxAttempts)
	}
	return nil
}

func (p PublisherConfig) validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", p.MaxAttempts)
	}
	if p.JitterFactor < 0 || p.JitterFactor > 1 {
		return fmt.Errorf("jitter_factor must be in [0,1] (got %v)", p.JitterFactor)
	}
	if p.MaxDelay > 0 && p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("max_delay must not be below base_delay")
	}
	return nil
}

func (o OutboxConfig) validate() error {
	if o.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1 (got %d)", o.BatchSize)
	}
	if o.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0 (got %s)", o.PollInterval)
	}
	if o.ClaimTTL <= 0 {
		return fmt.Errorf("claim_ttl must be > 0 (got %s)", o.ClaimTTL)
	}
	return nil
}
