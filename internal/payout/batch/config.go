package batch

import "time"

// Config controls the batch payout worker loop.
type Config struct {
	Enabled      bool
	PollInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		PollInterval: time.Hour,
	}
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultConfig().PollInterval
	}
	return c
}
