package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Transport regions. Key/secret are shared across regions; each region
	// exposes its own API host.
	TransportAPIKey     string `env:"TRANSPORT_API_KEY,required"`
	TransportAPISecret  string `env:"TRANSPORT_API_SECRET,required"`
	TransportUSEastURL  string `env:"TRANSPORT_US_EAST_URL,required"`
	TransportAPSouthURL string `env:"TRANSPORT_AP_SOUTH_URL,required"`

	// Language-model analyzer.
	OpenAIAPIKey string `env:"OPENAI_API_KEY,required"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	CredentialTTLMinutes int `env:"CREDENTIAL_TTL_MINUTES" envDefault:"120"`
	SuggestRatePerMin    int `env:"SUGGEST_RATE_PER_MIN" envDefault:"12"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) CredentialTTL() time.Duration {
	return time.Duration(c.CredentialTTLMinutes) * time.Minute
}

func (c *Config) Validate() error {
	if len(c.TransportAPISecret) < 32 {
		return fmt.Errorf("TRANSPORT_API_SECRET must be at least 32 characters")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
