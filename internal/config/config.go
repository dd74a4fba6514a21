// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8081"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`
	LogDebug bool   `env:"LOG_DEBUG" envDefault:"false"`

	// Ollama generation endpoint used for explanations and chat replies.
	OllamaHost string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	GenModel   string `env:"GEN_MODEL" envDefault:"mistral"`
	// ExplainTimeout bounds a single generation call. Failures past this
	// point yield the fallback text, never an error.
	ExplainTimeout time.Duration `env:"EXPLAIN_TIMEOUT" envDefault:"60s"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:4200"`

	JWTSecret string `env:"JWT_SECRET"`
	// SessionTTL is how long a minted session token stays valid.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}
