package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Giveaway struct {
		// Role required to run admin commands (create, edit, end, cancel, reroll).
		AdminRoleID string `env:"GIVEAWAY_ADMIN_ROLE_ID,required"`

		// Domains accepted for thumbnail URLs in addition to the extension check.
		ImageDomains []string `env:"GIVEAWAY_IMAGE_DOMAINS" envSeparator:"," envDefault:"tr.rbxcdn.com"`

		ReviewTimeout  time.Duration `env:"GIVEAWAY_REVIEW_TIMEOUT" envDefault:"15m"`
		ConfirmTimeout time.Duration `env:"GIVEAWAY_CONFIRM_TIMEOUT" envDefault:"30s"`
		FormTimeout    time.Duration `env:"GIVEAWAY_FORM_TIMEOUT" envDefault:"60s"`
	}

	Redis struct {
		// The archive of closed giveaways is optional; with Enabled=false the
		// bot runs fully in-memory and reroll falls back to message parsing.
		Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`

		ArchiveSize int           `env:"REDIS_ARCHIVE_SIZE" envDefault:"100"`
		ArchiveTTL  time.Duration `env:"REDIS_ARCHIVE_TTL" envDefault:"168h"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// No .env file is fine, variables may be set directly in the environment.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
