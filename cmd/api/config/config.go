// Package config resolves the service configuration from an optional .env
// file, the environment and command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const (
	DefaultPort            = 3000
	DefaultMigrationsPath  = "cmd/api/database/migrations"
	DefaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	Port            int
	Storage         string
	DatabaseURL     string
	MigrationsPath  string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// LoadDotEnv loads the given files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Usage:   "HTTP port to listen on",
			EnvVars: []string{"PORT"},
			Value:   DefaultPort,
		},
		&cli.StringFlag{
			Name:    "storage",
			Usage:   "book store: postgres or memory (default: postgres when a database URL is set)",
			EnvVars: []string{"STORAGE"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Postgres connection string",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "migrations-path",
			Usage:   "directory holding the SQL migrations",
			EnvVars: []string{"DATABASE_MIGRATIONS_PATH"},
			Value:   DefaultMigrationsPath,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn or error",
			EnvVars: []string{"LOG_LEVEL"},
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "console or json",
			EnvVars: []string{"LOG_FORMAT"},
			Value:   "console",
		},
		&cli.DurationFlag{
			Name:    "shutdown-timeout",
			Usage:   "time allowed for in-flight requests on shutdown",
			EnvVars: []string{"SHUTDOWN_TIMEOUT"},
			Value:   DefaultShutdownTimeout,
		},
	}
}

func FromContext(c *cli.Context) Config {
	cfg := Config{
		Port:            c.Int("port"),
		Storage:         c.String("storage"),
		DatabaseURL:     c.String("database-url"),
		MigrationsPath:  c.String("migrations-path"),
		LogLevel:        c.String("log-level"),
		LogFormat:       c.String("log-format"),
		ShutdownTimeout: c.Duration("shutdown-timeout"),
	}
	if cfg.Storage == "" {
		cfg.Storage = StorageMemory
		if cfg.DatabaseURL != "" {
			cfg.Storage = StoragePostgres
		}
	}
	return cfg
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("postgres storage requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown storage %q: must be %s or %s", c.Storage, StoragePostgres, StorageMemory)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %s", c.ShutdownTimeout)
	}
	return nil
}
