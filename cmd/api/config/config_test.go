package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/books-api/cmd/api/config"
	"github.com/matryer/is"
	"github.com/urfave/cli/v2"
)

// parse runs a throwaway cli app with the service flags and returns the resolved config.
func parse(t *testing.T, args ...string) config.Config {
	t.Helper()
	var cfg config.Config
	app := &cli.App{
		Name:  "books-api",
		Flags: config.Flags(),
		Action: func(c *cli.Context) error {
			cfg = config.FromContext(c)
			return nil
		},
	}
	if err := app.Run(append([]string{"books-api"}, args...)); err != nil {
		t.Fatalf("running app: %v", err)
	}
	return cfg
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE", "DATABASE_URL", "DATABASE_MIGRATIONS_PATH", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromContext(t *testing.T) {

	t.Run("uses defaults without env or flags", func(t *testing.T) {
		is := is.New(t)
		clearEnv(t)

		cfg := parse(t)
		is.Equal(cfg.Port, 3000)
		is.Equal(cfg.Storage, config.StorageMemory)
		is.Equal(cfg.MigrationsPath, config.DefaultMigrationsPath)
		is.Equal(cfg.LogLevel, "info")
		is.Equal(cfg.ShutdownTimeout, 10*time.Second)
		is.NoErr(cfg.Validate())
	})

	t.Run("reads the environment", func(t *testing.T) {
		is := is.New(t)
		clearEnv(t)
		t.Setenv("PORT", "8081")
		t.Setenv("DATABASE_URL", "postgres://localhost/books")

		cfg := parse(t)
		is.Equal(cfg.Port, 8081)
		is.Equal(cfg.DatabaseURL, "postgres://localhost/books")
		is.Equal(cfg.Storage, config.StoragePostgres)
	})

	t.Run("flags win over the environment", func(t *testing.T) {
		is := is.New(t)
		clearEnv(t)
		t.Setenv("PORT", "8081")
		t.Setenv("DATABASE_URL", "postgres://localhost/books")

		cfg := parse(t, "--port", "9090", "--storage", "memory")
		is.Equal(cfg.Port, 9090)
		is.Equal(cfg.Storage, config.StorageMemory)
	})
}

func TestValidate(t *testing.T) {
	valid := config.Config{Port: 3000, Storage: config.StorageMemory, ShutdownTimeout: time.Second}

	t.Run("accepts a memory config", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(valid.Validate())
	})

	t.Run("rejects an out of range port", func(t *testing.T) {
		is := is.New(t)
		cfg := valid
		cfg.Port = 70000
		is.True(cfg.Validate() != nil)
	})

	t.Run("rejects postgres without a url", func(t *testing.T) {
		is := is.New(t)
		cfg := valid
		cfg.Storage = config.StoragePostgres
		is.True(cfg.Validate() != nil)
	})

	t.Run("rejects an unknown storage", func(t *testing.T) {
		is := is.New(t)
		cfg := valid
		cfg.Storage = "mongo"
		is.True(cfg.Validate() != nil)
	})
}

func TestLoadDotEnv(t *testing.T) {

	t.Run("loads variables without overriding the environment", func(t *testing.T) {
		is := is.New(t)
		clearEnv(t)
		t.Setenv("PORT", "4000")

		path := filepath.Join(t.TempDir(), ".env")
		is.NoErr(os.WriteFile(path, []byte("PORT=5000\nLOG_LEVEL=debug\n"), 0o600))

		is.NoErr(config.LoadDotEnv(path))
		is.Equal(os.Getenv("PORT"), "4000")
		is.Equal(os.Getenv("LOG_LEVEL"), "debug")
		os.Unsetenv("LOG_LEVEL")
	})

	t.Run("ignores a missing file", func(t *testing.T) {
		is := is.New(t)

		is.NoErr(config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
	})
}
