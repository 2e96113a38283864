package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/books-api/cmd/api/book"
	"github.com/books-api/cmd/api/config"
	bookhttp "github.com/books-api/cmd/api/http"
	"github.com/books-api/cmd/api/logger"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:  "books-api",
		Usage: "CRUD HTTP service for books",
		Flags: config.Flags(),
		Action: func(c *cli.Context) error {
			cfg := config.FromContext(c)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			log := logger.New(logger.Config{
				Level:  cfg.LogLevel,
				Format: logger.ParseFormat(cfg.LogFormat),
			})
			return run(cfg, log)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	repo, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	bookService := book.NewService(repo)
	bookHandler := bookhttp.NewBookHandler(bookService)

	//create and init http server:
	server := bookhttp.NewServer(bookhttp.ServerConfig{Port: cfg.Port, Logger: &log}, bookHandler)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("base_path", bookhttp.BasePath).Msg("http server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("unexpected http server error: %w", err)
		}
		close(serverErr)
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sc)

	select {
	case err := <-serverErr:
		return err
	case sig := <-sc:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownRelease()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	log.Info().Msg("Graceful shutdown complete.")
	return nil
}
