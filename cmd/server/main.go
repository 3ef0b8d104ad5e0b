package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	opt struct {
		config string
		port   int
		debug  bool
	}

	version = "0.0.1-src"
	commit  = versioninfo.Short()
)

type app struct {
	svr    *http.Server
	logger *slog.Logger
}

func main() {
	flag.StringVar(&opt.config, "config", "config.yaml", "config file path")
	flag.IntVar(&opt.port, "port", 8080, "server port")
	flag.BoolVar(&opt.debug, "debug", false, "debug mode")
	flag.Parse()

	logger := initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		logger.Error("server exit", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	v, err := initViper()
	if err != nil {
		return err
	}

	app, cleanup, err := setupApp(v, logger)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	defer cleanup()

	logger.Info("safe ledger server launched",
		"version", version,
		"commit", commit,
		"addr", app.svr.Addr,
		"driver", v.GetString("db.driver"),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.svr.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return app.svr.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func initLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if opt.debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// initViper loads the config file. Every key can be overridden from the
// environment, e.g. LEDGER_DB_DSN for db.dsn.
func initViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(opt.config)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ledger")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", opt.config, err)
	}

	return v, nil
}
