// Command gridpathd serves grid path searches, saved paths and live
// playback over HTTP and WebSocket, optionally mirroring frames to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/gridpath/internal/api"
	"github.com/katalvlaran/gridpath/internal/config"
	"github.com/katalvlaran/gridpath/internal/mqtt"
	"github.com/katalvlaran/gridpath/internal/storage"
	"github.com/katalvlaran/gridpath/internal/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a gridpathd YAML config")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("system.fatal", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var opts []api.Option
	if cfg.MQTT.Enabled {
		pub := mqtt.New(cfg.MQTT, logger)
		if err := pub.Connect(); err != nil {
			return err
		}
		defer pub.Close()
		logger.Info("mqtt.connected", "broker", cfg.MQTT.Broker)
		opts = append(opts, api.WithSinkFactory(pub.Sink))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewServer(cfg, store, logger, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("system.startup", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("system.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Driver == config.DriverPostgres {
		return postgres.Open(ctx, cfg.Postgres.DSN())
	}
	return storage.NewMemory(), nil
}
