// The worker daemon polls the job queue and executes bill-date generation
// and shell jobs. Jobs are submitted out-of-band (see cmd/billq); the
// queue table is the process's only input channel.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/dkarlsen/billdates/internal/metrics"
	"github.com/dkarlsen/billdates/internal/recurrence"
	"github.com/dkarlsen/billdates/internal/storage/sqlite"
	"github.com/dkarlsen/billdates/internal/worker"
	"github.com/dkarlsen/billdates/pkg/logging"
)

func main() {
	v := viper.New()
	v.SetDefault("db_path", "./data/bills.db")
	v.SetDefault("poll_interval", worker.DefaultPollInterval)
	v.SetDefault("shell_timeout", worker.DefaultShellTimeout)
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("BILLDATES")
	v.AutomaticEnv()

	logging.SetupWithLevel(logging.Level(v.GetString("log_level")))

	store, err := sqlite.New(v.GetString("db_path"))
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", v.GetString("db_path"))

	// Metrics listener; the worker has no other HTTP surface.
	metricsAddr := v.GetString("metrics_addr")
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			slog.Info("Metrics listener starting", "address", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				slog.Error("Metrics listener failed", "error", err)
			}
		}()
	}

	engine := recurrence.NewEngine(store)
	consumer := worker.New(store, engine, worker.SystemdHeartbeat{}, worker.Config{
		PollInterval: v.GetDuration("poll_interval"),
		ShellTimeout: v.GetDuration("shell_timeout"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Worker started", "time", time.Now().Format(time.DateTime))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Consumer exited", "error", err)
		os.Exit(1)
	}
}
