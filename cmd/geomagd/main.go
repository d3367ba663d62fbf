package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signalsfoundry/geomag-engine/core"
	"github.com/signalsfoundry/geomag-engine/internal/api"
	"github.com/signalsfoundry/geomag-engine/internal/logging"
	"github.com/signalsfoundry/geomag-engine/internal/observability"
	"github.com/signalsfoundry/geomag-engine/model"
	"github.com/signalsfoundry/geomag-engine/store"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	listenAddr := flag.String("listen-addr", "", "HTTP listen address (overrides config)")
	modelPath := flag.String("model", "", "Path to a coefficient file (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logging.NewFromEnv().Error(context.Background(), "failed to load config", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *modelPath != "" {
		cfg.ModelPath = *modelPath
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewQueryCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	set, err := loadModelFile(cfg.ModelPath)
	if err != nil {
		log.Error(ctx, "failed to load coefficient model",
			logging.String("path", cfg.ModelPath),
			logging.String("error", err.Error()),
		)
		os.Exit(1)
	}

	modelStore, err := store.New(set)
	if err != nil {
		log.Error(ctx, "failed to initialise model store", logging.String("error", err.Error()))
		os.Exit(1)
	}
	modelStore.Subscribe(func(ev store.Event) {
		collector.SetModelInfo(modelStore.Current())
		log.Info(ctx, "coefficient model swapped",
			logging.String("name", ev.Name),
			logging.Float64("epoch", ev.Epoch),
			logging.Int("max_degree", ev.MaxDegree),
		)
	})
	collector.SetModelInfo(set)

	log.Info(ctx, "loaded coefficient model",
		logging.String("name", set.Name()),
		logging.Float64("epoch", set.Epoch()),
		logging.Int("max_degree", set.MaxDegree()),
	)

	server := api.NewServer(modelStore, log, collector)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Router(),
	}

	go func() {
		log.Info(ctx, "starting geomagd", logging.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server exited", logging.String("error", err.Error()))
		}
	}()

	// SIGHUP reloads the coefficient file through the store; in-flight
	// queries keep the set they started with.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			next, err := loadModelFile(cfg.ModelPath)
			if err != nil {
				log.Error(ctx, "model reload failed; keeping current model",
					logging.String("path", cfg.ModelPath),
					logging.String("error", err.Error()),
				)
				continue
			}
			if _, err := modelStore.Swap(next); err != nil {
				log.Error(ctx, "model swap failed", logging.String("error", err.Error()))
			}
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down geomagd")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func loadModelFile(path string) (*model.CoefficientSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.LoadCoefficientSet(f)
}
