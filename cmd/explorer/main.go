package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/stats19/collision-explorer/internal/core/config"
	"github.com/stats19/collision-explorer/internal/core/model"
	"github.com/stats19/collision-explorer/internal/core/observability"
	"github.com/stats19/collision-explorer/internal/core/router"
	"github.com/stats19/collision-explorer/internal/core/server"
	"github.com/stats19/collision-explorer/internal/dataset"
	"github.com/stats19/collision-explorer/internal/insights"
	"github.com/stats19/collision-explorer/internal/logger"
	"github.com/stats19/collision-explorer/internal/mapbuilder"
	"github.com/stats19/collision-explorer/internal/metrics"
	"github.com/stats19/collision-explorer/internal/session"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

type datasetReadiness struct{ ds *dataset.Dataset }

func (d datasetReadiness) Readiness() (bool, int) {
	return d.ds != nil && d.ds.Len() > 0, d.ds.Len()
}

func run() int {
	datasetFlag := flag.String("dataset", "", "path to the collision dataset (overrides DATASET_PATH)")
	flag.Parse()

	cfg := config.FromEnv()
	if *datasetFlag != "" {
		cfg.DatasetPath = strings.TrimSpace(*datasetFlag)
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		Component: "explorer",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	observability.ExposeBuildInfo(Version)
	appLog.Info("starting explorer",
		"addr", cfg.Addr,
		"version", Version,
		"dataset", cfg.DatasetPath,
		"driver", cfg.DatasetDriver)

	// dataset load failures are fatal to startup
	var ds *dataset.Dataset
	var err error
	switch cfg.DatasetDriver {
	case "sqlite":
		ds, err = dataset.LoadSQLite(cfg.DatasetPath, cfg.DatasetTable)
	case "csv":
		ds, err = dataset.LoadCSV(cfg.DatasetPath)
	default:
		appLog.Error("unknown dataset driver", "driver", cfg.DatasetDriver)
		return 1
	}
	if err != nil {
		appLog.Error("dataset load failed", "err", err)
		return 1
	}
	observability.SetDatasetRecords(ds.Len(), ds.Dropped())
	appLog.Info("dataset loaded", "records", ds.Len(), "dropped", ds.Dropped())

	defaultMode, err := model.ParseMode(cfg.DefaultMode)
	if err != nil {
		appLog.Error("bad DEFAULT_MODE", "err", err)
		return 1
	}

	builder, err := mapbuilder.New(mapbuilder.Config{
		ClusterRes: cfg.ClusterRes,
		HeatRadius: cfg.HeatRadius,
		HeatBlur:   cfg.HeatBlur,
	})
	if err != nil {
		appLog.Error("map builder setup failed", "err", err)
		return 1
	}

	sessions, err := session.NewRegistry(cfg.SessionMax, ds, builder, ds.Domains().DefaultSpec(defaultMode))
	if err != nil {
		appLog.Error("session registry setup failed", "err", err)
		return 1
	}

	report := insights.Compute(ds)
	api := router.New(appLog, sessions, ds.Domains(), report)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsEnabled {
		p := metrics.Init(metrics.Config{
			Enabled: true,
			Addr:    cfg.MetricsAddr,
			Path:    cfg.MetricsPath,
		})

		mux := http.NewServeMux()
		mux.Handle(p.Path(), p.Handler())

		srv := &http.Server{
			Addr:              p.Addr(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		go func() {
			log.Printf("metrics: listening on %s%s", p.Addr(), p.Path())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server exited: %v", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("metrics: shutdown error: %v", err)
			}
		}()
	}

	if err := server.Run(ctx, cfg, appLog, api, datasetReadiness{ds: ds}); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
