package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/metricsserver"
	"go.ntppool.org/common/version"

	"github.com/abh/reconciled/config"
	"github.com/abh/reconciled/coordinator"
	"github.com/abh/reconciled/metrics"
	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/producers"
)

// ServeCmd is the production entrypoint, grounded on
// cmd/rrr-server/main.go's CLI/run shape: load configuration, build
// producers, run the coordinator until a shutdown signal, and expose
// Prometheus metrics throughout.
type ServeCmd struct {
	ConfigFile string `arg:"" help:"Path to coordinator config YAML." type:"path"`

	MetricsPort int    `default:"9090" help:"Port for metrics server."`
	LogLevel    string `default:"info" help:"Log level (debug, info, warn, error)."`
	Verbose     bool   `short:"v" help:"Enable verbose logging."`
}

// Run implements kong's command interface.
func (c *ServeCmd) Run() error {
	if c.Verbose {
		os.Setenv("LOG_LEVEL", "DEBUG")
	} else if c.LogLevel != "" {
		os.Setenv("LOG_LEVEL", c.LogLevel)
	}
	log := logger.Setup()

	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log.Info("starting reconciled serve",
		"version", version.Version(),
		"config", c.ConfigFile,
		"platforms", len(cfg.Platforms),
		"batch_size", cfg.BatchSize,
		"metrics_port", c.MetricsPort,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsSrv := metricsserver.New()
	collectors := metrics.New(metricsSrv.Registry())

	go func() {
		log.Info("metrics server starting", "port", c.MetricsPort)
		if err := metricsSrv.ListenAndServe(ctx, c.MetricsPort); err != nil {
			log.Error("metrics server error", "error", err)
		}
	}()

	prods, err := buildServeProducers(ctx, cfg.Platforms, log)
	if err != nil {
		return err
	}

	in := make(chan observation.Observation, cfg.ChannelCapacity)
	for _, p := range prods {
		p := p
		go func() {
			if err := p.Produce(ctx, in); err != nil && ctx.Err() == nil {
				log.Error("producer stopped unexpectedly", "error", err)
			}
		}()
	}

	coord := coordinator.New(cfg.ToCoordinatorConfig(),
		coordinator.WithLogger(log),
		coordinator.WithMetrics(collectors),
	)

	sub := coord.Broadcast().Subscribe()
	go func() {
		if err := coordinator.RunConsumer(ctx, sub, reportingConsumer(log)); err != nil && ctx.Err() == nil {
			log.Error("consumer stopped unexpectedly", "error", err)
		}
	}()

	runDone := make(chan error, 1)
	go func() { runDone <- coord.Run(ctx, in) }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received shutdown signal", "signal", sig.String())
	cancel()
	<-runDone

	log.Info("shutdown complete")
	return nil
}

// buildServeProducers wires each configured platform to a producer.
// Only file-backed platforms make sense in production; the simulated
// square-wave and sale-counter platforms belong to `reconciled simulate`.
func buildServeProducers(ctx context.Context, platforms []config.PlatformConfig, log *slog.Logger) ([]coordinator.Producer, error) {
	var prods []coordinator.Producer

	for _, pc := range platforms {
		if pc.Kind != "file" {
			return nil, fmt.Errorf("platform %s: unsupported kind %q for serve (square/sale platforms are simulate-only)", pc.Name, pc.Kind)
		}

		fp, err := producers.NewFilePlatform(pc.Path, producers.WithFileErrorHandler(func(err error) {
			log.Error("platform error", "platform", pc.Name, "error", err)
		}))
		if err != nil {
			return nil, fmt.Errorf("platform %s: %w", pc.Name, err)
		}
		go fp.Run(ctx)

		pollEvery := time.Duration(pc.PollEvery) * time.Millisecond
		if pollEvery <= 0 {
			pollEvery = time.Second
		}

		prods = append(prods, producers.NewPollingProducer(
			pc.Name, fp, producers.ParseInterpretation(pc.Interpretation), pollEvery, producers.WallClock{},
		))
	}

	return prods, nil
}
