package main

import (
	"context"
	"fmt"
	"time"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/version"

	"github.com/abh/reconciled/config"
	"github.com/abh/reconciled/coordinator"
	"github.com/abh/reconciled/fsck"
	"github.com/abh/reconciled/interval"
	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/producers"
	"github.com/abh/reconciled/value"
)

// SimulateCmd runs a self-contained demonstration against mocked
// platforms, grounded on original_source/src/main.rs's simulate(until)
// function: that function ticks a MockPlatform and a MockPoller in
// lockstep for a fixed number of simulated ticks and logs whatever the
// poller emits. This command keeps the same mocked sources (a
// square-wave platform, a draining sale counter, each polled, plus a
// synthetic record stream) but runs them through the real Coordinator
// end to end instead of just logging raw events, and verifies the
// resulting history with fsck.Verify before exiting.
type SimulateCmd struct {
	ConfigFile string        `arg:"" optional:"" help:"Optional platform config YAML (kind: square/sale). Defaults to a built-in two-platform scenario."`
	Duration   time.Duration `default:"2s" help:"Wall-clock duration to run the simulation."`
	PollEvery  time.Duration `default:"10ms" help:"Poll interval for the simulated platforms."`
	Verbose    bool          `short:"v" help:"Enable verbose logging."`
}

// advancer is a mocked Platform that needs its clock stepped forward
// between polls.
type advancer interface {
	Advance() value.Value
}

// Run implements kong's command interface.
func (c *SimulateCmd) Run() error {
	log := logger.Setup()
	log.Info("starting reconciled simulate", "version", version.Version(), "duration", c.Duration)

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration)
	defer cancel()

	clock := &producers.SequentialClock{}

	platformConfigs, err := c.loadPlatformConfigs()
	if err != nil {
		return err
	}

	prods, advancers, err := buildSimulatePlatforms(platformConfigs, clock, c.PollEvery)
	if err != nil {
		return err
	}

	records := syntheticRecords(clock, 25)
	recordProd := producers.NewRecordProducer("VendorB", records, c.PollEvery/2)
	prods = append(prods, recordProd)

	advance := time.NewTicker(c.PollEvery / 2)
	defer advance.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-advance.C:
				for _, a := range advancers {
					a.Advance()
				}
			}
		}
	}()

	in := make(chan observation.Observation, 256)
	for _, p := range prods {
		p := p
		go func() {
			if err := p.Produce(ctx, in); err != nil && ctx.Err() == nil {
				log.Error("producer stopped unexpectedly", "error", err)
			}
		}()
	}

	coord := coordinator.New(coordinator.Config{Init: nil, BatchSize: 50}, coordinator.WithLogger(log))

	writer := producers.NewMockWriter(true)
	sub := coord.Broadcast().Subscribe()
	go func() {
		if err := coordinator.RunConsumer(ctx, sub, writer); err != nil && ctx.Err() == nil {
			log.Error("consumer stopped unexpectedly", "error", err)
		}
	}()

	runDone := make(chan error, 1)
	go func() { runDone <- coord.Run(ctx, in) }()

	<-ctx.Done()
	if err := <-runDone; err != nil && ctx.Err() == nil {
		return fmt.Errorf("coordinator: %w", err)
	}

	delivered := writer.Delivered()
	log.Info("simulation complete", "observations", coord.History().Len(), "values_delivered", len(delivered))
	for i, v := range delivered {
		if v == nil {
			fmt.Printf("  [%d] conflict\n", i)
			continue
		}
		fmt.Printf("  [%d] %d\n", i, int64(*v))
	}

	result, err := fsck.Verify(coord.History(), fsck.Options{Verbose: c.Verbose, Logger: log})
	if err != nil {
		return fmt.Errorf("fsck: %w", err)
	}
	log.Info("fsck result", "issues", result.Issues, "undefined_levels", result.UndefinedLevels, "levels", result.LevelCount)

	if result.Issues > 0 {
		return fmt.Errorf("simulation produced %d structural issues", result.Issues)
	}
	return nil
}

// defaultPlatformConfigs is the scenario used when SimulateCmd is given
// no config file: one square-wave platform read as Transitions, one
// draining sale counter read as Mutations.
func defaultPlatformConfigs() []config.PlatformConfig {
	return []config.PlatformConfig{
		{Name: "FooPlatform", Kind: "square", Interpretation: "transition", Initial: 0, High: 10, Period: 40},
		{Name: "VendorA", Kind: "sale", Interpretation: "mutation", Initial: 100, SaleChance: 0.05},
	}
}

func (c *SimulateCmd) loadPlatformConfigs() ([]config.PlatformConfig, error) {
	if c.ConfigFile == "" {
		return defaultPlatformConfigs(), nil
	}
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg.Platforms, nil
}

// buildSimulatePlatforms turns platform configs of kind "square" or
// "sale" into PollingProducers, returning the underlying platforms as
// advancers so the caller can step their simulated clocks.
func buildSimulatePlatforms(platforms []config.PlatformConfig, clock producers.Clock, pollEvery time.Duration) ([]coordinator.Producer, []advancer, error) {
	var prods []coordinator.Producer
	var advancers []advancer

	for i, pc := range platforms {
		var platform interface {
			producers.Platform
			advancer
		}

		switch pc.Kind {
		case "square":
			platform = producers.NewSquareWavePlatform(value.Value(pc.Initial), value.Value(pc.High), pc.Period)
		case "sale":
			seed := int64(i) + 1
			platform = producers.NewSaleCounterPlatform(value.Value(pc.Initial), pc.SaleChance, seed)
		default:
			return nil, nil, fmt.Errorf("platform %s: unsupported kind %q for simulate (use serve for kind \"file\")", pc.Name, pc.Kind)
		}

		advancers = append(advancers, platform)
		prods = append(prods, producers.NewPollingProducer(
			pc.Name, platform, producers.ParseInterpretation(pc.Interpretation), pollEvery, clock,
		))
	}

	return prods, advancers, nil
}

// syntheticRecords builds a decreasing-delta record stream spread over
// n ticks, standing in for a platform that hands back its own
// already-time-stamped change log (original_source's MockRecordPoller
// replaying platform.events).
func syntheticRecords(clock producers.Clock, n int) []producers.Record {
	records := make([]producers.Record, 0, n)
	for i := 0; i < n; i++ {
		lo := clock.Now()
		hi := lo + interval.Moment(2)
		records = append(records, producers.Record{
			Interval: interval.New(lo, hi),
			Delta:    value.Value(-1),
		})
	}
	return records
}
