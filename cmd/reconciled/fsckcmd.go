package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abh/reconciled/fsck"
	"github.com/abh/reconciled/history"
	"github.com/abh/reconciled/interval"
	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/value"
)

// FsckCmd verifies a recorded batch of observations against the
// structural invariants of fsck.Verify, grounded on cmd/rrr-fsck/main.go's
// CLI/run shape: take a file argument, load it, run the check, print a
// summary, and fail the process if issues were found.
type FsckCmd struct {
	ObservationsFile string `arg:"" help:"Path to a YAML file listing observations to verify." type:"path"`
	Verbose          bool   `short:"v" help:"Enable verbose logging."`
}

// observationRecord is the on-disk shape of one observation.
type observationRecord struct {
	Kind       string `yaml:"kind"` // "transition", "assignment", or "mutation"
	V0         *int64 `yaml:"v0,omitempty"`
	V1         *int64 `yaml:"v1,omitempty"`
	VNew       *int64 `yaml:"v_new,omitempty"`
	Delta      *int64 `yaml:"delta,omitempty"`
	Lo         int64  `yaml:"lo"`
	Hi         int64  `yaml:"hi"`
	SourceKind string `yaml:"source_kind"` // "polling" or "record"
	SourceName string `yaml:"source_name"`
}

type observationsFile struct {
	Observations []observationRecord `yaml:"observations"`
}

// Run implements kong's command interface.
func (c *FsckCmd) Run() error {
	logLevel := slog.LevelInfo
	if c.Verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	data, err := os.ReadFile(c.ObservationsFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.ObservationsFile, err)
	}

	var doc observationsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", c.ObservationsFile, err)
	}

	h := history.New()
	for i, rec := range doc.Observations {
		obs, err := rec.toObservation()
		if err != nil {
			return fmt.Errorf("observation %d: %w", i, err)
		}
		h.Add(obs)
	}

	log.Info("checking observation batch", "file", c.ObservationsFile, "observations", h.Len())

	result, err := fsck.Verify(h, fsck.Options{Verbose: c.Verbose, Logger: log})
	if err != nil {
		return fmt.Errorf("fsck: %w", err)
	}

	fmt.Println("\n=== Summary ===")
	fmt.Printf("Observations: %d\n", h.Len())
	fmt.Printf("Levels: %d\n", result.LevelCount)
	fmt.Printf("Undefined levels (conflicts): %d\n", result.UndefinedLevels)
	for check, n := range result.IssuesFound {
		fmt.Printf("  %s: %d\n", check, n)
	}

	if result.Issues > 0 {
		return fmt.Errorf("found %d structural issues", result.Issues)
	}

	fmt.Println("No structural issues found")
	return nil
}

func (r observationRecord) toObservation() (observation.Observation, error) {
	pred, err := r.toPredicate()
	if err != nil {
		return observation.Observation{}, err
	}

	var src observation.Source
	switch r.SourceKind {
	case "polling":
		src = observation.Polling(r.SourceName)
	case "record":
		src = observation.Record(r.SourceName)
	default:
		return observation.Observation{}, fmt.Errorf("unknown source_kind %q", r.SourceKind)
	}

	iv := interval.New(interval.Moment(r.Lo), interval.Moment(r.Hi))
	return observation.New(pred, iv, src), nil
}

func (r observationRecord) toPredicate() (observation.Predicate, error) {
	switch r.Kind {
	case "transition":
		if r.V0 == nil || r.V1 == nil {
			return observation.Predicate{}, fmt.Errorf("transition requires v0 and v1")
		}
		return observation.Transition(value.Value(*r.V0), value.Value(*r.V1)), nil
	case "assignment":
		if r.VNew == nil {
			return observation.Predicate{}, fmt.Errorf("assignment requires v_new")
		}
		return observation.Assignment(value.Value(*r.VNew)), nil
	case "mutation":
		if r.Delta == nil {
			return observation.Predicate{}, fmt.Errorf("mutation requires delta")
		}
		return observation.Mutation(value.Value(*r.Delta)), nil
	default:
		return observation.Predicate{}, fmt.Errorf("unknown kind %q", r.Kind)
	}
}
