// Package config loads the coordinator's process configuration (spec §6)
// from a YAML file, the same library (gopkg.in/yaml.v3) the teacher uses
// for the RECENT file format (recentfile/serializer.go), repurposed here
// to describe the coordinator's tuning knobs and, for the simulate
// subcommand, the mocked platforms to wire up.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abh/reconciled/coordinator"
	"github.com/abh/reconciled/value"
)

// PlatformConfig describes one producer to wire up, for either
// `reconciled serve` (kind "file") or `reconciled simulate` (kind
// "square" or "sale").
type PlatformConfig struct {
	Name           string `yaml:"name"`
	Kind           string `yaml:"kind"`           // "file", "square", or "sale"
	Interpretation string `yaml:"interpretation"` // "transition", "assignment", or "mutation"
	PollEvery      int64  `yaml:"poll_every_ms"`
	Initial        int64  `yaml:"initial_value"`

	// Path is the value file reconciled serve polls for kind "file".
	Path string `yaml:"path,omitempty"`

	// SaleChance is the per-tick probability of a unit sale for kind "sale".
	SaleChance float64 `yaml:"sale_chance,omitempty"`
	// Period is the tick period of a full low/high cycle for kind "square".
	Period int64 `yaml:"period_ticks,omitempty"`
	High   int64 `yaml:"high_value,omitempty"`
}

// CoordinatorConfig is the top-level YAML document consumed by
// cmd/reconciled.
type CoordinatorConfig struct {
	Init            *int64           `yaml:"init,omitempty"`
	BatchSize       int              `yaml:"batch_size"`
	ChannelCapacity int              `yaml:"channel_capacity"`
	Platforms       []PlatformConfig `yaml:"platforms,omitempty"`
}

// Default returns the documented defaults from spec §6: batch_size 100,
// channel_capacity >= 100.
func Default() CoordinatorConfig {
	return CoordinatorConfig{
		BatchSize:       coordinator.DefaultBatchSize,
		ChannelCapacity: 100,
	}
}

// Load reads and parses a YAML config file, starting from Default() so an
// omitted field keeps its default.
func Load(path string) (CoordinatorConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// InitValue converts the optional YAML init field to *value.Value.
func (c CoordinatorConfig) InitValue() *value.Value {
	if c.Init == nil {
		return nil
	}
	v := value.Value(*c.Init)
	return &v
}

// ToCoordinatorConfig converts the loaded YAML into a coordinator.Config.
func (c CoordinatorConfig) ToCoordinatorConfig() coordinator.Config {
	return coordinator.Config{
		Init:      c.InitValue(),
		BatchSize: c.BatchSize,
	}
}
