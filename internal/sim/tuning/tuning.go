// Package tuning loads world balance parameters from a YAML file. Every
// field has a default so the server runs without any config on disk.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	World struct {
		Width      int   `yaml:"width"`
		Height     int   `yaml:"height"`
		TickRateHz int   `yaml:"tick_rate_hz"`
		Seed       int64 `yaml:"seed"`
	} `yaml:"world"`

	Harvest struct {
		AmountPerTick int `yaml:"amount_per_tick"`
	} `yaml:"harvest"`

	Craft struct {
		OreCost  int `yaml:"ore_cost"`
		FuelCost int `yaml:"fuel_cost"`
	} `yaml:"craft"`

	Spawner struct {
		InitialResources int  `yaml:"initial_resources"`
		MaxResources     int  `yaml:"max_resources"`
		IntervalTicks    int  `yaml:"interval_ticks"`
		MinQuantity      int  `yaml:"min_quantity"`
		MaxQuantity      int  `yaml:"max_quantity"`
		Disabled         bool `yaml:"disabled"`
	} `yaml:"spawner"`

	Sessions struct {
		EvictAfterTicks uint64 `yaml:"evict_after_ticks"`
	} `yaml:"sessions"`
}

func Defaults() Tuning {
	var t Tuning
	t.World.Width = 20
	t.World.Height = 20
	t.World.TickRateHz = 5
	t.Harvest.AmountPerTick = 10
	t.Craft.OreCost = 1
	t.Craft.FuelCost = 1
	t.Spawner.InitialResources = 25
	t.Spawner.MaxResources = 50
	t.Spawner.IntervalTicks = 10
	t.Spawner.MinQuantity = 20
	t.Spawner.MaxQuantity = 100
	t.Sessions.EvictAfterTicks = 300
	return t
}

// Load reads path over the defaults. A missing file is not an error; a file
// that exists but does not parse is.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tuning) validate() error {
	if t.World.Width <= 0 || t.World.Height <= 0 {
		return fmt.Errorf("tuning: world dimensions must be positive")
	}
	if t.World.TickRateHz <= 0 {
		return fmt.Errorf("tuning: tick_rate_hz must be positive")
	}
	if t.Spawner.MinQuantity > t.Spawner.MaxQuantity {
		return fmt.Errorf("tuning: spawner min_quantity exceeds max_quantity")
	}
	return nil
}
