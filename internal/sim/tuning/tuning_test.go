package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.World.Width != 20 || d.World.Height != 20 {
		t.Fatalf("default grid %dx%d", d.World.Width, d.World.Height)
	}
	if d.World.TickRateHz != 5 {
		t.Fatalf("default tick rate %d", d.World.TickRateHz)
	}
	if d.Craft.OreCost != 1 || d.Craft.FuelCost != 1 {
		t.Fatalf("default craft costs %d/%d", d.Craft.OreCost, d.Craft.FuelCost)
	}
	if d.Spawner.MaxResources != 50 || d.Spawner.IntervalTicks != 10 {
		t.Fatalf("default spawner %+v", d.Spawner)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if got != Defaults() {
		t.Fatalf("missing file should yield defaults")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	body := []byte("world:\n  width: 40\n  seed: 99\nharvest:\n  amount_per_tick: 4\n")
	if err := os.WriteFile(p, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.World.Width != 40 || got.World.Seed != 99 {
		t.Fatalf("overrides not applied: %+v", got.World)
	}
	if got.Harvest.AmountPerTick != 4 {
		t.Fatalf("harvest override not applied: %d", got.Harvest.AmountPerTick)
	}
	// Untouched keys keep their defaults.
	if got.World.Height != 20 || got.Spawner.MaxResources != 50 {
		t.Fatalf("defaults clobbered: %+v", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("world:\n  width: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("negative width should be rejected")
	}

	if err := os.WriteFile(p, []byte("world: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("unparsable yaml should be rejected")
	}
}
