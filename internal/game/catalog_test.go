package game

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultCatalogFallsThrough verifies an empty catalog serves the
// built-in tables
func TestDefaultCatalogFallsThrough(t *testing.T) {
	catalog := DefaultCatalog()
	if got := catalog.Stats(Vent(2)); got != Vent(2).Stats() {
		t.Errorf("stats = %+v", got)
	}
	if got := catalog.Cost(Vent(2)); !approxEqual(got, 50.0) {
		t.Errorf("cost = %v, want 50", got)
	}
}

// TestLoadCatalogOverlay verifies definition records override only what
// they carry and unknown names are skipped
func TestLoadCatalogOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.json")
	raw := `{
		"_source": "test",
		"components": [
			{
				"Name": "Vent1",
				"Cost": 99,
				"HeatCapacity": 77,
				"HeatData": {"SelfVentRate": 3.5, "ReactorVentRate": 1.5}
			},
			{
				"Name": "NotAComponent",
				"Cost": 1
			}
		]
	}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	st := catalog.Stats(Vent(1))
	if st.HeatCapacity != 77 || st.SelfVentRate != 3.5 || st.ReactorVentRate != 1.5 {
		t.Errorf("override stats = %+v", st)
	}
	if !approxEqual(catalog.Cost(Vent(1)), 99.0) {
		t.Errorf("override cost = %v", catalog.Cost(Vent(1)))
	}

	// Untouched kinds keep the built-in derivation
	if catalog.Stats(Vent(2)) != Vent(2).Stats() {
		t.Error("unrelated kind was mutated")
	}
}

// TestLoadCatalogErrors verifies missing and malformed files error so
// callers can fall back deterministically
func TestLoadCatalogErrors(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should error")
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	os.WriteFile(path, []byte("{not json"), 0644)
	if _, err := LoadCatalog(path); err == nil {
		t.Error("malformed file should error")
	}
}

// TestCatalogDrivesSimulation verifies overridden stats flow into the
// tick pipeline
func TestCatalogDrivesSimulation(t *testing.T) {
	catalog := DefaultCatalog()
	stats := Fuel(FuelUranium).Stats()
	stats.EnergyPerPulse = 10
	catalog.overrides[Fuel(FuelUranium)] = CatalogEntry{
		Kind:  Fuel(FuelUranium),
		Name:  "Fuel1-1",
		Cost:  10,
		Stats: stats,
	}

	sim := newTestSim(3, 3, 1)
	sim.SetCatalog(catalog)
	sim.PlaceComponent(GridCoord{1, 1, 0}, Fuel(FuelUranium))
	sim.Tick()

	if !approxEqual(sim.Resources.Power, 10.0) {
		t.Errorf("power = %v, want 10 with overridden energy", sim.Resources.Power)
	}
}
