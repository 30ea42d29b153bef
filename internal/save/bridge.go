package save

import (
	"fmt"
	"sort"

	"reactor/internal/game"
)

// UIState is the presentation bookkeeping slice of the record: fields
// with no engine counterpart that still ride through an import/export
// cycle unchanged.
type UIState struct {
	UpgradeLevels          map[string]int
	PrestigeLevel          int
	ReplaceMode            bool
	ShopPage               int
	SelectedComponentIndex int
}

// UIState extracts the ride-along fields from a record, so a caller
// that imports the record can emit them again on the next export.
func (d *SaveData) UIState() UIState {
	return UIState{
		UpgradeLevels:          d.UpgradeLevels,
		PrestigeLevel:          d.PrestigeLevel,
		ReplaceMode:            d.ReplaceMode,
		ShopPage:               d.ShopPage,
		SelectedComponentIndex: d.SelectedComponentIndex,
	}
}

// FromSimulation projects a live simulation into a save record with
// zero-valued presentation fields.
func FromSimulation(sim *game.Simulation) *SaveData {
	return FromSimulationWithUI(sim, UIState{})
}

// FromSimulationWithUI projects a live simulation into a save record,
// carrying the given presentation fields through untouched. Components
// are emitted sorted by (z, y, x) so identical states always produce
// identical records.
func FromSimulationWithUI(sim *game.Simulation, ui UIState) *SaveData {
	upgrades := ui.UpgradeLevels
	if upgrades == nil {
		upgrades = map[string]int{}
	}
	data := &SaveData{
		Version:       CurrentVersion,
		UpgradeLevels: upgrades,

		PrestigeLevel:          ui.PrestigeLevel,
		ReplaceMode:            ui.ReplaceMode,
		ShopPage:               ui.ShopPage,
		SelectedComponentIndex: ui.SelectedComponentIndex,

		Store: SaveStore{
			Money:                  sim.Resources.Money,
			TotalMoney:             sim.Resources.TotalMoney,
			MoneyEarnedThisGame:    sim.Resources.MoneyThisGame,
			Power:                  sim.Resources.Power,
			TotalPowerProduced:     sim.Resources.TotalPowerProduced,
			PowerProducedThisGame:  sim.Resources.PowerThisGame,
			Heat:                   sim.Resources.Heat,
			TotalHeatDissipated:    sim.Resources.TotalHeatDissipated,
			HeatDissipatedThisGame: sim.Resources.HeatThisGame,
			ExoticParticles:        sim.Resources.ExoticParticles,
			TotalExoticParticles:   sim.Resources.TotalExoticParticles,
		},
		ReactorHeat: sim.Resources.Heat,
		StoredPower: sim.Resources.Power,
		Paused:      sim.Paused,
		TotalTicks:  sim.TickIndex,
		Components:  make([]SaveComponent, 0, len(sim.Components)),
	}

	for _, c := range sim.Components {
		if c.Depleted && c.Kind == game.Fuel(game.FuelProtium) {
			data.DepletedProtiumCount++
		}
		data.Components = append(data.Components, SaveComponent{
			Name:       c.Name,
			Heat:       c.Heat,
			Durability: c.Durability,
			Depleted:   c.Depleted,
			X:          c.Coord.X,
			Y:          c.Coord.Y,
			Z:          c.Coord.Z,
		})
	}

	sort.Slice(data.Components, func(i, j int) bool {
		a, b := data.Components[i], data.Components[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return data
}

// Apply restores a record into the simulation, replacing its state
// wholesale. Component entries with unknown names or out-of-bounds
// coordinates are skipped; a placement failure at valid coordinates is
// a hard error since it means the restore itself is broken. Upgrade and
// UI bookkeeping fields have no engine state to land in and are ignored
// here; callers that need them on the next export keep the record's
// UIState themselves.
func Apply(sim *game.Simulation, data *SaveData) error {
	sim.Paused = data.Paused
	sim.TickIndex = data.TotalTicks

	sim.Resources = game.ResourceStore{
		Money:                data.Store.Money,
		TotalMoney:           data.Store.TotalMoney,
		MoneyThisGame:        data.Store.MoneyEarnedThisGame,
		Power:                data.StoredPower,
		TotalPowerProduced:   data.Store.TotalPowerProduced,
		PowerThisGame:        data.Store.PowerProducedThisGame,
		Heat:                 data.ReactorHeat,
		TotalHeatDissipated:  data.Store.TotalHeatDissipated,
		HeatThisGame:         data.Store.HeatDissipatedThisGame,
		ExoticParticles:      data.Store.ExoticParticles,
		TotalExoticParticles: data.Store.TotalExoticParticles,
	}
	if sim.Resources.Power < 0 {
		sim.Resources.Power = 0
	}
	if sim.Resources.Heat < 0 {
		sim.Resources.Heat = 0
	}

	sim.ClearAllComponents()
	for _, rec := range data.Components {
		kind, ok := game.KindFromName(rec.Name)
		if !ok {
			continue
		}
		coord := game.GridCoord{X: rec.X, Y: rec.Y, Z: rec.Z}
		if !sim.Grid.InBounds(coord) {
			continue
		}
		if err := sim.PlaceComponent(coord, kind); err != nil {
			return fmt.Errorf("restoring %s at (%d,%d,%d): %w", rec.Name, rec.X, rec.Y, rec.Z, err)
		}

		c := sim.ComponentAt(coord)
		stats := sim.EffectiveStats(kind)

		c.Heat = rec.Heat
		if c.Heat < 0 {
			c.Heat = 0
		}
		if stats.HeatCapacity > 0 && c.Heat > stats.HeatCapacity {
			c.Heat = stats.HeatCapacity
		}

		c.Durability = rec.Durability
		if c.Durability < 0 {
			c.Durability = 0
		}
		if stats.MaxDurability > 0 && c.Durability > stats.MaxDurability {
			c.Durability = stats.MaxDurability
		}

		if rec.Depleted || (stats.MaxDurability > 0 && c.Durability <= 0) {
			c.Depleted = true
			c.PulseCount = 0
			c.LastPower = 0
			c.LastHeat = 0
		}
	}

	sim.RecomputeCapacities()
	return nil
}
