package game

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Default component costs by category, scaled by tier. Costs only feed
// the read surface (shop display, sell value); the core never charges
// for placement.
func defaultCost(kind ComponentKind) float64 {
	t := float64(kind.Tier)
	switch kind.Category {
	case CategoryFuel:
		base := []float64{10, 50, 250, 1200, 6000, 30000, 120000, 500000, 2e6, 8e6, 3e7}
		return base[int(kind.Fuel)]
	case CategoryVent:
		return 25 * t
	case CategoryCoolant:
		return 60 * t
	case CategoryCapacitor:
		return 40 * t
	case CategoryReflector:
		return 30 * t
	case CategoryPlating:
		return 100 * t
	case CategoryInlet, CategoryOutlet:
		return 50 * t
	case CategoryExchanger:
		return 80 * t
	default:
		return 0
	}
}

// CatalogEntry is one resolved shop entry: a kind, its display name,
// cost, and effective stats (built-in or overridden).
type CatalogEntry struct {
	Kind  ComponentKind  `json:"-"`
	Name  string         `json:"name"`
	Cost  float64        `json:"cost"`
	Stats ComponentStats `json:"stats"`
}

// Catalog maps component kinds to effective stats and costs. The zero
// catalog (or DefaultCatalog) serves the built-in tables; LoadCatalog
// overlays a definition file on top.
type Catalog struct {
	overrides map[ComponentKind]CatalogEntry
}

// DefaultCatalog returns a catalog backed purely by the built-in tables.
func DefaultCatalog() *Catalog {
	return &Catalog{overrides: make(map[ComponentKind]CatalogEntry)}
}

// Stats returns the effective stats for a kind: the definition-table
// override when one was loaded, the built-in derivation otherwise.
func (c *Catalog) Stats(kind ComponentKind) ComponentStats {
	if c != nil {
		if entry, ok := c.overrides[kind]; ok {
			return entry.Stats
		}
	}
	return kind.Stats()
}

// Cost returns the effective cost for a kind.
func (c *Catalog) Cost(kind ComponentKind) float64 {
	if c != nil {
		if entry, ok := c.overrides[kind]; ok {
			return entry.Cost
		}
	}
	return defaultCost(kind)
}

// Entries returns the full placeable set sorted by canonical name, for
// the read surface.
func (c *Catalog) Entries() []CatalogEntry {
	kinds := allKinds()
	entries := make([]CatalogEntry, 0, len(kinds))
	for _, kind := range kinds {
		entries = append(entries, CatalogEntry{
			Kind:  kind,
			Name:  kind.CanonicalName(),
			Cost:  c.Cost(kind),
			Stats: c.Stats(kind),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// allKinds enumerates the built-in placeable set: all fuel grades,
// tiers 1-6 of each tiered family, and the singleton kinds.
func allKinds() []ComponentKind {
	kinds := make([]ComponentKind, 0, 64)
	for f := FuelUranium; f <= FuelStavrium; f++ {
		kinds = append(kinds, Fuel(f))
	}
	families := []func(int) ComponentKind{
		Vent, Coolant, Capacitor, Reflector, Plating, Inlet, Outlet, Exchanger,
	}
	for _, family := range families {
		for tier := 1; tier <= 6; tier++ {
			kinds = append(kinds, family(tier))
		}
	}
	return append(kinds, Clock(), GenericHeat(), GenericPower(), GenericInfinity())
}

// Definition-file shape, matching the extracted component_types.json.

type catalogFile struct {
	Source     string                `json:"_source"`
	Components []ComponentDefinition `json:"components"`
}

// ComponentDefinition is one raw definition-table record. Pointer fields
// distinguish "absent" from zero so partial records override only what
// they carry.
type ComponentDefinition struct {
	Name                         string        `json:"Name"`
	Cost                         float64       `json:"Cost"`
	CellData                     *CellDataDef  `json:"CellData"`
	HeatData                     *HeatDataDef  `json:"HeatData"`
	MaxDurability                *float64      `json:"MaxDurability"`
	HeatCapacity                 *float64      `json:"HeatCapacity"`
	ReactorHeatCapacityIncrease  *float64      `json:"ReactorHeatCapacityIncrease"`
	ReactorPowerCapacityIncrease *float64      `json:"ReactorPowerCapacityIncrease"`
	ReflectsPulses               *float64      `json:"ReflectsPulses"`
}

type CellDataDef struct {
	EnergyPerPulse float64 `json:"EnergyPerPulse"`
	HeatPerPulse   float64 `json:"HeatPerPulse"`
	PulsesPerCore  float64 `json:"PulsesPerCore"`
	NumberOfCores  int     `json:"NumberOfCores"`
}

type HeatDataDef struct {
	SelfVentRate    float64 `json:"SelfVentRate"`
	NeighborAffects bool    `json:"NeighborAffects"`
	ReactorVentRate float64 `json:"ReactorVentRate"`
}

// LoadCatalog reads a definition table and overlays it on the built-in
// stats. Records with unrecognized names are skipped (no match, no
// error); a missing or malformed file is an error so the caller can fall
// back to DefaultCatalog deterministically.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading component catalog: %w", err)
	}
	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing component catalog %s: %w", path, err)
	}

	catalog := DefaultCatalog()
	for _, def := range file.Components {
		kind, ok := KindFromName(def.Name)
		if !ok {
			continue
		}
		catalog.overrides[kind] = CatalogEntry{
			Kind:  kind,
			Name:  kind.CanonicalName(),
			Cost:  def.Cost,
			Stats: def.apply(kind.Stats()),
		}
	}
	return catalog, nil
}

// apply overlays the definition's present fields onto base stats.
// Coolant absorb rates and reflector bonuses are not carried by the
// table; those keep their built-in derivation (the table only flags
// reflectors via ReflectsPulses).
func (d ComponentDefinition) apply(base ComponentStats) ComponentStats {
	out := base
	if d.CellData != nil {
		out.EnergyPerPulse = d.CellData.EnergyPerPulse
		out.HeatPerPulse = d.CellData.HeatPerPulse
		pulses := int(d.CellData.PulsesPerCore) * d.CellData.NumberOfCores
		if pulses < 1 {
			pulses = 1
		}
		out.PulsesProduced = pulses
	}
	if d.HeatData != nil {
		out.SelfVentRate = d.HeatData.SelfVentRate
		out.ReactorVentRate = d.HeatData.ReactorVentRate
	}
	if d.MaxDurability != nil {
		out.MaxDurability = *d.MaxDurability
	}
	if d.HeatCapacity != nil {
		out.HeatCapacity = *d.HeatCapacity
	}
	if d.ReactorHeatCapacityIncrease != nil {
		out.HeatCapacityIncrease = *d.ReactorHeatCapacityIncrease
	}
	if d.ReactorPowerCapacityIncrease != nil {
		out.PowerCapacityIncrease = *d.ReactorPowerCapacityIncrease
	}
	if d.ReflectsPulses != nil && *d.ReflectsPulses <= 0 {
		out.ReflectorBonus = 0
	}
	return out
}
