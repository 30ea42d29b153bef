package game

import "math"

// Simulation owns the grid, the component list, and the resource store,
// and exposes placement/removal plus the ordered Tick transition. It is
// single-threaded by design: the caller serializes all access (the
// Engine wraps one Simulation behind a mutex and a fixed-step loop).
//
// Grid and list stay mutually consistent: a coordinate is occupied in
// the grid iff exactly one component in the list has that coordinate.
type Simulation struct {
	Resources  ResourceStore
	Grid       *ReactorGrid
	Components []*PlacedComponent

	Paused    bool
	TickIndex uint64

	// Derived each tick from base values plus non-depleted component
	// contributions.
	MaxPowerCapacity float64
	MaxHeatCapacity  float64

	// Rate knobs, set by the owning application.
	BasePowerCapacity             float64
	BaseHeatCapacity              float64
	AutoSellRatePerTick           float64
	PassiveHeatDissipationPerTick float64

	catalog *Catalog
	nextID  uint64
}

// Default hull capacities with no capacity-increasing components placed.
const (
	DefaultBasePowerCapacity = 100.0
	DefaultBaseHeatCapacity  = 1000.0
)

// NewSimulation builds an empty simulation. Grid dimensions are clamped
// to at least 1 on each axis.
func NewSimulation(width, height, layers int) *Simulation {
	s := &Simulation{
		Grid:              NewReactorGrid(width, height, layers),
		BasePowerCapacity: DefaultBasePowerCapacity,
		BaseHeatCapacity:  DefaultBaseHeatCapacity,
	}
	s.recomputeCapacities()
	return s
}

// SetCatalog installs a data-driven stat source. A nil catalog falls
// back to the built-in tables.
func (s *Simulation) SetCatalog(c *Catalog) {
	s.catalog = c
	s.recomputeCapacities()
}

func (s *Simulation) statsOf(kind ComponentKind) ComponentStats {
	if s.catalog != nil {
		return s.catalog.Stats(kind)
	}
	return kind.Stats()
}

// EffectiveStats returns the stats the simulation actually uses for a
// kind: the installed catalog's entry when one is set, the built-in
// table otherwise. The save bridge clamps restored state against these
// rather than the built-in table so catalog overrides survive a load.
func (s *Simulation) EffectiveStats(kind ComponentKind) ComponentStats {
	return s.statsOf(kind)
}

// PlaceComponent places a component, replacing any existing occupant at
// the coordinate. Each placement gets a fresh monotonically increasing
// id; dynamic state starts zeroed with full durability.
func (s *Simulation) PlaceComponent(coord GridCoord, kind ComponentKind) error {
	if !s.Grid.InBounds(coord) {
		return &OutOfBoundsError{Coord: coord}
	}
	s.nextID++
	id := s.nextID
	if err := s.Grid.Place(coord, GridCell{Kind: kind, ComponentID: id, PlacedTick: s.TickIndex}); err != nil {
		return err
	}
	s.removeFromList(coord)
	s.Components = append(s.Components, NewPlacedComponent(kind, coord, id, s.TickIndex, s.statsOf(kind)))
	s.recomputeCapacities()
	return nil
}

// RemoveComponent clears a cell and drops its component. Removing an
// unoccupied in-bounds cell succeeds as a no-op.
func (s *Simulation) RemoveComponent(coord GridCoord) error {
	if err := s.Grid.Clear(coord); err != nil {
		return err
	}
	s.removeFromList(coord)
	s.recomputeCapacities()
	return nil
}

func (s *Simulation) removeFromList(coord GridCoord) {
	n := 0
	for _, c := range s.Components {
		if c.Coord != coord {
			s.Components[n] = c
			n++
		}
	}
	s.Components = s.Components[:n]
}

// ComponentAt returns the component occupying a coordinate, or nil.
// List order is not coordinate-sorted; this is a linear scan.
func (s *Simulation) ComponentAt(coord GridCoord) *PlacedComponent {
	for _, c := range s.Components {
		if c.Coord == coord {
			return c
		}
	}
	return nil
}

// ClearAllComponents empties the grid and the component list, as done
// before replaying a save.
func (s *Simulation) ClearAllComponents() {
	s.Grid = NewReactorGrid(s.Grid.Width(), s.Grid.Height(), s.Grid.Layers())
	s.Components = s.Components[:0]
	s.recomputeCapacities()
}

// RecomputeCapacities rebuilds the capacity maxima from base values and
// component contributions. Placement and removal call this themselves;
// the save bridge calls it after mutating depletion flags directly.
func (s *Simulation) RecomputeCapacities() {
	s.recomputeCapacities()
}

func (s *Simulation) recomputeCapacities() {
	power := s.BasePowerCapacity
	heat := s.BaseHeatCapacity
	for _, c := range s.Components {
		if c.Depleted {
			continue
		}
		st := s.statsOf(c.Kind)
		power += st.PowerCapacityIncrease
		heat += st.HeatCapacityIncrease
	}
	s.MaxPowerCapacity = power
	s.MaxHeatCapacity = heat
}

// indexByCoord builds a fresh coordinate lookup for one phase. Rebuilt
// per phase rather than maintained across mutations; placement and
// removal already rebuild derived state wholesale.
func (s *Simulation) indexByCoord() map[GridCoord]*PlacedComponent {
	index := make(map[GridCoord]*PlacedComponent, len(s.Components))
	for _, c := range s.Components {
		index[c.Coord] = c
	}
	return index
}

// Tick advances the simulation one discrete step. The fixed phase order
// is a correctness invariant: reordering changes trajectories.
func (s *Simulation) Tick() {
	s.Resources.BeginTick()
	if s.Paused {
		return
	}
	if s.TickIndex < math.MaxUint64 {
		s.TickIndex++
	}

	s.recomputeCapacities()
	s.clampToCapacities()
	s.distributePulses()
	s.drainDurability()
	s.generatePowerAndHeat()
	s.diffuseCoolant()
	s.exchangeWithHull()
	s.passiveSellPower()
	s.passiveDissipateHeat()
	s.clampToCapacities()
}

// clampToCapacities drains power above capacity (lost, not refunded)
// and floors heat at zero.
func (s *Simulation) clampToCapacities() {
	if s.Resources.Power > s.MaxPowerCapacity {
		s.Resources.DrainPower(s.Resources.Power - s.MaxPowerCapacity)
	}
	if s.Resources.Heat < 0 {
		s.Resources.Heat = 0
	}
}

// distributePulses recomputes every pulse count from scratch. Each
// active fuel adds its pulse yield to its own cell and each active
// neighbor. Purely additive over pre-phase kinds and flags, so fuel
// iteration order cannot affect the result.
func (s *Simulation) distributePulses() {
	for _, c := range s.Components {
		c.PulseCount = 0
	}
	index := s.indexByCoord()
	for _, c := range s.Components {
		if c.Depleted {
			continue
		}
		st := s.statsOf(c.Kind)
		if st.EnergyPerPulse <= 0 {
			continue
		}
		pulses := st.PulsesProduced
		if pulses < 1 {
			pulses = 1
		}
		c.PulseCount += pulses
		for _, n := range c.Coord.Neighbors() {
			if neighbor, ok := index[n]; ok && !neighbor.Depleted {
				neighbor.PulseCount += pulses
			}
		}
	}
}

// drainDurability applies this tick's wear against a snapshot of the
// pre-phase pulse counts and depletion flags, then commits losses.
// Fuel emitters lose 1 per active tick; reflectors lose the summed
// pulse counts of adjacent active fuel. Components hitting zero are
// depleted for the rest of this tick's phases.
func (s *Simulation) drainDurability() {
	index := s.indexByCoord()
	losses := make([]float64, len(s.Components))
	for i, c := range s.Components {
		if c.Depleted {
			continue
		}
		st := s.statsOf(c.Kind)
		if st.MaxDurability <= 0 {
			continue
		}
		if st.EnergyPerPulse > 0 {
			losses[i] += 1
		}
		if st.ReflectorBonus > 0 {
			sum := 0
			for _, n := range c.Coord.Neighbors() {
				neighbor, ok := index[n]
				if !ok || neighbor.Depleted {
					continue
				}
				if s.statsOf(neighbor.Kind).EnergyPerPulse > 0 {
					sum += neighbor.PulseCount
				}
			}
			losses[i] += float64(sum)
		}
	}
	for i, c := range s.Components {
		if losses[i] == 0 {
			continue
		}
		c.Durability -= losses[i]
		if c.Durability <= 0 {
			c.deplete()
		}
	}
}

// generatePowerAndHeat runs the fuel output phase. Power goes straight
// to the hull; heat routes to active heat-absorbing neighbors, split
// evenly, with per-neighbor capacity overflow spilling to the hull.
// Neighbor heat deltas accumulate in a buffer and commit after the
// scan.
func (s *Simulation) generatePowerAndHeat() {
	index := s.indexByCoord()
	heatDeltas := make([]float64, len(s.Components))
	position := make(map[*PlacedComponent]int, len(s.Components))
	for i, c := range s.Components {
		position[c] = i
	}

	totalPower := 0.0
	hullHeat := 0.0
	for _, c := range s.Components {
		if c.Depleted {
			continue
		}
		st := s.statsOf(c.Kind)
		if st.EnergyPerPulse <= 0 {
			continue
		}
		if c.PulseCount == 0 {
			c.LastPower = 0
			c.LastHeat = 0
			continue
		}

		multiplier := 1.0
		absorbers := make([]*PlacedComponent, 0, 4)
		for _, n := range c.Coord.Neighbors() {
			neighbor, ok := index[n]
			if !ok || neighbor.Depleted {
				continue
			}
			nst := s.statsOf(neighbor.Kind)
			if nst.ReflectorBonus > 0 {
				multiplier += nst.ReflectorBonus
			}
			if nst.HeatCapacity > 0 {
				absorbers = append(absorbers, neighbor)
			}
		}

		power := float64(c.PulseCount) * st.EnergyPerPulse * multiplier
		heat := float64(c.PulseCount) * float64(c.PulseCount) * st.HeatPerPulse
		c.LastPower = power
		c.LastHeat = heat
		totalPower += power

		if len(absorbers) == 0 {
			hullHeat += heat
			continue
		}
		share := heat / float64(len(absorbers))
		for _, neighbor := range absorbers {
			i := position[neighbor]
			room := s.statsOf(neighbor.Kind).HeatCapacity - neighbor.Heat - heatDeltas[i]
			if room < 0 {
				room = 0
			}
			accepted := share
			if accepted > room {
				accepted = room
			}
			heatDeltas[i] += accepted
			hullHeat += share - accepted
		}
	}

	for i, c := range s.Components {
		if heatDeltas[i] != 0 {
			c.Heat += heatDeltas[i]
		}
	}
	s.Resources.AddPower(totalPower)
	s.Resources.AddHeat(hullHeat)
}

// diffuseCoolant pulls heat from hotter neighbors into coolant-capable
// components. Every (source, neighbor) pair is evaluated against the
// pre-phase heat snapshot; net deltas commit after the scan so in-phase
// transfers never double count. Source heat beyond the source's own
// capacity spills to the hull.
func (s *Simulation) diffuseCoolant() {
	index := s.indexByCoord()
	snapshot := make([]float64, len(s.Components))
	position := make(map[*PlacedComponent]int, len(s.Components))
	for i, c := range s.Components {
		snapshot[i] = c.Heat
		position[c] = i
	}

	deltas := make([]float64, len(s.Components))
	for i, c := range s.Components {
		if c.Depleted {
			continue
		}
		st := s.statsOf(c.Kind)
		if st.CoolantAbsorbRate <= 0 || st.HeatCapacity <= 0 {
			continue
		}
		for _, n := range c.Coord.Neighbors() {
			neighbor, ok := index[n]
			if !ok || neighbor.Depleted {
				continue
			}
			j := position[neighbor]
			if snapshot[j] <= snapshot[i] {
				continue
			}
			transfer := 0.25 * (snapshot[j] - snapshot[i])
			if transfer > st.CoolantAbsorbRate {
				transfer = st.CoolantAbsorbRate
			}
			if transfer > snapshot[j] {
				transfer = snapshot[j]
			}
			deltas[j] -= transfer
			deltas[i] += transfer
		}
	}

	spill := 0.0
	for i, c := range s.Components {
		if deltas[i] == 0 {
			continue
		}
		c.Heat += deltas[i]
		if c.Heat < 0 {
			c.Heat = 0
		}
		cap := s.statsOf(c.Kind).HeatCapacity
		if cap > 0 && c.Heat > cap {
			spill += c.Heat - cap
			c.Heat = cap
		}
	}
	s.Resources.AddHeat(spill)
}

// exchangeWithHull runs the four hull-exchange sub-passes, each over a
// deterministic component-list scan: vents pull hull heat into their
// buffers, inlets pull neighbor buffers into the hull, outlets push
// hull heat to heat-capable neighbors, and self-venting components
// dissipate their buffers straight to the environment.
func (s *Simulation) exchangeWithHull() {
	index := s.indexByCoord()

	// (a) Vents pull hull heat into their own buffer up to their vent
	// rate; whatever does not fit stays in the hull.
	for _, c := range s.Components {
		if c.Depleted || c.Kind.Category != CategoryVent {
			continue
		}
		st := s.statsOf(c.Kind)
		if st.ReactorVentRate <= 0 {
			continue
		}
		pull := st.ReactorVentRate
		if pull > s.Resources.Heat {
			pull = s.Resources.Heat
		}
		room := st.HeatCapacity - c.Heat
		if room < 0 {
			room = 0
		}
		if pull > room {
			pull = room
		}
		if pull > 0 {
			c.Heat += pull
			s.Resources.AddHeat(-pull)
		}
	}

	// (b) Inlets drain each neighbor's buffer into the hull, up to the
	// inlet rate per neighbor.
	for _, c := range s.Components {
		if c.Depleted || c.Kind.Category != CategoryInlet {
			continue
		}
		st := s.statsOf(c.Kind)
		if st.ReactorVentRate <= 0 {
			continue
		}
		for _, n := range c.Coord.Neighbors() {
			neighbor, ok := index[n]
			if !ok || neighbor.Depleted {
				continue
			}
			transfer := st.ReactorVentRate
			if transfer > neighbor.Heat {
				transfer = neighbor.Heat
			}
			if transfer > 0 {
				neighbor.Heat -= transfer
				s.Resources.AddHeat(transfer)
			}
		}
	}

	// (c) Outlets push hull heat to heat-capable neighbors, split
	// evenly, at most rate per neighbor; per-neighbor capacity overflow
	// stays in the hull.
	for _, c := range s.Components {
		if c.Depleted || c.Kind.Category != CategoryOutlet {
			continue
		}
		st := s.statsOf(c.Kind)
		if st.ReactorVentRate <= 0 {
			continue
		}
		capable := make([]*PlacedComponent, 0, 4)
		for _, n := range c.Coord.Neighbors() {
			neighbor, ok := index[n]
			if ok && !neighbor.Depleted && s.statsOf(neighbor.Kind).HeatCapacity > 0 {
				capable = append(capable, neighbor)
			}
		}
		if len(capable) == 0 {
			continue
		}
		total := st.ReactorVentRate * float64(len(capable))
		if total > s.Resources.Heat {
			total = s.Resources.Heat
		}
		share := total / float64(len(capable))
		for _, neighbor := range capable {
			room := s.statsOf(neighbor.Kind).HeatCapacity - neighbor.Heat
			if room < 0 {
				room = 0
			}
			accepted := share
			if accepted > room {
				accepted = room
			}
			if accepted > 0 {
				neighbor.Heat += accepted
				s.Resources.AddHeat(-accepted)
			}
		}
	}

	// (d) Self-venting buffers dissipate straight to the environment,
	// bypassing the hull.
	for _, c := range s.Components {
		if c.Depleted {
			continue
		}
		st := s.statsOf(c.Kind)
		if st.SelfVentRate <= 0 {
			continue
		}
		vented := st.SelfVentRate
		if vented > c.Heat {
			vented = c.Heat
		}
		if vented > 0 {
			c.Heat -= vented
			s.Resources.CreditHeatDissipated(vented)
		}
	}
}

// passiveSellPower converts hull power to money at the configured rate.
func (s *Simulation) passiveSellPower() {
	rate := s.AutoSellRatePerTick
	if rate < 0 {
		rate = 0
	}
	sold := s.Resources.DrainPower(rate)
	if sold > 0 {
		s.Resources.AddMoney(sold)
	}
}

// passiveDissipateHeat vents hull heat at the passive rate, plus an
// emergency overflow term of 5% of the excess when heat exceeds
// capacity.
func (s *Simulation) passiveDissipateHeat() {
	rate := s.PassiveHeatDissipationPerTick
	if rate < 0 {
		rate = 0
	}
	if s.Resources.Heat > s.MaxHeatCapacity {
		rate += (s.Resources.Heat - s.MaxHeatCapacity) * 0.05
	}
	s.Resources.DissipateHeat(rate)
}

// Clone deep-copies the simulation; used by determinism checks and the
// engine's snapshot path.
func (s *Simulation) Clone() *Simulation {
	out := *s
	out.Grid = s.Grid.Clone()
	out.Components = make([]*PlacedComponent, len(s.Components))
	for i, c := range s.Components {
		copied := *c
		out.Components[i] = &copied
	}
	return &out
}
