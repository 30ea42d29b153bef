package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ComponentCategory is the discriminant of the closed component kind set.
type ComponentCategory int

const (
	CategoryFuel ComponentCategory = iota
	CategoryVent
	CategoryCoolant
	CategoryCapacitor
	CategoryReflector
	CategoryPlating
	CategoryInlet
	CategoryOutlet
	CategoryExchanger
	CategoryClock
	CategoryGenericHeat
	CategoryGenericPower
	CategoryGenericInfinity
)

// FuelKind names the 11 fuel grades.
type FuelKind int

const (
	FuelUranium FuelKind = iota
	FuelPlutonium
	FuelThorium
	FuelSeaborgium
	FuelDolorium
	FuelNefastium
	FuelProtium
	FuelMonastium
	FuelKymium
	FuelDiscurrium
	FuelStavrium
)

// ComponentKind is a tagged value: Category selects the variant, Fuel is
// the payload for CategoryFuel, Tier for the tiered families. The zero
// Tier/Fuel fields of non-applicable variants keep kinds comparable, so
// ComponentKind works as a map key and compares with ==.
type ComponentKind struct {
	Category ComponentCategory
	Fuel     FuelKind
	Tier     int
}

func Fuel(f FuelKind) ComponentKind { return ComponentKind{Category: CategoryFuel, Fuel: f} }
func Vent(tier int) ComponentKind   { return ComponentKind{Category: CategoryVent, Tier: tier} }
func Coolant(tier int) ComponentKind {
	return ComponentKind{Category: CategoryCoolant, Tier: tier}
}
func Capacitor(tier int) ComponentKind {
	return ComponentKind{Category: CategoryCapacitor, Tier: tier}
}
func Reflector(tier int) ComponentKind {
	return ComponentKind{Category: CategoryReflector, Tier: tier}
}
func Plating(tier int) ComponentKind {
	return ComponentKind{Category: CategoryPlating, Tier: tier}
}
func Inlet(tier int) ComponentKind  { return ComponentKind{Category: CategoryInlet, Tier: tier} }
func Outlet(tier int) ComponentKind { return ComponentKind{Category: CategoryOutlet, Tier: tier} }
func Exchanger(tier int) ComponentKind {
	return ComponentKind{Category: CategoryExchanger, Tier: tier}
}

func Clock() ComponentKind           { return ComponentKind{Category: CategoryClock} }
func GenericHeat() ComponentKind     { return ComponentKind{Category: CategoryGenericHeat} }
func GenericPower() ComponentKind    { return ComponentKind{Category: CategoryGenericPower} }
func GenericInfinity() ComponentKind { return ComponentKind{Category: CategoryGenericInfinity} }

// ComponentStats are the static per-kind coefficients the simulation
// reads every tick. Derived deterministically from (category, tier) or,
// for fuels, from the fuel grade.
type ComponentStats struct {
	EnergyPerPulse        float64 `json:"energyPerPulse"`
	HeatPerPulse          float64 `json:"heatPerPulse"`
	PulsesProduced        int     `json:"pulsesProduced"`
	MaxDurability         float64 `json:"maxDurability"`
	HeatCapacity          float64 `json:"heatCapacity"`
	SelfVentRate          float64 `json:"selfVentRate"`
	ReactorVentRate       float64 `json:"reactorVentRate"`
	CoolantAbsorbRate     float64 `json:"coolantAbsorbRate"`
	ReflectorBonus        float64 `json:"reflectorBonus"`
	PowerCapacityIncrease float64 `json:"powerCapacityIncrease"`
	HeatCapacityIncrease  float64 `json:"heatCapacityIncrease"`
}

// Stats derives the built-in stat table entry for the kind. Tiered
// families scale linearly with tier.
func (k ComponentKind) Stats() ComponentStats {
	t := float64(k.Tier)
	switch k.Category {
	case CategoryFuel:
		return k.Fuel.Stats()
	case CategoryVent:
		return ComponentStats{
			HeatCapacity:    20.0 * t,
			SelfVentRate:    1.2 * t,
			ReactorVentRate: 0.6 * t,
		}
	case CategoryCoolant:
		return ComponentStats{
			HeatCapacity:         45.0 * t,
			CoolantAbsorbRate:    0.75 * t,
			HeatCapacityIncrease: 120.0 * t,
		}
	case CategoryCapacitor:
		return ComponentStats{
			HeatCapacity:          30.0 * t,
			PowerCapacityIncrease: 60.0 * t,
		}
	case CategoryReflector:
		return ComponentStats{
			MaxDurability:  100.0 * t,
			ReflectorBonus: 0.1 * t,
		}
	case CategoryPlating:
		return ComponentStats{HeatCapacityIncrease: 250.0 * t}
	case CategoryInlet:
		return ComponentStats{
			HeatCapacity:    10.0 * t,
			ReactorVentRate: 0.8 * t,
		}
	case CategoryOutlet:
		return ComponentStats{
			HeatCapacity:    10.0 * t,
			ReactorVentRate: 0.8 * t,
		}
	case CategoryExchanger:
		return ComponentStats{
			HeatCapacity:      15.0 * t,
			CoolantAbsorbRate: 0.6 * t,
		}
	case CategoryGenericHeat:
		return ComponentStats{
			HeatCapacity: 10.0,
			SelfVentRate: 0.5,
		}
	case CategoryGenericPower:
		return ComponentStats{PowerCapacityIncrease: 25.0}
	default: // Clock, GenericInfinity
		return ComponentStats{}
	}
}

// Stats returns the fuel grade coefficients.
func (f FuelKind) Stats() ComponentStats {
	var energy, heat, durability float64
	pulses := 1
	switch f {
	case FuelUranium:
		energy, heat, durability = 1.0, 1.0, 120.0
	case FuelPlutonium:
		energy, heat, durability = 1.5, 1.6, 180.0
	case FuelThorium:
		energy, heat, durability = 2.2, 2.4, 240.0
	case FuelSeaborgium:
		energy, heat, durability = 3.5, 3.8, 300.0
	case FuelDolorium:
		energy, heat, durability = 5.0, 5.5, 360.0
	case FuelNefastium:
		energy, heat, durability = 8.0, 8.8, 420.0
	case FuelProtium:
		energy, heat, durability = 9.0, 9.0, 500.0
	case FuelMonastium:
		energy, heat, durability = 12.0, 10.0, 600.0
	case FuelKymium:
		energy, heat, durability = 16.0, 16.0, 700.0
	case FuelDiscurrium:
		energy, heat, durability = 24.0, 26.0, 800.0
		pulses = 4
	case FuelStavrium:
		energy, heat, durability = 32.0, 34.0, 900.0
	}
	return ComponentStats{
		EnergyPerPulse: energy,
		HeatPerPulse:   heat,
		PulsesProduced: pulses,
		MaxDurability:  durability,
	}
}

// CanonicalName returns the stable string identifier used in save files
// and external definition tables.
func (k ComponentKind) CanonicalName() string {
	switch k.Category {
	case CategoryFuel:
		return k.Fuel.CanonicalName()
	case CategoryVent:
		return fmt.Sprintf("Vent%d", k.Tier)
	case CategoryCoolant:
		return fmt.Sprintf("Coolant%d", k.Tier)
	case CategoryCapacitor:
		return fmt.Sprintf("Capacitor%d", k.Tier)
	case CategoryReflector:
		return fmt.Sprintf("Reflector%d", k.Tier)
	case CategoryPlating:
		return fmt.Sprintf("Plate%d", k.Tier)
	case CategoryInlet:
		return fmt.Sprintf("Inlet%d", k.Tier)
	case CategoryOutlet:
		return fmt.Sprintf("Outlet%d", k.Tier)
	case CategoryExchanger:
		return fmt.Sprintf("Exchanger%d", k.Tier)
	case CategoryClock:
		return "Clock"
	case CategoryGenericHeat:
		return "GenericHeat"
	case CategoryGenericPower:
		return "GenericPower"
	case CategoryGenericInfinity:
		return "GenericInfinity"
	default:
		return ""
	}
}

// CanonicalName returns the fuel save identifier, FuelN-1 for grade N.
func (f FuelKind) CanonicalName() string {
	return fmt.Sprintf("Fuel%d-1", int(f)+1)
}

// FuelFromName parses a FuelN or FuelN-variant identifier.
func FuelFromName(name string) (FuelKind, bool) {
	rest, ok := strings.CutPrefix(name, "Fuel")
	if !ok {
		return 0, false
	}
	grade, _, _ := strings.Cut(rest, "-")
	n, err := strconv.Atoi(grade)
	if err != nil || n < 1 || n > 11 {
		return 0, false
	}
	return FuelKind(n - 1), true
}

// KindFromName resolves a canonical name back to a kind. Unrecognized
// names return ok=false; no input ever panics. "Plating<tier>" is
// accepted as an alias for "Plate<tier>".
func KindFromName(name string) (ComponentKind, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ComponentKind{}, false
	}

	if fuel, ok := FuelFromName(trimmed); ok {
		return Fuel(fuel), true
	}

	tiered := []struct {
		prefix string
		build  func(int) ComponentKind
	}{
		{"Vent", Vent},
		{"Coolant", Coolant},
		{"Capacitor", Capacitor},
		{"Reflector", Reflector},
		{"Plating", Plating},
		{"Plate", Plating},
		{"Inlet", Inlet},
		{"Outlet", Outlet},
		{"Exchanger", Exchanger},
	}
	for _, family := range tiered {
		rest, ok := strings.CutPrefix(trimmed, family.prefix)
		if !ok {
			continue
		}
		tier, err := strconv.Atoi(rest)
		if err != nil || tier < 1 {
			continue
		}
		return family.build(tier), true
	}

	switch trimmed {
	case "Clock":
		return Clock(), true
	case "GenericHeat":
		return GenericHeat(), true
	case "GenericPower":
		return GenericPower(), true
	case "GenericInfinity":
		return GenericInfinity(), true
	}
	return ComponentKind{}, false
}

// IsFuel reports whether the kind is a pulse-emitting fuel.
func (k ComponentKind) IsFuel() bool {
	return k.Category == CategoryFuel
}
