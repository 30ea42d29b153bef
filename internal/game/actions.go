package game

import "math"

// scroungeThreshold gates the pity money grant: an empty reactor with
// less than this much combined money and power can always scrounge $1.
const scroungeThreshold = 10.0

// CanScrounge reports whether the pity grant is available.
func (s *Simulation) CanScrounge() bool {
	return len(s.Components) == 0 && s.Resources.Money+s.Resources.Power < scroungeThreshold
}

// SellAllPower converts all stored hull power to money and returns the
// amount gained. With an empty reactor and nearly no resources it
// scrounges a flat $1 instead, so a fresh game can always buy its first
// component.
func (s *Simulation) SellAllPower() float64 {
	if s.CanScrounge() {
		s.Resources.AddMoney(1.0)
		return 1.0
	}
	gained := s.Resources.DrainPower(s.Resources.Power)
	if gained > 0 {
		s.Resources.AddMoney(gained)
	}
	return gained
}

// VentHeat manually vents up to amount from the hull and returns the
// amount actually vented.
func (s *Simulation) VentHeat(amount float64) float64 {
	return s.Resources.DissipateHeat(amount)
}

// PrestigeEP projects the exotic particles a prestige would award right
// now: floor(4^(log10(min(totalPower, totalHeat)) - 12)) minus the
// already-earned highwater. Read-only; the core never executes the
// prestige economy itself.
func (s *Simulation) PrestigeEP() int {
	value := math.Min(s.Resources.TotalPowerProduced, s.Resources.TotalHeatDissipated)
	if value < 1e12 {
		return 0
	}
	total := int(math.Floor(math.Pow(4.0, math.Log10(value)-12.0)))
	earned := total - int(s.Resources.TotalExoticParticles)
	if earned < 0 {
		return 0
	}
	return earned
}

// SellValue returns the refund for removing a component: cost degraded
// quadratically by stored heat and spent durability. Fuel never
// refunds.
func (s *Simulation) SellValue(c *PlacedComponent) float64 {
	st := s.statsOf(c.Kind)
	if st.EnergyPerPulse > 0 {
		return 0
	}
	value := defaultCost(c.Kind)
	if s.catalog != nil {
		value = s.catalog.Cost(c.Kind)
	}
	if st.HeatCapacity > 0 {
		ratio := 1.0 - c.Heat/st.HeatCapacity
		if ratio < 0 {
			ratio = 0
		}
		value *= ratio * ratio
	}
	if st.MaxDurability > 0 {
		ratio := c.Durability / st.MaxDurability
		if ratio < 0 {
			ratio = 0
		}
		value *= ratio * ratio
	}
	return value
}
