package game

// TickDeltas is the net change to each resource accumulated during the
// current tick only. Reset at tick start, read by the presentation layer.
type TickDeltas struct {
	Money           float64 `json:"money"`
	Power           float64 `json:"power"`
	Heat            float64 `json:"heat"`
	ExoticParticles float64 `json:"exoticParticles"`
}

// ResourceStore holds the four economy scalars plus lifetime and
// this-game totals. All in-tick mutation goes through the guarded
// methods below; the save bridge writes fields directly when restoring
// absolute state (that is not an in-tick event and must not touch
// deltas or totals).
type ResourceStore struct {
	Money                float64 `json:"money"`
	TotalMoney           float64 `json:"totalMoney"`
	MoneyThisGame        float64 `json:"moneyThisGame"`
	Power                float64 `json:"power"`
	TotalPowerProduced   float64 `json:"totalPowerProduced"`
	PowerThisGame        float64 `json:"powerThisGame"`
	Heat                 float64 `json:"heat"`
	TotalHeatDissipated  float64 `json:"totalHeatDissipated"`
	HeatThisGame         float64 `json:"heatThisGame"`
	ExoticParticles      float64 `json:"exoticParticles"`
	TotalExoticParticles float64 `json:"totalExoticParticles"`

	TickDeltas TickDeltas `json:"tickDeltas"`
}

// BeginTick resets the per-tick delta snapshot.
func (s *ResourceStore) BeginTick() {
	s.TickDeltas = TickDeltas{}
}

// AddMoney credits money. Non-positive amounts are ignored.
func (s *ResourceStore) AddMoney(amount float64) {
	if amount <= 0 {
		return
	}
	s.Money += amount
	s.TotalMoney += amount
	s.MoneyThisGame += amount
	s.TickDeltas.Money += amount
}

// AddPower applies a signed power adjustment, clamping the stock at
// zero. Only the applied portion reaches the delta, and only positive
// production reaches the lifetime totals.
func (s *ResourceStore) AddPower(amount float64) {
	if amount == 0 {
		return
	}
	previous := s.Power
	s.Power += amount
	if s.Power < 0 {
		s.Power = 0
	}
	applied := s.Power - previous
	if applied == 0 {
		return
	}
	s.TickDeltas.Power += applied
	if applied > 0 {
		s.TotalPowerProduced += applied
		s.PowerThisGame += applied
	}
}

// AddHeat applies a signed heat adjustment, clamping the stock at zero.
// Negative applied amounts count toward the dissipation totals.
func (s *ResourceStore) AddHeat(amount float64) {
	if amount == 0 {
		return
	}
	previous := s.Heat
	s.Heat += amount
	if s.Heat < 0 {
		s.Heat = 0
	}
	applied := s.Heat - previous
	if applied == 0 {
		return
	}
	s.TickDeltas.Heat += applied
	if applied < 0 {
		s.TotalHeatDissipated += -applied
		s.HeatThisGame += -applied
	}
}

// AddExoticParticles credits exotic particles. Non-positive amounts are
// ignored.
func (s *ResourceStore) AddExoticParticles(amount float64) {
	if amount <= 0 {
		return
	}
	s.ExoticParticles += amount
	s.TotalExoticParticles += amount
	s.TickDeltas.ExoticParticles += amount
}

// DrainPower removes up to amount from the power stock and returns the
// amount actually removed.
func (s *ResourceStore) DrainPower(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	drained := amount
	if s.Power < drained {
		drained = s.Power
	}
	if drained > 0 {
		s.Power -= drained
		s.TickDeltas.Power -= drained
	}
	return drained
}

// DissipateHeat removes up to amount from the hull heat, credits the
// dissipation totals, and returns the amount actually removed.
func (s *ResourceStore) DissipateHeat(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	dissipated := amount
	if s.Heat < dissipated {
		dissipated = s.Heat
	}
	if dissipated > 0 {
		s.Heat -= dissipated
		s.TickDeltas.Heat -= dissipated
		s.TotalHeatDissipated += dissipated
		s.HeatThisGame += dissipated
	}
	return dissipated
}

// CreditHeatDissipated records heat vented straight from a component
// buffer to the environment. The heat never entered the hull, so only
// the dissipation totals move.
func (s *ResourceStore) CreditHeatDissipated(amount float64) {
	if amount <= 0 {
		return
	}
	s.TotalHeatDissipated += amount
	s.HeatThisGame += amount
}
