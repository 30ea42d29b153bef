package game

// PlacedComponent is the dynamic per-cell state of one placed component.
// Static coefficients come from the kind (or the catalog override); only
// the fields below change over the component's life.
//
// Durability is monotonically non-increasing while active. Once it
// reaches zero the component is permanently depleted: inert for all
// active phases but still occupying its grid cell until removed.
type PlacedComponent struct {
	ID           uint64        `json:"id"`
	Kind         ComponentKind `json:"-"`
	Name         string        `json:"name"`
	Coord        GridCoord     `json:"coord"`
	PlacedAtTick uint64        `json:"placedAtTick"`
	Heat         float64       `json:"heat"`
	Durability   float64       `json:"durability"`
	LastPower    float64       `json:"lastPower"`
	LastHeat     float64       `json:"lastHeat"`
	PulseCount   int           `json:"pulseCount"`
	Depleted     bool          `json:"depleted"`
}

// NewPlacedComponent creates a fresh component with full durability and
// zeroed dynamic fields.
func NewPlacedComponent(kind ComponentKind, coord GridCoord, id, tick uint64, stats ComponentStats) *PlacedComponent {
	return &PlacedComponent{
		ID:           id,
		Kind:         kind,
		Name:         kind.CanonicalName(),
		Coord:        coord,
		PlacedAtTick: tick,
		Durability:   stats.MaxDurability,
	}
}

// Active reports whether the component participates in active phases.
func (p *PlacedComponent) Active() bool {
	return !p.Depleted
}

// deplete marks the component permanently inert and zeroes the fields
// that only have meaning for active components.
func (p *PlacedComponent) deplete() {
	p.Depleted = true
	if p.Durability < 0 {
		p.Durability = 0
	}
	p.PulseCount = 0
	p.LastPower = 0
	p.LastHeat = 0
}
