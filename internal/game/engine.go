package game

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// EngineConfig configures the engine and its owned simulation.
type EngineConfig struct {
	TickRate int // simulation ticks per second
	Width    int
	Height   int
	Layers   int

	AutoSellRatePerTick           float64
	PassiveHeatDissipationPerTick float64

	// Catalog optionally overrides the built-in stat tables.
	Catalog *Catalog
}

// Engine owns one Simulation behind a mutex and drives it with a
// fixed-step ticker. The core stays single-goroutine: every mutation
// and read goes through the lock, so a tick is atomic with respect to
// all callers.
type Engine struct {
	mu  sync.RWMutex
	sim *Simulation

	catalog  *Catalog
	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	// OnTick, when set before Start, observes each tick's wall-clock
	// duration. The metrics layer hooks in here so the core never
	// imports it.
	OnTick func(time.Duration)

	audit *AuditLog
}

// NewEngine creates a stopped engine. No background work starts until
// Start.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 1
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	sim := NewSimulation(cfg.Width, cfg.Height, cfg.Layers)
	sim.SetCatalog(catalog)
	sim.AutoSellRatePerTick = cfg.AutoSellRatePerTick
	sim.PassiveHeatDissipationPerTick = cfg.PassiveHeatDissipationPerTick

	return &Engine{
		sim:      sim,
		catalog:  catalog,
		tickRate: cfg.TickRate,
		stopChan: make(chan struct{}),
	}
}

// SetAuditLog attaches an audit trail. Pass nil to disable.
func (e *Engine) SetAuditLog(al *AuditLog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.audit = al
}

func (e *Engine) emit(event AuditEvent) {
	if e.audit != nil {
		event.Tick = e.sim.TickIndex
		e.audit.Emit(event)
	}
}

// Start begins the fixed-step simulation loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("⚛️ Reactor engine started at %d TPS", e.tickRate)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Reactor engine stopped")
}

func (e *Engine) tick() {
	start := time.Now()

	e.mu.Lock()
	e.sim.Tick()
	e.mu.Unlock()

	if e.OnTick != nil {
		e.OnTick(time.Since(start))
	}
}

// Tick advances the simulation by one step outside the ticker, for
// callers that drive time themselves.
func (e *Engine) Tick() {
	e.tick()
}

// Place resolves a canonical component name and places it at coord.
// Unknown names and out-of-bounds coordinates are caller mistakes and
// come back as errors, never panics.
func (e *Engine) Place(coord GridCoord, name string) error {
	kind, ok := KindFromName(name)
	if !ok {
		return fmt.Errorf("unknown component name %q", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.sim.PlaceComponent(coord, kind); err != nil {
		return err
	}
	e.emit(AuditEvent{Type: EventComponentPlaced, Name: kind.CanonicalName(), Coord: &coord})
	return nil
}

// Remove clears the cell at coord. Removing an empty in-bounds cell
// succeeds silently.
func (e *Engine) Remove(coord GridCoord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.sim.RemoveComponent(coord); err != nil {
		return err
	}
	e.emit(AuditEvent{Type: EventComponentRemoved, Coord: &coord})
	return nil
}

// SetPaused flips the external run state. A paused simulation still
// resets its per-tick deltas each step but mutates nothing else.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sim.Paused = paused
	if paused {
		e.emit(AuditEvent{Type: EventPaused})
	} else {
		e.emit(AuditEvent{Type: EventResumed})
	}
}

// SellAllPower runs the manual sell (or scrounge) action and returns
// the money gained.
func (e *Engine) SellAllPower() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	gained := e.sim.SellAllPower()
	e.emit(AuditEvent{Type: EventPowerSold, Value: gained})
	return gained
}

// VentHeat manually vents up to amount from the hull and returns the
// amount actually vented.
func (e *Engine) VentHeat(amount float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	vented := e.sim.VentHeat(amount)
	e.emit(AuditEvent{Type: EventHeatVented, Value: vented})
	return vented
}

// CatalogEntries exposes the resolved shop catalog.
func (e *Engine) CatalogEntries() []CatalogEntry {
	return e.catalog.Entries()
}

// WithSimulation runs fn with exclusive access to the simulation. The
// save bridge uses this to project or restore full state atomically
// with respect to the tick loop.
func (e *Engine) WithSimulation(fn func(*Simulation)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.sim)
}

// ComponentView is one component in the read surface, with its static
// capacities resolved so clients never need the stat tables.
type ComponentView struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Coord         GridCoord `json:"coord"`
	PlacedAtTick  uint64    `json:"placedAtTick"`
	Heat          float64   `json:"heat"`
	HeatCapacity  float64   `json:"heatCapacity"`
	Durability    float64   `json:"durability"`
	MaxDurability float64   `json:"maxDurability"`
	LastPower     float64   `json:"lastPower"`
	LastHeat      float64   `json:"lastHeat"`
	PulseCount    int       `json:"pulseCount"`
	Depleted      bool      `json:"depleted"`
	SellValue     float64   `json:"sellValue"`
}

// Snapshot is an immutable copy of the full read surface, taken under
// the lock so it never exposes mid-tick state.
type Snapshot struct {
	TickIndex        uint64          `json:"tickIndex"`
	Paused           bool            `json:"paused"`
	Resources        ResourceStore   `json:"resources"`
	MaxPowerCapacity float64         `json:"maxPowerCapacity"`
	MaxHeatCapacity  float64         `json:"maxHeatCapacity"`
	GridWidth        int             `json:"gridWidth"`
	GridHeight       int             `json:"gridHeight"`
	GridLayers       int             `json:"gridLayers"`
	PrestigeEP       int             `json:"prestigeEP"`
	Components       []ComponentView `json:"components"`
}

// Snapshot copies the current state. Components are sorted by
// (z, y, x) so consumers see a stable order regardless of placement
// history.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sim := e.sim
	snap := Snapshot{
		TickIndex:        sim.TickIndex,
		Paused:           sim.Paused,
		Resources:        sim.Resources,
		MaxPowerCapacity: sim.MaxPowerCapacity,
		MaxHeatCapacity:  sim.MaxHeatCapacity,
		GridWidth:        sim.Grid.Width(),
		GridHeight:       sim.Grid.Height(),
		GridLayers:       sim.Grid.Layers(),
		PrestigeEP:       sim.PrestigeEP(),
		Components:       make([]ComponentView, 0, len(sim.Components)),
	}

	for _, c := range sim.Components {
		st := sim.statsOf(c.Kind)
		snap.Components = append(snap.Components, ComponentView{
			ID:            c.ID,
			Name:          c.Name,
			Coord:         c.Coord,
			PlacedAtTick:  c.PlacedAtTick,
			Heat:          c.Heat,
			HeatCapacity:  st.HeatCapacity,
			Durability:    c.Durability,
			MaxDurability: st.MaxDurability,
			LastPower:     c.LastPower,
			LastHeat:      c.LastHeat,
			PulseCount:    c.PulseCount,
			Depleted:      c.Depleted,
			SellValue:     sim.SellValue(c),
		})
	}

	sort.Slice(snap.Components, func(i, j int) bool {
		return snap.Components[i].Coord.Less(snap.Components[j].Coord)
	})
	return snap
}
