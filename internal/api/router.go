package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"reactor/internal/game"
	"reactor/internal/save"
)

// EngineInterface defines the engine methods used by the API.
// This interface enables mocking for tests without spinning up the
// ticker loop. Keep this minimal - only methods the API layer calls.
type EngineInterface interface {
	// Snapshot returns an immutable copy of the current reactor state
	Snapshot() game.Snapshot
	// Place resolves a component name and places it at a coordinate
	Place(coord game.GridCoord, name string) error
	// Remove clears a grid cell
	Remove(coord game.GridCoord) error
	// SetPaused flips the run/pause state
	SetPaused(paused bool)
	// SellAllPower converts stored power to money (or scrounges)
	SellAllPower() float64
	// VentHeat manually vents hull heat
	VentHeat(amount float64) float64
	// CatalogEntries returns the resolved shop catalog
	CatalogEntries() []game.CatalogEntry
	// WithSimulation runs fn with exclusive simulation access
	WithSimulation(fn func(*game.Simulation))
}

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: engine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the reactor engine (required)
	Engine EngineInterface

	// Slots is the save-slot store. Nil disables the slot routes.
	Slots *save.SlotStore

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, defaults to localhost only.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies for the router, plus
// the last imported presentation fields so they survive an
// import/export cycle intact.
type routerHandlers struct {
	engine EngineInterface
	slots  *save.SlotStore

	uiMu sync.Mutex
	ui   save.UIState
}

// requestMetrics records latency and status per route pattern. The chi
// route pattern (not the raw URL) keeps label cardinality bounded.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		RecordRequest(r.Method, pattern, ww.Status(), time.Since(start))
	})
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects beyond the
// rate limiter's cleanup goroutine when one is created here:
//   - No network listeners are opened
//   - No background workers are launched
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	// CORS configuration
	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine: cfg.Engine,
		slots:  cfg.Slots,
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Reactor state
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/catalog", h.handleGetCatalog)

		// Component placement
		r.Post("/components/place", h.handlePlaceComponent)
		r.Post("/components/remove", h.handleRemoveComponent)

		// Manual controls
		r.Post("/control/pause", h.handlePause)
		r.Post("/control/resume", h.handleResume)
		r.Post("/control/sell", h.handleSellPower)
		r.Post("/control/vent", h.handleVentHeat)

		// Clipboard-style save transport
		r.Get("/save", h.handleExportSave)
		r.Post("/load", h.handleImportSave)

		// Persistent save slots
		if cfg.Slots != nil {
			r.Route("/slots", func(r chi.Router) {
				r.Get("/", h.handleListSlots)
				r.Post("/", h.handleCreateSlot)
				r.Get("/{id}", h.handleGetSlot)
				r.Post("/{id}/load", h.handleLoadSlot)
				r.Delete("/{id}", h.handleDeleteSlot)
			})
		}
	})

	return r
}
