package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reactor/internal/game"
	"reactor/internal/save"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with a WebSocket hub for live snapshots.
type Server struct {
	engine      *game.Engine
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// ServerConfig configures the full server.
type ServerConfig struct {
	AllowedOrigins []string
	MaxWSPerIP     int
	RateLimit      *RateLimitConfig
	Slots          *save.SlotStore
}

// NewServer creates a new API server.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(engine *game.Engine, cfg ServerConfig) *Server {
	s := &Server{
		engine: engine,
		wsHub:  NewWebSocketHub(cfg.MaxWSPerIP, cfg.AllowedOrigins),
	}

	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimit != nil {
		rateLimitCfg = *cfg.RateLimit
	}
	s.rateLimiter = NewIPRateLimiter(rateLimitCfg)

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		Slots:       cfg.Slots,
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.AllowedOrigins,
	})

	// WebSocket route needs the hub instance, so it can't be part of
	// the generic NewRouter factory.
	s.router.Get("/ws", s.handleWS)

	return s
}

// Start begins the HTTP server AND starts background workers.
// This is the ONLY method that starts goroutines or opens network listeners.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.engine)

	log.Printf("🌐 API server starting on %s", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.wsHub != nil {
		s.wsHub.Stop()
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
