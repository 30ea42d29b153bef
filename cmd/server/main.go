package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"reactor/internal/api"
	"reactor/internal/config"
	"reactor/internal/game"
	"reactor/internal/save"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file, if one exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("⚛️ ================================")
	log.Println("⚛️  REACTOR - SIMULATION SERVER")
	log.Println("⚛️ ================================")

	// Load centralized configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	simCfg := appConfig.Simulation
	serverCfg := appConfig.Server

	log.Printf("⚙️ Grid: %dx%dx%d, %d TPS, auto-sell %.2f/tick, passive dissipation %.2f/tick",
		simCfg.GridWidth, simCfg.GridHeight, simCfg.GridLayers,
		simCfg.TickRate, simCfg.AutoSellRatePerTick, simCfg.PassiveHeatDissipationPerTick)

	// Component catalog: definition file if configured, built-in tables
	// otherwise.
	catalog := game.DefaultCatalog()
	if simCfg.CatalogPath != "" {
		loaded, err := game.LoadCatalog(simCfg.CatalogPath)
		if err != nil {
			log.Printf("⚠️ Catalog load failed, using built-in tables: %v", err)
		} else {
			catalog = loaded
			log.Printf("📦 Loaded component catalog from %s", simCfg.CatalogPath)
		}
	}

	// Create the reactor engine
	engine := game.NewEngine(game.EngineConfig{
		TickRate:                      simCfg.TickRate,
		Width:                         simCfg.GridWidth,
		Height:                        simCfg.GridHeight,
		Layers:                        simCfg.GridLayers,
		AutoSellRatePerTick:           simCfg.AutoSellRatePerTick,
		PassiveHeatDissipationPerTick: simCfg.PassiveHeatDissipationPerTick,
		Catalog:                       catalog,
	})
	engine.OnTick = api.RecordTick

	// Optional JSONL audit trail for placements and manual actions
	var audit *game.AuditLog
	if appConfig.Observability.AuditLogPath != "" {
		audit, err = game.NewAuditLog(appConfig.Observability.AuditLogPath)
		if err != nil {
			log.Printf("⚠️ Audit log disabled: %v", err)
		} else {
			engine.SetAuditLog(audit)
			log.Printf("📝 Audit log: %s", appConfig.Observability.AuditLogPath)
		}
	}

	// Open the save-slot store
	slots, err := save.OpenSlotStore(appConfig.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Save database error: %v", err)
	}
	defer slots.Close()
	log.Printf("💾 Save slots: %s", appConfig.Storage.DatabasePath)

	// Start debug server (pprof + metrics, localhost only)
	if appConfig.Observability.DebugAddr != "" {
		debugCfg := api.DefaultObservabilityConfig()
		debugCfg.ListenAddr = appConfig.Observability.DebugAddr
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// Create API server
	server := api.NewServer(engine, api.ServerConfig{
		AllowedOrigins: serverCfg.AllowedOrigins,
		MaxWSPerIP:     serverCfg.MaxWSPerIP,
		RateLimit: &api.RateLimitConfig{
			RequestsPerSecond: serverCfg.RateLimitRPS,
			Burst:             serverCfg.RateLimitBurst,
			CleanupInterval:   api.DefaultRateLimitConfig.CleanupInterval,
		},
		Slots: slots,
	})

	// Start simulation loop
	engine.Start()
	log.Println("✅ Reactor engine started")

	// Start API server in goroutine
	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	engine.Stop()
	if audit != nil {
		audit.Stop()
	}
	log.Println("👋 Goodbye!")
}
