// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for simulation and server settings.
//
// Precedence, lowest to highest: built-in defaults, optional YAML file,
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimulationConfig holds the reactor core settings.
type SimulationConfig struct {
	GridWidth  int `yaml:"grid_width"`
	GridHeight int `yaml:"grid_height"`
	GridLayers int `yaml:"grid_layers"`
	TickRate   int `yaml:"tick_rate"` // simulation ticks per second

	AutoSellRatePerTick           float64 `yaml:"auto_sell_rate"`
	PassiveHeatDissipationPerTick float64 `yaml:"passive_dissipation_rate"`

	// CatalogPath optionally points at a component definition table.
	// Empty means the built-in stat tables.
	CatalogPath string `yaml:"catalog_path"`
}

// DefaultSimulation returns the default simulation configuration.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		GridWidth:                     16,
		GridHeight:                    12,
		GridLayers:                    1,
		TickRate:                      4,
		AutoSellRatePerTick:           1.0,
		PassiveHeatDissipationPerTick: 1.0,
	}
}

// SimulationFromEnv applies environment variable overrides.
func SimulationFromEnv(cfg SimulationConfig) SimulationConfig {
	if w := getEnvInt("REACTOR_GRID_WIDTH", 0); w > 0 {
		cfg.GridWidth = w
	}
	if h := getEnvInt("REACTOR_GRID_HEIGHT", 0); h > 0 {
		cfg.GridHeight = h
	}
	if l := getEnvInt("REACTOR_GRID_LAYERS", 0); l > 0 {
		cfg.GridLayers = l
	}
	if t := getEnvInt("REACTOR_TICK_RATE", 0); t > 0 {
		cfg.TickRate = t
	}
	if r := getEnvFloat("REACTOR_AUTO_SELL_RATE", -1); r >= 0 {
		cfg.AutoSellRatePerTick = r
	}
	if r := getEnvFloat("REACTOR_PASSIVE_DISSIPATION", -1); r >= 0 {
		cfg.PassiveHeatDissipationPerTick = r
	}
	if p := os.Getenv("REACTOR_CATALOG_PATH"); p != "" {
		cfg.CatalogPath = p
	}
	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxWSPerIP     int      `yaml:"max_ws_per_ip"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:           3000,
		AllowedOrigins: []string{"*"},
		MaxWSPerIP:     4,
		RateLimitRPS:   10,
		RateLimitBurst: 20,
	}
}

// ServerFromEnv applies environment variable overrides.
func ServerFromEnv(cfg ServerConfig) ServerConfig {
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if n := getEnvInt("MAX_WS_PER_IP", 0); n > 0 {
		cfg.MaxWSPerIP = n
	}
	return cfg
}

// =============================================================================
// STORAGE CONFIGURATION
// =============================================================================

// StorageConfig holds the save-slot database settings.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DefaultStorage returns the default storage configuration.
func DefaultStorage() StorageConfig {
	return StorageConfig{
		DatabasePath: "data/reactor.db",
	}
}

// StorageFromEnv applies environment variable overrides.
func StorageFromEnv(cfg StorageConfig) StorageConfig {
	if p := os.Getenv("REACTOR_DB_PATH"); p != "" {
		cfg.DatabasePath = p
	}
	return cfg
}

// =============================================================================
// OBSERVABILITY CONFIGURATION
// =============================================================================

// ObservabilityConfig holds metrics and debug endpoint settings.
type ObservabilityConfig struct {
	// DebugAddr is the pprof listener. Bound to localhost; empty
	// disables it.
	DebugAddr string `yaml:"debug_addr"`

	// AuditLogPath is the JSONL audit trail. Empty disables it.
	AuditLogPath string `yaml:"audit_log_path"`
}

// DefaultObservability returns the default observability configuration.
func DefaultObservability() ObservabilityConfig {
	return ObservabilityConfig{
		DebugAddr: "localhost:6060",
	}
}

// ObservabilityFromEnv applies environment variable overrides.
func ObservabilityFromEnv(cfg ObservabilityConfig) ObservabilityConfig {
	if a, ok := os.LookupEnv("DEBUG_ADDR"); ok {
		cfg.DebugAddr = a
	}
	if p := os.Getenv("AUDIT_LOG_PATH"); p != "" {
		cfg.AuditLogPath = p
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Simulation    SimulationConfig    `yaml:"simulation"`
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// Load returns the complete configuration: defaults, then the optional
// YAML file named by REACTOR_CONFIG, then environment overrides.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Simulation:    DefaultSimulation(),
		Server:        DefaultServer(),
		Storage:       DefaultStorage(),
		Observability: DefaultObservability(),
	}

	if path := os.Getenv("REACTOR_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.Simulation = SimulationFromEnv(cfg.Simulation)
	cfg.Server = ServerFromEnv(cfg.Server)
	cfg.Storage = StorageFromEnv(cfg.Storage)
	cfg.Observability = ObservabilityFromEnv(cfg.Observability)
	return cfg, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
