// Package config loads the station configuration for the tray-handling
// cell: physical row limits, motion durations, the watchdog window, and
// the transport bind address. Loading follows the teacher's
// internal/config/config.go convention (YAML via gopkg.in/yaml.v3),
// with environment variable overrides layered on top the way the
// teacher's main.go layers DB_URL/FLOW_ACCESS_NODE/PORT over defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LiftLimits is the physical row range a single lift may occupy. Exact
// limits are a deployment fact, not something the spec can hard-code
// (see spec §9 Open Questions), hence configuration.
type LiftLimits struct {
	MinRow int `yaml:"min_row"`
	MaxRow int `yaml:"max_row"`
}

// Durations holds the nominal motion and liveness timings of spec §9's
// Open Questions, with the suggested defaults pre-filled.
type Durations struct {
	ForkMove     time.Duration `yaml:"fork_move"`
	EngineMove   time.Duration `yaml:"engine_move"`
	PickOffset   time.Duration `yaml:"pick_offset"`
	Watchdog     time.Duration `yaml:"watchdog"`
	TickPeriod   time.Duration `yaml:"tick_period"`
}

// Audit configures the optional cycle-history sink. DSN is empty by
// default, which disables persistence entirely (spec §1 scopes
// persistence out of the core; this is a supplementary, detachable
// feature, never a hard dependency).
type Audit struct {
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Transport configures the HTTP/WebSocket stand-in described in
// SPEC_FULL.md §4.8.
type Transport struct {
	BindAddr        string        `yaml:"bind_addr"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	RateLimitTTL    time.Duration `yaml:"rate_limit_ttl"`
}

// Config is the top-level station configuration document.
type Config struct {
	Lift1     LiftLimits `yaml:"lift1"`
	Lift2     LiftLimits `yaml:"lift2"`
	Durations Durations  `yaml:"durations"`
	Audit     Audit      `yaml:"audit"`
	Transport Transport  `yaml:"transport"`
}

// Default returns a Config with the defaults named in spec §9's Open
// Questions: fork 1s, engine 2s, watchdog 5s.
func Default() *Config {
	return &Config{
		Lift1: LiftLimits{MinRow: 1, MaxRow: 20},
		Lift2: LiftLimits{MinRow: 1, MaxRow: 20},
		Durations: Durations{
			ForkMove:   1 * time.Second,
			EngineMove: 2 * time.Second,
			PickOffset: 200 * time.Millisecond,
			Watchdog:   5 * time.Second,
			TickPeriod: 80 * time.Millisecond,
		},
		Transport: Transport{
			BindAddr:       ":8088",
			RateLimitRPS:   10,
			RateLimitBurst: 20,
			RateLimitTTL:   15 * time.Minute,
		},
	}
}

// Load reads a YAML configuration file, starting from Default() so a
// partial document only overrides the fields it sets.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides layers a small set of environment variables over a
// loaded config, matching the teacher's main.go pattern of letting
// deployment env vars win over a checked-in config file.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLCSIM_BIND_ADDR"); v != "" {
		cfg.Transport.BindAddr = v
	}
	if v := os.Getenv("PLCSIM_AUDIT_DSN"); v != "" {
		cfg.Audit.PostgresDSN = v
	}
}
