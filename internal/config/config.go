// Package config holds the server configuration schema, its YAML loader and
// the environment overrides applied on top.
package config

import (
	"log/slog"
	"time"

	"vexal/internal/domain/command"
)

type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// SlogLevel maps l to a slog level. Unknown values map to Info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	GM         GMConfig         `yaml:"gm"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Lore       LoreConfig       `yaml:"lore"`
	Conditions ConditionsConfig `yaml:"conditions"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	// MetricsAddr serves /metrics on its own listener. Empty disables it.
	MetricsAddr string   `yaml:"metrics_addr"`
	LogLevel    LogLevel `yaml:"log_level"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	// MigrationsDir overrides the embedded schema.
	MigrationsDir   string        `yaml:"migrations_dir"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type GMConfig struct {
	DefaultMode          string                `yaml:"default_mode"`
	CombatSecondsPerTurn int                   `yaml:"combat_seconds_per_turn"`
	HoursPerTurn         int                   `yaml:"hours_per_turn"`
	NarrativeTimeout     time.Duration         `yaml:"narrative_timeout"`
	ReplyEffects         []command.ReplyEffect `yaml:"reply_effects"`
}

type ProvidersConfig struct {
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Breaker BreakerConfig `yaml:"breaker"`
}

type OpenAIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type BreakerConfig struct {
	MaxFailures  int           `yaml:"max_failures"`
	ResetTimeout time.Duration `yaml:"reset_timeout"`
}

type LoreConfig struct {
	// Dir holds markdown lore seeded into every new session. Empty means no
	// static lore.
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

type ConditionsConfig struct {
	// File replaces the built-in condition table with a YAML one.
	File string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:  ":8080",
			MetricsAddr: ":9090",
			LogLevel:    LogInfo,
		},
		Store: StoreConfig{
			Driver: DriverMemory,
		},
		GM: GMConfig{
			DefaultMode:          "static",
			CombatSecondsPerTurn: 6,
			HoursPerTurn:         6,
			NarrativeTimeout:     20 * time.Second,
		},
		Providers: ProvidersConfig{
			Breaker: BreakerConfig{MaxFailures: 3, ResetTimeout: 30 * time.Second},
		},
	}
}
