package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var validModes = []string{"static", "heuristic", "llm"}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if err := decode(f, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if err := ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates it.
// Environment variables are not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", key, v))
			return
		}
		*dst = n
	}

	str("VEXAL_HTTP_ADDR", &cfg.Server.ListenAddr)
	str("VEXAL_METRICS_ADDR", &cfg.Server.MetricsAddr)
	if v := strings.TrimSpace(getenv("VEXAL_LOG_LEVEL")); v != "" {
		cfg.Server.LogLevel = LogLevel(strings.ToLower(v))
	}
	if v := strings.TrimSpace(getenv("VEXAL_DB_DSN")); v != "" {
		cfg.Store.DSN = v
		cfg.Store.Driver = DriverPostgres
	}
	str("VEXAL_STORE_DRIVER", &cfg.Store.Driver)
	str("VEXAL_GM_MODE", &cfg.GM.DefaultMode)
	num("VEXAL_COMBAT_SECONDS", &cfg.GM.CombatSecondsPerTurn)
	num("VEXAL_HOURS_PER_TURN", &cfg.GM.HoursPerTurn)
	str("OPENAI_API_KEY", &cfg.Providers.OpenAI.APIKey)
	str("OPENAI_MODEL", &cfg.Providers.OpenAI.Model)
	str("OPENAI_BASE_URL", &cfg.Providers.OpenAI.BaseURL)
	str("GEMINI_API_KEY", &cfg.Providers.Gemini.APIKey)
	str("VEXAL_LORE_DIR", &cfg.Lore.Dir)
	str("VEXAL_CONDITIONS_FILE", &cfg.Conditions.File)
	return errors.Join(errs...)
}

// Validate returns every problem found in cfg joined into one error.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required"))
	}
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is invalid; valid values: postgres, memory", cfg.Store.Driver))
	}
	if cfg.Store.MaxOpenConns < 0 {
		errs = append(errs, fmt.Errorf("store.max_open_conns must be >= 0, got %d", cfg.Store.MaxOpenConns))
	}

	mode := strings.ToLower(cfg.GM.DefaultMode)
	if mode != "" && !slices.Contains(validModes, mode) {
		errs = append(errs, fmt.Errorf("gm.default_mode %q is invalid; valid values: %s", cfg.GM.DefaultMode, strings.Join(validModes, ", ")))
	}
	if cfg.GM.CombatSecondsPerTurn < 0 {
		errs = append(errs, fmt.Errorf("gm.combat_seconds_per_turn must be >= 0, got %d", cfg.GM.CombatSecondsPerTurn))
	}
	if cfg.GM.HoursPerTurn < 0 {
		errs = append(errs, fmt.Errorf("gm.hours_per_turn must be >= 0, got %d", cfg.GM.HoursPerTurn))
	}
	if cfg.GM.NarrativeTimeout < 0 {
		errs = append(errs, fmt.Errorf("gm.narrative_timeout must be >= 0, got %s", cfg.GM.NarrativeTimeout))
	}
	for i, e := range cfg.GM.ReplyEffects {
		if strings.TrimSpace(e.Phrase) == "" {
			errs = append(errs, fmt.Errorf("gm.reply_effects[%d]: phrase is required", i))
		}
	}
	if mode == "llm" && cfg.Providers.OpenAI.APIKey == "" && cfg.Providers.Gemini.APIKey == "" {
		slog.Warn("gm.default_mode is llm but no provider api key is set; every narrative will use the fallback text")
	}
	if cfg.Providers.Breaker.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("providers.breaker.max_failures must be >= 0, got %d", cfg.Providers.Breaker.MaxFailures))
	}

	return errors.Join(errs...)
}
