package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"vexal/db/migrations"
	httpadapter "vexal/internal/adapter/http"
	staticlore "vexal/internal/adapter/lore/static"
	metricsinmem "vexal/internal/adapter/metrics/inmemory"
	"vexal/internal/adapter/narrative"
	"vexal/internal/adapter/narrative/gemini"
	"vexal/internal/adapter/narrative/openai"
	gormrepo "vexal/internal/adapter/repo/gorm"
	"vexal/internal/adapter/repo/memory"
	"vexal/internal/app/auth"
	"vexal/internal/app/gm"
	"vexal/internal/app/ports"
	"vexal/internal/app/replay"
	"vexal/internal/app/status"
	"vexal/internal/config"
	"vexal/internal/domain/command"
	"vexal/internal/domain/condition"
	"vexal/internal/domain/gameclock"
	"vexal/internal/domain/lore"
	"vexal/internal/domain/stats"
	"vexal/internal/observe"
	"vexal/internal/resilience"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.opentelemetry.io/otel"
)

const defaultLoreDir = "./lore"

type repos struct {
	states      ports.SessionStateRepository
	credentials ports.SessionCredentialRepository
	turns       ports.TurnRepository
	tx          ports.TxManager
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("VEXAL_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel.SlogLevel(),
	})))

	ctx := context.Background()

	registry, err := buildRegistry(cfg.Conditions)
	if err != nil {
		return err
	}
	r, err := buildRepos(ctx, cfg.Store)
	if err != nil {
		return err
	}
	seed, err := loadSeedLore(ctx, cfg.Lore)
	if err != nil {
		return err
	}

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "vexal"})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("metrics shutdown failed", "error", err)
		}
	}()
	otelMetrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return fmt.Errorf("create instruments: %w", err)
	}
	kpiRecorder := metricsinmem.NewRecorder()

	clock := gameclock.Config{
		HoursPerTurn:         cfg.GM.HoursPerTurn,
		CombatSecondsPerTurn: cfg.GM.CombatSecondsPerTurn,
	}
	replyEffects := cfg.GM.ReplyEffects
	if len(replyEffects) == 0 {
		replyEffects = command.DefaultReplyEffects()
	}
	resolver := stats.NewResolver(registry)

	h := httpadapter.Handler{
		RegisterUC: auth.RegisterUseCase{
			Credentials: r.credentials,
			StateRepo:   r.states,
			TxManager:   r.tx,
			Clock:       clock,
			SeedLore:    seed,
			Now:         time.Now,
		},
		AuthUC: auth.VerifyUseCase{Credentials: r.credentials},
		GMUC: gm.UseCase{
			TxManager:        r.tx,
			StateRepo:        r.states,
			Turns:            r.turns,
			Narrator:         buildNarrator(ctx, cfg.Providers),
			Metrics:          observe.Multi{kpiRecorder, otelMetrics},
			Locks:            gm.NewSessionLocks(),
			Interpreter:      command.Default(),
			Registry:         registry,
			Resolver:         resolver,
			Clock:            clock,
			DefaultMode:      cfg.GM.DefaultMode,
			ReplyEffects:     replyEffects,
			SeedLore:         seed,
			NarrativeTimeout: cfg.GM.NarrativeTimeout,
			Now:              time.Now,
		},
		StatusUC:  status.UseCase{StateRepo: r.states, Registry: registry, Resolver: resolver, Clock: clock},
		CatalogUC: status.CatalogUseCase{Registry: registry},
		ReplayUC:  replay.UseCase{Turns: r.turns},
		KPI:       kpiRecorder,
	}

	if addr := cfg.Server.MetricsAddr; addr != "" {
		go serveMetrics(addr)
	}

	s := server.Default(server.WithHostPorts(cfg.Server.ListenAddr))
	h.RegisterRoutes(s)

	slog.Info("vexal server listening",
		"addr", cfg.Server.ListenAddr,
		"store", cfg.Store.Driver,
		"default_mode", cfg.GM.DefaultMode)
	s.Spin()
	return nil
}

func buildRegistry(cfg config.ConditionsConfig) (*condition.Registry, error) {
	if cfg.File == "" {
		return condition.Default(), nil
	}
	reg, err := condition.LoadFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("load conditions %s: %w", cfg.File, err)
	}
	return reg, nil
}

func buildRepos(ctx context.Context, cfg config.StoreConfig) (repos, error) {
	if cfg.Driver != config.DriverPostgres {
		store := memory.NewStore()
		return repos{
			states:      memory.NewSessionStateRepo(store),
			credentials: memory.NewSessionCredentialRepo(store),
			turns:       memory.NewTurnRepo(store),
			tx:          memory.NewTxManager(store),
		}, nil
	}

	db, err := gormrepo.OpenPostgresWithPool(cfg.DSN, gormrepo.PoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return repos{}, fmt.Errorf("open postgres: %w", err)
	}
	var schema fs.FS = migrations.FS
	if cfg.MigrationsDir != "" {
		schema = os.DirFS(cfg.MigrationsDir)
	}
	if err := gormrepo.ApplyMigrations(ctx, db, schema); err != nil {
		return repos{}, fmt.Errorf("apply migrations: %w", err)
	}
	return repos{
		states:      gormrepo.NewSessionStateRepo(db),
		credentials: gormrepo.NewSessionCredentialRepo(db),
		turns:       gormrepo.NewTurnRepo(db),
		tx:          gormrepo.NewTxManager(db),
	}, nil
}

func loadSeedLore(ctx context.Context, cfg config.LoreConfig) (lore.Book, error) {
	root := resolveLoreDir(cfg.Dir)
	if root == "" {
		return lore.NewBook(), nil
	}
	book, err := staticlore.Provider{Root: root, Files: cfg.Files}.Load(ctx)
	if err != nil {
		return lore.Book{}, fmt.Errorf("load lore from %s: %w", root, err)
	}
	return book, nil
}

// resolveLoreDir prefers the configured directory and falls back to ./lore
// when it exists. An empty result disables static lore.
func resolveLoreDir(configured string) string {
	if dir := strings.TrimSpace(configured); dir != "" {
		return dir
	}
	if info, err := os.Stat(defaultLoreDir); err == nil && info.IsDir() {
		return defaultLoreDir
	}
	return ""
}

// buildNarrator returns nil when no provider is configured; llm mode then
// answers with the fallback narrative.
func buildNarrator(ctx context.Context, cfg config.ProvidersConfig) ports.NarrativeGenerator {
	chain := narrative.NewChain(resilience.BreakerConfig{
		Name:         "narrative",
		MaxFailures:  cfg.Breaker.MaxFailures,
		ResetTimeout: cfg.Breaker.ResetTimeout,
	})
	if cfg.OpenAI.APIKey != "" {
		var opts []openai.Option
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		if cfg.OpenAI.Timeout > 0 {
			opts = append(opts, openai.WithTimeout(cfg.OpenAI.Timeout))
		}
		p, err := openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model, opts...)
		if err != nil {
			slog.Warn("openai provider disabled", "error", err)
		} else {
			chain.Add("openai", p)
		}
	}
	if cfg.Gemini.APIKey != "" {
		p, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			slog.Warn("gemini provider disabled", "error", err)
		} else {
			chain.Add("gemini", p)
		}
	}
	if chain.Len() == 0 {
		return nil
	}
	return chain
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observe.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	slog.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics server stopped", "error", err)
	}
}
