package main

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/config"
	dbRedis "github.com/kailas-cloud/talentmatch/internal/db/redis"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	logpkg "github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
	"github.com/kailas-cloud/talentmatch/internal/repository/embcache"
	"github.com/kailas-cloud/talentmatch/internal/repository/record"
	"github.com/kailas-cloud/talentmatch/internal/repository/session"
	"github.com/kailas-cloud/talentmatch/internal/repository/sqlite"
	"github.com/kailas-cloud/talentmatch/internal/repository/vector"
	"github.com/kailas-cloud/talentmatch/internal/tracing"
	"github.com/kailas-cloud/talentmatch/internal/transport/gemini"
	"github.com/kailas-cloud/talentmatch/internal/transport/openai"
	chatuc "github.com/kailas-cloud/talentmatch/internal/usecase/chat"
	"github.com/kailas-cloud/talentmatch/internal/usecase/classify"
	embeddinguc "github.com/kailas-cloud/talentmatch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/talentmatch/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/talentmatch/internal/usecase/ingest"
	"github.com/kailas-cloud/talentmatch/internal/usecase/orchestrator"
	searchuc "github.com/kailas-cloud/talentmatch/internal/usecase/search"
)

// application is the composition root shared by every command.
type application struct {
	cfg    config.Config
	logger *zap.Logger

	store  *dbRedis.Store
	sqlite *sqlite.DB

	ingest *ingestuc.Service
	search *searchuc.Service
	chat   *chatuc.Service
	health *healthuc.Service
	orch   *orchestrator.Provider

	shutdownTracing tracing.Shutdown
}

// persistence groups the record and session stores of the selected driver.
type persistence struct {
	resumes  ingestuc.RecordStore[resume.Resume]
	jobs     ingestuc.RecordStore[job.Job]
	sessions chatuc.SessionStore
}

// setup loads config and logger for a command.
func setup(opts *rootOptions) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := logpkg.NewLogger(opts.env, level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

// newApplication connects to every dependency and assembles the services.
func newApplication(ctx context.Context, cfg config.Config, logger *zap.Logger) (*application, error) {
	a := &application{cfg: cfg, logger: logger}

	tp, shutdown, err := tracing.Setup(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Exporter:    cfg.Tracing.Exporter,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	a.shutdownTracing = shutdown

	metrics.RegisterAll()

	a.store, err = dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("create database store: %w", err)
	}
	if err := a.store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

	index := vector.New(a.store, cfg.Embedding.Dimensions, vector.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := index.EnsureIndexes(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	persist, err := a.openPersistence(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	baseLLM, err := buildCompleter(ctx, cfg.LLM, logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	baseEmbedder, err := buildBaseEmbedder(ctx, cfg.Embedding, logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	llm := tracing.NewCompleter(baseLLM, tp)
	docEmbedder := a.embeddingChain(baseEmbedder, cfg.Embedding.DocumentInstruction, "document", tp)
	queryEmbedder := a.embeddingChain(baseEmbedder, cfg.Embedding.QueryInstruction, "query", tp)
	logger.Info("Providers ready",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	catalog, err := prompts.Load()
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	classifier := classify.New(llm, catalog, logger)
	a.ingest = ingestuc.New(llm, catalog, docEmbedder, index, persist.resumes, persist.jobs, logger)
	a.search = searchuc.New(index, queryEmbedder, llm, catalog, persist.resumes, persist.jobs, searchuc.Config{
		DefaultThreshold: cfg.Search.DefaultThreshold,
		DefaultLimit:     cfg.Search.DefaultLimit,
		MaxLimit:         cfg.Search.MaxLimit,
	}, logger)
	a.chat = chatuc.New(llm, catalog, persist.sessions, persist.resumes, persist.jobs, cfg.Chat.HistoryWindow, logger)

	timeout := time.Duration(cfg.Orchestrator.RunTimeoutSec) * time.Second
	a.orch = orchestrator.NewProvider(func() (*orchestrator.Orchestrator, error) {
		return orchestrator.New(classifier, a.ingest, a.search, a.chat, tp, timeout, logger), nil
	})

	probes := []healthuc.Probe{
		{Name: "database", Checker: healthuc.CheckerFunc(a.store.Ping)},
		{Name: "llm", Checker: providerCheck(baseLLM)},
		{Name: "embedding", Checker: providerCheck(baseEmbedder)},
	}
	if a.sqlite != nil {
		probes = append(probes, healthuc.Probe{Name: "persistence", Checker: healthuc.CheckerFunc(a.sqlite.Ping)})
	}
	a.health = healthuc.New(logger, probes...)

	return a, nil
}

// Close releases every dependency opened by newApplication.
func (a *application) Close(ctx context.Context) {
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			a.logger.Warn("Failed to close sqlite", zap.Error(err))
		}
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			a.logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}
}

func (a *application) openPersistence(ctx context.Context) (persistence, error) {
	switch a.cfg.Persistence.Driver {
	case config.PersistenceSQLite:
		sdb, err := sqlite.Open(ctx, a.cfg.Persistence.SQLitePath)
		if err != nil {
			return persistence{}, fmt.Errorf("open sqlite %s: %w", a.cfg.Persistence.SQLitePath, err)
		}
		a.sqlite = sdb
		a.logger.Info("Using sqlite persistence", zap.String("path", a.cfg.Persistence.SQLitePath))
		return persistence{resumes: sdb.Resumes(), jobs: sdb.Jobs(), sessions: sdb.Sessions()}, nil
	default:
		return persistence{
			resumes:  record.NewResumes(a.store),
			jobs:     record.NewJobs(a.store),
			sessions: session.New(a.store),
		}, nil
	}
}

// embeddingChain assembles: provider -> cache -> instrumented -> instruction -> tracing.
func (a *application) embeddingChain(
	base domain.Embedder, instruction, name string, tp trace.TracerProvider,
) domain.Embedder {
	cfg := a.cfg.Embedding

	embedder := base
	if cfg.CacheTTLSec > 0 {
		embedder = embcache.New(embedder, a.store, cfg.Model,
			time.Duration(cfg.CacheTTLSec)*time.Second, metrics.EmbeddingCacheTotal, a.logger)
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, cfg.Dimensions, a.logger)

	// outside the cache: the cache key includes the instruction
	if instruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, instruction)
	}
	return tracing.NewEmbedder(embedder, tp, name)
}

func buildCompleter(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (domain.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		c, err := gemini.NewCompleter(ctx, &gemini.Config{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini completer: %w", err)
		}
		return c, nil
	default:
		return openai.NewCompleter(&openai.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
			Logger:   logger,
		}), nil
	}
}

func buildBaseEmbedder(ctx context.Context, cfg config.EmbeddingConfig, logger *zap.Logger) (domain.Embedder, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		e, err := gemini.NewEmbedder(ctx, &gemini.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini embedder: %w", err)
		}
		return e, nil
	default:
		return openai.NewEmbedder(&openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Provider,
			Logger:     logger,
		}), nil
	}
}

// providerCheck probes v when it implements domain.HealthChecker and passes otherwise.
func providerCheck(v any) healthuc.Checker {
	return healthuc.CheckerFunc(func(ctx context.Context) error {
		hc, ok := v.(domain.HealthChecker)
		if !ok {
			return nil
		}
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("provider health check: %w", err)
		}
		return nil
	})
}
