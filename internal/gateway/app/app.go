package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	surfacecache "newsdesk/internal/cache/surface"
	"newsdesk/internal/gateway/config"
	"newsdesk/internal/gateway/handler"
	"newsdesk/internal/gateway/server"
	"newsdesk/internal/gateway/service/news"
	"newsdesk/internal/generation"
	"newsdesk/internal/llm"
	"newsdesk/internal/platform/logger"
)

type App struct {
	server *server.Server
	stores *gatewayStores
	llm    llm.LLMClient
	log    *logger.Logger
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return NewWithConfig(ctx, cfg, log)
}

func NewWithConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	stores, err := initStores(cfg, log)
	if err != nil {
		return nil, err
	}

	client, err := initLLM(ctx, cfg, log)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}
	var primary generation.Generator
	if client != nil {
		primary = generation.NewModelGenerator(client)
	}
	gen := generation.NewFallbackGenerator(primary, generation.NewMockGenerator(cfg.MockSeed), log)

	svc := news.New(news.Deps{
		Store:     stores.content,
		Generator: gen,
		Drafts:    stores.drafts,
		Artifacts: stores.artifact,
		Surfaces:  surfacecache.New(cfg.Surface.Size, cfg.Surface.TTL),
		Log:       log,
	})

	mux := server.NewMux(handler.New(svc, log), cfg.StaticDir, log)
	srv := server.New(cfg.Port, mux, log)

	return &App{
		server: srv,
		stores: stores,
		llm:    client,
		log:    log,
	}, nil
}

// initLLM returns nil when no API key is configured.
func initLLM(ctx context.Context, cfg *config.Config, log *logger.Logger) (llm.LLMClient, error) {
	if !cfg.LLM.Enabled() {
		log.Warn("GEMINI_API_KEY not set, serving template content only")
		return nil, nil
	}
	opts := llm.DefaultGeminiOptions(cfg.LLM.APIKey)
	opts.Model = cfg.LLM.Model
	gemini, err := llm.NewGeminiClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to init gemini client: %w", err)
	}
	log.Info("llm ready", "model", opts.Model, "rps", cfg.LLM.RPS)
	return llm.Wrap(gemini,
		llm.Logging(log),
		llm.Retry(cfg.LLM.Retries+1, 500*time.Millisecond),
		llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst),
	), nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if a.llm != nil {
		err = errors.Join(err, a.llm.Close())
	}
	if stats := a.stores.exports.Stats(); stats.Writes > 0 || stats.Files.Misses > 0 || stats.Listings.Misses > 0 {
		a.log.Info("export cache",
			"writes", stats.Writes,
			"fileHits", stats.Files.Hits,
			"fileMisses", stats.Files.Misses,
			"listHits", stats.Listings.Hits,
			"listMisses", stats.Listings.Misses,
			"originErrors", stats.Files.OriginErrors+stats.Listings.OriginErrors+stats.Links.OriginErrors,
		)
	}
	err = errors.Join(err, a.stores.Close())
	a.log.Sync()
	return err
}
