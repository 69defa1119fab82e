package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/analysis"
	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/config"
	"github.com/abhisek/empathiz/internal/llm"
	"github.com/abhisek/empathiz/internal/store"
	"github.com/abhisek/empathiz/internal/voice"
)

// errNoAnalysis is returned when neither an analysis URL nor an LLM key is
// configured.
var errNoAnalysis = errors.New("no analysis service: set EMPATHIZ_ANALYSIS_URL or an LLM API key (see empathiz --help)")

// buildCatalog returns the remote catalog when a URL is configured and the
// seeded local catalog otherwise, cached either way.
func buildCatalog(ctx context.Context, cfg config.Config, st *store.Store, log *zap.Logger) (catalog.Catalog, error) {
	if cfg.CatalogURL != "" {
		log.Info("using remote catalog", zap.String("url", cfg.CatalogURL))
		return catalog.NewCached(catalog.NewHTTPCatalog(cfg.CatalogURL, nil), cfg.CatalogTTL), nil
	}

	local := catalog.NewStoreCatalog(st.CatalogRepo())
	n, err := local.Seed(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if n > 0 {
		log.Info("seeded built-in catalog", zap.Int("topics", n))
	}
	return catalog.NewCached(local, cfg.CatalogTTL), nil
}

// buildAnalysis picks the HTTP analysis service when a URL is configured,
// and LLM scoring otherwise. The LLM provider is returned separately for
// coaching; it is nil when no key is configured.
func buildAnalysis(ctx context.Context, cfg config.Config, events store.EventRepo, log *zap.Logger) (analysis.Service, llm.Provider, error) {
	provider, perr := llm.NewProviderFromEnv(ctx, events, log)
	if perr != nil {
		log.Info("LLM provider not configured", zap.Error(perr))
		provider = nil
	}

	if cfg.AnalysisURL != "" {
		log.Info("using remote analysis", zap.String("url", cfg.AnalysisURL))
		return analysis.NewHTTPService(cfg.AnalysisURL, nil), provider, nil
	}
	if provider == nil {
		return nil, nil, fmt.Errorf("%w: %v", errNoAnalysis, perr)
	}
	return analysis.NewLLMService(provider, analysis.DefaultLLMConfig()), provider, nil
}

// demoScript is replayed by the mock speech engine.
var demoScript = []voice.Event{
	{Interim: "I would", HasInterim: true},
	{Finalized: []string{"I would take a breath "}},
	{Interim: "and ask", HasInterim: true},
	{Finalized: []string{"and ask them what happened."}},
}

// buildVoice returns the configured speech engine, or nil when voice input
// is disabled.
func buildVoice(cfg config.Config, log *zap.Logger) (voice.Engine, error) {
	switch cfg.VoiceURL {
	case "":
		return nil, nil
	case config.VoiceMock:
		eng := voice.NewMockEngine(demoScript...)
		eng.Delay = 600 * time.Millisecond
		return eng, nil
	}
	eng, err := voice.NewWebSocketEngine(cfg.VoiceURL, log)
	if err != nil {
		return nil, fmt.Errorf("voice engine: %w", err)
	}
	return eng, nil
}
