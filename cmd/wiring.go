package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/ai"
	"github.com/spigell/talent-discovery/internal/ai/gemini"
	"github.com/spigell/talent-discovery/internal/ai/groq"
	"github.com/spigell/talent-discovery/internal/profile"
	"github.com/spigell/talent-discovery/internal/scorer"
	"github.com/spigell/talent-discovery/internal/search"
	"github.com/spigell/talent-discovery/internal/secrets"
	"github.com/spigell/talent-discovery/internal/store"
	"github.com/spigell/talent-discovery/internal/store/jsonfile"
	"github.com/spigell/talent-discovery/internal/store/sqlite"
)

const (
	providerGroq   = "groq"
	providerGemini = "gemini"
)

func openStore(cfg StoreConfig, log *zap.Logger) (profile.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case store.BackendJSON, "":
		return jsonfile.Open(cfg.Path, log)
	case store.BackendSQLite:
		return sqlite.Open(cfg.Path, log)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

// newGenerator builds the transport for the configured provider.
func newGenerator(ctx context.Context, cfg AIConfig, log *zap.Logger) (ai.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case providerGroq, "":
		key, err := secrets.Load(secrets.Source{
			Name:  "groq api key",
			File:  cfg.Groq.APIKeyFile,
			Value: cfg.Groq.APIKey,
			Env:   envGroqKey,
		})
		if err != nil {
			return nil, err
		}
		return groq.New(groq.Config{
			APIKey:      key,
			BaseURL:     cfg.Groq.BaseURL,
			Model:       cfg.Groq.Model,
			Temperature: cfg.Groq.Temperature,
			Timeout:     cfg.Timeout,
		}, log)
	case providerGemini:
		key, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Value: cfg.Gemini.APIKey,
			Env:   envGeminiKey,
		})
		if err != nil {
			return nil, err
		}
		return gemini.NewGenerator(ctx, gemini.Config{APIKey: key, Model: cfg.Gemini.Model}, log)
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}

// newRanker returns nil when model ranking is disabled or cannot be set up;
// search then relies on keyword scoring alone.
func newRanker(ctx context.Context, cfg AIConfig, log *zap.Logger) ai.Ranker {
	if !cfg.Enabled {
		log.Info("model ranking disabled, using keyword scoring")
		return nil
	}

	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		log.Warn("model ranking unavailable, using keyword scoring", zap.String("provider", cfg.Provider), zap.Error(err))
		return nil
	}

	log.Info("model ranking enabled", zap.String("provider", cfg.Provider), zap.String("model", generator.Model()))

	return ai.NewRanker(generator, ai.Options{
		Provider:     cfg.Provider,
		Timeout:      cfg.Timeout,
		MaxLogLength: cfg.MaxLogLength,
	}, log)
}

func newSearchService(ctx context.Context, cfg *Config, st profile.Store, log *zap.Logger) *search.Service {
	sc := scorer.New(scorer.Merge(cfg.Search.Vocabulary))
	return search.NewService(st, newRanker(ctx, cfg.AI, log), sc, log)
}
