package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cusip-cli/internal/config"
	"github.com/sells-group/cusip-cli/internal/pipeline"
	"github.com/sells-group/cusip-cli/internal/query"
	anthropicpkg "github.com/sells-group/cusip-cli/pkg/anthropic"
	"github.com/sells-group/cusip-cli/pkg/customsearch"
	"github.com/sells-group/cusip-cli/pkg/gemini"
)

// newQueryService builds the configured provider's query service.
func newQueryService(cfg *config.Config) (query.Service, error) {
	var search customsearch.Client
	if cfg.Search.Enabled {
		if cfg.Search.Key == "" || cfg.Search.EngineID == "" {
			return nil, eris.New("search enabled but search.key or search.engine_id missing")
		}
		search = customsearch.NewClient(cfg.Search.Key, cfg.Search.EngineID,
			customsearch.WithBaseURL(cfg.Search.BaseURL))
	}
	searchTimeout := time.Duration(cfg.Search.TimeoutSecs) * time.Second

	switch cfg.Provider {
	case "", "gemini":
		if cfg.Gemini.Key == "" {
			return nil, eris.New("gemini.key is required")
		}
		llm := gemini.NewClient(cfg.Gemini.Key,
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithModel(cfg.Gemini.Model))
		var opts []query.GeminiOption
		if search != nil {
			opts = append(opts, query.WithSearch(search, searchTimeout, cfg.Search.MaxResults))
		}
		return query.NewGeminiService(llm, opts...), nil

	case "anthropic":
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("anthropic.key is required")
		}
		llm := anthropicpkg.NewClient(cfg.Anthropic.Key)
		var opts []query.ClaudeOption
		if search != nil {
			opts = append(opts, query.WithClaudeSearch(search, searchTimeout, cfg.Search.MaxResults))
		}
		return query.NewClaudeService(llm, cfg.Anthropic.Model, opts...), nil

	default:
		return nil, eris.Errorf("unknown provider %q", cfg.Provider)
	}
}

// newPipeline builds the analysis pipeline, applying a fallback-pattern
// override file when given.
func newPipeline(cfg *config.Config, patternsPath string) (*pipeline.Pipeline, error) {
	svc, err := newQueryService(cfg)
	if err != nil {
		return nil, err
	}

	var opts []pipeline.Option
	if patternsPath != "" {
		patterns, err := pipeline.LoadPatternOverrides(patternsPath)
		if err != nil {
			return nil, eris.Wrap(err, "load pattern overrides")
		}
		opts = append(opts, pipeline.WithPatterns(patterns))
	}

	return pipeline.New(svc, opts...), nil
}
