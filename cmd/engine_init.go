package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/config"
	"github.com/cellarbook/vinident/internal/cost"
	"github.com/cellarbook/vinident/internal/escalate"
	"github.com/cellarbook/vinident/internal/gateway"
	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
	"github.com/cellarbook/vinident/internal/scoring"
	"github.com/cellarbook/vinident/internal/search"
	"github.com/cellarbook/vinident/internal/store"
	anthropicpkg "github.com/cellarbook/vinident/pkg/anthropic"
	"github.com/cellarbook/vinident/pkg/openai"
)

// engineEnv holds the stores, lexicon, and escalation engine shared by the
// identify/premium/serve commands.
type engineEnv struct {
	Engine     *escalate.Engine
	Collection *store.SQLiteCollection
	Reference  *store.PostgresReference // nil without a reference database
	Lexicon    *lexicon.Lexicon
}

// Close releases resources held by the environment.
func (e *engineEnv) Close() {
	if e.Reference != nil {
		e.Reference.Close()
	}
	if e.Collection != nil {
		_ = e.Collection.Close()
	}
}

// initEngine validates configuration for the given mode and wires the full
// identification stack. Callers should defer env.Close().
func initEngine(ctx context.Context, mode string) (*engineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	col, err := store.NewSQLite(cfg.Collection.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open collection store")
	}
	if err := col.Migrate(ctx); err != nil {
		_ = col.Close()
		return nil, eris.Wrap(err, "migrate collection store")
	}

	// Reference database is optional; the built-in vocabulary still serves
	// appellation lookups without it.
	var ref *store.PostgresReference
	if cfg.Reference.DatabaseURL != "" {
		ref, err = store.NewPostgresReference(ctx, cfg.Reference.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Reference.MaxConns,
			MinConns: cfg.Reference.MinConns,
		})
		if err != nil {
			zap.L().Warn("reference database unavailable, using built-in vocabulary only", zap.Error(err))
			ref = nil
		}
	}

	lex, err := buildLexicon(ref)
	if err != nil {
		if ref != nil {
			ref.Close()
		}
		_ = col.Close()
		return nil, err
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	openaiClient := openai.NewClient(cfg.OpenAI.Key,
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithModel(cfg.OpenAI.MiniModel),
	)

	gw := gateway.New(cost.NewCalculator(buildRates()), lex,
		gateway.NewAnthropicProvider(anthropicClient),
		gateway.NewOpenAIProvider(openaiClient),
	)

	scorer := scoring.NewScorer(lex, scoring.DefaultThresholds())

	var reference store.ReferenceStore
	if ref != nil {
		reference = ref
	}
	searcher := search.New(col, reference, lex, cfg.Search.MaxCandidates)

	engine := escalate.New(gw, scorer, lex, searcher, nil, buildEscalation())

	return &engineEnv{
		Engine:     engine,
		Collection: col,
		Reference:  ref,
		Lexicon:    lex,
	}, nil
}

// buildLexicon layers the optional extension file and reference resolver on
// top of the built-in vocabulary.
func buildLexicon(ref *store.PostgresReference) (*lexicon.Lexicon, error) {
	var opts []lexicon.Option
	if cfg.Lexicon.AppellationsPath != "" {
		extra, err := lexicon.LoadAppellations(cfg.Lexicon.AppellationsPath)
		if err != nil {
			return nil, eris.Wrap(err, "load appellations file")
		}
		opts = append(opts, lexicon.WithAppellations(extra))
		zap.L().Info("appellation extensions loaded",
			zap.String("path", cfg.Lexicon.AppellationsPath),
			zap.Int("entries", len(extra)))
	}
	if ref != nil {
		opts = append(opts, lexicon.WithResolver(ref))
	}
	if len(opts) == 0 {
		return lexicon.Default(), nil
	}
	return lexicon.New(opts...), nil
}

// buildRates overlays configured pricing on the defaults.
func buildRates() cost.Rates {
	rates := cost.DefaultRates()
	for m, p := range cfg.Pricing.Anthropic {
		rates.Anthropic[m] = toModelRate(p)
	}
	for m, p := range cfg.Pricing.OpenAI {
		rates.OpenAI[m] = toModelRate(p)
	}
	return rates
}

func toModelRate(p config.ModelPricing) cost.ModelRate {
	return cost.ModelRate{
		Input:         p.Input,
		Output:        p.Output,
		CacheWriteMul: p.CacheWriteMul,
		CacheReadMul:  p.CacheReadMul,
	}
}

// buildEscalation maps the flat configuration onto the engine's ladder,
// falling back to the defaults for anything unset.
func buildEscalation() escalate.Config {
	esc := escalate.DefaultConfig()
	esc.Tier1Threshold = cfg.Escalation.Tier1Threshold
	esc.Tier15Threshold = cfg.Escalation.Tier15Threshold
	esc.Tier2Threshold = cfg.Escalation.Tier2Threshold
	esc.CandidateFloor = cfg.Escalation.CandidateFloor
	esc.StreamFallback = cfg.Escalation.StreamFallback

	for name, tc := range cfg.Escalation.Tiers {
		tier := model.Tier(name)
		spec, ok := esc.Tiers[tier]
		if !ok {
			continue
		}
		if tc.Provider != "" {
			spec.Provider = tc.Provider
		}
		if tc.Model != "" {
			spec.Model = tc.Model
		}
		if tc.Temperature != 0 {
			t := tc.Temperature
			spec.Temperature = &t
		}
		if tc.MaxTokens != 0 {
			spec.MaxTokens = tc.MaxTokens
		}
		if tc.TimeoutSecs != 0 {
			spec.Timeout = time.Duration(tc.TimeoutSecs) * time.Second
		}
		esc.Tiers[tier] = spec
	}
	return esc
}
