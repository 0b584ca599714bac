// Package config loads application configuration from file and environment
// and owns global logger initialisation.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Collection CollectionConfig `yaml:"collection" mapstructure:"collection"`
	Reference  ReferenceConfig  `yaml:"reference" mapstructure:"reference"`
	Escalation EscalationConfig `yaml:"escalation" mapstructure:"escalation"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Lexicon    LexiconConfig    `yaml:"lexicon" mapstructure:"lexicon"`
	Pricing    PricingConfig    `yaml:"pricing" mapstructure:"pricing"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	HaikuModel  string `yaml:"haiku_model" mapstructure:"haiku_model"`
	SonnetModel string `yaml:"sonnet_model" mapstructure:"sonnet_model"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	MiniModel string `yaml:"mini_model" mapstructure:"mini_model"`
}

// CollectionConfig configures the local collection database.
type CollectionConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ReferenceConfig configures the shared appellation reference database.
// An empty DatabaseURL disables the backing store; the built-in tables
// still serve lookups.
type ReferenceConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// TierConfig names the provider, model and call settings for one
// escalation tier.
type TierConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// EscalationConfig configures the tier ladder and its thresholds.
type EscalationConfig struct {
	Tiers map[string]TierConfig `yaml:"tiers" mapstructure:"tiers"`

	Tier1Threshold  int  `yaml:"tier1_threshold" mapstructure:"tier1_threshold"`
	Tier15Threshold int  `yaml:"tier1_5_threshold" mapstructure:"tier1_5_threshold"`
	Tier2Threshold  int  `yaml:"tier2_threshold" mapstructure:"tier2_threshold"`
	CandidateFloor  int  `yaml:"candidate_floor" mapstructure:"candidate_floor"`
	StreamFallback  bool `yaml:"stream_fallback" mapstructure:"stream_fallback"`
}

// SearchConfig configures disambiguation candidate search.
type SearchConfig struct {
	MaxCandidates int `yaml:"max_candidates" mapstructure:"max_candidates"`
}

// LexiconConfig points at optional vocabulary extension files.
type LexiconConfig struct {
	AppellationsPath string `yaml:"appellations_path" mapstructure:"appellations_path"`
}

// PricingConfig holds per-provider pricing overrides.
type PricingConfig struct {
	Anthropic map[string]ModelPricing `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI    map[string]ModelPricing `yaml:"openai" mapstructure:"openai"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VINIDENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets and URLs get empty defaults so the keys are known to
	// viper and env-only values survive Unmarshal.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("openai.key", "")
	v.SetDefault("reference.database_url", "")
	v.SetDefault("lexicon.appellations_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("collection.path", "vinident.db")
	v.SetDefault("reference.max_conns", 10)
	v.SetDefault("reference.min_conns", 2)
	v.SetDefault("search.max_candidates", 5)
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.sonnet_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.mini_model", "gpt-4o-mini")
	v.SetDefault("escalation.tier1_threshold", 85)
	v.SetDefault("escalation.tier1_5_threshold", 70)
	v.SetDefault("escalation.tier2_threshold", 60)
	v.SetDefault("escalation.candidate_floor", 30)
	v.SetDefault("escalation.stream_fallback", true)
	v.SetDefault("escalation.tiers.tier1.provider", "anthropic")
	v.SetDefault("escalation.tiers.tier1.temperature", 0.2)
	v.SetDefault("escalation.tiers.tier1.max_tokens", 1024)
	v.SetDefault("escalation.tiers.tier1.timeout_secs", 30)
	v.SetDefault("escalation.tiers.tier1_5.provider", "anthropic")
	v.SetDefault("escalation.tiers.tier1_5.max_tokens", 2048)
	v.SetDefault("escalation.tiers.tier1_5.timeout_secs", 60)
	v.SetDefault("escalation.tiers.tier2.provider", "openai")
	v.SetDefault("escalation.tiers.tier2.max_tokens", 2048)
	v.SetDefault("escalation.tiers.tier2.timeout_secs", 60)
	v.SetDefault("escalation.tiers.tier3.provider", "anthropic")
	v.SetDefault("escalation.tiers.tier3.max_tokens", 4096)
	v.SetDefault("escalation.tiers.tier3.timeout_secs", 90)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// The tier model names default to the provider-level model settings so a
	// single override moves every tier on that provider.
	applyModelDefaults(&cfg)

	return &cfg, nil
}

func applyModelDefaults(cfg *Config) {
	if cfg.Escalation.Tiers == nil {
		cfg.Escalation.Tiers = make(map[string]TierConfig)
	}
	defaults := map[string]string{
		"tier1":   cfg.Anthropic.HaikuModel,
		"tier1_5": cfg.Anthropic.HaikuModel,
		"tier2":   cfg.OpenAI.MiniModel,
		"tier3":   cfg.Anthropic.SonnetModel,
	}
	for tier, model := range defaults {
		tc := cfg.Escalation.Tiers[tier]
		if tc.Model == "" {
			tc.Model = model
		}
		cfg.Escalation.Tiers[tier] = tc
	}
}

// Validate checks the fields the given run mode depends on. Modes: identify
// (CLI identification, incl. premium), serve (HTTP API), migrate (schema
// setup), lexicon (reference data load).
func (c *Config) Validate(mode string) error {
	var problems []string

	needProviders := func() {
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if tier, ok := c.Escalation.Tiers["tier2"]; ok && tier.Provider == "openai" && c.OpenAI.Key == "" {
			problems = append(problems, "openai.key is required while tier2 uses openai")
		}
	}
	needThresholds := func() {
		for name, v := range map[string]int{
			"tier1_threshold":   c.Escalation.Tier1Threshold,
			"tier1_5_threshold": c.Escalation.Tier15Threshold,
			"tier2_threshold":   c.Escalation.Tier2Threshold,
			"candidate_floor":   c.Escalation.CandidateFloor,
		} {
			if v < 0 || v > 100 {
				problems = append(problems, "escalation."+name+" must be in [0,100]")
			}
		}
	}

	switch mode {
	case "identify":
		needProviders()
		needThresholds()
	case "serve":
		needProviders()
		needThresholds()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "migrate":
		// SQLite-only migration is valid; nothing to check.
	case "lexicon":
		if c.Reference.DatabaseURL == "" {
			problems = append(problems, "reference.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
