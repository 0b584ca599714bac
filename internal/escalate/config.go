package escalate

import (
	"time"

	"github.com/cellarbook/vinident/internal/gateway"
	"github.com/cellarbook/vinident/internal/model"
)

// TierSpec names the provider, model, and call settings for one tier.
type TierSpec struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Temperature *float64      `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

func (s TierSpec) options() gateway.Options {
	return gateway.Options{
		Provider:    s.Provider,
		Model:       s.Model,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		Timeout:     s.Timeout,
	}
}

// Config drives the escalation ladder. Thresholds gate on the best score so
// far; CandidateFloor is the confidence below which disambiguation candidates
// are searched.
type Config struct {
	Tiers map[model.Tier]TierSpec `yaml:"tiers" mapstructure:"tiers"`

	Tier1Threshold  int `yaml:"tier1_threshold" mapstructure:"tier1_threshold"`
	Tier15Threshold int `yaml:"tier1_5_threshold" mapstructure:"tier1_5_threshold"`
	Tier2Threshold  int `yaml:"tier2_threshold" mapstructure:"tier2_threshold"`
	CandidateFloor  int `yaml:"candidate_floor" mapstructure:"candidate_floor"`

	// StreamFallback reruns a failed streaming identification through the
	// blocking path instead of surfacing a streaming_error.
	StreamFallback bool `yaml:"stream_fallback" mapstructure:"stream_fallback"`
}

// DefaultConfig returns the standard ladder: fast Anthropic call, a more
// deliberate rerun on the same provider, a provider switch, and a premium
// model reserved for explicit user escalation.
func DefaultConfig() Config {
	lowTemp := 0.2
	zeroTemp := 0.0
	return Config{
		Tiers: map[model.Tier]TierSpec{
			model.Tier1: {
				Provider:    "anthropic",
				Model:       "claude-haiku-4-5-20251001",
				Temperature: &lowTemp,
				MaxTokens:   1024,
				Timeout:     30 * time.Second,
			},
			model.Tier15: {
				Provider:    "anthropic",
				Model:       "claude-haiku-4-5-20251001",
				Temperature: &zeroTemp,
				MaxTokens:   2048,
				Timeout:     60 * time.Second,
			},
			model.Tier2: {
				Provider:    "openai",
				Model:       "gpt-4o-mini",
				Temperature: &zeroTemp,
				MaxTokens:   2048,
				Timeout:     60 * time.Second,
			},
			model.Tier3: {
				Provider:    "anthropic",
				Model:       "claude-sonnet-4-5-20250929",
				Temperature: &zeroTemp,
				MaxTokens:   4096,
				Timeout:     90 * time.Second,
			},
		},
		Tier1Threshold:  85,
		Tier15Threshold: 70,
		Tier2Threshold:  60,
		CandidateFloor:  30,
		StreamFallback:  true,
	}
}
