package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chtmp runs the loader from an empty temp dir so a developer's local
// config.yaml cannot leak into the test.
func chtmp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "vinident.db", cfg.Collection.Path)
	assert.Equal(t, int32(10), cfg.Reference.MaxConns)
	assert.Equal(t, 5, cfg.Search.MaxCandidates)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.HaikuModel)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.MiniModel)

	assert.Equal(t, 85, cfg.Escalation.Tier1Threshold)
	assert.Equal(t, 70, cfg.Escalation.Tier15Threshold)
	assert.Equal(t, 60, cfg.Escalation.Tier2Threshold)
	assert.Equal(t, 30, cfg.Escalation.CandidateFloor)
	assert.True(t, cfg.Escalation.StreamFallback)
}

func TestLoadTierModelDefaults(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	require.NoError(t, err)

	// Tier models follow the provider-level model settings.
	assert.Equal(t, cfg.Anthropic.HaikuModel, cfg.Escalation.Tiers["tier1"].Model)
	assert.Equal(t, cfg.Anthropic.HaikuModel, cfg.Escalation.Tiers["tier1_5"].Model)
	assert.Equal(t, cfg.OpenAI.MiniModel, cfg.Escalation.Tiers["tier2"].Model)
	assert.Equal(t, cfg.Anthropic.SonnetModel, cfg.Escalation.Tiers["tier3"].Model)

	assert.Equal(t, "anthropic", cfg.Escalation.Tiers["tier1"].Provider)
	assert.Equal(t, "openai", cfg.Escalation.Tiers["tier2"].Provider)
	assert.Equal(t, 0.2, cfg.Escalation.Tiers["tier1"].Temperature)
	assert.Equal(t, 4096, cfg.Escalation.Tiers["tier3"].MaxTokens)
}

func TestLoadConfigFile(t *testing.T) {
	chtmp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
anthropic:
  key: sk-ant-test
escalation:
  tier1_threshold: 90
  tiers:
    tier1:
      model: claude-haiku-override
`
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wd, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
	assert.Equal(t, 90, cfg.Escalation.Tier1Threshold)
	// File override beats the provider-level default.
	assert.Equal(t, "claude-haiku-override", cfg.Escalation.Tiers["tier1"].Model)
	// Untouched settings keep their defaults.
	assert.Equal(t, 70, cfg.Escalation.Tier15Threshold)
}

func TestLoadEnvOverrides(t *testing.T) {
	chtmp(t)

	t.Setenv("VINIDENT_LOG_LEVEL", "warn")
	t.Setenv("VINIDENT_SERVER_PORT", "3000")
	t.Setenv("VINIDENT_ANTHROPIC_KEY", "sk-ant-env")
	t.Setenv("VINIDENT_COLLECTION_PATH", "/tmp/wines.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sk-ant-env", cfg.Anthropic.Key)
	assert.Equal(t, "/tmp/wines.db", cfg.Collection.Path)
}

func TestValidate(t *testing.T) {
	chtmp(t)

	base := func(t *testing.T) *Config {
		t.Helper()
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("identify requires provider keys", func(t *testing.T) {
		cfg := base(t)
		err := cfg.Validate("identify")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "anthropic.key")
		assert.Contains(t, err.Error(), "openai.key")
	})

	t.Run("identify passes with keys", func(t *testing.T) {
		cfg := base(t)
		cfg.Anthropic.Key = "sk-ant"
		cfg.OpenAI.Key = "sk-oai"
		assert.NoError(t, cfg.Validate("identify"))
	})

	t.Run("openai key optional when tier2 is anthropic", func(t *testing.T) {
		cfg := base(t)
		cfg.Anthropic.Key = "sk-ant"
		tc := cfg.Escalation.Tiers["tier2"]
		tc.Provider = "anthropic"
		cfg.Escalation.Tiers["tier2"] = tc
		assert.NoError(t, cfg.Validate("identify"))
	})

	t.Run("serve rejects bad port", func(t *testing.T) {
		cfg := base(t)
		cfg.Anthropic.Key = "sk-ant"
		cfg.OpenAI.Key = "sk-oai"
		cfg.Server.Port = 0
		err := cfg.Validate("serve")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	})

	t.Run("thresholds out of range", func(t *testing.T) {
		cfg := base(t)
		cfg.Anthropic.Key = "sk-ant"
		cfg.OpenAI.Key = "sk-oai"
		cfg.Escalation.Tier1Threshold = 120
		err := cfg.Validate("identify")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tier1_threshold")
	})

	t.Run("migrate has no requirements", func(t *testing.T) {
		cfg := base(t)
		assert.NoError(t, cfg.Validate("migrate"))
	})

	t.Run("lexicon requires reference url", func(t *testing.T) {
		cfg := base(t)
		err := cfg.Validate("lexicon")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reference.database_url")

		cfg.Reference.DatabaseURL = "postgres://localhost/ref"
		assert.NoError(t, cfg.Validate("lexicon"))
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := base(t)
		assert.Error(t, cfg.Validate("bogus"))
	})
}

func TestInitLogger(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	})

	t.Run("console format", func(t *testing.T) {
		assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	})

	t.Run("invalid level", func(t *testing.T) {
		assert.Error(t, InitLogger(LogConfig{Level: "shout", Format: "json"}))
	})
}
