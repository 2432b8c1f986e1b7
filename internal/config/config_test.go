package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	require.Equal(t, StrategyEnsemble, cfg.Strategy)
	require.Equal(t, DefaultRetryWaitSeconds, cfg.RetryWaitSeconds)
	require.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	require.Equal(t, FailOpen, cfg.OnMissingEvidence)
	require.Empty(t, cfg.Providers)
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
providers:
  - id: openai
    api_base: https://api.openai.com/v1
    api_key: sk-test
    models: [gpt-4o-mini, gpt-4o]
  - id: local
    api_base: http://localhost:11434/v1
    models: [llama3]
    timeout_seconds: 60
    options:
      temperature: 0.2
      max_tokens: 128
strategy: ensemble
retry_wait_seconds: 45
on_missing_evidence: resume
debug: true
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Len(t, cfg.Providers, 2)
		require.Equal(t, 45, cfg.RetryWaitSeconds)
		require.Equal(t, FailClosed, cfg.OnMissingEvidence)
		require.True(t, cfg.Debug)

		// Defaults survive for fields the file omits.
		require.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)

		require.Equal(t, 60*time.Second, cfg.Providers[1].EffectiveTimeout(cfg.TimeoutSeconds))
		require.Equal(t, 30*time.Second, cfg.Providers[0].EffectiveTimeout(cfg.TimeoutSeconds))
		require.Equal(t, 0.2, cfg.Providers[1].Options["temperature"])
	})

	t.Run("heuristic strategy needs no providers", func(t *testing.T) {
		path := writeConfig(t, "strategy: heuristic\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, StrategyHeuristic, cfg.Strategy)
	})

	t.Run("ensemble strategy without providers is rejected", func(t *testing.T) {
		path := writeConfig(t, "strategy: ensemble\n")
		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "requires at least one provider")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "providers: [unclosed\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("duplicate provider ids are rejected", func(t *testing.T) {
		path := writeConfig(t, `
providers:
  - id: a
    api_base: https://x.example/v1
    models: [m]
  - id: a
    api_base: https://y.example/v1
    models: [m]
`)
		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "duplicate provider id")
	})
}

func TestValidateBytes(t *testing.T) {
	t.Run("valid config has no violations", func(t *testing.T) {
		errs := ValidateBytes([]byte(`
providers:
  - id: p
    api_base: https://x.example/v1
    models: [m]
strategy: heuristic
`))
		require.Empty(t, errs)
	})

	t.Run("provider missing required fields", func(t *testing.T) {
		errs := ValidateBytes([]byte(`
providers:
  - id: p
`))
		require.NotEmpty(t, errs)
	})

	t.Run("unknown top-level keys are violations", func(t *testing.T) {
		errs := ValidateBytes([]byte("strateggy: heuristic\n"))
		require.NotEmpty(t, errs)
	})

	t.Run("bad strategy value", func(t *testing.T) {
		errs := ValidateBytes([]byte("strategy: vibes\n"))
		require.NotEmpty(t, errs)
	})
}
