// Package config loads the provider and policy configuration consumed by
// the decision engine. The file is loaded once per invocation and treated as
// an immutable snapshot.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stopgate/stopgate/internal/utils"
)

// Default values for the configuration. New() references them and no other
// code should duplicate them.
const (
	DefaultPath = "~/.claude/stopgate/config.yaml"

	DefaultTimeoutSeconds   = 30
	DefaultRetryWaitSeconds = 30
)

// Strategy selects how ambiguous stops are resolved.
type Strategy string

const (
	// StrategyEnsemble routes signals the classifier cannot resolve locally
	// to the provider ensemble (the default).
	StrategyEnsemble Strategy = "ensemble"
	// StrategyHeuristic never consults AI; only the local detectors decide.
	StrategyHeuristic Strategy = "heuristic"
)

// FailMode is the default decision when there is no evidence to act on
// (unreadable transcript, empty ensemble).
type FailMode string

const (
	// FailOpen allows the stop. Blocking a session we cannot inspect is
	// worse than a missed resume.
	FailOpen FailMode = "stop"
	// FailClosed forces a resume, for unattended long-running tasks.
	FailClosed FailMode = "resume"
)

// Provider is one OpenAI-compatible endpoint with the models consulted on
// it. Each (provider, model) pair casts one ensemble vote.
type Provider struct {
	ID             string   `yaml:"id"`
	APIBase        string   `yaml:"api_base"`
	APIKey         string   `yaml:"api_key,omitempty"`
	Models         []string `yaml:"models"`
	TimeoutSeconds int      `yaml:"timeout_seconds,omitempty"`

	// Options carries loosely-typed request overrides (temperature,
	// max_tokens, json_mode) decoded by the ensemble.
	Options map[string]any `yaml:"options,omitempty"`
}

// EffectiveTimeout returns the per-request timeout for this provider,
// falling back to the global setting.
func (p Provider) EffectiveTimeout(globalSeconds int) time.Duration {
	seconds := p.TimeoutSeconds
	if seconds <= 0 {
		seconds = globalSeconds
	}
	if seconds <= 0 {
		seconds = DefaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// Config is the top-level configuration loaded from the config file.
type Config struct {
	Providers         []Provider `yaml:"providers,omitempty"`
	Strategy          Strategy   `yaml:"strategy,omitempty"`
	RetryWaitSeconds  int        `yaml:"retry_wait_seconds,omitempty"`
	TimeoutSeconds    int        `yaml:"timeout_seconds,omitempty"`
	OnMissingEvidence FailMode   `yaml:"on_missing_evidence,omitempty"`
	SystemPrompt      string     `yaml:"system_prompt,omitempty"`
	Debug             bool       `yaml:"debug,omitempty"`
}

// New returns a Config with all defaults populated.
func New() *Config {
	return &Config{
		Strategy:          StrategyEnsemble,
		RetryWaitSeconds:  DefaultRetryWaitSeconds,
		TimeoutSeconds:    DefaultTimeoutSeconds,
		OnMissingEvidence: FailOpen,
	}
}

// Load reads, schema-validates, and unmarshals the config file at path.
// A leading "~/" in path is expanded. Values absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	path = utils.ExpandHome(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	if errs := ValidateBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("config %s is invalid:\n  %s", path, strings.Join(errs, "\n  "))
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// check enforces constraints the schema cannot express.
func (c *Config) check() error {
	if c.Strategy == StrategyEnsemble && len(c.Providers) == 0 {
		return errors.New(`strategy "ensemble" requires at least one provider`)
	}
	seen := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate provider id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
