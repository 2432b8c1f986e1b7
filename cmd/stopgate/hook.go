package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/stopgate/stopgate/internal/classifier"
	"github.com/stopgate/stopgate/internal/config"
	"github.com/stopgate/stopgate/internal/ensemble"
	"github.com/stopgate/stopgate/internal/models"
	"github.com/stopgate/stopgate/internal/policy"
	"github.com/stopgate/stopgate/internal/responder"
	"github.com/stopgate/stopgate/internal/transcript"
	"github.com/stopgate/stopgate/internal/utils"
)

type hookOptions struct {
	configPath   string
	waitOverride int
}

// runStopHook is the whole pipeline for one stop event: hook event in on
// stdin, decision out on stdout. Stdout carries only the decision; all
// logging goes to stderr.
func runStopHook(ctx context.Context, opts hookOptions, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.waitOverride >= 0 {
		cfg.RetryWaitSeconds = opts.waitOverride
	}
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	event, err := readEvent(in)
	if err != nil {
		return err
	}
	if event.TranscriptPath == "" {
		slog.Debug("no transcript path in event; allowing stop")
		return nil
	}

	records, readErr := transcript.Tail(utils.ExpandHome(event.TranscriptPath), transcript.TailOptions{})
	if readErr != nil && !errors.Is(readErr, transcript.ErrUnreadable) {
		return readErr
	}

	var consulter policy.Consulter
	if cfg.Strategy == config.StrategyEnsemble {
		ens, err := ensemble.FromConfig(cfg)
		if err != nil {
			return err
		}
		consulter = ens
	}

	engine := policy.New(classifier.New(cfg.RetryWaitSeconds), consulter, policy.Options{
		Strategy:           cfg.Strategy,
		DefaultWaitSeconds: cfg.RetryWaitSeconds,
		OnMissingEvidence:  cfg.OnMissingEvidence,
	})

	decision := engine.Decide(ctx, event, records, readErr)
	slog.Debug("decision made",
		"session_id", event.SessionID,
		"should_continue", decision.ShouldContinue,
		"wait_seconds", decision.WaitSeconds,
		"reason", decision.Reason)

	body, err := responder.Render(decision)
	if err != nil {
		return err
	}
	if len(body) > 0 {
		fmt.Fprintln(out, string(body))
	}
	return nil
}

// readEvent parses the hook event from stdin. Empty input is an empty event;
// the pipeline then allows the stop.
func readEvent(in io.Reader) (models.HookEvent, error) {
	var event models.HookEvent

	data, err := io.ReadAll(in)
	if err != nil {
		return event, fmt.Errorf("reading hook event: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return event, nil
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("parsing hook event: %w", err)
	}
	return event, nil
}
