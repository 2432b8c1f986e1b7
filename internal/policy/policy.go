// Package policy combines the classifier signal and, when needed, the
// ensemble vote into the final continue/stop decision.
package policy

import (
	"context"
	"log/slog"
	"time"

	"github.com/stopgate/stopgate/internal/classifier"
	"github.com/stopgate/stopgate/internal/config"
	"github.com/stopgate/stopgate/internal/ensemble"
	"github.com/stopgate/stopgate/internal/models"
	"github.com/stopgate/stopgate/internal/transcript"
)

// Consulter is the ensemble surface the policy needs.
type Consulter interface {
	Consult(ctx context.Context, window string) (ensemble.Tally, error)
}

// Options configure the decision policy.
type Options struct {
	Strategy config.Strategy

	// DefaultWaitSeconds is the delay applied when the ensemble, rather
	// than a classifier signal, decides to resume.
	DefaultWaitSeconds int

	// OnMissingEvidence picks the verdict when there is nothing to decide
	// on: fail open (allow the stop) or fail closed (force a resume).
	OnMissingEvidence config.FailMode
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSleep replaces the blocking wait, for tests.
func WithSleep(fn func(time.Duration)) EngineOption {
	return func(e *Engine) {
		e.sleep = fn
	}
}

// Engine is the decision state machine for one invocation.
type Engine struct {
	classifier *classifier.Classifier
	consulter  Consulter
	opts       Options
	sleep      func(time.Duration)
}

// New builds an Engine. consulter may be nil under the heuristic strategy.
func New(cls *classifier.Classifier, consulter Consulter, opts Options, engineOpts ...EngineOption) *Engine {
	e := &Engine{
		classifier: cls,
		consulter:  consulter,
		opts:       opts,
		sleep:      time.Sleep,
	}
	for _, o := range engineOpts {
		o(e)
	}
	return e
}

// Decide maps the hook event and transcript tail to a decision. readErr is
// the transcript read failure, if any; it resolves via the missing-evidence
// policy rather than failing the invocation.
//
// Resume decisions block for their wait before returning, to throttle the
// retry cadence against a rate-limited upstream.
func (e *Engine) Decide(ctx context.Context, event models.HookEvent, records []models.Record, readErr error) models.Decision {
	// The loop guard overrides everything: a prior resume in this stop
	// cycle already fired, so the process must not resume again.
	if event.LoopGuardActive {
		slog.Debug("loop guard active; forcing stop", "session_id", event.SessionID)
		return stop("stop hook already intervened this cycle; allowing stop")
	}

	if readErr != nil {
		slog.Warn("transcript unreadable", "path", event.TranscriptPath, "error", readErr)
		return e.missingEvidence("transcript unreadable")
	}
	if len(records) == 0 {
		return e.missingEvidence("transcript empty")
	}

	sig := e.classifier.Classify(records)
	switch sig.Kind {
	case models.SignalFatal, models.SignalNormal:
		// Neither is ever second-guessed by the ensemble.
		return stop(sig.Reason)
	case models.SignalRetryable:
		return e.resume(sig.Reason, sig.WaitSeconds)
	}

	if e.opts.Strategy != config.StrategyEnsemble || e.consulter == nil {
		return e.missingEvidence("no local signal")
	}

	tally, err := e.consulter.Consult(ctx, transcript.FormatWindow(records))
	if err != nil {
		slog.Warn("ensemble unavailable", "error", err)
		return e.missingEvidence("no local signal and ensemble unavailable")
	}
	if tally.ShouldContinue() {
		return e.resume(tally.Reason(), e.opts.DefaultWaitSeconds)
	}
	return stop(tally.Reason())
}

func (e *Engine) resume(reason string, waitSeconds int) models.Decision {
	if waitSeconds > 0 {
		slog.Info("throttling before resume", "wait_seconds", waitSeconds)
		e.sleep(time.Duration(waitSeconds) * time.Second)
	}
	return models.Decision{ShouldContinue: true, WaitSeconds: waitSeconds, Reason: reason}
}

func (e *Engine) missingEvidence(cause string) models.Decision {
	if e.opts.OnMissingEvidence == config.FailClosed {
		return models.Decision{ShouldContinue: true, Reason: cause + "; resuming per fail-closed policy"}
	}
	return stop(cause + "; allowing stop")
}

func stop(reason string) models.Decision {
	return models.Decision{ShouldContinue: false, Reason: reason}
}
