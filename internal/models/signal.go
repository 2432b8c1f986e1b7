package models

// SignalKind classifies what the error classifier concluded from the
// transcript tail.
type SignalKind string

const (
	// SignalFatal is a non-recoverable session error (context or spend limit).
	// It always resolves to a stop and is never retried.
	SignalFatal SignalKind = "fatal"
	// SignalRetryable is a transient failure worth resuming from.
	SignalRetryable SignalKind = "retryable"
	// SignalNormal is a clean end of turn.
	SignalNormal SignalKind = "normal"
	// SignalUnknown means no local detector matched.
	SignalUnknown SignalKind = "unknown"
)

// Signal is the classifier's verdict on the most recent records.
type Signal struct {
	Kind   SignalKind
	Reason string

	// WaitSeconds is the retry delay for retryable signals. Output
	// truncation is retryable with a zero wait since nothing upstream
	// needs time to recover.
	WaitSeconds int
}

// Fatal returns a fatal signal with the given reason.
func Fatal(reason string) Signal {
	return Signal{Kind: SignalFatal, Reason: reason}
}

// Retryable returns a retryable signal with the given reason and wait.
func Retryable(reason string, waitSeconds int) Signal {
	return Signal{Kind: SignalRetryable, Reason: reason, WaitSeconds: waitSeconds}
}

// Normal returns a clean end-of-turn signal.
func Normal(reason string) Signal {
	return Signal{Kind: SignalNormal, Reason: reason}
}

// Unknown returns the no-match signal.
func Unknown() Signal {
	return Signal{Kind: SignalUnknown}
}
