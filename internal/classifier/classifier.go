// Package classifier assigns an error signal to the most recent transcript
// records using a fixed-priority chain of detectors.
//
// Each detector gets a narrower window the more permissive its matching is:
// structured-field checks look at the last 5 records, the raw-text fallback
// at the last 8, so a long-resolved historical error can never re-trigger a
// resume.
package classifier

import (
	"log/slog"

	"github.com/stopgate/stopgate/internal/models"
)

// Detector inspects recent records and may produce a signal.
type Detector interface {
	// Name identifies the detector in logs.
	Name() string

	// Detect returns the signal and true on a match.
	Detect(records []models.Record) (models.Signal, bool)
}

// Classifier runs a fixed-priority detector chain; the first match wins.
type Classifier struct {
	detectors []Detector
}

// New builds the standard chain. retryWaitSeconds is attached to retryable
// signals that need upstream recovery time; output truncation is always
// zero-wait.
func New(retryWaitSeconds int) *Classifier {
	return &Classifier{
		detectors: []Detector{
			&fatalDetector{},
			&cleanEndDetector{},
			&structuredErrorDetector{wait: retryWaitSeconds},
			&httpStatusDetector{wait: retryWaitSeconds},
			&rawTextDetector{wait: retryWaitSeconds},
		},
	}
}

// Classify returns the first matching detector's signal, or Unknown when
// nothing matches.
func (c *Classifier) Classify(records []models.Record) models.Signal {
	if len(records) == 0 {
		return models.Unknown()
	}

	for _, d := range c.detectors {
		if sig, ok := d.Detect(records); ok {
			slog.Debug("classifier matched",
				"detector", d.Name(),
				"kind", sig.Kind,
				"reason", sig.Reason)
			return sig
		}
	}
	return models.Unknown()
}

// lastN returns the trailing n records (all of them when fewer exist).
func lastN(records []models.Record, n int) []models.Record {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
