package classifier

import (
	"fmt"
	"strings"

	"github.com/stopgate/stopgate/internal/models"
)

const (
	// CleanEndStopReason marks a deliberate end of turn.
	CleanEndStopReason = "end_turn"
	// TruncationStopReason marks output cut off at the token limit.
	TruncationStopReason = "max_tokens"

	structuredWindow = 5
	statusWindow     = 5
	rawTextWindow    = 8
)

// fatalPhrases identify non-recoverable conditions in error types, error
// messages, or raw line text. Matching any of these always stops the
// session; retrying an exhausted context or a spend limit just loops.
var fatalPhrases = []string{
	"context_length_exceeded",
	"context length exceeded",
	"prompt is too long",
	"credit balance is too low",
	"spending limit",
	"usage limit reached",
	"cost limit exceeded",
}

// retryableErrorTypes are structured error.type values worth resuming after
// a delay. Compared case-insensitively.
var retryableErrorTypes = map[string]struct{}{
	"rate_limit_error":    {},
	"resource_exhausted":  {},
	"overloaded_error":    {},
	"api_error":           {},
	"unavailable":         {},
	"service_unavailable": {},
	"quota_exceeded":      {},
}

// truncationErrorTypes map to a zero-wait retry: nothing upstream needs
// recovery time after output truncation.
var truncationErrorTypes = map[string]struct{}{
	"output_truncated": {},
	"max_tokens":       {},
}

var retryableStatusCodes = map[int]struct{}{
	429: {},
	503: {},
	529: {},
}

// retryablePhrases are matched as substrings of unstructured line text.
var retryablePhrases = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"overloaded",
	"service unavailable",
	"quota exceeded",
	"resource_exhausted",
}

// truncationPhrases are retryable with zero wait.
var truncationPhrases = []string{
	"max_tokens",
	"output truncated",
	"response was truncated",
}

// fatalDetector scans every provided record for non-retryable conditions.
// It runs first so a fatal cause always overrides later, softer signals.
type fatalDetector struct{}

func (d *fatalDetector) Name() string { return "fatal" }

func (d *fatalDetector) Detect(records []models.Record) (models.Signal, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		for _, text := range recordTexts(r) {
			for _, phrase := range fatalPhrases {
				if strings.Contains(text, phrase) {
					return models.Fatal(fmt.Sprintf("non-retryable session error: %s", phrase)), true
				}
			}
		}
	}
	return models.Signal{}, false
}

// cleanEndDetector looks at the last record only: a deliberate end of turn
// is never second-guessed by scanning older, already-resolved errors.
type cleanEndDetector struct{}

func (d *cleanEndDetector) Name() string { return "clean_end" }

func (d *cleanEndDetector) Detect(records []models.Record) (models.Signal, bool) {
	last := records[len(records)-1]
	if last.StopReason == CleanEndStopReason {
		return models.Normal("session ended cleanly (end_turn)"), true
	}
	return models.Signal{}, false
}

// structuredErrorDetector matches error.type fields and truncation stop
// reasons in the trailing window, newest first.
type structuredErrorDetector struct {
	wait int
}

func (d *structuredErrorDetector) Name() string { return "structured_error" }

func (d *structuredErrorDetector) Detect(records []models.Record) (models.Signal, bool) {
	window := lastN(records, structuredWindow)
	for i := len(window) - 1; i >= 0; i-- {
		r := window[i]

		if r.StopReason == TruncationStopReason {
			return models.Retryable("output truncated (max_tokens)", 0), true
		}

		if r.Error == nil {
			continue
		}
		errType := strings.ToLower(r.Error.Type)
		if _, ok := truncationErrorTypes[errType]; ok {
			return models.Retryable(fmt.Sprintf("output truncated (%s)", r.Error.Type), 0), true
		}
		if _, ok := retryableErrorTypes[errType]; ok {
			return models.Retryable(fmt.Sprintf("retryable API error: %s", r.Error.Type), d.wait), true
		}
	}
	return models.Signal{}, false
}

// httpStatusDetector matches embedded HTTP status codes against the
// retryable set.
type httpStatusDetector struct {
	wait int
}

func (d *httpStatusDetector) Name() string { return "http_status" }

func (d *httpStatusDetector) Detect(records []models.Record) (models.Signal, bool) {
	window := lastN(records, statusWindow)
	for i := len(window) - 1; i >= 0; i-- {
		r := window[i]
		if r.Error == nil {
			continue
		}
		if _, ok := retryableStatusCodes[r.Error.StatusCode]; ok {
			return models.Retryable(fmt.Sprintf("retryable HTTP status %d", r.Error.StatusCode), d.wait), true
		}
	}
	return models.Signal{}, false
}

// rawTextDetector is the last resort: substring matching over unstructured
// line text. It only runs when no record in its window carried a structured
// error, since substring matching has the highest false-positive risk.
type rawTextDetector struct {
	wait int
}

func (d *rawTextDetector) Name() string { return "raw_text" }

func (d *rawTextDetector) Detect(records []models.Record) (models.Signal, bool) {
	window := lastN(records, rawTextWindow)
	for _, r := range window {
		if r.Error != nil {
			return models.Signal{}, false
		}
	}

	for i := len(window) - 1; i >= 0; i-- {
		text := strings.ToLower(window[i].Raw)
		for _, phrase := range truncationPhrases {
			if strings.Contains(text, phrase) {
				return models.Retryable(fmt.Sprintf("output truncation marker in transcript text: %q", phrase), 0), true
			}
		}
		for _, phrase := range retryablePhrases {
			if strings.Contains(text, phrase) {
				return models.Retryable(fmt.Sprintf("error phrase in transcript text: %q", phrase), d.wait), true
			}
		}
	}
	return models.Signal{}, false
}

// recordTexts returns the lowercased texts of a record worth scanning for
// fatal phrases: structured error fields plus the raw line.
func recordTexts(r models.Record) []string {
	texts := make([]string, 0, 3)
	if r.Error != nil {
		texts = append(texts, strings.ToLower(r.Error.Type), strings.ToLower(r.Error.Message))
	}
	if r.Raw != "" {
		texts = append(texts, strings.ToLower(r.Raw))
	}
	return texts
}
