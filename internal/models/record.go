package models

import "time"

// RecordError is the structured error payload a transcript line may carry.
type RecordError struct {
	Type       string `json:"type,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Record is one parsed transcript line, normalized from the runtime's
// JSON-lines format. Records are ordered in file order and are read-only
// after parsing.
type Record struct {
	Role       string       `json:"role,omitempty"`
	Content    string       `json:"content,omitempty"`
	StopReason string       `json:"stop_reason,omitempty"`
	Error      *RecordError `json:"error,omitempty"`
	Timestamp  time.Time    `json:"timestamp,omitempty"`

	// Raw preserves the original line text. It is set even when the line did
	// not parse as JSON, so text-level detectors can still inspect it.
	Raw string `json:"-"`
}

// Structured reports whether the record was parsed from a well-formed
// transcript entry (as opposed to a raw, unparseable line).
func (r Record) Structured() bool {
	return r.Role != "" || r.StopReason != "" || r.Error != nil
}
