package transcript

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/stopgate/stopgate/internal/models"
)

// lineEnvelope covers the transcript line shapes the runtime writes. Content
// may be a plain string or an array of {type, text} blocks; errors may be
// nested under "error" or inlined at the top level. Unknown fields are
// ignored for forward compatibility.
type lineEnvelope struct {
	Type       string          `json:"type"`
	Role       string          `json:"role"`
	Content    json.RawMessage `json:"content"`
	StopReason string          `json:"stop_reason"`
	StatusCode int             `json:"status_code"`
	Timestamp  time.Time       `json:"timestamp"`

	Message *struct {
		Role       string          `json:"role"`
		Content    json.RawMessage `json:"content"`
		StopReason string          `json:"stop_reason"`
	} `json:"message"`

	Error *struct {
		Type       string `json:"type"`
		StatusCode int    `json:"status_code"`
		Message    string `json:"message"`
	} `json:"error"`
}

// parseLine normalizes one transcript line into a Record. Lines that are not
// JSON objects become raw-only records.
func parseLine(raw string) models.Record {
	rec := models.Record{Raw: raw}

	var env lineEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return rec
	}

	rec.Role = env.Role
	if rec.Role == "" {
		rec.Role = env.Type
	}
	rec.StopReason = env.StopReason
	rec.Timestamp = env.Timestamp

	content := env.Content
	if env.Message != nil {
		if env.Message.Role != "" {
			rec.Role = env.Message.Role
		}
		if env.Message.StopReason != "" {
			rec.StopReason = env.Message.StopReason
		}
		if len(env.Message.Content) > 0 {
			content = env.Message.Content
		}
	}
	rec.Content = flattenContent(content)

	if env.Error != nil {
		rec.Error = &models.RecordError{
			Type:       env.Error.Type,
			StatusCode: env.Error.StatusCode,
			Message:    env.Error.Message,
		}
		if rec.Error.StatusCode == 0 {
			rec.Error.StatusCode = env.StatusCode
		}
	}

	return rec
}

// flattenContent joins string content or the text blocks of array content.
func flattenContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var blocks []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}

	var parts []string
	for _, b := range blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
