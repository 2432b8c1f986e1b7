package transcript

import (
	"fmt"
	"strings"

	"github.com/stopgate/stopgate/internal/models"
)

// FormatWindow renders records into the plain-text conversation window sent
// to the provider ensemble. Raw-only records are omitted; the models judge
// the conversation, not the file format.
func FormatWindow(records []models.Record) string {
	var sb strings.Builder

	for _, r := range records {
		switch r.Role {
		case "user":
			if r.Content != "" {
				fmt.Fprintf(&sb, "User: %s\n", r.Content)
			}
		case "assistant":
			if r.Content != "" {
				fmt.Fprintf(&sb, "Assistant: %s\n", r.Content)
			}
			if r.StopReason != "" {
				fmt.Fprintf(&sb, "[stop_reason: %s]\n", r.StopReason)
			}
		}

		if r.Error != nil {
			if r.Error.StatusCode != 0 {
				fmt.Fprintf(&sb, "[Error: %s (status %d): %s]\n", r.Error.Type, r.Error.StatusCode, r.Error.Message)
			} else {
				fmt.Fprintf(&sb, "[Error: %s: %s]\n", r.Error.Type, r.Error.Message)
			}
		}
	}

	return sb.String()
}
