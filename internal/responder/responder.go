// Package responder renders a decision into the response shape the calling
// agent runtime expects on stdout. It never decides anything itself.
package responder

import (
	"encoding/json"
	"fmt"

	"github.com/stopgate/stopgate/internal/models"
)

// blockResponse asks the runtime to block the stop and resume the session;
// the reason is surfaced to the next agent turn.
type blockResponse struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// Render encodes the decision. Allowing the stop renders as no output at
// all (the runtime's neutral default); a resume renders as a block response.
func Render(d models.Decision) ([]byte, error) {
	if !d.ShouldContinue {
		return nil, nil
	}

	out, err := json.Marshal(blockResponse{
		Decision: "block",
		Reason:   d.Reason,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding hook response: %w", err)
	}
	return out, nil
}
