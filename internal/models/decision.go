package models

// Vote is one ensemble member's independent opinion on whether the session
// should resume. Votes are immutable once produced.
type Vote struct {
	ProviderID     string `json:"provider_id"`
	ModelID        string `json:"model_id"`
	ShouldContinue bool   `json:"should_continue"`
	Rationale      string `json:"rationale,omitempty"`
}

// Decision is the engine's final continue/stop verdict for one invocation.
type Decision struct {
	ShouldContinue bool   `json:"should_continue"`
	WaitSeconds    int    `json:"wait_seconds"`
	Reason         string `json:"reason"`
}
