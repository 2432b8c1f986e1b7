package models

// HookEvent is the Stop-hook payload the agent runtime writes to stdin.
// The runtime sends more fields than we consume; unknown fields are ignored.
type HookEvent struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	CWD            string `json:"cwd,omitempty"`
	HookEventName  string `json:"hook_event_name,omitempty"`

	// LoopGuardActive is set by the runtime when a stop hook already blocked
	// a stop in this cycle. It bounds retry recursion: when set, the decision
	// is always to allow the stop.
	LoopGuardActive bool `json:"stop_hook_active"`
}
