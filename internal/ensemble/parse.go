package ensemble

import (
	"encoding/json"
	"strings"
)

// Verdict is the structured answer a judge model must produce.
type Verdict struct {
	ShouldContinue bool   `json:"should_continue"`
	Reason         string `json:"reason"`
}

// thinkingTags are reasoning wrappers some models emit around their answer.
var thinkingTags = []string{"think", "thinking", "reasoning", "thought", "reflection"}

// ParseVerdict extracts a Verdict from model output, tolerating thinking
// tags and surrounding prose. Returns false when no verdict can be
// recovered; the caller treats that as an abstention.
func ParseVerdict(content string) (Verdict, bool) {
	if v, ok := tryParse(content); ok {
		return v, true
	}

	cleaned := StripThinkingTags(content)
	if v, ok := tryParse(cleaned); ok {
		return v, true
	}

	if obj, ok := extractTrailingJSON(cleaned); ok {
		if v, ok := tryParse(obj); ok {
			return v, true
		}
	}

	// Tag stripping may have mangled an object that was fine in the original.
	if obj, ok := extractTrailingJSON(content); ok {
		if v, ok := tryParse(obj); ok {
			return v, true
		}
	}

	return Verdict{}, false
}

// tryParse accepts only objects that explicitly carry should_continue.
func tryParse(s string) (Verdict, bool) {
	var probe struct {
		ShouldContinue *bool  `json:"should_continue"`
		Reason         string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(s), &probe); err != nil || probe.ShouldContinue == nil {
		return Verdict{}, false
	}
	return Verdict{ShouldContinue: *probe.ShouldContinue, Reason: probe.Reason}, true
}

// StripThinkingTags removes <think>...</think> style wrappers,
// case-insensitively, including repeated occurrences.
func StripThinkingTags(text string) string {
	for _, tag := range thinkingTags {
		openTag := "<" + tag + ">"
		closeTag := "</" + tag + ">"

		for {
			lower := strings.ToLower(text)
			start := strings.Index(lower, openTag)
			if start < 0 {
				break
			}
			rel := strings.Index(lower[start:], closeTag)
			if rel < 0 {
				break
			}
			end := start + rel + len(closeTag)
			text = text[:start] + text[end:]
		}
	}
	return strings.TrimSpace(text)
}

// extractTrailingJSON finds the last balanced {...} object in text by
// scanning from the end.
func extractTrailingJSON(text string) (string, bool) {
	depth := 0
	end := -1

	for i := len(text) - 1; i >= 0; i-- {
		switch text[i] {
		case '}':
			if depth == 0 {
				end = i + 1
			}
			depth++
		case '{':
			depth--
			if depth == 0 && end >= 0 {
				return text[i:end], true
			}
		}
	}
	return "", false
}
