package ensemble

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	t.Run("clean JSON", func(t *testing.T) {
		v, ok := ParseVerdict(`{"should_continue": true, "reason": "output truncated"}`)
		require.True(t, ok)
		require.True(t, v.ShouldContinue)
		require.Equal(t, "output truncated", v.Reason)
	})

	t.Run("missing should_continue is not a verdict", func(t *testing.T) {
		_, ok := ParseVerdict(`{"reason": "no idea"}`)
		require.False(t, ok)
	})

	t.Run("thinking tags stripped", func(t *testing.T) {
		v, ok := ParseVerdict("<think>\nthe transcript ends cleanly\n</think>\n{\"should_continue\": false, \"reason\": \"done\"}")
		require.True(t, ok)
		require.False(t, v.ShouldContinue)
	})

	t.Run("uppercase tags stripped", func(t *testing.T) {
		v, ok := ParseVerdict(`<THINKING>hm</THINKING>{"should_continue": true}`)
		require.True(t, ok)
		require.True(t, v.ShouldContinue)
	})

	t.Run("verdict embedded in prose", func(t *testing.T) {
		v, ok := ParseVerdict("Sure! Here's my analysis:\n{\"should_continue\": true, \"reason\": \"cut off\"}\nHope that helps.")
		require.True(t, ok)
		require.True(t, v.ShouldContinue)
		require.Equal(t, "cut off", v.Reason)
	})

	t.Run("last object wins when several are present", func(t *testing.T) {
		v, ok := ParseVerdict(`{"should_continue": true} ... reconsidering ... {"should_continue": false, "reason": "complete"}`)
		require.True(t, ok)
		require.False(t, v.ShouldContinue)
	})

	t.Run("garbage abstains", func(t *testing.T) {
		_, ok := ParseVerdict("I cannot answer in the requested format.")
		require.False(t, ok)
	})

	t.Run("empty content abstains", func(t *testing.T) {
		_, ok := ParseVerdict("")
		require.False(t, ok)
	})
}

func TestStripThinkingTags(t *testing.T) {
	t.Run("removes repeated tags", func(t *testing.T) {
		got := StripThinkingTags("<think>a</think>middle<think>b</think>")
		require.Equal(t, "middle", got)
	})

	t.Run("unclosed tag is left alone", func(t *testing.T) {
		got := StripThinkingTags("<think>never closed")
		require.Equal(t, "<think>never closed", got)
	})

	t.Run("plain text untouched", func(t *testing.T) {
		require.Equal(t, "hello", StripThinkingTags("  hello  "))
	})
}

func TestExtractTrailingJSON(t *testing.T) {
	t.Run("nested object", func(t *testing.T) {
		obj, ok := extractTrailingJSON(`prefix {"a": {"b": 1}} suffix`)
		require.True(t, ok)
		require.Equal(t, `{"a": {"b": 1}}`, obj)
	})

	t.Run("no object", func(t *testing.T) {
		_, ok := extractTrailingJSON("no braces here")
		require.False(t, ok)
	})
}
