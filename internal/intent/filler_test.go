package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractSlot(t *testing.T) {
	for _, tc := range []struct {
		name     string
		tokens   []string
		expected string
		ok       bool
	}{
		{name: "trailing place", tokens: []string{"alexa", "what", "is", "the", "time", "in", "paris"}, expected: "paris", ok: true},
		{name: "all fillers", tokens: []string{"alexa", "time"}, ok: false},
		{name: "empty", tokens: nil, ok: false},
		{name: "keeps everything after first non-filler", tokens: []string{"alexa", "weather", "in", "rio", "de", "janeiro", "today"}, expected: "rio de janeiro today", ok: true},
		{name: "case insensitive filler", tokens: []string{"Alexa", "Time", "In", "Oslo"}, expected: "Oslo", ok: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			slot, ok := ExtractSlot(tc.tokens, DefaultFillers)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.expected, slot)
		})
	}
}

func TestFillerSetWithCopies(t *testing.T) {
	base := NewFillerSet("a", " B ")
	ext := base.With("c")
	require.True(t, base.Contains("b"))
	require.False(t, base.Contains("c"))
	require.True(t, ext.Contains("C"))
	require.True(t, ext.Contains("a"))
}
