package intent

import "strings"

// FillerSet holds stop-words skipped when isolating a trailing slot.
type FillerSet map[string]struct{}

// DefaultFillers mirrors the words people put in front of a place name:
// "what is the time in paris", "weather like today at ...".
var DefaultFillers = NewFillerSet(
	"what", "is", "the", "in", "for", "like", "today", "at", "please",
	"now", "time", "date", "weather", "alexa", "it",
)

// NewFillerSet builds a set from words, lowercased.
func NewFillerSet(words ...string) FillerSet {
	f := make(FillerSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			f[w] = struct{}{}
		}
	}
	return f
}

// Contains reports whether word (any case) is a filler.
func (f FillerSet) Contains(word string) bool {
	_, ok := f[strings.ToLower(word)]
	return ok
}

// With returns a copy of f extended by words.
func (f FillerSet) With(words ...string) FillerSet {
	out := make(FillerSet, len(f)+len(words))
	for w := range f {
		out[w] = struct{}{}
	}
	for w := range NewFillerSet(words...) {
		out[w] = struct{}{}
	}
	return out
}

// ExtractSlot returns the tokens from the first non-filler onward, joined by
// single spaces. ok is false when every token is a filler.
func ExtractSlot(tokens []string, fillers FillerSet) (slot string, ok bool) {
	for i, tok := range tokens {
		if !fillers.Contains(tok) {
			return strings.Join(tokens[i:], " "), true
		}
	}
	return "", false
}
