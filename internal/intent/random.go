package intent

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNoRange means the utterance carries no "between"/"from" phrase.
	ErrNoRange = errors.New("no range phrase")
	// ErrRangeParse means a range phrase was present but unreadable.
	ErrRangeParse = errors.New("could not parse range")
)

// Range is an inclusive integer range spoken as "between N and M" or "from N to M".
type Range struct {
	Min, Max int
	// Keyword is "between" or "from"; Connector is "and", "to" or empty.
	Keyword   string
	Connector string
}

// String echoes the phrase as spoken. Without a connector the two numbers
// are joined by a space ("between 4 8").
func (r Range) String() string {
	if r.Connector == "" {
		return fmt.Sprintf("%s %d %d", r.Keyword, r.Min, r.Max)
	}
	return fmt.Sprintf("%s %d %s %d", r.Keyword, r.Min, r.Connector, r.Max)
}

func rangeKeywordIndex(tokens []string) int {
	for _, kw := range []string{"between", "from"} {
		for i, tok := range tokens {
			if tok == kw {
				return i
			}
		}
	}
	return -1
}

// ParseRange reads the two integers following "between" (else "from").
// The first number is the next token; the second follows an optional
// "and"/"to". Bounds are swapped when given in descending order.
func ParseRange(tokens []string) (Range, error) {
	i := rangeKeywordIndex(tokens)
	if i < 0 {
		return Range{}, ErrNoRange
	}
	r := Range{Keyword: tokens[i]}
	if i+2 >= len(tokens) {
		return Range{}, fmt.Errorf("%w: phrase too short", ErrRangeParse)
	}
	lo, err := strconv.Atoi(tokens[i+1])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q is not a number", ErrRangeParse, tokens[i+1])
	}
	j := i + 2
	if tokens[j] == "and" || tokens[j] == "to" {
		r.Connector = tokens[j]
		j++
	}
	if j >= len(tokens) {
		return Range{}, fmt.Errorf("%w: missing upper bound", ErrRangeParse)
	}
	hi, err := strconv.Atoi(tokens[j])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q is not a number", ErrRangeParse, tokens[j])
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	r.Min, r.Max = lo, hi
	return r, nil
}
