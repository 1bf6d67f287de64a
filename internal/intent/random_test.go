package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    string
		expected Range
		err      error
	}{
		{name: "between and", input: "alexa random number between 1 and 10", expected: Range{Min: 1, Max: 10, Keyword: "between", Connector: "and"}},
		{name: "swapped", input: "alexa random number between 10 and 5 please", expected: Range{Min: 5, Max: 10, Keyword: "between", Connector: "and"}},
		{name: "from to", input: "alexa random number from -3 to 3", expected: Range{Min: -3, Max: 3, Keyword: "from", Connector: "to"}},
		{name: "no connector", input: "alexa random number between 4 8", expected: Range{Min: 4, Max: 8, Keyword: "between"}},
		{name: "between preferred over from", input: "alexa random number from me between 2 and 3", expected: Range{Min: 2, Max: 3, Keyword: "between", Connector: "and"}},
		{name: "not a number", input: "alexa random number between abc and 5", err: ErrRangeParse},
		{name: "missing upper", input: "alexa random number between 1 and", err: ErrRangeParse},
		{name: "too short", input: "alexa random number between 1", err: ErrRangeParse},
		{name: "upper not a number", input: "alexa random number from 1 to ten", err: ErrRangeParse},
		{name: "no phrase", input: "alexa random number", err: ErrNoRange},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseRange(strings.Fields(tc.input))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, r)
		})
	}
}

func TestRangeString(t *testing.T) {
	require.Equal(t, "between 1 and 10", Range{Min: 1, Max: 10, Keyword: "between", Connector: "and"}.String())
	require.Equal(t, "between 4 8", Range{Min: 4, Max: 8, Keyword: "between"}.String())
	require.Equal(t, "from 2 to 3", Range{Min: 2, Max: 3, Keyword: "from", Connector: "to"}.String())
}
