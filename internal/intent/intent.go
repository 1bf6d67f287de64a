// Package intent turns a raw utterance into a classified command and the
// free-text slot its handler needs.
package intent

// Intent is the action an utterance maps to.
type Intent int

const (
	Unrecognized Intent = iota
	Play
	GetTime
	GetDate
	GetWeather
	Knowledge
	Search
	Joke
	Help
	RandomNumber
	Shutdown
)

var intentNames = map[Intent]string{
	Unrecognized: "unrecognized",
	Play:         "play",
	GetTime:      "time",
	GetDate:      "date",
	GetWeather:   "weather",
	Knowledge:    "knowledge",
	Search:       "search",
	Joke:         "joke",
	Help:         "help",
	RandomNumber: "random",
	Shutdown:     "shutdown",
}

func (i Intent) String() string {
	if n, ok := intentNames[i]; ok {
		return n
	}
	return "unknown"
}

// All lists every intent, used to pre-register metric label values.
func All() []Intent {
	return []Intent{Unrecognized, Play, GetTime, GetDate, GetWeather, Knowledge, Search, Joke, Help, RandomNumber, Shutdown}
}

// Command is one classified utterance.
type Command struct {
	Intent Intent
	// Text is the lowercased, trimmed utterance.
	Text   string
	Tokens []string
	// Slot is the handler argument; HasSlot is false when none was found.
	Slot    string
	HasSlot bool
	// Keyword records which trigger word selected the slot (knowledge and range phrases).
	Keyword string
}
