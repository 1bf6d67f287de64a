package assistant

import (
	"fmt"

	"alexabot/internal/intent"
)

// Kind separates expected degradations from faults.
type Kind int

const (
	OK Kind = iota
	Recoverable
	Unexpected
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case Recoverable:
		return "recoverable"
	case Unexpected:
		return "unexpected"
	}
	return "unknown"
}

// FailureKind names a recoverable failure.
type FailureKind int

const (
	LocationNotFound FailureKind = iota + 1
	TimeServiceUnavailable
	WeatherServiceError
	DisambiguousTopic
	TopicNotFound
	RangeParseFailure
	UnrecognizedCommand
	MissingArgument
	NotConfigured
)

var failureNames = map[FailureKind]string{
	LocationNotFound:       "location_not_found",
	TimeServiceUnavailable: "time_service_unavailable",
	WeatherServiceError:    "weather_service_error",
	DisambiguousTopic:      "disambiguous_topic",
	TopicNotFound:          "topic_not_found",
	RangeParseFailure:      "range_parse_failure",
	UnrecognizedCommand:    "unrecognized_command",
	MissingArgument:        "missing_argument",
	NotConfigured:          "not_configured",
}

func (f FailureKind) String() string {
	if n, ok := failureNames[f]; ok {
		return n
	}
	return "none"
}

// Failure is a handled, user-explainable error. Reply is what gets spoken.
type Failure struct {
	Kind  FailureKind
	Reply string
	Err   error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return f.Kind.String()
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(kind FailureKind, reply string, err error) *Failure {
	return &Failure{Kind: kind, Reply: reply, Err: err}
}

// ActionKind is a side effect to run after the reply was spoken.
type ActionKind int

const (
	NoAction ActionKind = iota
	PlayVideo
	WebSearch
)

func (a ActionKind) String() string {
	switch a {
	case PlayVideo:
		return "play_video"
	case WebSearch:
		return "web_search"
	}
	return "none"
}

// Action asks the caller to open something for Query.
type Action struct {
	Kind  ActionKind
	Query string
}

// Response is what a handler produces on success (and, for some failures,
// alongside the Failure).
type Response struct {
	Reply  string
	Action Action
	Quit   bool
}

// Outcome is the typed result of one turn.
type Outcome struct {
	Command intent.Command
	Kind    Kind
	Reply   string
	Action  Action
	// Failure is set for Recoverable outcomes.
	Failure FailureKind
	// Err is set for Recoverable and Unexpected outcomes.
	Err  error
	Quit bool
}
