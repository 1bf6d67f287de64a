package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"alexabot/internal/config"
	"alexabot/internal/intent"
	"alexabot/internal/logging"
	"alexabot/internal/webapi"

	"github.com/stretchr/testify/require"
)

type fakeServices struct {
	geocode     map[string]webapi.Coordinates
	geocodeErr  error
	geocodeSeen []string
	timeAt      webapi.LocalTime
	timeErr     error
	ipCity      string
	ipErr       error
	weatherSeen []string
	weatherErr  error
	summary     string
	summaryErr  error
	summarySeen []string
	sentences   int
	joke        string
	jokeErr     error
	video       string
	videoErr    error
	panicOn     string
}

func (f *fakeServices) CurrentWeather(_ context.Context, q string) (webapi.Weather, error) {
	f.weatherSeen = append(f.weatherSeen, q)
	if f.weatherErr != nil {
		return webapi.Weather{}, f.weatherErr
	}
	return webapi.Weather{Location: strings.ToUpper(q[:1]) + q[1:], Country: "Testland", TempC: 20, Condition: "Sunny"}, nil
}

func (f *fakeServices) LocateByIP(context.Context) (string, error) {
	return f.ipCity, f.ipErr
}

func (f *fakeServices) Geocode(_ context.Context, place string) (webapi.Coordinates, error) {
	f.geocodeSeen = append(f.geocodeSeen, place)
	if f.geocodeErr != nil {
		return webapi.Coordinates{}, f.geocodeErr
	}
	co, ok := f.geocode[place]
	if !ok {
		return webapi.Coordinates{}, fmt.Errorf("%w: %q", webapi.ErrNotFound, place)
	}
	return co, nil
}

func (f *fakeServices) TimeAt(context.Context, float64, float64) (webapi.LocalTime, error) {
	return f.timeAt, f.timeErr
}

func (f *fakeServices) Summary(_ context.Context, topic string, sentences int) (string, error) {
	if f.panicOn == "summary" {
		panic("boom")
	}
	f.summarySeen = append(f.summarySeen, topic)
	f.sentences = sentences
	return f.summary, f.summaryErr
}

func (f *fakeServices) RandomJoke(context.Context) (string, error) { return f.joke, f.jokeErr }

func (f *fakeServices) FirstVideo(context.Context, string) (string, error) {
	return f.video, f.videoErr
}

func (f *fakeServices) ResultsURL(q string) string { return "results:" + q }
func (f *fakeServices) SearchURL(q string) string  { return "search:" + q }

type recordingOpener struct {
	opened []string
	err    error
}

func (o *recordingOpener) Open(_ context.Context, target string) error {
	o.opened = append(o.opened, target)
	return o.err
}

func newTestAssistant(t *testing.T, svc *fakeServices) (*Assistant, *recordingOpener) {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Keys.Weather = "w"
	cfg.Keys.Timezone = "t"
	op := &recordingOpener{}
	a := New(cfg, svc, op, logging.NewTestLogger())
	a.now = func() time.Time { return time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC) }
	return a, op
}

func TestKnowledgeEndToEnd(t *testing.T) {
	svc := &fakeServices{summary: "Paris is the capital and largest city of France. One. Two."}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa what is the capital of france")
	require.Equal(t, OK, out.Kind)
	require.Equal(t, intent.Knowledge, out.Command.Intent)
	require.Equal(t, []string{"is the capital of france"}, svc.summarySeen)
	require.Equal(t, 3, svc.sentences)
	require.Equal(t, svc.summary, out.Reply)
	require.Equal(t, NoAction, out.Action.Kind)
}

func TestKnowledgeFallsBackToWebSearch(t *testing.T) {
	for _, tc := range []struct {
		name    string
		err     error
		failure FailureKind
		reply   string
	}{
		{name: "ambiguous", err: webapi.ErrDisambiguation, failure: DisambiguousTopic, reply: "That topic is ambiguous. Searching Google instead."},
		{name: "not found", err: webapi.ErrNotFound, failure: TopicNotFound, reply: "Topic not found on Wikipedia. Searching Google instead."},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeServices{summaryErr: tc.err}
			a, op := newTestAssistant(t, svc)

			out := a.Handle(context.Background(), "alexa who is mercury")
			require.Equal(t, Recoverable, out.Kind)
			require.Equal(t, tc.failure, out.Failure)
			require.Equal(t, tc.reply, out.Reply)
			require.Equal(t, Action{Kind: WebSearch, Query: "is mercury"}, out.Action)

			require.NoError(t, a.Perform(context.Background(), out.Action))
			require.Equal(t, []string{"search:is mercury"}, op.opened)
		})
	}
}

func TestKnowledgeTransportErrorIsUnexpected(t *testing.T) {
	svc := &fakeServices{summaryErr: errors.New("connection reset")}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa who is ada lovelace")
	require.Equal(t, Unexpected, out.Kind)
	require.Equal(t, apology, out.Reply)
	require.Equal(t, NoAction, out.Action.Kind)
}

func TestPanicBecomesUnexpected(t *testing.T) {
	svc := &fakeServices{panicOn: "summary"}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa who is ada lovelace")
	require.Equal(t, Unexpected, out.Kind)
	require.ErrorContains(t, out.Err, "boom")
	require.Equal(t, apology, out.Reply)
}

func TestRandomNumberEndToEnd(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeServices{})
	for i := 0; i < 200; i++ {
		out := a.Handle(context.Background(), "alexa random number between 1 and 10")
		require.Equal(t, OK, out.Kind)
		require.Equal(t, intent.RandomNumber, out.Command.Intent)
		var n int
		_, err := fmt.Sscanf(out.Reply, "Your random number between 1 and 10 is: %d", &n)
		require.NoError(t, err, out.Reply)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 10)
	}
}

func TestRandomNumberNormalizesRange(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeServices{})
	var gotLo, gotHi int
	a.randInt = func(lo, hi int) int { gotLo, gotHi = lo, hi; return lo }

	out := a.Handle(context.Background(), "alexa random number between 10 and 5")
	require.Equal(t, OK, out.Kind)
	require.Equal(t, 5, gotLo)
	require.Equal(t, 10, gotHi)
	require.Equal(t, "Your random number between 5 and 10 is: 5", out.Reply)
}

func TestRandomNumberParseFailureFallsBack(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeServices{})
	var gotLo, gotHi int
	a.randInt = func(lo, hi int) int { gotLo, gotHi = lo, hi; return 42 }

	out := a.Handle(context.Background(), "alexa random number between abc and 5")
	require.Equal(t, Recoverable, out.Kind)
	require.Equal(t, RangeParseFailure, out.Failure)
	require.Equal(t, 0, gotLo)
	require.Equal(t, 100, gotHi)
	require.Equal(t, "Could not parse the range. Generating a number between 0 and 100 instead. Your random number is: 42", out.Reply)
}

func TestRandomNumberDefaultRange(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeServices{})
	a.randInt = func(lo, hi int) int { return hi }

	out := a.Handle(context.Background(), "alexa give me a random number")
	require.Equal(t, OK, out.Kind)
	require.Equal(t, "Your random number is: 100", out.Reply)
}

func TestWeatherUsesIPLocationForToday(t *testing.T) {
	for _, input := range []string{
		"alexa what is the weather like today",
		"alexa weather",
		"alexa weather in london today",
	} {
		t.Run(input, func(t *testing.T) {
			svc := &fakeServices{ipCity: "lisbon"}
			a, _ := newTestAssistant(t, svc)

			out := a.Handle(context.Background(), input)
			require.Equal(t, OK, out.Kind)
			require.Equal(t, []string{"lisbon"}, svc.weatherSeen)
			require.Equal(t, "The weather in Lisbon, Testland is Sunny with 20.0°C.", out.Reply)
		})
	}
}

func TestWeatherForCity(t *testing.T) {
	svc := &fakeServices{ipCity: "lisbon"}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa weather in new york")
	require.Equal(t, OK, out.Kind)
	require.Equal(t, []string{"new york"}, svc.weatherSeen)
}

func TestWeatherServiceError(t *testing.T) {
	svc := &fakeServices{weatherErr: webapi.ErrServiceStatus}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa weather in atlantis")
	require.Equal(t, Recoverable, out.Kind)
	require.Equal(t, WeatherServiceError, out.Failure)
	require.Equal(t, "I could not find the weather for that location.", out.Reply)
}

func TestWeatherNotConfigured(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeServices{})
	a.hasWeather = false

	out := a.Handle(context.Background(), "alexa weather in paris")
	require.Equal(t, Recoverable, out.Kind)
	require.Equal(t, NotConfigured, out.Failure)
}

func TestTimeLocalAndRemote(t *testing.T) {
	svc := &fakeServices{
		geocode: map[string]webapi.Coordinates{"tokyo": {Lat: 35.68, Lon: 139.69}},
		timeAt:  webapi.LocalTime{Time: time.Date(2024, time.March, 6, 23, 7, 0, 0, time.UTC), Zone: "Asia/Tokyo"},
	}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa what time is it")
	require.Equal(t, "The current time is 02:07 PM", out.Reply)
	require.Empty(t, svc.geocodeSeen)

	out = a.Handle(context.Background(), "alexa what is the time in tokyo")
	require.Equal(t, OK, out.Kind)
	require.Equal(t, "The current time in tokyo is 11:07 PM", out.Reply)

	out = a.Handle(context.Background(), "alexa date in tokyo")
	require.Equal(t, "The current date in tokyo is March 06, 2024", out.Reply)

	out = a.Handle(context.Background(), "alexa what is the date")
	require.Equal(t, "Today's date is March 05, 2024", out.Reply)
}

func TestTimeRetriesWithLastWord(t *testing.T) {
	svc := &fakeServices{
		geocode: map[string]webapi.Coordinates{"paris": {Lat: 48.85, Lon: 2.35}},
		timeAt:  webapi.LocalTime{Time: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa time in lovely paris")
	require.Equal(t, OK, out.Kind)
	require.Equal(t, []string{"lovely paris", "paris"}, svc.geocodeSeen)
	require.Equal(t, "The current time in lovely paris is 09:00 AM", out.Reply)
}

func TestTimeLocationNotFound(t *testing.T) {
	svc := &fakeServices{geocode: map[string]webapi.Coordinates{}}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa time in zzyzx")
	require.Equal(t, Recoverable, out.Kind)
	require.Equal(t, LocationNotFound, out.Failure)
	require.Equal(t, "I could not find that place.", out.Reply)
	require.Equal(t, []string{"zzyzx"}, svc.geocodeSeen, "single word places are not retried")
}

func TestTimeServiceUnavailable(t *testing.T) {
	svc := &fakeServices{
		geocode: map[string]webapi.Coordinates{"oslo": {}},
		timeErr: fmt.Errorf("%w: FAILED", webapi.ErrServiceStatus),
	}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa date in oslo")
	require.Equal(t, Recoverable, out.Kind)
	require.Equal(t, TimeServiceUnavailable, out.Failure)
	require.Equal(t, "I could not get the date for that place.", out.Reply)
}

func TestTimeTransportErrorUsesIntentApology(t *testing.T) {
	svc := &fakeServices{geocodeErr: errors.New("dial tcp: timeout")}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa time in oslo")
	require.Equal(t, Unexpected, out.Kind)
	require.Equal(t, "I could not get the time right now.", out.Reply)
}

func TestPlayReportsBeforeOpening(t *testing.T) {
	svc := &fakeServices{video: "https://video/watch?v=abc"}
	a, op := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa play bohemian rhapsody")
	require.Equal(t, OK, out.Kind)
	require.Equal(t, "Now playing bohemian rhapsody", out.Reply)
	require.Empty(t, op.opened, "handling must not open anything")

	require.NoError(t, a.Perform(context.Background(), out.Action))
	require.Equal(t, []string{"https://video/watch?v=abc"}, op.opened)
}

func TestPlayFallsBackToResultsPage(t *testing.T) {
	svc := &fakeServices{videoErr: webapi.ErrNotFound}
	a, op := newTestAssistant(t, svc)

	require.NoError(t, a.Perform(context.Background(), Action{Kind: PlayVideo, Query: "obscure"}))
	require.Equal(t, []string{"results:obscure"}, op.opened)
}

func TestSearch(t *testing.T) {
	a, op := newTestAssistant(t, &fakeServices{})

	out := a.Handle(context.Background(), "alexa search go modules")
	require.Equal(t, Action{Kind: WebSearch, Query: "go modules"}, out.Action)
	require.NoError(t, a.Perform(context.Background(), out.Action))
	require.Equal(t, []string{"search:go modules"}, op.opened)

	op.err = errors.New("no browser")
	require.Error(t, a.Perform(context.Background(), out.Action))
	require.Equal(t, "Search failed.", ActionFailedReply(out.Action))
}

func TestMissingArguments(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeServices{})
	for _, input := range []string{"alexa play", "alexa search", "alexa who"} {
		out := a.Handle(context.Background(), input)
		require.Equal(t, Recoverable, out.Kind, input)
		require.Equal(t, MissingArgument, out.Failure, input)
		require.NotEmpty(t, out.Reply)
	}
}

func TestJokeHelpShutdownUnrecognized(t *testing.T) {
	svc := &fakeServices{joke: "Why do programmers prefer dark mode? Light attracts bugs."}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa tell me a joke")
	require.Equal(t, svc.joke, out.Reply)

	out = a.Handle(context.Background(), "alexa help")
	require.Equal(t, helpReply, out.Reply)

	out = a.Handle(context.Background(), "alexa quit")
	require.Equal(t, OK, out.Kind)
	require.True(t, out.Quit)
	require.Equal(t, "See you next time!", out.Reply)

	out = a.Handle(context.Background(), "hello there")
	require.Equal(t, Recoverable, out.Kind)
	require.Equal(t, UnrecognizedCommand, out.Failure)
	require.Equal(t, apology, out.Reply)
	require.False(t, out.Quit)
}

func TestJokeErrorIsUnexpected(t *testing.T) {
	svc := &fakeServices{jokeErr: errors.New("503")}
	a, _ := newTestAssistant(t, svc)

	out := a.Handle(context.Background(), "alexa joke")
	require.Equal(t, Unexpected, out.Kind)
	require.Equal(t, apology, out.Reply)
}

func TestUniformIntBounds(t *testing.T) {
	for i := 0; i < 500; i++ {
		n := uniformInt(-2, 2)
		require.GreaterOrEqual(t, n, -2)
		require.LessOrEqual(t, n, 2)
	}
	require.Equal(t, 7, uniformInt(7, 7))
}
