// Package assistant maps classified commands onto handlers and external services.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime/debug"
	"time"

	"alexabot/internal/config"
	"alexabot/internal/intent"
	"alexabot/internal/webapi"

	"github.com/sirupsen/logrus"
)

// Services is the set of remote lookups handlers depend on.
type Services interface {
	CurrentWeather(ctx context.Context, q string) (webapi.Weather, error)
	LocateByIP(ctx context.Context) (string, error)
	Geocode(ctx context.Context, place string) (webapi.Coordinates, error)
	TimeAt(ctx context.Context, lat, lon float64) (webapi.LocalTime, error)
	Summary(ctx context.Context, topic string, sentences int) (string, error)
	RandomJoke(ctx context.Context) (string, error)
	FirstVideo(ctx context.Context, query string) (string, error)
	ResultsURL(query string) string
	SearchURL(query string) string
}

// Opener opens a URL in a browser or player.
type Opener interface {
	Open(ctx context.Context, target string) error
}

type handlerFunc func(a *Assistant, ctx context.Context, cmd intent.Command) (Response, error)

var handlers = map[intent.Intent]handlerFunc{
	intent.Play:         (*Assistant).handlePlay,
	intent.GetTime:      (*Assistant).handleTime,
	intent.GetDate:      (*Assistant).handleDate,
	intent.GetWeather:   (*Assistant).handleWeather,
	intent.Knowledge:    (*Assistant).handleKnowledge,
	intent.Search:       (*Assistant).handleSearch,
	intent.Joke:         (*Assistant).handleJoke,
	intent.Help:         (*Assistant).handleHelp,
	intent.RandomNumber: (*Assistant).handleRandom,
	intent.Shutdown:     (*Assistant).handleShutdown,
	intent.Unrecognized: (*Assistant).handleUnrecognized,
}

// Assistant handles one utterance at a time. It holds no per-turn state.
type Assistant struct {
	parser *intent.Parser
	svc    Services
	opener Opener
	logger *logrus.Logger

	sentences   int
	randMin     int
	randMax     int
	hasWeather  bool
	hasTimezone bool

	now     func() time.Time
	randInt func(lo, hi int) int
}

func New(cfg *config.Config, svc Services, opener Opener, logger *logrus.Logger) *Assistant {
	return &Assistant{
		parser:      intent.NewParser(cfg.Wake.Word, cfg.Wake.Aliases),
		svc:         svc,
		opener:      opener,
		logger:      logger,
		sentences:   cfg.Knowledge.Sentences,
		randMin:     cfg.Random.Min,
		randMax:     cfg.Random.Max,
		hasWeather:  cfg.Keys.Weather != "",
		hasTimezone: cfg.Keys.Timezone != "",
		now:         time.Now,
		randInt:     uniformInt,
	}
}

// Handle classifies utterance and runs its handler. Panics and untyped
// errors become Unexpected outcomes; *Failure errors become Recoverable.
func (a *Assistant) Handle(ctx context.Context, utterance string) (out Outcome) {
	cmd := a.parser.Parse(utterance)
	out.Command = cmd

	defer func() {
		if r := recover(); r != nil {
			a.logger.Errorf("handler %s panicked: %v\n%s", cmd.Intent, r, debug.Stack())
			out.Kind = Unexpected
			out.Err = fmt.Errorf("panic: %v", r)
			out.Reply = unexpectedReply(cmd.Intent)
			out.Action = Action{}
			out.Quit = false
		}
	}()

	resp, err := handlers[cmd.Intent](a, ctx, cmd)
	out.Reply = resp.Reply
	out.Action = resp.Action
	out.Quit = resp.Quit

	var f *Failure
	switch {
	case err == nil:
		out.Kind = OK
	case errors.As(err, &f):
		out.Kind = Recoverable
		out.Failure = f.Kind
		out.Err = err
		if out.Reply == "" {
			out.Reply = f.Reply
		}
		a.logger.WithFields(logrus.Fields{
			"intent":  cmd.Intent.String(),
			"failure": f.Kind.String(),
		}).WithError(err).Warn("recoverable failure")
	default:
		out.Kind = Unexpected
		out.Err = err
		out.Reply = unexpectedReply(cmd.Intent)
		out.Action = Action{}
		a.logger.WithField("intent", cmd.Intent.String()).WithError(err).Error("unexpected failure")
	}
	return out
}

// Perform runs an outcome's action. Success only means the opener ran.
func (a *Assistant) Perform(ctx context.Context, act Action) error {
	switch act.Kind {
	case NoAction:
		return nil
	case PlayVideo:
		target, err := a.svc.FirstVideo(ctx, act.Query)
		if err != nil {
			a.logger.Warnf("video lookup for %q: %v; opening results page", act.Query, err)
			target = a.svc.ResultsURL(act.Query)
		}
		return a.opener.Open(ctx, target)
	case WebSearch:
		return a.opener.Open(ctx, a.svc.SearchURL(act.Query))
	}
	return fmt.Errorf("unknown action %d", act.Kind)
}

// ActionFailedReply is spoken when Perform fails.
func ActionFailedReply(act Action) string {
	if act.Kind == WebSearch {
		return "Search failed."
	}
	return "I could not open that for you."
}

const apology = "Sorry, I couldn't quite catch that."

func unexpectedReply(i intent.Intent) string {
	switch i {
	case intent.GetTime:
		return "I could not get the time right now."
	case intent.GetDate:
		return "I could not get the date right now."
	case intent.GetWeather:
		return "I could not get the weather right now."
	case intent.Search:
		return "Search failed."
	}
	return apology
}

// uniformInt returns a uniform integer in [lo, hi].
func uniformInt(lo, hi int) int {
	span := uint64(hi-lo) + 1
	if span == 0 {
		return int(rand.Uint64())
	}
	return lo + int(rand.Uint64N(span))
}
