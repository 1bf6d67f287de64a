package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alexabot/internal/intent"
	"alexabot/internal/webapi"
)

const (
	timeLayout = "03:04 PM"
	dateLayout = "January 02, 2006"

	helpReply = "Here are the available commands: search, play, who, when, what, joke, date, weather, time, random"
)

func (a *Assistant) handlePlay(_ context.Context, cmd intent.Command) (Response, error) {
	if !cmd.HasSlot {
		return Response{}, fail(MissingArgument, "What would you like me to play?", nil)
	}
	return Response{
		Reply:  "Now playing " + cmd.Slot,
		Action: Action{Kind: PlayVideo, Query: cmd.Slot},
	}, nil
}

func (a *Assistant) handleTime(ctx context.Context, cmd intent.Command) (Response, error) {
	if !cmd.HasSlot {
		return Response{Reply: "The current time is " + a.now().Format(timeLayout)}, nil
	}
	place := strings.TrimSpace(cmd.Slot)
	lt, err := a.timeAt(ctx, place, "time")
	if err != nil {
		return Response{}, err
	}
	return Response{Reply: fmt.Sprintf("The current time in %s is %s", place, lt.Time.Format(timeLayout))}, nil
}

func (a *Assistant) handleDate(ctx context.Context, cmd intent.Command) (Response, error) {
	if !cmd.HasSlot {
		return Response{Reply: "Today's date is " + a.now().Format(dateLayout)}, nil
	}
	place := strings.TrimSpace(cmd.Slot)
	lt, err := a.timeAt(ctx, place, "date")
	if err != nil {
		return Response{}, err
	}
	return Response{Reply: fmt.Sprintf("The current date in %s is %s", place, lt.Time.Format(dateLayout))}, nil
}

// timeAt geocodes place, retrying once with its last word, then asks the
// timezone service for the wall clock there.
func (a *Assistant) timeAt(ctx context.Context, place, what string) (webapi.LocalTime, error) {
	if !a.hasTimezone {
		return webapi.LocalTime{}, fail(NotConfigured, "The time service is not configured.", nil)
	}
	co, err := a.svc.Geocode(ctx, place)
	if errors.Is(err, webapi.ErrNotFound) {
		if parts := strings.Fields(place); len(parts) > 1 {
			retry := parts[len(parts)-1]
			a.logger.Debugf("geocode %q found nothing, retrying with %q", place, retry)
			co, err = a.svc.Geocode(ctx, retry)
		}
	}
	if errors.Is(err, webapi.ErrNotFound) {
		return webapi.LocalTime{}, fail(LocationNotFound, "I could not find that place.", err)
	}
	if err != nil {
		return webapi.LocalTime{}, fmt.Errorf("geocode %q: %w", place, err)
	}

	lt, err := a.svc.TimeAt(ctx, co.Lat, co.Lon)
	if errors.Is(err, webapi.ErrServiceStatus) {
		return webapi.LocalTime{}, fail(TimeServiceUnavailable, fmt.Sprintf("I could not get the %s for that place.", what), err)
	}
	if err != nil {
		return webapi.LocalTime{}, fmt.Errorf("time at %.4f,%.4f: %w", co.Lat, co.Lon, err)
	}
	return lt, nil
}

func (a *Assistant) handleWeather(ctx context.Context, cmd intent.Command) (Response, error) {
	if !a.hasWeather {
		return Response{}, fail(NotConfigured, "The weather service is not configured.", nil)
	}
	query := cmd.Slot
	if !cmd.HasSlot || mentionsToday(query) {
		city, err := a.svc.LocateByIP(ctx)
		if errors.Is(err, webapi.ErrNotFound) {
			return Response{}, fail(LocationNotFound, "I could not work out where you are.", err)
		}
		if err != nil {
			return Response{}, fmt.Errorf("locate by ip: %w", err)
		}
		query = city
	}
	wx, err := a.svc.CurrentWeather(ctx, query)
	if errors.Is(err, webapi.ErrServiceStatus) {
		return Response{}, fail(WeatherServiceError, "I could not find the weather for that location.", err)
	}
	if err != nil {
		return Response{}, fmt.Errorf("weather for %q: %w", query, err)
	}
	return Response{
		Reply: fmt.Sprintf("The weather in %s, %s is %s with %.1f°C.", wx.Location, wx.Country, wx.Condition, wx.TempC),
	}, nil
}

// mentionsToday reports whether the weather slot refers to the current location.
func mentionsToday(slot string) bool {
	for _, tok := range strings.Fields(slot) {
		if tok == intent.TodayLocation {
			return true
		}
	}
	return false
}

func (a *Assistant) handleKnowledge(ctx context.Context, cmd intent.Command) (Response, error) {
	if !cmd.HasSlot {
		return Response{}, fail(MissingArgument, "What would you like to know?", nil)
	}
	topic := cmd.Slot
	summary, err := a.svc.Summary(ctx, topic, a.sentences)
	switch {
	case err == nil:
		return Response{Reply: summary}, nil
	case errors.Is(err, webapi.ErrDisambiguation):
		reply := "That topic is ambiguous. Searching Google instead."
		return Response{Reply: reply, Action: Action{Kind: WebSearch, Query: topic}}, fail(DisambiguousTopic, reply, err)
	case errors.Is(err, webapi.ErrNotFound):
		reply := "Topic not found on Wikipedia. Searching Google instead."
		return Response{Reply: reply, Action: Action{Kind: WebSearch, Query: topic}}, fail(TopicNotFound, reply, err)
	}
	return Response{}, fmt.Errorf("summary for %q: %w", topic, err)
}

func (a *Assistant) handleSearch(_ context.Context, cmd intent.Command) (Response, error) {
	if !cmd.HasSlot {
		return Response{}, fail(MissingArgument, "What should I search for?", nil)
	}
	return Response{
		Reply:  "Searching for " + cmd.Slot,
		Action: Action{Kind: WebSearch, Query: cmd.Slot},
	}, nil
}

func (a *Assistant) handleJoke(ctx context.Context, _ intent.Command) (Response, error) {
	joke, err := a.svc.RandomJoke(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("joke: %w", err)
	}
	return Response{Reply: joke}, nil
}

func (a *Assistant) handleHelp(context.Context, intent.Command) (Response, error) {
	return Response{Reply: helpReply}, nil
}

func (a *Assistant) handleRandom(_ context.Context, cmd intent.Command) (Response, error) {
	r, err := intent.ParseRange(cmd.Tokens)
	switch {
	case err == nil:
		n := a.randInt(r.Min, r.Max)
		return Response{Reply: fmt.Sprintf("Your random number %s is: %d", r, n)}, nil
	case errors.Is(err, intent.ErrNoRange):
		n := a.randInt(a.randMin, a.randMax)
		return Response{Reply: fmt.Sprintf("Your random number is: %d", n)}, nil
	}
	n := a.randInt(a.randMin, a.randMax)
	reply := fmt.Sprintf("Could not parse the range. Generating a number between %d and %d instead. Your random number is: %d",
		a.randMin, a.randMax, n)
	return Response{Reply: reply}, fail(RangeParseFailure, reply, err)
}

func (a *Assistant) handleShutdown(context.Context, intent.Command) (Response, error) {
	return Response{Reply: "See you next time!", Quit: true}, nil
}

func (a *Assistant) handleUnrecognized(context.Context, intent.Command) (Response, error) {
	return Response{}, fail(UnrecognizedCommand, apology, nil)
}
