package intent

import (
	"strings"

	"alexabot/internal/config"
)

// rule is one row of the priority table; the first matching row wins.
type rule struct {
	intent Intent
	match  func(text string) bool
}

func containsAny(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

func containsAll(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if !strings.Contains(text, w) {
				return false
			}
		}
		return true
	}
}

// knowledgeKeywords are tried in this order when slicing the topic.
var knowledgeKeywords = []string{"who", "what", "when"}

var priority = []rule{
	{Play, containsAny("play")},
	{GetTime, containsAny("time")},
	{GetDate, containsAny("date")},
	{GetWeather, containsAny("weather")},
	{Knowledge, containsAny(knowledgeKeywords...)},
	{Search, containsAny("search")},
	{Joke, containsAny("joke")},
	{Help, containsAny("help")},
	{RandomNumber, containsAll("random", "number")},
	{Shutdown, containsAny("shutdown", "quit", "exit")},
}

// Parser classifies utterances addressed with a wake word.
type Parser struct {
	wake    []string
	fillers FillerSet
}

// NewParser returns a Parser accepting word or any alias as the leading wake word.
func NewParser(word string, aliases []string) *Parser {
	wake := []string{}
	for _, w := range append([]string{word}, aliases...) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			wake = append(wake, w)
		}
	}
	if len(wake) == 0 {
		wake = []string{config.DefaultWakeWord}
	}
	return &Parser{
		wake:    wake,
		fillers: DefaultFillers.With(wake...),
	}
}

var defaultParser = NewParser(config.DefaultWakeWord, nil)

// Classify classifies utterance with the default wake word.
func Classify(utterance string) Intent {
	return defaultParser.Classify(utterance)
}

// Parse parses utterance with the default wake word.
func Parse(utterance string) Command {
	return defaultParser.Parse(utterance)
}

// Classify returns the first intent in priority order whose rule matches.
// Utterances not starting with the wake word are Unrecognized.
func (p *Parser) Classify(utterance string) Intent {
	text := normalize(utterance)
	if p.wakePrefix(text) == "" {
		return Unrecognized
	}
	for _, r := range priority {
		if r.match(text) {
			return r.intent
		}
	}
	return Unrecognized
}

// Parse classifies utterance and extracts the slot for its intent.
func (p *Parser) Parse(utterance string) Command {
	text := normalize(utterance)
	cmd := Command{
		Intent: p.Classify(text),
		Text:   text,
		Tokens: strings.Fields(text),
	}
	wake := p.wakePrefix(text)

	switch cmd.Intent {
	case Play:
		cmd.Slot = stripWords(text, wake, "play")
		cmd.HasSlot = cmd.Slot != ""
	case GetTime, GetDate:
		cmd.Slot, cmd.HasSlot = ExtractSlot(cmd.Tokens, p.fillers)
	case GetWeather:
		cmd.Slot, cmd.HasSlot = ExtractSlot(cmd.Tokens, p.fillers)
		if !cmd.HasSlot {
			cmd.Slot, cmd.HasSlot = TodayLocation, true
		}
	case Knowledge:
		cmd.Keyword, cmd.Slot = knowledgeTopic(text)
		cmd.HasSlot = cmd.Slot != ""
	case Search:
		cmd.Slot = stripWords(text, wake, "search")
		cmd.HasSlot = cmd.Slot != ""
	case RandomNumber:
		if i := rangeKeywordIndex(cmd.Tokens); i >= 0 {
			cmd.Keyword = cmd.Tokens[i]
			cmd.Slot = strings.Join(cmd.Tokens[i:], " ")
			cmd.HasSlot = true
		}
	}
	return cmd
}

// TodayLocation is the weather slot meaning "wherever the device is".
const TodayLocation = "today"

func normalize(utterance string) string {
	return strings.TrimSpace(strings.ToLower(utterance))
}

func (p *Parser) wakePrefix(text string) string {
	for _, w := range p.wake {
		if strings.HasPrefix(text, w) {
			return w
		}
	}
	return ""
}

// knowledgeTopic slices the text right after the first keyword present,
// checking keywords in fixed order. The cut is at the keyword's last
// character, not at a token boundary.
func knowledgeTopic(text string) (keyword, topic string) {
	for _, kw := range knowledgeKeywords {
		if idx := strings.Index(text, kw); idx >= 0 {
			return kw, strings.TrimSpace(text[idx+len(kw):])
		}
	}
	return "", ""
}

// stripWords removes every occurrence of words and collapses whitespace.
func stripWords(text string, words ...string) string {
	for _, w := range words {
		if w == "" {
			continue
		}
		text = strings.ReplaceAll(text, w, "")
	}
	return strings.Join(strings.Fields(text), " ")
}
