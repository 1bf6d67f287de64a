// Package speech speaks replies through a local or cloud text-to-speech backend.
package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"alexabot/internal/config"

	htgotts "github.com/hegedustibor/htgo-tts"
	"github.com/hegedustibor/htgo-tts/handlers"
)

const (
	BackendAuto   = "auto"
	BackendGoogle = "google"
	BackendNone   = "none"
)

// execBackends are probed in order when the backend is "auto".
var execBackends = []string{"espeak-ng", "espeak", "say", "spd-say"}

var (
	lookPath = exec.LookPath
	runCmd   = func(ctx context.Context, name string, args ...string) error {
		out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
		}
		return nil
	}
)

// Speaker blocks until text has been spoken.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Name() string
}

// New picks the backend named in cfg.Speech.Backend.
func New(cfg *config.Config) (Speaker, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Speech.Backend))
	switch backend {
	case "", BackendAuto:
		return Detect(cfg), nil
	case BackendNone:
		return Silent{}, nil
	case BackendGoogle:
		return newGoogle(cfg)
	}
	path, err := lookPath(backend)
	if err != nil {
		return nil, fmt.Errorf("speech backend %q: %w", backend, err)
	}
	return &Exec{Path: path, Backend: backend, Voice: cfg.Speech.Voice, Rate: cfg.Speech.Rate}, nil
}

// Detect returns the first installed exec backend, or Silent.
func Detect(cfg *config.Config) Speaker {
	for _, b := range execBackends {
		if path, err := lookPath(b); err == nil {
			return &Exec{Path: path, Backend: b, Voice: cfg.Speech.Voice, Rate: cfg.Speech.Rate}
		}
	}
	return Silent{}
}

// Exec speaks through a command line synthesizer.
type Exec struct {
	Path    string
	Backend string
	Voice   string
	Rate    int
}

func (e *Exec) Name() string { return e.Backend }

func (e *Exec) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return runCmd(ctx, e.Path, e.args(text)...)
}

func (e *Exec) args(text string) []string {
	var args []string
	switch e.Backend {
	case "say":
		if e.Voice != "" {
			args = append(args, "-v", e.Voice)
		}
		if e.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(e.Rate))
		}
	case "spd-say":
		// -w waits for playback to finish.
		args = append(args, "-w")
		if e.Voice != "" {
			args = append(args, "-y", e.Voice)
		}
	default:
		if e.Voice != "" {
			args = append(args, "-v", e.Voice)
		}
		if e.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(e.Rate))
		}
	}
	return append(args, text)
}

// Google speaks through the Google Translate voice, played with mplayer.
type Google struct {
	speech htgotts.Speech
	dir    string
}

func newGoogle(cfg *config.Config) (*Google, error) {
	dir, err := os.MkdirTemp("", "alexabot-tts-")
	if err != nil {
		return nil, fmt.Errorf("speech temp dir: %w", err)
	}
	lang := cfg.Speech.Language
	if lang == "" {
		lang = "en"
	}
	return &Google{
		speech: htgotts.Speech{Folder: dir, Language: lang, Handler: &handlers.MPlayer{}},
		dir:    dir,
	}, nil
}

// Close removes the directory holding downloaded audio.
func (g *Google) Close() error {
	if g.dir == "" {
		return nil
	}
	return os.RemoveAll(g.dir)
}

func (g *Google) Name() string { return BackendGoogle }

func (g *Google) Speak(_ context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := g.speech.Speak(text); err != nil {
		return fmt.Errorf("google tts: %w", err)
	}
	return nil
}

// Silent drops speech; replies are still printed by the caller.
type Silent struct{}

func (Silent) Name() string                        { return BackendNone }
func (Silent) Speak(context.Context, string) error { return nil }
