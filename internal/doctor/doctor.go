package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"alexabot/internal/config"
	"alexabot/internal/speech"
)

// Result represents a diagnostic check.
type Result struct {
	Name   string
	Pass   bool
	Detail string
}

// Run executes doctor checks.
func Run(cfg *config.Config) []Result {
	return []Result{
		checkFile("config path", cfg.Paths.ConfigPath),
		checkKey("weather key", cfg.Keys.Weather, "WEATHER_API_KEY", true),
		checkKey("timezone key", cfg.Keys.Timezone, "TIMEZONE_API_KEY", true),
		checkKey("geocode key", cfg.Keys.Geocode, "GEOCODE_API_KEY", false),
		checkExecutable("launch.command", cfg.Launch.Command),
		checkSpeech(cfg),
		checkStateDir(cfg.Paths.StateDir),
	}
}

func checkFile(label, path string) Result {
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if _, err := os.Stat(os.ExpandEnv(path)); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

func checkKey(label, value, env string, required bool) Result {
	if value != "" {
		return Result{Name: label, Pass: true, Detail: config.MaskSecret(value)}
	}
	if !required {
		return Result{Name: label, Pass: true, Detail: fmt.Sprintf("not set (optional, %s)", env)}
	}
	return Result{Name: label, Pass: false, Detail: fmt.Sprintf("not set; export %s or add it to .env", env)}
}

func checkExecutable(label, cmd string) Result {
	if cmd == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	path := os.ExpandEnv(cmd)
	// If contains a path separator, treat as explicit path.
	if strings.Contains(path, "/") || strings.Contains(path, "\\") {
		info, err := os.Stat(path)
		if err != nil {
			return Result{Name: label, Pass: false, Detail: err.Error()}
		}
		if info.IsDir() {
			return Result{Name: label, Pass: false, Detail: "is a directory; set launch.command to an executable file"}
		}
		if info.Mode().Perm()&0o111 == 0 {
			return Result{Name: label, Pass: false, Detail: "not executable; chmod +x or choose another command"}
		}
		return Result{Name: label, Pass: true, Detail: path}
	}
	// Else search PATH.
	resolved, err := exec.LookPath(path)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: resolved}
}

func checkSpeech(cfg *config.Config) Result {
	spk, err := speech.New(cfg)
	if err != nil {
		return Result{Name: "speech", Pass: false, Detail: err.Error()}
	}
	if spk.Name() == speech.BackendNone && cfg.Speech.Backend != speech.BackendNone {
		return Result{Name: "speech", Pass: true, Detail: "no TTS program found (install espeak-ng); replies are printed only"}
	}
	return Result{Name: "speech", Pass: true, Detail: spk.Name()}
}

func checkStateDir(dir string) Result {
	if dir == "" {
		return Result{Name: "state dir", Pass: false, Detail: "not set"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: "state dir", Pass: false, Detail: err.Error()}
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Result{Name: "state dir", Pass: false, Detail: "not writable: " + err.Error()}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return Result{Name: "state dir", Pass: true, Detail: filepath.Clean(dir)}
}
