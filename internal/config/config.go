package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultWakeWord      = "alexa"
	defaultTimeoutSec    = 10
	defaultHistoryTail   = 10
	defaultSentences     = 3
	defaultStateDirLinux = ".local/state/alexabot"
	defaultConfigDir     = ".config/alexabot"
)

// Config holds user configuration loaded from TOML.
type Config struct {
	Wake struct {
		Word    string   `toml:"word"`
		Aliases []string `toml:"aliases"`
	} `toml:"wake"`

	// Keys are normally supplied through the environment or a .env file.
	Keys struct {
		Weather  string `toml:"weather"`
		Timezone string `toml:"timezone"`
		Geocode  string `toml:"geocode"`
	} `toml:"keys"`

	HTTP struct {
		TimeoutSec float64 `toml:"timeout_sec"`
		Proxy      string  `toml:"proxy"` // socks5 host:port, empty for direct
		UserAgent  string  `toml:"user_agent"`
	} `toml:"http"`

	Endpoints struct {
		Weather   string `toml:"weather"`
		Geocode   string `toml:"geocode"`
		Timezone  string `toml:"timezone"`
		IPInfo    string `toml:"ipinfo"`
		Wikipedia string `toml:"wikipedia"`
		Joke      string `toml:"joke"`
		YouTube   string `toml:"youtube"`
		Search    string `toml:"search"`
	} `toml:"endpoints"`

	Speech struct {
		Backend  string `toml:"backend"` // auto, espeak-ng, espeak, say, google, none
		Voice    string `toml:"voice"`
		Language string `toml:"language"`
		Rate     int    `toml:"rate"`
	} `toml:"speech"`

	Launch struct {
		Command    string            `toml:"command"`
		Args       []string          `toml:"args"`
		TimeoutSec float64           `toml:"timeout_sec"`
		Env        map[string]string `toml:"env"`
	} `toml:"launch"`

	Random struct {
		Min int `toml:"min"`
		Max int `toml:"max"`
	} `toml:"random"`

	Knowledge struct {
		Sentences int `toml:"sentences"`
	} `toml:"knowledge"`

	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
		Stdout bool   `toml:"stdout"`
	} `toml:"logging"`

	Paths struct {
		StateDir    string `toml:"state_dir"`
		LogPath     string `toml:"log_path"`
		HistoryPath string `toml:"history_path"`
		SocketPath  string `toml:"socket_path"`
		PidPath     string `toml:"pid_path"`
		EnvPath     string `toml:"env_path"`
		ConfigPath  string `toml:"-"`
	} `toml:"paths"`

	UI struct {
		HistoryTail int    `toml:"history_tail"`
		Greeting    string `toml:"greeting"`
		Prompt      string `toml:"prompt"`
	} `toml:"ui"`

	Metrics struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"metrics"`

	History struct {
		Enabled bool `toml:"enabled"`
	} `toml:"history"`
}

// Default returns Config populated with defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(home, defaultStateDirLinux)
	if isMac() {
		stateDir = filepath.Join(home, "Library", "Application Support", "alexabot")
	}

	cfg := &Config{}

	cfg.Wake.Word = DefaultWakeWord
	cfg.Wake.Aliases = []string{}

	cfg.HTTP.TimeoutSec = defaultTimeoutSec
	cfg.HTTP.UserAgent = "alexabot/0.1"

	cfg.Endpoints.Weather = "http://api.weatherapi.com"
	cfg.Endpoints.Geocode = "https://geocode.maps.co"
	cfg.Endpoints.Timezone = "http://api.timezonedb.com"
	cfg.Endpoints.IPInfo = "https://ipinfo.io"
	cfg.Endpoints.Wikipedia = "https://en.wikipedia.org"
	cfg.Endpoints.Joke = "https://v2.jokeapi.dev"
	cfg.Endpoints.YouTube = "https://www.youtube.com"
	cfg.Endpoints.Search = "https://www.google.com/search"

	cfg.Speech.Backend = "auto"
	cfg.Speech.Language = "en"
	cfg.Speech.Rate = 175

	cfg.Launch.Command = defaultOpener()
	cfg.Launch.Args = []string{}
	cfg.Launch.TimeoutSec = 5
	cfg.Launch.Env = map[string]string{}

	cfg.Random.Min = 0
	cfg.Random.Max = 100

	cfg.Knowledge.Sentences = defaultSentences

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "alexabot.log")
	cfg.Paths.HistoryPath = filepath.Join(stateDir, "history.log")
	cfg.Paths.SocketPath = filepath.Join(stateDir, "alexabot.sock")
	cfg.Paths.PidPath = filepath.Join(stateDir, "alexabot.pid")
	cfg.Paths.EnvPath = ".env"

	cfg.UI.HistoryTail = defaultHistoryTail
	cfg.UI.Greeting = "Hi, I am Alexa your personal ChatBot! How can I help you today?"
	cfg.UI.Prompt = "Hi! I'm Alexa, your Chatbot assistant. Type a command starting with Alexa."

	cfg.Metrics.Enabled = false
	cfg.Metrics.Addr = "127.0.0.1:9318"

	cfg.History.Enabled = true

	return cfg, nil
}

// Load loads config from file, applying defaults, the .env file and env overrides.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, defaultConfigDir, "config.toml")
	}

	// Read if exists; otherwise write template.
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := Save(cfg, path); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.Paths.ConfigPath = path

	if err := loadEnvFile(cfg.Paths.EnvPath); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// Validate reports missing settings that would make core commands fail on every call.
func (c *Config) Validate() error {
	var missing []string
	if c.Keys.Weather == "" {
		missing = append(missing, "WEATHER_API_KEY")
	}
	if c.Keys.Timezone == "" {
		missing = append(missing, "TIMEZONE_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing API keys: %s (set them in the environment, %s or [keys])",
			strings.Join(missing, ", "), c.Paths.EnvPath)
	}
	if c.Random.Min > c.Random.Max {
		return fmt.Errorf("random.min (%d) is greater than random.max (%d)", c.Random.Min, c.Random.Max)
	}
	return nil
}

func isMac() bool {
	return runtime.GOOS == "darwin"
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// MaskSecret hides all but the last four characters of a secret.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// MustStatePaths ensures state dirs exist.
func MustStatePaths(cfg *Config) error {
	for _, p := range []string{cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LogPath), filepath.Dir(cfg.Paths.HistoryPath)} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// loadEnvFile populates the process environment from a dotenv file.
// Variables already set win; a missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.Keys.Weather = v
	}
	if v := os.Getenv("TIMEZONE_API_KEY"); v != "" {
		cfg.Keys.Timezone = v
	}
	if v := os.Getenv("GEOCODE_API_KEY"); v != "" {
		cfg.Keys.Geocode = v
	}
	if v := os.Getenv("ALEXABOT_WAKE_WORD"); v != "" {
		cfg.Wake.Word = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("ALEXABOT_SPEECH_BACKEND"); v != "" {
		cfg.Speech.Backend = v
	}
	if v := os.Getenv("ALEXABOT_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("ALEXABOT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ALEXABOT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ALEXABOT_HISTORY_ENABLED"); v != "" {
		cfg.History.Enabled = v != "0" && strings.ToLower(v) != "false"
	}
	if v := os.Getenv("ALEXABOT_HTTP_PROXY"); v != "" {
		cfg.HTTP.Proxy = v
	}
}
