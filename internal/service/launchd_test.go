package service

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderPlistRunsServe(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPlist(&buf, LaunchdParams{
		Label:  Label,
		Binary: "/usr/local/bin/alexabot",
		Config: "/Users/me/.config/alexabot/config.toml",
		Log:    "/tmp/alexabot.log",
		Env:    map[string]string{"WEATHER_API_KEY": "a&b<c>"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<string>com.alexabot.agent</string>",
		"<string>serve</string>",
		"<key>WEATHER_API_KEY</key><string>a&amp;b&lt;c&gt;</string>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("plist missing %q:\n%s", want, out)
		}
	}
}

func TestWritePlistAndStatus(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	if _, ok := Status(Label); ok {
		t.Fatalf("plist should not exist yet")
	}
	path, err := WritePlist(LaunchdParams{Binary: "/bin/alexabot", Config: "c.toml", Log: "a.log"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if want := filepath.Join(dir, "Library", "LaunchAgents", Label+".plist"); path != want {
		t.Fatalf("path = %s, want %s", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if got, ok := Status(Label); !ok || got != path {
		t.Fatalf("status = %s %v", got, ok)
	}
}
