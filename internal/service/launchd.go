// Package service provides launchd plist generation for macOS.
package service

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const launchdTemplate = `<?xml version='1.0' encoding='UTF-8'?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
  <key>Label</key><string>{{.Label}}</string>
  <key>ProgramArguments</key>
  <array>
    <string>{{.Binary}}</string>
    <string>serve</string>
    <string>--config</string>
    <string>{{.Config}}</string>
  </array>
  <key>RunAtLoad</key><true/>
  <key>KeepAlive</key><dict><key>SuccessfulExit</key><false/></dict>
  <key>StandardOutPath</key><string>{{.Log}}</string>
  <key>StandardErrorPath</key><string>{{.Log}}</string>
  {{- if .Env }}
  <key>EnvironmentVariables</key>
  <dict>
    {{- range $k, $v := .Env }}
    <key>{{$k}}</key><string>{{$v}}</string>
    {{- end }}
  </dict>
  {{- end }}
</dict>
</plist>`

// Label identifies the user agent in launchd.
const Label = "com.alexabot.agent"

type LaunchdParams struct {
	Label  string
	Binary string
	Config string
	Log    string
	Env    map[string]string
}

// LaunchdPath returns the plist path for a label.
func LaunchdPath(label string) string {
	return filepath.Join(home(), "Library", "LaunchAgents", fmt.Sprintf("%s.plist", label))
}

// WritePlist writes a user-level launchd plist.
func WritePlist(params LaunchdParams) (string, error) {
	if params.Label == "" {
		params.Label = Label
	}
	path := LaunchdPath(params.Label)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := RenderPlist(&buf, params); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

var plistTpl = template.Must(template.New("launchd").Parse(launchdTemplate))

// RenderPlist writes the plist for params to w. String values are XML-escaped.
func RenderPlist(w io.Writer, params LaunchdParams) error {
	return plistTpl.Execute(w, escaped(params))
}

func escaped(p LaunchdParams) LaunchdParams {
	esc := func(s string) string {
		var b strings.Builder
		_ = xml.EscapeText(&b, []byte(s))
		return b.String()
	}
	out := LaunchdParams{
		Label:  esc(p.Label),
		Binary: esc(p.Binary),
		Config: esc(p.Config),
		Log:    esc(p.Log),
	}
	if len(p.Env) > 0 {
		out.Env = make(map[string]string, len(p.Env))
		for k, v := range p.Env {
			out.Env[esc(k)] = esc(v)
		}
	}
	return out
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}
