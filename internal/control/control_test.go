package control

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTailFileKeepsLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.log")
	if err := os.WriteFile(path, []byte("one\ntwo\n\nthree\nfour\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := tailFile(&buf, path, 3); err != nil {
		t.Fatalf("tail: %v", err)
	}
	if got := buf.String(); got != "three\nfour\n" {
		t.Fatalf("unexpected tail %q", got)
	}
}

func TestParseEnvPairs(t *testing.T) {
	env, err := parseEnvPairs([]string{"WEATHER_API_KEY=abc", "EMPTY=", "URL=a=b"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env["WEATHER_API_KEY"] != "abc" || env["EMPTY"] != "" || env["URL"] != "a=b" {
		t.Fatalf("unexpected env %v", env)
	}
	if _, err := parseEnvPairs([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for missing '='")
	}
}

func TestPrintStatusShowsFailures(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, Status{
		Running:   true,
		UptimeSec: 3,
		Turns: []Turn{{
			Intent:    "weather",
			Outcome:   "recoverable",
			Failure:   "location_not_found",
			Text:      "alexa weather in atlantis",
			Reply:     "I could not find the weather for that location.",
			Timestamp: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		}},
	})
	out := buf.String()
	for _, want := range []string{"running: true", "09:30:00", "recoverable/location_not_found", `"alexa weather in atlantis"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestCallRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "abctl")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	sock := filepath.Join(dir, "c.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	got := make(chan Request, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		if !sc.Scan() {
			return
		}
		var req Request
		_ = json.Unmarshal(sc.Bytes(), &req)
		got <- req
		_ = json.NewEncoder(conn).Encode(TurnResponse{OK: true, Turn: Turn{Intent: "help", Reply: "Here are the available commands"}})
	}()

	var resp TurnResponse
	if err := Call(sock, Request{Op: OpUtterance, Text: "alexa help"}, time.Second, &resp); err != nil {
		t.Fatalf("call: %v", err)
	}
	if req := <-got; req.Op != OpUtterance || req.Text != "alexa help" {
		t.Fatalf("unexpected request %+v", req)
	}
	if !resp.OK || resp.Turn.Intent != "help" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestCallWithoutDaemon(t *testing.T) {
	err := Call(filepath.Join(t.TempDir(), "missing.sock"), Request{Op: OpHealth}, time.Second, &SimpleResponse{})
	if err == nil || !strings.Contains(err.Error(), "cannot connect") {
		t.Fatalf("expected connect error, got %v", err)
	}
}
