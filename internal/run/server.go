package run

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"alexabot/internal/assistant"
	"alexabot/internal/config"
	"alexabot/internal/control"
	"alexabot/internal/launch"
	"alexabot/internal/speech"
	"alexabot/internal/webapi"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	turnQueueSize   = 16
	connReadTimeout = 5 * time.Second
)

// Server owns one assistant and everything a turn touches: speech output,
// the opener, history, and metrics. Turns are handled one at a time.
type Server struct {
	cfg       *config.Config
	logger    *logrus.Logger
	assistant *assistant.Assistant
	speaker   speech.Speaker
	out       io.Writer
	startedAt time.Time

	historyMu sync.Mutex
	history   []control.Turn

	metrics *metrics
	turnCh  chan turnJob

	wg sync.WaitGroup
}

// New wires a Server around an existing assistant.
func New(cfg *config.Config, logger *logrus.Logger, asst *assistant.Assistant, speaker speech.Speaker, out io.Writer) *Server {
	if out == nil {
		out = io.Discard
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		assistant: asst,
		speaker:   speaker,
		out:       out,
		startedAt: time.Now(),
		history:   make([]control.Turn, 0, max(1, cfg.UI.HistoryTail)),
		metrics:   newMetrics(),
		turnCh:    make(chan turnJob, turnQueueSize),
	}
}

// Build creates a Server backed by the real web services, opener and speech backend.
func Build(cfg *config.Config, logger *logrus.Logger, out io.Writer) (*Server, error) {
	if err := config.MustStatePaths(cfg); err != nil {
		return nil, err
	}
	client, err := webapi.New(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	speaker, err := speech.New(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugf("speech backend: %s", speaker.Name())
	asst := assistant.New(cfg, client, launch.NewRunner(cfg, logger), logger)
	return New(cfg, logger, asst, speaker, out), nil
}

// Serve runs the daemon until interrupted or asked to shut down.
func Serve(cfg *config.Config, logger *logrus.Logger) error {
	srv, err := Build(cfg, logger, os.Stdout)
	if err != nil {
		return err
	}
	// Write pid file.
	if err := os.WriteFile(cfg.Paths.PidPath, []byte(fmt.Sprintf("%d", os.Getpid())), 0o644); err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(cfg.Paths.PidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warnf("remove pid file: %v", err)
		}
	}()
	// Ensure socket removed
	if err := os.Remove(cfg.Paths.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debugf("remove stale socket: %v", err)
	}
	defer func() { _ = os.Remove(cfg.Paths.SocketPath) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Control socket
	srv.wg.Add(1)
	go func() {
		defer srv.wg.Done()
		srv.controlLoop(ctx)
	}()

	// Turn worker
	srv.wg.Add(1)
	go func() {
		defer srv.wg.Done()
		srv.turnWorker(ctx, cancel)
	}()

	// Metrics server
	if cfg.Metrics.Enabled {
		go srv.metricsServe(ctx.Done(), cfg.Metrics.Addr, logger)
	}

	// Handle signals
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)
	select {
	case s := <-sigCh:
		logger.Infof("received signal %s, shutting down", s)
		cancel()
	case <-ctx.Done():
		logger.Info("shutdown requested")
	}
	// Wait for the in-flight turn and pending replies
	srv.wg.Wait()
	return srv.Close()
}

// HandleUtterance runs one full turn: reply, speech, action, history.
// It reports whether the user asked to quit.
func (s *Server) HandleUtterance(ctx context.Context, text string) (control.Turn, bool) {
	text = strings.TrimSpace(text)
	s.logger.Infof("heard: %q", text)

	out := s.assistant.Handle(ctx, text)
	s.say(ctx, out.Reply)
	if out.Action.Kind != assistant.NoAction {
		err := s.assistant.Perform(ctx, out.Action)
		s.metrics.observeAction(out.Action.Kind, err)
		if err != nil {
			s.logger.Errorf("%s %q: %v", out.Action.Kind, out.Action.Query, err)
			s.say(ctx, assistant.ActionFailedReply(out.Action))
		}
	}
	s.metrics.observeTurn(out)

	turn := control.Turn{
		ID:        uuid.NewString(),
		Text:      text,
		Intent:    out.Command.Intent.String(),
		Outcome:   out.Kind.String(),
		Reply:     out.Reply,
		Timestamp: time.Now(),
	}
	if out.Kind == assistant.Recoverable {
		turn.Failure = out.Failure.String()
	}
	s.logger.WithFields(logrus.Fields{
		"turn":    turn.ID,
		"intent":  turn.Intent,
		"outcome": turn.Outcome,
		"failure": turn.Failure,
	}).Info("turn handled")
	s.recordTurn(turn)
	return turn, out.Quit
}

// Close releases the speech backend.
func (s *Server) Close() error {
	if c, ok := s.speaker.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Greet prints and speaks the configured greeting.
func (s *Server) Greet(ctx context.Context) {
	if s.cfg.UI.Greeting != "" {
		s.say(ctx, s.cfg.UI.Greeting)
	}
}

func (s *Server) say(ctx context.Context, text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(s.out, text)
	if err := s.speaker.Speak(ctx, text); err != nil {
		s.logger.Warnf("speak (%s): %v", s.speaker.Name(), err)
	}
}

// recordTurn keeps the status tail in memory and, when history is enabled,
// appends the turn to the history file.
func (s *Server) recordTurn(turn control.Turn) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	s.history = append(s.history, turn)
	if tail := s.cfg.UI.HistoryTail; tail > 0 && len(s.history) > tail {
		s.history = s.history[len(s.history)-tail:]
	}
	if !s.cfg.History.Enabled || s.cfg.Paths.HistoryPath == "" {
		return
	}
	// append to file
	f, err := os.OpenFile(s.cfg.Paths.HistoryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		s.logger.Warnf("open history: %v", err)
		return
	}
	if _, err := fmt.Fprintf(f, "%s\t%s\t%s\t%s\t%s\n",
		turn.Timestamp.Format(time.RFC3339), turn.Intent, turn.Outcome, turn.Text, turn.Reply); err != nil {
		s.logger.Warnf("write history: %v", err)
	}
	_ = f.Close()
}

// History returns a copy of the recent turns, oldest first.
func (s *Server) History() []control.Turn {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	out := make([]control.Turn, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Server) controlLoop(ctx context.Context) {
	ln, err := net.Listen("unix", s.cfg.Paths.SocketPath)
	if err != nil {
		s.logger.Errorf("control listen: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Errorf("control accept: %v", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil && ctx.Err() == nil {
			s.logger.Warnf("control connection close: %v", err)
		}
	}()
	_ = conn.SetReadDeadline(time.Now().Add(connReadTimeout))
	sc := bufio.NewScanner(conn)
	if !sc.Scan() {
		return
	}
	var req control.Request
	if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
		return
	}
	enc := json.NewEncoder(conn)
	switch req.Op {
	case control.OpStatus:
		_ = enc.Encode(control.Status{
			Running:   true,
			UptimeSec: time.Since(s.startedAt).Seconds(),
			Turns:     s.History(),
		})
	case control.OpHealth:
		_ = enc.Encode(control.SimpleResponse{OK: true, Message: "ok"})
	case control.OpUtterance:
		_ = enc.Encode(s.submit(ctx, req.Text))
	default:
		_ = enc.Encode(control.SimpleResponse{OK: false, Message: fmt.Sprintf("unknown op %q", req.Op)})
	}
}
