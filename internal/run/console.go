package run

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

type lineSource interface {
	Readline() (string, error)
	Close() error
}

type scannerSource struct {
	sc *bufio.Scanner
}

func (s *scannerSource) Readline() (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scannerSource) Close() error { return nil }

// Console runs the interactive loop on stdin. Terminals get line editing and
// a persistent input history; piped input is read line by line.
func (s *Server) Console(ctx context.Context) error {
	var src lineSource
	if readline.IsTerminal(int(os.Stdin.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     filepath.Join(s.cfg.Paths.StateDir, "readline_history"),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("readline: %w", err)
		}
		src = rl
	} else {
		src = &scannerSource{sc: bufio.NewScanner(os.Stdin)}
	}
	defer src.Close()
	defer func() { _ = s.Close() }()

	if s.cfg.Metrics.Enabled {
		metricsCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go s.metricsServe(metricsCtx.Done(), s.cfg.Metrics.Addr, s.logger)
	}
	return s.loop(ctx, src)
}

func (s *Server) loop(ctx context.Context, src lineSource) error {
	s.Greet(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if s.cfg.UI.Prompt != "" {
			fmt.Fprintln(s.out, s.cfg.UI.Prompt)
		}
		line, err := readLine(ctx, src)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, readline.ErrInterrupt), ctx.Err() != nil:
			return nil
		case err != nil:
			return err
		}
		if _, quit := s.HandleUtterance(ctx, line); quit {
			return nil
		}
	}
}

type lineResult struct {
	line string
	err  error
}

// readLine returns early when ctx ends; a piped stdin blocks in Scan and
// would otherwise swallow the interrupt until the next line arrives.
func readLine(ctx context.Context, src lineSource) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := src.Readline()
		ch <- lineResult{line: line, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}
