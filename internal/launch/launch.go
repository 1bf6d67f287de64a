package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"alexabot/internal/config"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// Runner opens URLs with the configured opener (xdg-open, open, a browser...).
type Runner struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func NewRunner(cfg *config.Config, logger *logrus.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logger,
	}
}

// Open runs the opener command with target appended to its args.
// Success means the opener exited cleanly, not that a page rendered.
func (r *Runner) Open(ctx context.Context, target string) error {
	cmdStr := r.cfg.Launch.Command
	if cmdStr == "" {
		return fmt.Errorf("no launch.command configured")
	}
	args, err := r.args()
	if err != nil {
		return err
	}
	args = append(args, target)

	runCtx := ctx
	var cancel context.CancelFunc
	if r.cfg.Launch.TimeoutSec > 0 {
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(float64(time.Second)*r.cfg.Launch.TimeoutSec))
		defer cancel()
	}
	cmd := exec.CommandContext(runCtx, os.ExpandEnv(cmdStr), args...)
	cmd.Env = os.Environ()
	for k, v := range r.cfg.Launch.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Env, fmt.Sprintf("ALEXABOT_URL=%s", target))

	r.logger.Debugf("launch: %s %v", cmdStr, args)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		r.logger.Infof("launch output: %s", strings.TrimSpace(string(out)))
	}
	if err != nil {
		return fmt.Errorf("launch failed: %w", err)
	}
	return nil
}

// args returns launch.args; a single entry holding spaces is split shell-style.
func (r *Runner) args() ([]string, error) {
	raw := r.cfg.Launch.Args
	if len(raw) == 1 && strings.ContainsAny(raw[0], " \t\"'") {
		return ParseArgs(raw[0])
	}
	return append([]string{}, raw...), nil
}

// ParseArgs allows Launch.Args to be configured as a single string.
func ParseArgs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	return shlex.Split(raw)
}
