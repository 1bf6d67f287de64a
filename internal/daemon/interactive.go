package daemon

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"alexabot/internal/config"
	"alexabot/internal/logging"
	"alexabot/internal/run"

	"github.com/spf13/cobra"
)

// RunConsole loads config and runs the interactive prompt until the user quits.
func RunConsole(cmd *cobra.Command, cfgPath string) error {
	srv, err := build(cmd, cfgPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Console(ctx)
}

// NewAskCmd handles a single utterance in-process, without a daemon.
func NewAskCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask \"alexa ...\"",
		Short: "Handle one command and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := build(cmd, *cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = srv.Close() }()
			turn, _ := srv.HandleUtterance(cmd.Context(), strings.Join(args, " "))
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "intent=%s outcome=%s failure=%s\n", turn.Intent, turn.Outcome, turn.Failure)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "print the classified intent and outcome")
	cmd.Flags().String("speech", "", "speech backend for this run (auto, espeak-ng, say, google, none)")
	return cmd
}

func build(cmd *cobra.Command, cfgPath string) (*run.Server, error) {
	if f := cmd.Flags().Lookup("speech"); f != nil && f.Value.String() != "" {
		if err := os.Setenv("ALEXABOT_SPEECH_BACKEND", f.Value.String()); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.Configure(cfg)
	if err != nil {
		return nil, err
	}
	return run.Build(cfg, logger, cmd.OutOrStdout())
}
