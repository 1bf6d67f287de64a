package main

import (
	"fmt"
	"os"

	"alexabot/internal/control"
	"alexabot/internal/daemon"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfgPath *string
	root := &cobra.Command{
		Use:   "alexabot",
		Short: "alexabot: a typed \"Alexa\" command assistant",
		Long: `alexabot reads commands that start with "alexa", answers them out loud, and opens
videos or web searches in your browser.

Without a subcommand it starts the interactive prompt.

Key commands:
  ask "alexa ..."           Handle one command and exit
  start|stop|restart        Daemon lifecycle
  send "alexa ..."          Hand a command to the running daemon
  status [--json]           Uptime + recent turns
  doctor                    Check API keys, opener and speech
  service install|uninstall|status   launchd helper (macOS)
  health|tail-log           Liveness, log tail

Env: WEATHER_API_KEY, TIMEZONE_API_KEY, GEOCODE_API_KEY (or a .env file),
     ALEXABOT_WAKE_WORD, ALEXABOT_SPEECH_BACKEND, ALEXABOT_METRICS_ADDR,
     ALEXABOT_LOG_LEVEL/FORMAT, ALEXABOT_HISTORY_ENABLED, ALEXABOT_HTTP_PROXY`,
		Example: `  alexabot
  alexabot ask "alexa what is the weather in paris"
  alexabot start --metrics-addr 127.0.0.1:9318
  alexabot send "alexa tell me a joke"
  alexabot service install --env WEATHER_API_KEY=... --env TIMEZONE_API_KEY=...`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return daemon.RunConsole(cmd, *cfgPath)
		},
	}

	root.Version = version
	root.SetVersionTemplate("alexabot v{{.Version}}\n")

	cfgPath = root.PersistentFlags().StringP("config", "c", "", "Path to config file (TOML). Defaults to ~/.config/alexabot/config.toml")
	root.Flags().String("speech", "", "speech backend for this session (auto, espeak-ng, say, google, none)")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(daemon.NewAskCmd(cfgPath))
	root.AddCommand(daemon.NewStartCmd(cfgPath))
	root.AddCommand(daemon.NewStopCmd(cfgPath))
	root.AddCommand(daemon.NewRestartCmd(cfgPath))
	root.AddCommand(control.NewSendCmd(cfgPath))
	root.AddCommand(control.NewStatusCmd(cfgPath))
	root.AddCommand(control.NewHealthCmd(cfgPath))
	root.AddCommand(control.NewTailLogCmd(cfgPath))
	root.AddCommand(control.NewDoctorCmd(cfgPath))
	root.AddCommand(control.NewServiceRootCmd(cfgPath))

	// Hidden internal serve command used by start.
	root.AddCommand(daemon.NewServeCmd(cfgPath))

	applyColorHelp(root)

	return root.Execute()
}

func applyColorHelp(root *cobra.Command) {
	const (
		boldBlue = "\033[1;34m"
		green    = "\033[32m"
		bold     = "\033[1m"
		dim      = "\033[2m"
		reset    = "\033[0m"
	)
	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			defaultHelp(cmd, args)
			return
		}
		out := cmd.OutOrStdout()
		write := func(format string, args ...any) { _, _ = fmt.Fprintf(out, format, args...) }
		writeln := func(line string) { _, _ = fmt.Fprintln(out, line) }

		write("%salexabot%s: typed \"Alexa\" command assistant %s(v%s)%s\n", boldBlue, reset, dim, version, reset)
		write("%sAnswers time, date, weather, trivia, jokes and random numbers; plays videos and runs searches.%s\n\n", dim, reset)

		write("%sUsage%s\n", bold, reset)
		write("  alexabot [command] [flags]\n\n")

		write("%sKey commands%s\n", bold, reset)
		writeln("  (none)                      interactive prompt")
		writeln("  ask \"alexa ...\"             handle one command and exit")
		writeln("  start|stop|restart          daemon lifecycle")
		writeln("  send \"alexa ...\"            hand a command to the daemon")
		writeln("  status [--json]             uptime + recent turns")
		writeln("  doctor                      check keys/opener/speech")
		writeln("  service install|uninstall|status manage launchd plist (macOS)")
		writeln("  health                      control-socket liveness ping")
		writeln("  tail-log                    show last log lines")
		writeln("")

		write("%sSaying things%s\n", bold, reset)
		writeln("  alexa play <song>           open the first matching video")
		writeln("  alexa time|date [in <place>]")
		writeln("  alexa weather [in <place>]  no place means your IP location")
		writeln("  alexa who|what|when <topic> Wikipedia summary, web search fallback")
		writeln("  alexa search <query>        open a web search")
		writeln("  alexa joke | help | quit")
		writeln("  alexa random number [between A and B]")
		writeln("")

		write("%sNotable flags & env%s\n", bold, reset)
		writeln("  --metrics-addr <addr>   enable /metrics (Prometheus)")
		writeln("  --speech <backend>      auto, espeak-ng, espeak, say, spd-say, google, none")
		writeln("  -c, --config <path>     config file (default ~/.config/alexabot/config.toml)")
		writeln("  Env: WEATHER_API_KEY, TIMEZONE_API_KEY, GEOCODE_API_KEY (or .env),")
		writeln("       ALEXABOT_LOG_LEVEL=debug, ALEXABOT_LOG_FORMAT=json,")
		writeln("       ALEXABOT_HISTORY_ENABLED=0, ALEXABOT_HTTP_PROXY=host:port")
		writeln("")

		write("%sCommands%s\n", bold, reset)
		for _, c := range cmd.Commands() {
			if c.Hidden {
				continue
			}
			write("  %s%-15s%s %s\n", green, c.Name(), reset, c.Short)
		}
	})
}
