package main

import (
	"fmt"
	"os"

	"alexabot/internal/config"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	fmt.Printf("config=%s wake=%q aliases=%v\n", cfg.Paths.ConfigPath, cfg.Wake.Word, cfg.Wake.Aliases)
	fmt.Printf("keys weather=%s timezone=%s geocode=%s\n", masked(cfg.Keys.Weather), masked(cfg.Keys.Timezone), masked(cfg.Keys.Geocode))
	fmt.Printf("speech=%s launch=%s %v random=[%d,%d]\n", cfg.Speech.Backend, cfg.Launch.Command, cfg.Launch.Args, cfg.Random.Min, cfg.Random.Max)
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid: %v\n", err)
	}
}

func masked(s string) string {
	if s == "" {
		return "(unset)"
	}
	return config.MaskSecret(s)
}
