package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/handiism/yandex-music-downloader/internal/config"
	"github.com/handiism/yandex-music-downloader/internal/tui"
)

func main() {
	configFlag := pflag.String("config", "", "Path to config file")
	envFileFlag := pflag.String("env-file", ".env", "Path to .env file with YMD_SESSION_ID")
	pflag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.LoadEnv(*envFileFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	settings.ApplyEnv()

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
