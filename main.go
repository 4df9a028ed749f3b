package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/audiodash/audiodash-go/cmd"
	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/logging"
)

func main() {
	// Load the configuration, this creates a default config file on
	// first run.
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}

	if settings.Main.Log.Enabled {
		logging.InitWithFile(settings.Main.Log.Path,
			settings.Main.Log.MaxSize,
			settings.Main.Log.MaxBackups,
			settings.Main.Log.MaxAge,
			level)
	} else {
		logging.Init(level)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
