package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/cards/internal/cli"
	"github.com/idilsaglam/cards/internal/config"
	"github.com/idilsaglam/cards/internal/logging"
	"github.com/idilsaglam/cards/internal/ui"
)

func main() {
	os.Exit(run(context.Background(), flag.CommandLine, os.Args[1:]))
}

// run returns the exit code; every deferred cleanup has happened by then.
func run(ctx context.Context, fs *flag.FlagSet, argv []string) int {
	// Root flags (apply to every subcommand)
	cfg, args, err := config.Load(fs, argv)
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 2
	}

	ui.SetColorForcing(cfg.ForceColor, cfg.DisableColor)
	ui.SetTheme(cfg.Theme)

	if len(args) == 0 {
		cli.PrintHelp()
		return 2
	}

	logPath := cfg.LogFile
	if logPath == "" {
		if logPath, err = config.DefaultLogFile(); err != nil {
			ui.Fail(err.Error())
			return 1
		}
	}
	logger, closer, err := logging.Open(logPath, cfg.Debug)
	if err != nil {
		// keep going without diagnostics
		ui.Fail("log: " + err.Error())
		logger = zerolog.Nop()
	} else {
		defer closer.Close()
	}

	// Hand the remaining args to the CLI runner.
	code := cli.Run(ctx, args, cli.Env{Config: cfg, Logger: logger})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
