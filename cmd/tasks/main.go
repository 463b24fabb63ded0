package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/tasks/internal/cli"
	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/logging"
	"github.com/idilsaglam/tasks/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.Usage = cli.PrintHelp
	cfg, args, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(2)
	}

	ui.SetColorMode(cfg.Color)
	ui.SetTheme(cfg.Theme)
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// Hand the remaining args to the CLI runner.
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Config: cfg,
		Logger: logger,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
