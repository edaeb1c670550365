// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Command docshell runs a shell bridged through a remote rich-text
// document: the daemon polls the document's command table, executes
// whitelisted commands locally, and appends command, output, and
// timestamp rows to the document's log table.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/pflag"

	"github.com/docshell-project/docshell/lib/cli"
	"github.com/docshell-project/docshell/lib/clock"
	"github.com/docshell-project/docshell/lib/config"
	"github.com/docshell-project/docshell/lib/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "docshell: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var configPath string
	var logLevel string
	var restartTimeout time.Duration

	// Shared by every subcommand that loads configuration.
	configFlags := func(flagSet *pflag.FlagSet) {
		flagSet.StringVar(&configPath, "config", "", "path to docshell.yaml (default: $DOCSHELL_CONFIG)")
		flagSet.StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	}

	loadConfig := func() (*config.Config, error) {
		var cfg *config.Config
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return nil, err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}

	newLogger := func(cfg *config.Config) (logger loggerWithClose, err error) {
		log, closeLog, err := logging.New(logging.Options{
			Level:    logging.ParseLevel(cfg.LogLevel),
			FilePath: cfg.LogPath,
		})
		if err != nil {
			return loggerWithClose{}, err
		}
		return loggerWithClose{Logger: log, close: closeLog}, nil
	}

	root := &cli.Command{
		Name:    "docshell",
		Summary: "Shell access through a shared rich-text document",
		Description: "Docshell polls a remote document for a command typed into its\n" +
			"command table, executes it locally when whitelisted, and appends\n" +
			"the result to the document's log table.",
		Subcommands: []*cli.Command{
			{
				Name:    "start",
				Summary: "Start the polling daemon",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("start", pflag.ContinueOnError)
					configFlags(flagSet)
					return flagSet
				},
				Run: func(args []string) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					logger, err := newLogger(cfg)
					if err != nil {
						return err
					}
					defer logger.close()
					return runStart(cfg, logger.Logger, clock.Real())
				},
			},
			{
				Name:    "stop",
				Summary: "Signal the running daemon to exit",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("stop", pflag.ContinueOnError)
					configFlags(flagSet)
					return flagSet
				},
				Run: func(args []string) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					return runStop(cfg, os.Stdout)
				},
			},
			{
				Name:    "restart",
				Summary: "Stop the running daemon, wait for it to exit, and start again",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("restart", pflag.ContinueOnError)
					configFlags(flagSet)
					flagSet.DurationVar(&restartTimeout, "timeout", 10*time.Second, "how long to wait for the old daemon to release its lock")
					return flagSet
				},
				Run: func(args []string) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					logger, err := newLogger(cfg)
					if err != nil {
						return err
					}
					defer logger.close()
					return runRestart(cfg, logger.Logger, clock.Real(), restartTimeout, os.Stdout)
				},
			},
			{
				Name:    "setup",
				Summary: "Create the remote document and record its id",
				Description: "Setup creates the remote document, inserts the command and log\n" +
					"tables, fills in the template text, and records the document id\n" +
					"under the state directory. Start runs it automatically when state\n" +
					"is missing; run it by hand to recreate the document.",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("setup", pflag.ContinueOnError)
					configFlags(flagSet)
					return flagSet
				},
				Run: func(args []string) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					logger, err := newLogger(cfg)
					if err != nil {
						return err
					}
					defer logger.close()
					return runSetupCommand(cfg, logger.Logger, clock.Real())
				},
			},
			{
				Name:    "run-once",
				Summary: "Run a single poll cycle and exit",
				Description: "Run-once performs one poll cycle (read, execute, append) without\n" +
					"taking the daemon lock. Useful for testing a new configuration\n" +
					"or driving docshell from an external scheduler.",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("run-once", pflag.ContinueOnError)
					configFlags(flagSet)
					return flagSet
				},
				Run: func(args []string) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					logger, err := newLogger(cfg)
					if err != nil {
						return err
					}
					defer logger.close()
					return runOnce(cfg, logger.Logger, clock.Real())
				},
			},
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					printVersion(os.Stdout)
					return nil
				},
			},
		},
	}

	return root.Execute(args)
}

// loggerWithClose pairs a logger with its log-file close function so
// subcommands can defer the close in one statement.
type loggerWithClose struct {
	Logger *slog.Logger
	close  func() error
}

func printVersion(w *os.File) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Fprintln(w, "docshell (unknown build)")
		return
	}
	fmt.Fprintf(w, "docshell %s (%s)\n", info.Main.Version, info.GoVersion)
}
