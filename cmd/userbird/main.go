// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command userbird runs the Userbird feedback server and its admin tasks.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/olegiv/userbird/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Options is the command tree.
type Options struct {
	EnvFile string `long:"env-file" description:"Load environment variables from this file" default:".env"`

	Serve    serveCommand    `command:"serve" description:"Run the feedback server"`
	Migrate  migrateCommand  `command:"migrate" description:"Apply pending database migrations"`
	Form     formCommand     `command:"form" description:"Manage registered forms"`
	Feedback feedbackCommand `command:"feedback" description:"Inspect submitted feedback"`
	Version  versionCommand  `command:"version" description:"Show version information"`
}

var opts Options

func buildInfo() version.Info {
	return version.New(appVersion, appGitCommit, appBuildTime)
}

func main() {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.LongDescription = "Userbird collects feedback from an embeddable widget.\n\n" +
		"Configuration is read from USERBIRD_* environment variables."

	// Load the env file before any command runs so config.Load sees it.
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if opts.EnvFile != "" {
			if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading %s: %w", opts.EnvFile, err)
			}
		}
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				_, _ = fmt.Fprintln(os.Stdout, flagsErr.Message)
				os.Exit(0)
			}
			_, _ = fmt.Fprintln(os.Stderr, flagsErr.Message)
			os.Exit(2)
		}
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
