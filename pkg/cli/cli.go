// Zaparoo Launcher
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Launcher.
//
// Zaparoo Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Launcher.  If not, see <http://www.gnu.org/licenses/>.


package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ZaparooProject/zaparoo-launcher/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/client"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	set     *flag.FlagSet
	API     *string
	Search  *string
	Format  *string
	List    *bool
	NoIcons *bool
	Version *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	return SetupFlagSet(flag.CommandLine)
}

// SetupFlagSet defines the common flags on fs.
func SetupFlagSet(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		API: fs.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		List: fs.Bool(
			"list",
			false,
			"scan for applications and print the catalog",
		),
		Search: fs.String(
			"search",
			"",
			"scan for applications and print those matching a query",
		),
		Format: fs.String(
			"format",
			FormatJSON,
			"output format of -list and -search: json, csv or yaml",
		),
		NoIcons: fs.Bool(
			"no-icons",
			false,
			"omit icon data from -list and -search output",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// ActionRequested reports whether any flag handled by Run was passed.
func (f *Flags) ActionRequested() bool {
	return *f.List || f.isFlagPassed("api") || f.isFlagPassed("search")
}

// Parse parses args into the flag set.
func (f *Flags) Parse(args []string) error {
	if err := f.set.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre(pl platforms.Platform) {
	if err := f.Parse(os.Args[1:]); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *f.Version {
		_, _ = fmt.Printf("Zaparoo Launcher v%s (%s)\n", config.AppVersion, pl.ID())
		os.Exit(0)
	}
}

// Post actions all remaining common flags that require the environment to be
// set up. Logging is allowed. It exits the process if a flag was handled.
func (f *Flags) Post(cfg *config.Instance, pl platforms.Platform) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	handled, err := f.Run(ctx, os.Stdout, cfg, pl, client.NewLocalClient(cfg))
	stop()

	if err != nil {
		log.Error().Err(err).Msg("error running command")
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		telemetry.Flush()
		os.Exit(1)
	}
	if handled {
		telemetry.Close()
		os.Exit(0)
	}
}

// Run performs the action selected by the parsed flags, writing results to
// w. It reports false when no action flag was passed.
func (f *Flags) Run(
	ctx context.Context,
	w io.Writer,
	cfg *config.Instance,
	pl platforms.Platform,
	api client.APIClient,
) (bool, error) {
	switch {
	case f.isFlagPassed("api"):
		if *f.API == "" {
			return true, errors.New("api flag requires a value")
		}

		method, params, _ := strings.Cut(*f.API, ":")
		resp, err := api.Call(ctx, method, params)
		if err != nil {
			return true, fmt.Errorf("error calling API: %w", err)
		}

		_, _ = fmt.Fprintln(w, resp)
		return true, nil
	case *f.List:
		if err := checkFormat(*f.Format); err != nil {
			return true, err
		}

		list, err := apps.DiscoverApplications(ctx, cfg, pl)
		if err != nil {
			return true, fmt.Errorf("error discovering applications: %w", err)
		}
		if *f.NoIcons {
			list = stripIcons(list)
		}
		return true, WriteCatalog(w, *f.Format, list)
	case f.isFlagPassed("search"):
		if strings.TrimSpace(*f.Search) == "" {
			return true, errors.New("search flag requires a value")
		}
		if err := checkFormat(*f.Format); err != nil {
			return true, err
		}

		list, err := apps.DiscoverApplications(ctx, cfg, pl)
		if err != nil {
			return true, fmt.Errorf("error discovering applications: %w", err)
		}
		if *f.NoIcons {
			list = stripIcons(list)
		}
		matches := apps.Search(list, *f.Search, apps.DefaultMinSimilarity, 0)
		return true, WriteMatches(w, *f.Format, matches)
	}

	return false, nil
}

// Setup initializes the user config and logging. Returns a user config object.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	pl platforms.Platform,
	defaultConfig config.Values,
	writers []io.Writer,
) *config.Instance {
	cfg, err := setupEnvironment(pl, defaultConfig, writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

//nolint:gocritic // config struct copied for immutability
func setupEnvironment(
	pl platforms.Platform,
	defaultConfig config.Values,
	writers []io.Writer,
) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(pl); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	if err := helpers.InitLogging(pl, writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(pl), defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// opt-in
	if err := telemetry.Init(telemetry.Options{
		Enabled:    cfg.ErrorReporting(),
		DSN:        cfg.ErrorReportingDSN(),
		AppVersion: config.AppVersion,
		PlatformID: pl.ID(),
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}
