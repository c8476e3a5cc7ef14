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
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/client"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/rs/zerolog/log"
)

var ErrUnknownGame = errors.New("unknown game")

type Flags struct {
	set     *flag.FlagSet
	API     *string
	Version *bool
	List    *bool
	Launch  *string
	Stop    *bool
	Status  *bool
	Import  *string
	Daemon  *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	return NewFlags(flag.CommandLine)
}

// NewFlags defines the launcher flags on set.
func NewFlags(set *flag.FlagSet) *Flags {
	return &Flags{
		set: set,
		API: set.String(
			"api",
			"",
			"send method and params to API and print response (method:params)",
		),
		Version: set.Bool(
			"version",
			false,
			"print version and exit",
		),
		List: set.Bool(
			"list",
			false,
			"list games in the games folder",
		),
		Launch: set.String(
			"launch",
			"",
			"launch a game by folder name",
		),
		Stop: set.Bool(
			"stop",
			false,
			"stop the running game",
		),
		Status: set.Bool(
			"status",
			false,
			"print the running game",
		),
		Import: set.String(
			"import",
			"",
			"import a game from a ZIP archive",
		),
		Daemon: set.Bool(
			"daemon",
			false,
			"run service in foreground with no UI",
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

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre(pl platforms.Platform) {
	if !f.set.Parsed() {
		_ = f.set.Parse(os.Args[1:])
	}

	if *f.Version {
		_, _ = fmt.Printf("%s v%s (%s)\n", config.DisplayName, config.AppVersion, pl.ID())
		os.Exit(0)
	}
}

// Post actions all remaining common flags that talk to a running launcher.
// It exits the process when one was handled.
func (f *Flags) Post(cfg *config.Instance, _ platforms.Platform) {
	handled, err := f.Run(context.Background(), client.NewLocalAPIClient(cfg), os.Stdout)
	if !handled {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// Run executes the command given on the command line against api. It
// reports false when no command flag was passed.
func (f *Flags) Run(ctx context.Context, api client.APIClient, out io.Writer) (bool, error) {
	switch {
	case f.isFlagPassed("api"):
		return true, f.runAPI(ctx, api, out)
	case f.isFlagPassed("list"):
		return true, runList(ctx, api, out)
	case f.isFlagPassed("launch"):
		return true, runLaunch(ctx, api, out, *f.Launch)
	case f.isFlagPassed("stop"):
		return true, call(ctx, api, models.MethodStop, nil, nil)
	case f.isFlagPassed("status"):
		return true, runStatus(ctx, api, out)
	case f.isFlagPassed("import"):
		return true, runImport(ctx, api, out, *f.Import)
	default:
		return false, nil
	}
}

func call(ctx context.Context, api client.APIClient, method string, params, result any) error {
	var p string
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("error encoding params: %w", err)
		}
		p = string(data)
	}

	resp, err := api.Call(ctx, method, p)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", method, err)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(resp), result); err != nil {
		return fmt.Errorf("error decoding %s response: %w", method, err)
	}
	return nil
}

func (f *Flags) runAPI(ctx context.Context, api client.APIClient, out io.Writer) error {
	if *f.API == "" {
		return errors.New("api flag requires a value")
	}

	method, params, _ := strings.Cut(*f.API, ":")
	resp, err := api.Call(ctx, method, params)
	if err != nil {
		return fmt.Errorf("error calling API: %w", err)
	}
	_, _ = fmt.Fprintln(out, resp)
	return nil
}

func listGames(ctx context.Context, api client.APIClient) ([]games.Entry, error) {
	var entries []games.Entry
	if err := call(ctx, api, models.MethodGames, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func runList(ctx context.Context, api client.APIClient, out io.Writer) error {
	entries, err := listGames(ctx, api)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsFavorite {
			_, _ = fmt.Fprintf(out, "* %s\n", e.Name)
		} else {
			_, _ = fmt.Fprintf(out, "  %s\n", e.Name)
		}
	}
	return nil
}

func runLaunch(ctx context.Context, api client.APIClient, out io.Writer, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("launch flag requires a value")
	}

	entries, err := listGames(ctx, api)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}

	resolved, ok := resolveName(name, names)
	if !ok {
		if s, found := Suggest(name, names); found {
			return fmt.Errorf("%w: %q, did you mean %q?", ErrUnknownGame, name, s)
		}
		return fmt.Errorf("%w: %q", ErrUnknownGame, name)
	}

	if err := call(ctx, api, models.MethodLaunch, models.NameParams{Name: resolved}, nil); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Launching %s\n", resolved)
	return nil
}

func runStatus(ctx context.Context, api client.APIClient, out io.Writer) error {
	var status models.SessionStatus
	if err := call(ctx, api, models.MethodSessionStatus, nil, &status); err != nil {
		return err
	}
	if status.Running && status.Name != nil {
		_, _ = fmt.Fprintf(out, "Running: %s\n", *status.Name)
	} else {
		_, _ = fmt.Fprintln(out, "No game running")
	}
	return nil
}

func runImport(ctx context.Context, api client.APIClient, out io.Writer, path string) error {
	if path == "" {
		return errors.New("import flag requires a value")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("error resolving path: %w", err)
	}

	var res models.ImportResponse
	if err := call(ctx, api, models.MethodGamesImport, models.ImportParams{Path: &abs}, &res); err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("import failed: %s", res.Reason)
	}
	_, _ = fmt.Fprintf(out, "Imported to %s\n", res.Folder)
	return nil
}

// Setup initializes the user config and logging. Returns a user config object.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	pl platforms.Platform,
	defaultConfig config.Values,
	writers []io.Writer,
) *config.Instance {
	err := helpers.EnsureDirectories(pl)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	err = helpers.InitLogging(pl, writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(pl), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.SetDebugLogging(cfg.DebugLogging())

	if err := telemetry.Init(
		cfg.ErrorReporting(),
		cfg.DeviceID(),
		config.AppVersion,
		pl.ID(),
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg
}
