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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/cli"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms/mac"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/ui/systray"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	pl := mac.NewPlatform()
	flags := cli.SetupFlags()
	flags.Pre(pl)

	if os.Geteuid() == 0 {
		return errors.New("zaparoo launcher cannot be run as root")
	}

	var logWriters []io.Writer
	if *flags.Daemon {
		logWriters = []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	}

	cfg := cli.Setup(pl, config.BaseDefaults, logWriters)
	flags.Post(cfg, pl)

	var ui cli.UI
	if !*flags.Daemon {
		ui = systray.UI(cfg, pl)
	}
	return cli.RunApp(pl, cfg, *flags.Daemon, ui)
}
