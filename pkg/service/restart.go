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

package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/client"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	releaseTimeout  = 10 * time.Second
	releaseInterval = 250 * time.Millisecond
)

// Relaunch starts a new copy of the current executable with the same
// arguments once the API port has been released, so the new process does
// not see this one as already running.
func Relaunch(
	cfg *config.Instance,
	cmd command.Executor,
	clock clockwork.Clock,
	running func(*config.Instance) bool,
) error {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if running == nil {
		running = client.IsServiceRunning
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to find executable: %w", err)
	}

	deadline := clock.Now().Add(releaseTimeout)
	for running(cfg) {
		if clock.Now().After(deadline) {
			log.Warn().Msg("API port still in use, relaunching anyway")
			break
		}
		clock.Sleep(releaseInterval)
	}

	log.Info().Str("exe", exe).Msg("relaunching")
	proc, err := cmd.StartProcess(context.Background(), command.StartOptions{Detach: true}, exe, os.Args[1:]...)
	if err != nil {
		return fmt.Errorf("failed to relaunch: %w", err)
	}
	if err := proc.Release(); err != nil {
		log.Debug().Err(err).Msg("failed to release relaunched process")
	}
	return nil
}
