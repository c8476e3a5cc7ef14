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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/zaparoo-launcher/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/client"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service"
	"github.com/rs/zerolog/log"
)

// UI runs a platform front end, such as the tray, on the calling goroutine
// until the user quits or quit is closed.
type UI func(svc *service.Service, quit <-chan struct{})

// RunApp runs the launcher service and its front end. Without a UI the
// app lives as long as the main window, or until a signal in daemon mode.
// A second launch while a service is already running only opens the main
// window.
func RunApp(
	pl platforms.Platform,
	cfg *config.Instance,
	daemonMode bool,
	ui UI,
) (returnErr error) {
	defer telemetry.Close()
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %v\n", r)
			telemetry.CaptureRecovered(r)
			log.Error().Msgf("panic recovered: %v", r)
			returnErr = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx := context.Background()

	if client.IsServiceRunning(cfg) {
		if daemonMode {
			log.Info().Str("address", cfg.APIListen()).Msg("service already running, exiting")
			return nil
		}
		log.Info().Msg("launcher already running, opening main window")
		if _, err := service.OpenMainWindow(ctx, pl, cfg); err != nil {
			return fmt.Errorf("error opening main window: %w", err)
		}
		return nil
	}

	svc, err := service.Start(pl, cfg)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		return fmt.Errorf("error starting service: %w", err)
	}
	defer func() {
		if err := svc.Stop(); err != nil {
			log.Error().Err(err).Msg("error stopping service")
		}
		if svc.RestartRequested() {
			if err := service.Relaunch(cfg, &command.RealExecutor{}, nil, nil); err != nil {
				log.Error().Err(err).Msg("error relaunching after update")
			}
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if daemonMode {
		log.Info().Msg("started in daemon mode")
		select {
		case <-sigs:
		case <-svc.Done():
			log.Info().Msg("service shut down internally")
		}
		return nil
	}

	window, err := svc.OpenMainWindow(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error opening main window")
	}

	if ui != nil {
		quit := make(chan struct{})
		go func() {
			select {
			case <-sigs:
			case <-svc.Done():
			}
			close(quit)
		}()
		ui(svc, quit)
		return nil
	}

	var windowDone <-chan struct{}
	if window != nil {
		windowDone = window.Done()
	}
	select {
	case <-sigs:
	case <-windowDone:
		log.Info().Msg("main window closed")
	case <-svc.Done():
		log.Info().Msg("service shut down internally")
	}
	return nil
}
