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

package updater

import (
	"context"
	"errors"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var ErrBusy = errors.New("update already in progress")

type Options struct {
	Config        *config.Instance
	Source        Source
	Clock         clockwork.Clock
	Notifications chan<- models.Notification
	// Restart is called once a downloaded update should take over.
	Restart func()
	// CurrentVersion defaults to config.AppVersion.
	CurrentVersion string
}

type Updater struct {
	opts      Options
	available *Release
	mu        syncutil.Mutex
	busy      bool
	ready     bool
}

func NewUpdater(opts Options) *Updater {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.CurrentVersion == "" {
		opts.CurrentVersion = config.AppVersion
	}
	return &Updater{opts: opts}
}

// Run waits for the configured delay and then checks for an update once.
func (u *Updater) Run(ctx context.Context) {
	if !u.opts.Config.UpdatesEnabled() {
		log.Debug().Msg("updates disabled, skipping update check")
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-u.opts.Clock.After(u.opts.Config.UpdateCheckDelay()):
	}

	if err := u.Check(ctx); err != nil {
		log.Warn().Err(err).Msg("update check failed")
	}
}

func (u *Updater) begin() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.busy {
		return false
	}
	u.busy = true
	return true
}

func (u *Updater) end() {
	u.mu.Lock()
	u.busy = false
	u.mu.Unlock()
}

func (u *Updater) status(payload models.UpdateStatusPayload) {
	if u.opts.Notifications != nil {
		notifications.UpdateStatus(u.opts.Notifications, payload)
	}
}

func (u *Updater) progress(percent int) {
	if u.opts.Notifications != nil {
		notifications.UpdateProgress(u.opts.Notifications, percent)
	}
}

// Check looks for a newer release and downloads it. With auto install on,
// a successful download restarts the launcher.
func (u *Updater) Check(ctx context.Context) error {
	if !u.begin() {
		return ErrBusy
	}

	u.status(models.UpdateStatusPayload{State: models.UpdateStateChecking})
	rel, err := u.opts.Source.Newer(ctx, u.opts.CurrentVersion)
	if err != nil {
		u.end()
		u.status(models.UpdateStatusPayload{State: models.UpdateStateError, Message: err.Error()})
		return err
	}
	if rel == nil {
		u.end()
		log.Info().Str("version", u.opts.CurrentVersion).Msg("launcher is up to date")
		u.status(models.UpdateStatusPayload{State: models.UpdateStateNone})
		return nil
	}

	log.Info().Str("version", rel.Version).Msg("update available")
	u.mu.Lock()
	u.available = rel
	u.mu.Unlock()
	u.status(models.UpdateStatusPayload{State: models.UpdateStateAvailable, Version: rel.Version})

	err = u.download(ctx, rel)
	u.end()
	if err != nil {
		return err
	}

	if u.opts.Config.UpdatesAutoInstall() {
		u.restart()
	}
	return nil
}

func (u *Updater) download(ctx context.Context, rel *Release) error {
	u.progress(0)
	if err := u.opts.Source.Apply(ctx, rel); err != nil {
		log.Error().Err(err).Str("version", rel.Version).Msg("failed to apply update")
		u.status(models.UpdateStatusPayload{
			State:   models.UpdateStateError,
			Version: rel.Version,
			Message: err.Error(),
		})
		return err
	}
	u.progress(100)

	u.mu.Lock()
	u.ready = true
	u.mu.Unlock()

	log.Info().Str("version", rel.Version).Msg("update downloaded")
	u.status(models.UpdateStatusPayload{State: models.UpdateStateReady, Version: rel.Version})
	return nil
}

// Install restarts into a downloaded update. An update that was found but
// failed to download is retried first. Nothing happens if there is no
// update.
func (u *Updater) Install(ctx context.Context) error {
	if !u.begin() {
		return ErrBusy
	}

	u.mu.Lock()
	ready, rel := u.ready, u.available
	u.mu.Unlock()

	if !ready {
		if rel == nil {
			u.end()
			log.Debug().Msg("install requested with no update available")
			return nil
		}
		if err := u.download(ctx, rel); err != nil {
			u.end()
			return err
		}
	}
	u.end()

	u.restart()
	return nil
}

func (u *Updater) restart() {
	if u.opts.Restart == nil {
		log.Warn().Msg("update ready but no restart handler set")
		return
	}
	log.Info().Msg("restarting into updated launcher")
	u.opts.Restart()
}
