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

package launchers

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/session"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrNoBrowser = errors.New("no supported browser found")

type SurfaceOptions struct {
	Config   *config.Instance
	Platform platforms.Platform
	Executor command.Executor
	Fs       afero.Fs
	Clock    clockwork.Clock
	// ProfilesDir holds one throwaway browser profile per open window.
	ProfilesDir string
	// PlayURL maps a bundled game's entry file, relative to its folder, to
	// the URL the launcher serves it on.
	PlayURL func(name, relPath string) string
	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// SurfaceBackend shows web games in an app-mode browser window. Each window
// gets its own profile so it runs as a separate browser process and the
// window closing is the process exiting. A PopupGuard attached to every
// window sends popups to the default browser, so no second window ever
// shares the game's browser process.
type SurfaceBackend struct {
	opts SurfaceOptions
}

func NewSurfaceBackend(opts SurfaceOptions) *SurfaceBackend {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	return &SurfaceBackend{opts: opts}
}

func (b *SurfaceBackend) Start(ctx context.Context, req session.LaunchRequest) (session.Handle, error) {
	var url string
	switch req.Spec.Kind {
	case games.KindWebLocal:
		rel, err := filepath.Rel(req.Dir, req.Spec.Target)
		if err != nil {
			return nil, fmt.Errorf("game entry outside folder: %w", err)
		}
		url = b.opts.PlayURL(req.Name, filepath.ToSlash(rel))
	case games.KindWebRemote:
		if err := helpers.ValidateBrowserURL(req.Spec.Target); err != nil {
			return nil, err
		}
		url = req.Spec.Target
	default:
		return nil, fmt.Errorf("unsupported launch kind: %s", req.Spec.Kind)
	}

	w, h := b.opts.Config.WindowSize()
	return b.OpenWindow(ctx, url, w, h)
}

// OpenWindow opens url in a new app-mode window of the given size.
func (b *SurfaceBackend) OpenWindow(ctx context.Context, url string, width, height int) (session.Handle, error) {
	browser, err := ResolveBrowser(
		b.opts.Config.Browser(),
		b.opts.Platform.BrowserCandidates(),
		b.opts.LookPath,
	)
	if err != nil {
		return nil, err
	}

	profile := filepath.Join(b.opts.ProfilesDir, uuid.New().String())
	if err := b.opts.Fs.MkdirAll(profile, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create browser profile: %w", err)
	}
	removeProfile := func() {
		if err := b.opts.Fs.RemoveAll(profile); err != nil {
			log.Debug().Err(err).Str("profile", profile).Msg("failed to remove browser profile")
		}
	}

	args := WindowArgs(url, profile, width, height, b.opts.Config.BrowserArgs())
	log.Debug().Str("browser", browser).Strs("args", args).Msg("opening window")

	proc, err := b.opts.Executor.StartProcess(
		context.WithoutCancel(ctx),
		command.StartOptions{Detach: true},
		browser,
		args...,
	)
	if err != nil {
		removeProfile()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	handle := newProcessHandle(proc, b.opts.Clock, removeProfile)
	go b.guardWindow(profile, handle)
	return handle, nil
}

type window interface {
	Done() <-chan struct{}
	Terminate() error
}

// guardWindow keeps a PopupGuard attached to the window's browser until the
// window is gone. A window that can't be guarded is closed.
func (b *SurfaceBackend) guardWindow(profile string, w window) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-w.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	endpoint, err := WaitDevToolsEndpoint(ctx, b.opts.Fs, b.opts.Clock, profile, DevToolsAttachTimeout)
	if err == nil {
		var g *PopupGuard
		g, err = DialPopupGuard(ctx, endpoint, PopupGuardOptions{
			OpenExternal: b.opts.Platform.OpenExternal,
			Clock:        b.opts.Clock,
		})
		if err == nil {
			select {
			case <-w.Done():
			case <-g.Done():
			}
			if err := g.Close(); err != nil {
				log.Debug().Err(err).Msg("error closing popup guard")
			}
			return
		}
	}

	if ctx.Err() != nil {
		return
	}
	log.Error().Err(err).Str("profile", profile).Msg("failed to guard window popups, closing window")
	if err := w.Terminate(); err != nil {
		log.Debug().Err(err).Msg("error closing unguarded window")
	}
}

// ResolveBrowser returns the configured browser if set, otherwise the
// first candidate found.
func ResolveBrowser(
	override string,
	candidates []string,
	lookPath func(string) (string, error),
) (string, error) {
	if override != "" {
		p, err := lookPath(override)
		if err != nil {
			return "", fmt.Errorf("configured browser %q: %w", override, err)
		}
		return p, nil
	}
	for _, c := range candidates {
		if p, err := lookPath(c); err == nil {
			return p, nil
		}
	}
	return "", ErrNoBrowser
}

// WindowArgs builds the command line of an app-mode window.
func WindowArgs(url, profile string, width, height int, extra []string) []string {
	args := []string{
		"--app=" + url,
		"--user-data-dir=" + profile,
		"--window-size=" + strconv.Itoa(width) + "," + strconv.Itoa(height),
		"--remote-debugging-port=0",
		"--no-first-run",
		"--no-default-browser-check",
	}
	return append(args, extra...)
}
