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

// Package library imports games from ZIP archives and removes game folders.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/favorites"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/ui/picker"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	ReasonCanceled      = "canceled"
	ReasonNotZip        = "not a zip archive"
	ReasonNoName        = "no game name"
	ReasonGameRunning   = "game is running"
	ReasonFolderMissing = "folder not found"
)

// fallbackName is used for archives whose name has nothing usable left
// once the extension is gone.
const fallbackName = "Game"

type ImportResult = models.ImportResponse

type RemoveResult = models.RemoveResponse

// SessionGuard holds a game name so it can't launch while its folder is
// removed. active is true, with nothing held, when the game is running.
// session.Manager implements it.
type SessionGuard interface {
	Reserve(ctx context.Context, name string) (release func(), active bool, err error)
}

type Options struct {
	Fs            afero.Fs
	Executor      command.Executor
	Platform      platforms.Platform
	Picker        picker.Picker
	Favorites     *favorites.Store
	Session       SessionGuard
	GamesRoot     func() string
	Notifications chan<- models.Notification
}

type Library struct {
	opts Options
}

func NewLibrary(opts Options) *Library {
	return &Library{opts: opts}
}

func fail(reason string) ImportResult {
	return ImportResult{OK: false, Reason: reason}
}

// Import asks the user for an archive and imports it.
func (l *Library) Import(ctx context.Context) ImportResult {
	path, err := l.opts.Picker.PickArchive(ctx)
	if errors.Is(err, picker.ErrCanceled) {
		return fail(ReasonCanceled)
	} else if err != nil {
		log.Error().Err(err).Msg("failed to pick archive")
		return fail(err.Error())
	}
	return l.ImportFile(ctx, path)
}

// ImportFile extracts a ZIP archive into a new folder under the games root
// named after the archive.
func (l *Library) ImportFile(ctx context.Context, archive string) ImportResult {
	if !helpers.IsZip(archive) {
		return fail(ReasonNotZip)
	}

	base := strings.TrimSpace(strings.TrimSuffix(filepath.Base(archive), filepath.Ext(archive)))
	if !games.ValidName(base) {
		base = fallbackName
	}

	root := l.opts.GamesRoot()
	if err := l.opts.Fs.MkdirAll(root, 0o750); err != nil {
		log.Error().Err(err).Str("root", root).Msg("failed to create games root")
		return fail(err.Error())
	}

	dest, err := UniqueDest(l.opts.Fs, root, base)
	if err != nil {
		log.Error().Err(err).Str("root", root).Str("base", base).Msg("failed to pick import folder")
		return fail(err.Error())
	}
	log.Info().Str("archive", archive).Str("dest", dest).Msg("importing game")

	c := l.opts.Platform.ExtractCommand(archive, dest)
	_, err = l.opts.Executor.Output(ctx, command.StartOptions{HideWindow: c.HideWindow}, c.Name, c.Args...)
	if err != nil {
		reason := extractFailure(err)
		log.Error().Err(err).Str("archive", archive).Str("reason", reason).Msg("extraction failed")
		l.removePartial(dest)
		return fail(reason)
	}

	if ok, _ := afero.DirExists(l.opts.Fs, dest); !ok {
		log.Error().Str("dest", dest).Msg("extraction reported success but created nothing")
		return fail("extract exit code 0")
	}

	l.gamesChanged()
	return ImportResult{OK: true, Folder: dest}
}

func (l *Library) removePartial(dest string) {
	if err := l.opts.Fs.RemoveAll(dest); err != nil {
		log.Warn().Err(err).Str("dest", dest).Msg("failed to clean up partial import")
	}
}

func extractFailure(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
			return stderr
		}
		return fmt.Sprintf("extract exit code %d", exitErr.ExitCode())
	}
	return err.Error()
}

// UniqueDest returns root/base, or root/"base (N)" for the smallest N >= 2
// that doesn't exist yet. Any stat error other than not-exist is returned.
func UniqueDest(fs afero.Fs, root, base string) (string, error) {
	dest := filepath.Join(root, base)
	for n := 2; ; n++ {
		_, err := fs.Stat(dest)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return dest, nil
		case err != nil:
			return "", fmt.Errorf("failed to stat %s: %w", dest, err)
		}
		dest = filepath.Join(root, base+" ("+strconv.Itoa(n)+")")
	}
}

// Remove deletes a game folder and drops it from favorites. A folder that
// is already gone counts as removed.
func (l *Library) Remove(ctx context.Context, name string) RemoveResult {
	if name == "" {
		return RemoveResult{Reason: ReasonNoName}
	}
	if !games.ValidName(name) {
		return RemoveResult{Reason: ReasonFolderMissing}
	}

	release, active, err := l.opts.Session.Reserve(ctx, name)
	if err != nil {
		return RemoveResult{Reason: err.Error()}
	}
	if active {
		return RemoveResult{Reason: ReasonGameRunning}
	}
	defer release()

	dir := filepath.Join(l.opts.GamesRoot(), name)
	fi, err := l.opts.Fs.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info().Str("dir", dir).Msg("game folder already gone")
		l.purgeFavorite(name)
		return RemoveResult{OK: true}
	case err != nil:
		return RemoveResult{Reason: err.Error()}
	case !fi.IsDir():
		return RemoveResult{Reason: ReasonFolderMissing}
	}

	l.purgeFavorite(name)

	log.Info().Str("dir", dir).Msg("removing game")
	if err := l.opts.Fs.RemoveAll(dir); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("failed to remove game")
		return RemoveResult{Reason: err.Error()}
	}

	l.gamesChanged()
	return RemoveResult{OK: true}
}

func (l *Library) purgeFavorite(name string) {
	if l.opts.Favorites == nil {
		return
	}
	if err := l.opts.Favorites.Remove(name); err != nil {
		log.Warn().Err(err).Str("name", name).Msg("failed to remove favorite")
	}
}

func (l *Library) gamesChanged() {
	if l.opts.Notifications != nil {
		notifications.GamesChanged(l.opts.Notifications)
	}
}
