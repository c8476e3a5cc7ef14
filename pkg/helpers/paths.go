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

package helpers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
)

func ExeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}

	return filepath.Dir(exe)
}

var (
	userDirOnce        sync.Once
	userDirCache       string
	userDirCacheExists bool
)

// HasUserDir reports whether a "user" folder sits next to the executable.
// When it does, the launcher runs in portable mode and keeps its config and
// data there instead of the platform directories.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exePath := os.Getenv(config.AppEnv)
		if exePath == "" {
			var err error
			exePath, err = os.Executable()
			if err != nil {
				return
			}
		}

		userDir := filepath.Join(filepath.Dir(exePath), config.UserDir)
		info, err := os.Stat(userDir)
		if err != nil || !info.IsDir() {
			return
		}

		userDirCache = userDir
		userDirCacheExists = true
	})
	return userDirCache, userDirCacheExists
}

func ConfigDir(pl platforms.Platform) string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return pl.Settings().ConfigDir
}

func DataDir(pl platforms.Platform) string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return pl.Settings().DataDir
}

// FavoritesPath is the location of the favorites file.
func FavoritesPath(pl platforms.Platform) string {
	return filepath.Join(DataDir(pl), config.FavoritesFile)
}

// HistoryPath is the location of the play history database.
func HistoryPath(pl platforms.Platform) string {
	return filepath.Join(DataDir(pl), config.HistoryFile)
}

// ProfilesDir holds the throwaway browser profiles of surface windows.
func ProfilesDir(pl platforms.Platform) string {
	return filepath.Join(pl.Settings().TempDir, config.ProfilesDir)
}

// GamesDir resolves the configured games folder against the data dir.
func GamesDir(pl platforms.Platform, cfg *config.Instance) string {
	return cfg.GamesDir(DataDir(pl))
}

// EnsureDirectories creates every directory the launcher writes to.
func EnsureDirectories(pl platforms.Platform) error {
	dirs := []string{
		pl.Settings().TempDir,
		ConfigDir(pl),
		DataDir(pl),
	}
	for _, dir := range dirs {
		if dir == "" {
			return errors.New("platform returned an empty directory")
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
