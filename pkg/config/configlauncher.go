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

package config

import "path/filepath"

const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 800
	MinWindowSize       = 200
)

type Launcher struct {
	WindowWidth  *int     `toml:"window_width,omitempty"`
	WindowHeight *int     `toml:"window_height,omitempty"`
	GamesDir     string   `toml:"games_dir,omitempty"`
	Browser      string   `toml:"browser,omitempty"`
	BrowserArgs  []string `toml:"browser_args,omitempty"`
}

// GamesDir returns the configured games root. Relative paths are resolved
// against dataDir and an empty value falls back to dataDir/games.
func (c *Instance) GamesDir(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dir := c.vals.Launcher.GamesDir
	switch {
	case dir == "":
		return filepath.Join(dataDir, GamesDir)
	case filepath.IsAbs(dir):
		return filepath.Clean(dir)
	default:
		return filepath.Join(dataDir, dir)
	}
}

func (c *Instance) SetGamesDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Launcher.GamesDir = dir
}

// Browser returns the user's browser override, empty means auto-detect.
func (c *Instance) Browser() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launcher.Browser
}

func (c *Instance) BrowserArgs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	args := make([]string, len(c.vals.Launcher.BrowserArgs))
	copy(args, c.vals.Launcher.BrowserArgs)
	return args
}

// WindowSize returns the game window size. Values below MinWindowSize are
// ignored in favour of the defaults.
func (c *Instance) WindowSize() (width, height int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	width, height = DefaultWindowWidth, DefaultWindowHeight
	if w := c.vals.Launcher.WindowWidth; w != nil && *w >= MinWindowSize {
		width = *w
	}
	if h := c.vals.Launcher.WindowHeight; h != nil && *h >= MinWindowSize {
		height = *h
	}
	return width, height
}
