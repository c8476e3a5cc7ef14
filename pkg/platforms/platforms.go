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

package platforms

import (
	"context"
	"errors"
)

const (
	PlatformIDLinux   = "linux"
	PlatformIDWindows = "windows"
	PlatformIDMac     = "mac"
)

var ErrNotSupported = errors.New("operation not supported on this platform")

type Settings struct {
	// DataDir is the root folder where favorites, history and the default
	// games directory are stored. WARNING: This value should be accessed
	// using the helpers.DataDir function.
	DataDir string
	// ConfigDir is the directory where the config file is stored. WARNING:
	// This value should be accessed using the helpers.ConfigDir function.
	ConfigDir string
	// TempDir is where logs and browser profiles live. Expect it to be
	// deleted.
	TempDir string
}

// Command is an external program invocation.
type Command struct {
	Name       string
	Args       []string
	HideWindow bool
}

// Platform is the interface the launcher uses for everything that differs
// between operating systems.
type Platform interface {
	// ID returns the unique ID of this platform.
	ID() string
	// Settings returns platform-specific paths.
	Settings() Settings
	// OpenExternal opens a http(s) URL in the user's default browser.
	OpenExternal(ctx context.Context, url string) error
	// OpenPath opens a file or folder with the system's default handler.
	OpenPath(ctx context.Context, path string) error
	// ExtractCommand returns the command that unpacks a ZIP archive into
	// dest. The command must exit non-zero on failure.
	ExtractCommand(archive, dest string) Command
	// BrowserCandidates lists Chromium-family browser executables able to
	// open an app-mode window, most preferred first. Entries may be bare
	// names resolved through PATH or absolute paths.
	BrowserCandidates() []string
}
