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

package assets

import (
	"embed"
	"runtime"
)

//go:embed _app
var App embed.FS

// Shim is injected into every HTML page of a bundled web game. It expects
// window.__zaparooGame to hold the game name.
//
//go:embed shim.js
var Shim string

//go:embed icon.png
var iconPNG []byte

//go:embed icon.ico
var iconICO []byte

// TrayIcon returns the tray icon in the format the OS tray expects.
func TrayIcon() []byte {
	if runtime.GOOS == "windows" {
		return iconICO
	}
	return iconPNG
}
