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

// Package games finds game folders under the games root and works out how
// each one should be launched.
package games

import (
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindExe       Kind = "exe"
	KindWebLocal  Kind = "web-local"
	KindWebRemote Kind = "web-remote"
	KindUnknown   Kind = "unknown"
)

// LaunchSpec is how a game folder launches. An empty Target means there is
// nothing to launch.
type LaunchSpec struct {
	Kind   Kind
	Target string
}

func (s LaunchSpec) Launchable() bool {
	return s.Kind != KindUnknown && s.Kind != "" && s.Target != ""
}

// Entry is one game in the catalog.
type Entry struct {
	ImagePath  *string `json:"imagePath"`
	Name       string  `json:"name"`
	RootPath   string  `json:"rootPath"`
	IsFavorite bool    `json:"isFavorite"`
}

// ValidName reports whether name refers to a direct child of the games
// root and nothing else.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\:`) {
		return false
	}
	return filepath.Base(name) == name && strings.TrimSpace(name) != ""
}
