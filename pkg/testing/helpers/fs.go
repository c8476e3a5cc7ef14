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
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOSFS creates a filesystem helper using the real filesystem (for integration tests)
func NewOSFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewOsFs(),
	}
}

// WriteFile creates path and any missing parent directories.
func (h *FSHelper) WriteFile(path string, data []byte) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := afero.WriteFile(h.Fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// GameFolder describes a game directory to lay out under a games root.
// Keys of Files are paths relative to the game folder.
type GameFolder struct {
	Files map[string]string
	Name  string
}

// CreateGames lays out every folder under root.
func (h *FSHelper) CreateGames(root string, folders ...GameFolder) error {
	if err := h.Fs.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("failed to create games root: %w", err)
	}
	for _, f := range folders {
		dir := filepath.Join(root, f.Name)
		if err := h.Fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create game folder: %w", err)
		}
		for rel, content := range f.Files {
			if err := h.WriteFile(filepath.Join(dir, rel), []byte(content)); err != nil {
				return err
			}
		}
	}
	return nil
}
