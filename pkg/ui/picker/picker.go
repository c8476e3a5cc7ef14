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

// Package picker asks the user for a game archive with the native file
// dialog.
package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/nixinwang/dialog"
)

// ErrCanceled is returned when the user closes the dialog without picking.
var ErrCanceled = errors.New("picker canceled")

type Picker interface {
	// PickArchive blocks until the user chooses a ZIP archive.
	PickArchive(ctx context.Context) (string, error)
}

type DialogPicker struct {
	// StartDir is where the dialog opens. Empty uses the system default.
	StartDir string
}

type result struct {
	err  error
	path string
}

func (p DialogPicker) PickArchive(ctx context.Context) (string, error) {
	ch := make(chan result, 1)
	go func() {
		b := dialog.File().
			Filter("ZIP archives", "zip").
			Title("Import game - " + config.DisplayName)
		if p.StartDir != "" {
			b = b.SetStartDir(p.StartDir)
		}
		path, err := b.Load()
		ch <- result{path: path, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if errors.Is(r.err, dialog.ErrCancelled) {
			return "", ErrCanceled
		}
		if r.err != nil {
			return "", fmt.Errorf("file dialog failed: %w", r.err)
		}
		return r.path, nil
	}
}
