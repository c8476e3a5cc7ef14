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

// Package updater checks GitHub releases for a newer launcher build and
// replaces the running executable with it.
package updater

import (
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
)

type Release struct {
	Version   string
	AssetURL  string
	AssetName string
}

// Source finds and installs releases.
type Source interface {
	// Newer returns the latest release if it is newer than current, or nil.
	Newer(ctx context.Context, current string) (*Release, error)
	// Apply downloads rel and replaces the running executable.
	Apply(ctx context.Context, rel *Release) error
}

// GitHubSource reads releases of an "owner/name" repository.
type GitHubSource struct {
	Repository string
}

func (s GitHubSource) Newer(ctx context.Context, current string) (*Release, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(s.Repository))
	if err != nil {
		return nil, fmt.Errorf("error detecting latest release: %w", err)
	}
	if !found || latest.LessOrEqual(current) {
		return nil, nil
	}
	return &Release{
		Version:   latest.Version(),
		AssetURL:  latest.AssetURL,
		AssetName: latest.AssetName,
	}, nil
}

func (GitHubSource) Apply(ctx context.Context, rel *Release) error {
	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	if err := selfupdate.UpdateTo(ctx, rel.AssetURL, rel.AssetName, exe); err != nil {
		return fmt.Errorf("error updating binary: %w", err)
	}
	return nil
}
