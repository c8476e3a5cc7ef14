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

package games

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	reCoverName = regexp.MustCompile(`(?i)(icon|cover|logo|banner|thumb|thumbnail|splash)`)
	imageExts   = map[string]struct{}{
		".png": {}, ".jpg": {}, ".jpeg": {}, ".webp": {}, ".gif": {}, ".bmp": {}, ".ico": {},
	}
)

func IsImage(name string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// FindCover picks a cover image for a game folder: the first image named
// like a cover (icon, logo, banner, etc.), else the first image at all.
// Returns "" when there is none or the folder can't be read.
func FindCover(fs afero.Fs, folder string) string {
	files, err := afero.ReadDir(fs, folder)
	if err != nil {
		log.Debug().Err(err).Str("folder", folder).Msg("failed to scan for cover")
		return ""
	}

	first := ""
	for _, f := range files {
		if f.IsDir() || !IsImage(f.Name()) {
			continue
		}
		if reCoverName.MatchString(f.Name()) {
			return filepath.Join(folder, f.Name())
		}
		if first == "" {
			first = filepath.Join(folder, f.Name())
		}
	}
	return first
}
