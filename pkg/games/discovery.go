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
	"slices"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/favorites"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// scanLimit caps concurrent cover scans.
const scanLimit = 8

// ListGames builds the catalog of every immediate subfolder of root. It
// never fails: a missing root is an empty catalog and unreadable folders
// just have no cover.
func ListGames(fs afero.Fs, root string, favs favorites.Set) []Entry {
	entries := make([]Entry, 0)

	files, err := afero.ReadDir(fs, root)
	if err != nil {
		log.Debug().Err(err).Str("root", root).Msg("failed to read games root")
		return entries
	}

	for _, f := range files {
		if !f.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Name:       f.Name(),
			RootPath:   filepath.Join(root, f.Name()),
			IsFavorite: favs.Contains(f.Name()),
		})
	}

	g := new(errgroup.Group)
	g.SetLimit(scanLimit)
	for i := range entries {
		g.Go(func() error {
			if cover := FindCover(fs, entries[i].RootPath); cover != "" {
				entries[i].ImagePath = &cover
			}
			return nil
		})
	}
	_ = g.Wait()

	SortEntries(entries)
	return entries
}

// SortEntries orders favorites first, then names case-insensitively. Names
// that collate equal fall back to byte order.
func SortEntries(entries []Entry) {
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if a.IsFavorite != b.IsFavorite {
			if a.IsFavorite {
				return -1
			}
			return 1
		}
		if r := c.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// Filter keeps entries whose name contains query (case-insensitive) and,
// if favoritesOnly is set, that are favorites. Order is preserved.
func Filter(entries []Entry, query string, favoritesOnly bool) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if favoritesOnly && !e.IsFavorite {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Name), q) {
			continue
		}
		out = append(out, e)
	}
	return out
}
