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
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/favorites"
	testhelpers "github.com/ZaparooProject/zaparoo-launcher/pkg/testing/helpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestListGamesMissingRoot(t *testing.T) {
	t.Parallel()

	entries := ListGames(afero.NewMemMapFs(), "missing", nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	data, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestListGamesRootIsFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "games", []byte("x"), 0o600))
	assert.Empty(t, ListGames(fs, "games", nil))
}

func TestListGamesSortAndFavorites(t *testing.T) {
	t.Parallel()

	h := testhelpers.NewMemoryFS()
	require.NoError(t, h.CreateGames("games",
		testhelpers.GameFolder{Name: "zelda"},
		testhelpers.GameFolder{Name: "Alpha"},
		testhelpers.GameFolder{Name: "beta"},
		testhelpers.GameFolder{Name: "Omega"},
	))
	require.NoError(t, h.WriteFile(filepath.Join("games", "notes.txt"), []byte("ignored")))

	entries := ListGames(h.Fs, "games", favorites.Set{"Omega", "zelda", "Removed"})
	assert.Equal(t, []string{"Omega", "zelda", "Alpha", "beta"}, names(entries))
	assert.True(t, entries[0].IsFavorite)
	assert.True(t, entries[1].IsFavorite)
	assert.False(t, entries[2].IsFavorite)
	assert.Equal(t, filepath.Join("games", "Omega"), entries[0].RootPath)
}

func TestListGamesCovers(t *testing.T) {
	t.Parallel()

	h := testhelpers.NewMemoryFS()
	require.NoError(t, h.CreateGames("games",
		testhelpers.GameFolder{Name: "Preferred", Files: map[string]string{
			"a-screenshot.png": "", "Cover.JPG": "", "game.exe": "",
		}},
		testhelpers.GameFolder{Name: "Fallback", Files: map[string]string{
			"shot2.webp": "", "shot1.gif": "",
		}},
		testhelpers.GameFolder{Name: "None", Files: map[string]string{
			"logo.txt": "", "index.html": "",
		}},
	))

	entries := ListGames(h.Fs, "games", nil)
	require.Len(t, entries, 3)

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	require.NotNil(t, byName["Preferred"].ImagePath)
	assert.Equal(t, filepath.Join("games", "Preferred", "Cover.JPG"), *byName["Preferred"].ImagePath)
	require.NotNil(t, byName["Fallback"].ImagePath)
	assert.Equal(t, filepath.Join("games", "Fallback", "shot1.gif"), *byName["Fallback"].ImagePath)
	assert.Nil(t, byName["None"].ImagePath)

	data, err := json.Marshal(byName["None"])
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "imagePath")
	assert.Nil(t, raw["imagePath"])
	assert.Equal(t, "None", raw["name"])
	assert.Equal(t, false, raw["isFavorite"])
	assert.Equal(t, filepath.Join("games", "None"), raw["rootPath"])
}

func TestFindCoverIgnoresDirectories(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join("g", "icon.png"), 0o750))
	assert.Empty(t, FindCover(fs, "g"))
	assert.Empty(t, FindCover(fs, "missing"))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Name: "Chess", IsFavorite: true},
		{Name: "Doom"},
		{Name: "chess puzzles"},
	}

	assert.Equal(t, []string{"Chess", "Doom", "chess puzzles"}, names(Filter(entries, "", false)))
	assert.Equal(t, []string{"Chess", "chess puzzles"}, names(Filter(entries, " CHESS ", false)))
	assert.Equal(t, []string{"Chess"}, names(Filter(entries, "", true)))
	assert.Equal(t, []string{"Chess"}, names(Filter(entries, "che", true)))
	assert.Empty(t, Filter(entries, "tetris", false))
}

func TestSortEntriesProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.SliceOfNDistinct(
			rapid.Custom(func(t *rapid.T) Entry {
				return Entry{
					Name:       rapid.StringMatching(`[A-Za-z0-9 ]{1,8}`).Draw(t, "name"),
					IsFavorite: rapid.Bool().Draw(t, "fav"),
				}
			}),
			0, 30,
			func(e Entry) string { return e.Name },
		).Draw(t, "entries")

		SortEntries(entries)

		seenNonFav := false
		for _, e := range entries {
			if !e.IsFavorite {
				seenNonFav = true
			} else if seenNonFav {
				t.Fatalf("favorite %q sorted after a non-favorite", e.Name)
			}
		}

		// sorting is total: sorting a reversed copy gives the same order
		reversed := make([]Entry, len(entries))
		for i, e := range entries {
			reversed[len(entries)-1-i] = e
		}
		SortEntries(reversed)
		for i := range entries {
			if entries[i].Name != reversed[i].Name {
				t.Fatalf("order not total at %d: %q vs %q", i, entries[i].Name, reversed[i].Name)
			}
		}
	})
}
