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

package cli

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

const (
	minSuggestSimilarity float32 = 0.75
	maxSuggestDistance           = 4
)

type suggestion struct {
	name       string
	similarity float32
}

// Suggest returns the game name closest to query, for "did you mean"
// hints. Matching is case-insensitive. Jaro-Winkler favours a correct
// prefix, Damerau-Levenshtein catches transposed letters in short names.
func Suggest(query string, names []string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}

	var matches []suggestion
	for _, name := range names {
		candidate := strings.ToLower(name)
		similarity := edlib.JaroWinklerSimilarity(q, candidate)
		if similarity < minSuggestSimilarity &&
			edlib.DamerauLevenshteinDistance(q, candidate) > min(maxSuggestDistance, len(q)/3) {
			continue
		}
		matches = append(matches, suggestion{name: name, similarity: similarity})
	}
	if len(matches) == 0 {
		return "", false
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	return matches[0].name, true
}

// resolveName finds name among the known games, ignoring case when there
// is no exact match.
func resolveName(name string, names []string) (string, bool) {
	for _, n := range names {
		if n == name {
			return n, true
		}
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
