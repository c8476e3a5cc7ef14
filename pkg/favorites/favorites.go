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

// Package favorites persists the set of favorite game names.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Set is an ordered list of unique game names. Order carries no meaning
// but insertion order is kept so the file stays stable between saves.
type Set []string

func (s Set) Contains(name string) bool {
	return slices.Contains(s, name)
}

type fileFormat struct {
	Favorites []string `json:"favorites"`
}

type Store struct {
	fs   afero.Fs
	path string
	mu   syncutil.Mutex
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the favorites file. A missing or corrupt file is an empty set.
func (s *Store) Load() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() Set {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.path).Msg("failed to read favorites")
		}
		return Set{}
	}

	var f struct {
		Favorites *[]string `json:"favorites"`
	}
	if err := json.Unmarshal(data, &f); err != nil || f.Favorites == nil {
		log.Warn().Err(err).Str("path", s.path).Msg("favorites file is corrupt, ignoring")
		return Set{}
	}

	set := make(Set, 0, len(*f.Favorites))
	for _, name := range *f.Favorites {
		if !set.Contains(name) {
			set = append(set, name)
		}
	}
	return set
}

func (s *Store) Save(set Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(set)
}

func (s *Store) save(set Set) error {
	if set == nil {
		set = Set{}
	}
	data, err := json.MarshalIndent(fileFormat{Favorites: set}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create favorites directory: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	return nil
}

// Toggle adds name if it is absent and removes it otherwise, returning the
// saved set.
func (s *Store) Toggle(name string) (Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.load()
	if i := slices.Index(set, name); i >= 0 {
		set = slices.Delete(set, i, i+1)
	} else {
		set = append(set, name)
	}

	if err := s.save(set); err != nil {
		return nil, err
	}
	return set, nil
}

// Remove drops name from the set. Nothing is written if it wasn't there.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.load()
	i := slices.Index(set, name)
	if i < 0 {
		return nil
	}
	return s.save(slices.Delete(set, i, i+1))
}
