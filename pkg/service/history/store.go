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

// Package history keeps a local record of launched games.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketSessions = "sessions"
	// MaxEntries is the number of sessions kept. Older ones are pruned on
	// each insert.
	MaxEntries = 1000
)

var ErrNotFound = errors.New("history entry not found")

type Entry = models.HistoryEntry

type Store struct {
	db         *bolt.DB
	maxEntries int
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketSessions))
		return err //nolint:wrapcheck // wrapped below
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history bucket: %w", err)
	}
	return &Store{db: db, maxEntries: MaxEntries}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close history database: %w", err)
	}
	return nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Add stores a new entry and returns its id.
func (s *Store) Add(entry Entry) (uint64, error) {
	var id uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSessions))
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate id: %w", err)
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		if err := b.Put(itob(seq), data); err != nil {
			return fmt.Errorf("failed to store entry: %w", err)
		}
		id = seq
		return prune(b, s.maxEntries)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add history entry: %w", err)
	}
	return id, nil
}

func prune(b *bolt.Bucket, maxEntries int) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, k)
	}
	for i := 0; i < len(keys)-maxEntries; i++ {
		if err := b.Delete(keys[i]); err != nil {
			return fmt.Errorf("failed to prune entry: %w", err)
		}
	}
	return nil
}

// End sets the end time of an entry.
func (s *Store) End(id uint64, at time.Time) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSessions))
		data := b.Get(itob(id))
		if data == nil {
			return ErrNotFound
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		e.EndedAt = &at
		updated, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		return b.Put(itob(id), updated)
	})
	if err != nil {
		return fmt.Errorf("failed to end history entry %d: %w", id, err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	entries := make([]Entry, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketSessions)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to unmarshal entry %x: %w", k, err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return entries, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}
