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

// Package watcher pushes games.changed when the games directory changes on
// disk.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce groups bursts of events, such as an archive extracting,
// into one notification.
const DefaultDebounce = 500 * time.Millisecond

type Watcher struct {
	clock    clockwork.Clock
	timer    clockwork.Timer
	fsw      *fsnotify.Watcher
	ns       chan<- models.Notification
	done     chan struct{}
	root     string
	debounce time.Duration
	mu       syncutil.Mutex
}

// Start watches root and its immediate subfolders. Folders created later
// are added as they appear.
func Start(
	root string,
	ns chan<- models.Notification,
	clock clockwork.Clock,
	debounce time.Duration,
) (*Watcher, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}

	w := &Watcher{
		clock:    clock,
		fsw:      fsw,
		ns:       ns,
		done:     make(chan struct{}),
		root:     filepath.Clean(root),
		debounce: debounce,
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		log.Warn().Err(err).Str("root", root).Msg("watcher: failed to list games")
	}
	for _, e := range entries {
		if e.IsDir() {
			w.add(filepath.Join(root, e.Name()))
		}
	}

	log.Info().Str("root", root).Msg("watching games folder")
	go w.loop()
	return w, nil
}

func (w *Watcher) add(path string) {
	if err := w.fsw.Add(path); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("watcher: failed to add folder")
	}
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watcher: error in file watcher")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == w.root {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			w.add(event.Name)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = w.clock.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	w.timer = nil
	w.mu.Unlock()

	log.Debug().Msg("watcher: games folder changed")
	notifications.GamesChanged(w.ns)
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}
