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

package session

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/rs/zerolog/log"
)

const eventBuffer = 64

type Options struct {
	// GamesRoot is called on every launch so config changes apply.
	GamesRoot     func() string
	Detector      games.Detector
	Backends      map[games.Kind]Backend
	Notifications chan<- models.Notification
}

type event interface{ isEvent() }

type launchEvent struct{ name string }

type stopEvent struct{}

type exitEvent struct{ gen uint64 }

type statusQuery struct{ reply chan Status }

type activeQuery struct {
	reply chan bool
	name  string
}

type reserveQuery struct {
	reply chan bool
	name  string
}

type releaseEvent struct{ name string }

func (launchEvent) isEvent() {}
func (stopEvent) isEvent()   {}
func (exitEvent) isEvent()   {}
func (statusQuery) isEvent() {}
func (activeQuery) isEvent() {}
func (reserveQuery) isEvent() {}
func (releaseEvent) isEvent() {}

type Manager struct {
	opts   Options
	events chan event
	done   chan struct{}

	// owned by the loop goroutine
	handle     Handle
	reserved   map[string]int
	activeName string
	kind       games.Kind
	gen        uint64
}

func NewManager(opts Options) *Manager {
	return &Manager{
		opts:   opts,
		events:   make(chan event, eventBuffer),
		done:     make(chan struct{}),
		reserved: make(map[string]int),
	}
}

// Run processes session events until ctx is done. It must only be called
// once. A game still running when Run returns is left alone.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)
	log.Debug().Msg("session manager started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("session manager stopped")
			return
		case ev := <-m.events:
			m.handleEvent(ctx, ev)
		}
	}
}

func (m *Manager) post(ev event) bool {
	select {
	case m.events <- ev:
		return true
	case <-m.done:
		return false
	}
}

// Launch asks the manager to start the named game. It does not wait.
func (m *Manager) Launch(name string) {
	if !m.post(launchEvent{name: name}) {
		log.Debug().Str("name", name).Msg("launch ignored, session manager stopped")
	}
}

// Stop asks the running game to end. The session only returns to idle once
// the game has actually gone.
func (m *Manager) Stop() {
	m.post(stopEvent{})
}

func (m *Manager) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	if !m.post(statusQuery{reply: reply}) {
		return Status{}, ErrStopped
	}
	select {
	case s := <-reply:
		return s, nil
	case <-m.done:
		return Status{}, ErrStopped
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// IsActive reports whether name is the running game.
func (m *Manager) IsActive(ctx context.Context, name string) (bool, error) {
	reply := make(chan bool, 1)
	if !m.post(activeQuery{name: name, reply: reply}) {
		return false, ErrStopped
	}
	select {
	case active := <-reply:
		return active, nil
	case <-m.done:
		return false, ErrStopped
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Reserve holds name so launches of it are ignored until release is
// called. When name is the running game nothing is reserved and active is
// true. Used to keep a game from starting while its folder is deleted.
func (m *Manager) Reserve(ctx context.Context, name string) (release func(), active bool, err error) {
	reply := make(chan bool, 1)
	if !m.post(reserveQuery{name: name, reply: reply}) {
		return nil, false, ErrStopped
	}
	select {
	case active := <-reply:
		if active {
			return nil, true, nil
		}
		var once sync.Once
		return func() {
			once.Do(func() { m.post(releaseEvent{name: name}) })
		}, false, nil
	case <-m.done:
		return nil, false, ErrStopped
	case <-ctx.Done():
		// the loop may still answer; give back what it reserved
		go func() {
			select {
			case active := <-reply:
				if !active {
					m.post(releaseEvent{name: name})
				}
			case <-m.done:
			}
		}()
		return nil, false, ctx.Err()
	}
}

func (m *Manager) handleEvent(ctx context.Context, ev event) {
	switch e := ev.(type) {
	case launchEvent:
		m.launch(ctx, e.name)
	case stopEvent:
		m.stop()
	case exitEvent:
		m.exited(e.gen)
	case statusQuery:
		e.reply <- m.status()
	case activeQuery:
		e.reply <- m.handle != nil && m.activeName == e.name
	case reserveQuery:
		if m.handle != nil && m.activeName == e.name {
			e.reply <- true
			return
		}
		m.reserved[e.name]++
		e.reply <- false
	case releaseEvent:
		if m.reserved[e.name] <= 1 {
			delete(m.reserved, e.name)
		} else {
			m.reserved[e.name]--
		}
	}
}

func (m *Manager) status() Status {
	if m.handle == nil {
		return Status{}
	}
	name := m.activeName
	return Status{Running: true, Name: &name}
}

func (m *Manager) broadcast() {
	if m.opts.Notifications == nil {
		return
	}
	if m.activeName == "" {
		notifications.SessionStatus(m.opts.Notifications, Status{})
		return
	}
	name := m.activeName
	notifications.SessionStatus(m.opts.Notifications, Status{Running: true, Name: &name})
}

func (m *Manager) launch(ctx context.Context, name string) {
	if m.handle != nil {
		log.Debug().Str("name", name).Str("active", m.activeName).
			Msg("launch ignored, a game is already running")
		m.broadcast()
		return
	}

	if !games.ValidName(name) {
		log.Debug().Str("name", name).Msg("launch ignored, invalid game name")
		return
	}

	if m.reserved[name] > 0 {
		log.Debug().Str("name", name).Msg("launch ignored, game folder is being removed")
		return
	}

	dir := filepath.Join(m.opts.GamesRoot(), name)
	spec := m.opts.Detector.Detect(dir)
	if !spec.Launchable() {
		log.Debug().Str("name", name).Str("dir", dir).Msg("launch ignored, nothing launchable in folder")
		return
	}

	backend, ok := m.opts.Backends[spec.Kind]
	if !ok {
		log.Debug().Str("name", name).Str("kind", string(spec.Kind)).Msg("launch ignored, no backend for kind")
		return
	}

	log.Info().Str("name", name).Str("kind", string(spec.Kind)).Str("target", spec.Target).Msg("launching game")

	m.activeName = name
	m.kind = spec.Kind
	m.broadcast()

	h, err := backend.Start(ctx, LaunchRequest{Name: name, Dir: dir, Spec: spec})
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to start game")
		m.activeName = ""
		m.kind = ""
		m.broadcast()
		if m.opts.Notifications != nil {
			notifications.SessionError(m.opts.Notifications, models.SessionErrorPayload{
				Name:   name,
				Reason: err.Error(),
			})
		}
		return
	}

	m.gen++
	m.handle = h
	go m.watch(ctx, m.gen, h)
}

func (m *Manager) watch(ctx context.Context, gen uint64, h Handle) {
	select {
	case <-h.Done():
		m.post(exitEvent{gen: gen})
	case <-ctx.Done():
	}
}

func (m *Manager) stop() {
	if m.handle == nil {
		log.Debug().Msg("stop ignored, no game running")
		return
	}

	h := m.handle
	name := m.activeName
	log.Info().Str("name", name).Msg("stopping game")
	go func() {
		if err := h.Terminate(); err != nil {
			log.Debug().Err(err).Str("name", name).Msg("error terminating game")
		}
	}()
}

func (m *Manager) exited(gen uint64) {
	if m.handle == nil || gen != m.gen {
		log.Debug().Uint64("gen", gen).Msg("ignoring exit of stale session")
		return
	}

	log.Info().Str("name", m.activeName).Str("kind", string(m.kind)).Msg("game exited")
	m.handle = nil
	m.activeName = ""
	m.kind = ""
	m.broadcast()
}
