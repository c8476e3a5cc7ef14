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

package history

import (
	"context"
	"encoding/json"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// KindFunc reports how a game would be launched.
type KindFunc func(name string) games.Kind

// Tracker turns session.status notifications into history entries.
type Tracker struct {
	store       *Store
	clock       clockwork.Clock
	kind        KindFunc
	currentName string
	currentID   uint64
}

func NewTracker(store *Store, clock clockwork.Clock, kind KindFunc) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{store: store, clock: clock, kind: kind}
}

// Listen records sessions until notifs is closed or ctx is done. A session
// still open when it returns is ended at that moment.
func (t *Tracker) Listen(ctx context.Context, notifs <-chan models.Notification) {
	defer t.finish()
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-notifs:
			if !ok {
				return
			}
			if notif.Method != models.NotificationSessionStatus {
				continue
			}
			var status models.SessionStatus
			if err := json.Unmarshal(notif.Params, &status); err != nil {
				log.Warn().Err(err).Msg("history: invalid session status")
				continue
			}
			t.handle(status)
		}
	}
}

func (t *Tracker) handle(status models.SessionStatus) {
	if !status.Running || status.Name == nil {
		t.finish()
		return
	}
	name := *status.Name
	if name == t.currentName {
		return
	}
	t.finish()

	kind := games.KindUnknown
	if t.kind != nil {
		kind = t.kind(name)
	}
	id, err := t.store.Add(Entry{
		StartedAt: t.clock.Now(),
		Name:      name,
		Kind:      string(kind),
	})
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("history: failed to record launch")
		return
	}
	t.currentName = name
	t.currentID = id
}

func (t *Tracker) finish() {
	if t.currentName == "" {
		return
	}
	if err := t.store.End(t.currentID, t.clock.Now()); err != nil {
		log.Error().Err(err).Str("name", t.currentName).Msg("history: failed to record session end")
	}
	t.currentName = ""
	t.currentID = 0
}
