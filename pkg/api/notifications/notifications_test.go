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

package notifications

import (
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendNotificationNonBlocking(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification)

	done := make(chan struct{})
	go func() {
		GamesChanged(ns)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification send blocked on full channel")
	}
}

func TestSessionStatusPayload(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 2)
	name := "Chess"

	SessionStatus(ns, models.SessionStatus{Running: true, Name: &name})
	SessionStatus(ns, models.SessionStatus{})

	n := <-ns
	assert.Equal(t, models.NotificationSessionStatus, n.Method)
	assert.JSONEq(t, `{"running":true,"name":"Chess"}`, string(n.Params))

	n = <-ns
	assert.JSONEq(t, `{"running":false,"name":null}`, string(n.Params))
}

func TestGamesChangedHasNoParams(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)
	GamesChanged(ns)

	n := <-ns
	assert.Equal(t, models.NotificationGamesChanged, n.Method)
	assert.Nil(t, n.Params)
}

func TestUpdateNotifications(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 3)
	UpdateStatus(ns, models.UpdateStatusPayload{State: models.UpdateStateAvailable, Version: "1.2.0"})
	UpdateProgress(ns, 100)
	SessionError(ns, models.SessionErrorPayload{Name: "Doom", Reason: "executable not found"})

	n := <-ns
	require.Equal(t, models.NotificationUpdateStatus, n.Method)
	assert.JSONEq(t, `{"state":"available","version":"1.2.0"}`, string(n.Params))

	n = <-ns
	require.Equal(t, models.NotificationUpdateProgress, n.Method)
	assert.JSONEq(t, `{"percent":100}`, string(n.Params))

	n = <-ns
	require.Equal(t, models.NotificationSessionError, n.Method)
	assert.JSONEq(t, `{"name":"Doom","reason":"executable not found"}`, string(n.Params))
}
