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

package helpers

import (
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/stretchr/testify/require"
)

// AssertValidSessionStatus checks that a status payload names a game
// exactly when a game is running.
func AssertValidSessionStatus(t *testing.T, status models.SessionStatus) {
	t.Helper()

	if status.Running {
		require.NotNil(t, status.Name, "running status must name the game")
		require.NotEmpty(t, *status.Name, "running status must name the game")
		return
	}
	require.Nil(t, status.Name, "idle status must not name a game")
}

// AssertValidHistoryEntry checks the fields every recorded play must have.
// A zero StartedAt would make durations meaningless.
func AssertValidHistoryEntry(t *testing.T, entry models.HistoryEntry) {
	t.Helper()

	require.False(t, entry.StartedAt.IsZero(), "HistoryEntry.StartedAt must be set")
	require.NotEmpty(t, entry.Name, "HistoryEntry.Name is required")
	require.NotEmpty(t, entry.Kind, "HistoryEntry.Kind is required")
	if entry.EndedAt != nil {
		require.False(t, entry.EndedAt.Before(entry.StartedAt),
			"HistoryEntry.EndedAt must not be before StartedAt")
	}
}
