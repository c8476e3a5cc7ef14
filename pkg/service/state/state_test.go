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

package state

import (
	"context"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The shared platform mock depends on this package, so tests use a stub.
type stubPlatform struct{}

func (stubPlatform) ID() string                                   { return "stub" }
func (stubPlatform) Settings() platforms.Settings                 { return platforms.Settings{} }
func (stubPlatform) OpenExternal(context.Context, string) error   { return nil }
func (stubPlatform) OpenPath(context.Context, string) error       { return nil }
func (stubPlatform) ExtractCommand(_, _ string) platforms.Command { return platforms.Command{} }
func (stubPlatform) BrowserCandidates() []string                  { return nil }

func TestNewState(t *testing.T) {
	t.Parallel()

	pl := &stubPlatform{}
	st, ns := NewState(pl)

	assert.Equal(t, "stub", st.Platform().ID())
	require.NoError(t, st.GetContext().Err())
	assert.False(t, st.ShouldStopService())
	assert.Equal(t, notificationBuffer, cap(ns))

	notifications.GamesChanged(st.Notifications)
	n := <-ns
	assert.Equal(t, models.NotificationGamesChanged, n.Method)
}

func TestStopService(t *testing.T) {
	t.Parallel()

	st, _ := NewState(stubPlatform{})
	st.StopService()

	require.Error(t, st.GetContext().Err())
	assert.True(t, st.ShouldStopService())
	assert.False(t, st.RestartRequested())
}

func TestRequestRestart(t *testing.T) {
	t.Parallel()

	st, _ := NewState(stubPlatform{})
	st.RequestRestart()

	<-st.GetContext().Done()
	assert.True(t, st.RestartRequested())
	assert.True(t, st.ShouldStopService())
}
