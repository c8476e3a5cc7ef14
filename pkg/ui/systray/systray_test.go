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

package systray

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/session"
	testhelpers "github.com/ZaparooProject/zaparoo-launcher/pkg/testing/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	openErr error
	opened  int
	stopped int
}

func (f *fakeLauncher) StopGame() { f.stopped++ }

func (f *fakeLauncher) OpenMainWindow(context.Context) (session.Handle, error) {
	f.opened++
	return nil, f.openErr
}

func newTestActions(t *testing.T) (*actions, *mocks.MockPlatform, *fakeLauncher, string) {
	t.Helper()
	dir := t.TempDir()
	pl := mocks.NewMockPlatform()
	pl.SetupBasicMock(dir)
	cfg := testhelpers.NewTestConfig(t, func(v *config.Values) {
		v.Launcher.GamesDir = "games"
		v.Service.APIListen = "0.0.0.0:7600"
	})
	l := &fakeLauncher{}
	return newActions(cfg, pl, l), pl, l, dir
}

func TestActionsOpenPaths(t *testing.T) {
	t.Parallel()
	a, pl, _, dir := newTestActions(t)

	a.openGamesFolder()
	a.editConfig()
	a.viewLog()

	if _, ok := helpers.HasUserDir(); ok {
		t.Skip("user dir overrides platform paths")
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "games"),
		filepath.Join(dir, config.CfgFile),
		filepath.Join(dir, config.LogFile),
	}, pl.Opened())
}

func TestActionsOpenLauncher(t *testing.T) {
	t.Parallel()
	a, _, l, _ := newTestActions(t)

	a.openLauncher()
	l.openErr = errors.New("no display")
	a.openLauncher()

	assert.Equal(t, 2, l.opened)
}

func TestActionsCopyAddress(t *testing.T) {
	t.Parallel()
	a, _, _, _ := newTestActions(t)

	var copied string
	a.copyText = func(text string) error {
		copied = text
		return nil
	}
	a.copyAddress()
	assert.Equal(t, "http://127.0.0.1:7600/app/", copied)

	a.copyText = func(string) error { return errors.New("no clipboard") }
	require.NotPanics(t, a.copyAddress)
}

func TestActionsAbout(t *testing.T) {
	t.Parallel()
	a, _, _, _ := newTestActions(t)
	a.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	var title, msg string
	a.showAbout = func(tt, m string) {
		title, msg = tt, m
	}
	a.about()

	assert.Equal(t, "About "+config.DisplayName, title)
	assert.Contains(t, msg, "Version v"+config.AppVersion)
	assert.Contains(t, msg, "2026")
}
