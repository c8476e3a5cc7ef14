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

package methods

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/favorites"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	env      requests.RequestEnv
	platform *mocks.MockPlatform
	session  *mocks.MockSession
	library  *mocks.MockLibrary
	updater  *mocks.MockUpdater
	history  *mocks.MockHistory
	fs       *helpers.FSHelper
	root     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := filepath.Join(t.TempDir(), "games")
	cfg := helpers.NewTestConfig(t, func(v *config.Values) {
		v.Launcher.GamesDir = root
	})

	pl := mocks.NewMockPlatform()
	pl.SetupBasicMock(t.TempDir())

	st, _ := state.NewState(pl)
	t.Cleanup(st.StopService)

	fs := helpers.NewMemoryFS()
	te := &testEnv{
		platform: pl,
		session:  &mocks.MockSession{},
		library:  &mocks.MockLibrary{},
		updater:  &mocks.MockUpdater{},
		history:  &mocks.MockHistory{},
		fs:       fs,
		root:     root,
	}
	te.env = requests.RequestEnv{
		Context: context.Background(),
		Services: requests.Services{
			Platform:  pl,
			Config:    cfg,
			State:     st,
			Fs:        fs.Fs,
			Favorites: favorites.NewStore(fs.Fs, filepath.Join(t.TempDir(), "favorites.json")),
			Session:   te.session,
			Library:   te.library,
			Updater:   te.updater,
			History:   te.history,
		},
		IsLocal: true,
	}
	return te
}

func (te *testEnv) with(params string) requests.RequestEnv {
	env := te.env
	if params != "" {
		env.Params = json.RawMessage(params)
	}
	return env
}

func TestHandleGames(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)

	require.NoError(t, te.fs.CreateGames(te.root,
		helpers.GameFolder{Name: "beta", Files: map[string]string{"index.html": "<html>"}},
		helpers.GameFolder{Name: "Alpha", Files: map[string]string{"alpha.exe": "MZ"}},
		helpers.GameFolder{Name: "Gamma", Files: map[string]string{}},
	))
	_, err := te.env.Favorites.Toggle("Gamma")
	require.NoError(t, err)

	res, err := HandleGames(te.with(""))
	require.NoError(t, err)
	entries, ok := res.([]games.Entry)
	require.True(t, ok)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Gamma", "Alpha", "beta"}, names)

	res, err = HandleGames(te.with(`{"query":"ALP"}`))
	require.NoError(t, err)
	entries, _ = res.([]games.Entry)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alpha", entries[0].Name)

	res, err = HandleGames(te.with(`{"favoritesOnly":true}`))
	require.NoError(t, err)
	entries, _ = res.([]games.Entry)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsFavorite)
}

func TestHandleGamesMissingRoot(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)

	res, err := HandleGames(te.with(""))
	require.NoError(t, err)
	entries, ok := res.([]games.Entry)
	require.True(t, ok)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestHandleFavoritesToggle(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)

	res, err := HandleFavoritesToggle(te.with(`{"name":"Tetris"}`))
	require.NoError(t, err)
	assert.Equal(t, models.FavoritesResponse{OK: true, Favorites: []string{"Tetris"}}, res)

	res, err = HandleFavoritesToggle(te.with(`{"name":"Tetris"}`))
	require.NoError(t, err)
	resp, ok := res.(models.FavoritesResponse)
	require.True(t, ok)
	assert.Empty(t, resp.Favorites)

	_, err = HandleFavoritesToggle(te.with(`{"name":"../etc"}`))
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)

	_, err = HandleFavoritesToggle(te.with(""))
	require.ErrorIs(t, err, validation.ErrMissingParams)
}

func TestHandleLaunchAndStop(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	te.session.On("Launch", "Tetris").Once()
	te.session.On("Launch", "../x").Once()
	te.session.On("Stop").Once()

	res, err := HandleLaunch(te.with(`{"name":"Tetris"}`))
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = HandleLaunch(te.with(`{"name":"../x"}`))
	require.NoError(t, err, "unlaunchable names are left to the session manager")

	_, err = HandleLaunch(te.with(""))
	require.ErrorIs(t, err, validation.ErrMissingParams)

	res, err = HandleStop(te.with(""))
	require.NoError(t, err)
	assert.Nil(t, res)

	te.session.AssertExpectations(t)
}

func TestHandleSessionStatus(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	name := "Snake"
	te.session.On("Status", mock.Anything).Return(models.SessionStatus{Running: true, Name: &name}, nil)

	res, err := HandleSessionStatus(te.with(""))
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"running":true,"name":"Snake"}`, string(data))
}

func TestHandleImport(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	te.library.On("Import", mock.Anything).Return(models.ImportResponse{OK: false, Reason: "canceled"})
	te.library.On("ImportFile", mock.Anything, "/tmp/Chess.zip").
		Return(models.ImportResponse{OK: true, Folder: "/games/Chess"})

	res, err := HandleImport(te.with(""))
	require.NoError(t, err)
	assert.Equal(t, models.ImportResponse{OK: false, Reason: "canceled"}, res)

	res, err = HandleImport(te.with(`{"path":"/tmp/Chess.zip"}`))
	require.NoError(t, err)
	assert.Equal(t, models.ImportResponse{OK: true, Folder: "/games/Chess"}, res)

	remote := te.with(`{"path":"/tmp/Chess.zip"}`)
	remote.IsLocal = false
	_, err = HandleImport(remote)
	require.ErrorIs(t, err, ErrLocalOnly)
}

func TestHandleRemove(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	te.library.On("Remove", mock.Anything, "Tetris").Return(models.RemoveResponse{OK: false, Reason: "game is running"})
	te.library.On("Remove", mock.Anything, "").Return(models.RemoveResponse{OK: false, Reason: "no game name"})

	res, err := HandleRemove(te.with(`{"name":"Tetris"}`))
	require.NoError(t, err)
	assert.Equal(t, models.RemoveResponse{OK: false, Reason: "game is running"}, res)

	res, err = HandleRemove(te.with(""))
	require.NoError(t, err)
	assert.Equal(t, models.RemoveResponse{OK: false, Reason: "no game name"}, res)
}

func TestHandleOpenExternal(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)

	res, err := HandleOpenExternal(te.with(`{"url":"https://zaparoo.org"}`))
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, []string{"https://zaparoo.org"}, te.platform.Opened())

	_, err = HandleOpenExternal(te.with(`{"url":"file:///etc/passwd"}`))
	require.Error(t, err)

	remote := te.with(`{"url":"https://zaparoo.org"}`)
	remote.IsLocal = false
	_, err = HandleOpenExternal(remote)
	require.ErrorIs(t, err, ErrLocalOnly)
	assert.Len(t, te.platform.Opened(), 1)
}

func TestHandleUpdateMethods(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	checked := make(chan struct{})
	installed := make(chan struct{})
	te.updater.On("Check", mock.Anything).Run(func(mock.Arguments) { close(checked) }).Return(nil)
	te.updater.On("Install", mock.Anything).Run(func(mock.Arguments) { close(installed) }).Return(nil)

	res, err := HandleUpdateCheck(te.with(""))
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = HandleUpdateInstall(te.with(""))
	require.NoError(t, err)
	assert.Nil(t, res)

	for _, ch := range []chan struct{}{checked, installed} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("updater was not called")
		}
	}

	noUpdates := te.with("")
	noUpdates.Updater = nil
	_, err = HandleUpdateCheck(noUpdates)
	require.ErrorIs(t, err, ErrUpdatesUnavailable)
}

func TestHandleHistory(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entries := []models.HistoryEntry{{Name: "Tetris", Kind: "exe", StartedAt: started}}
	te.history.On("List", defaultHistoryLimit).Return(entries, nil)
	te.history.On("List", 5).Return(entries[:0], nil)

	res, err := HandleHistory(te.with(""))
	require.NoError(t, err)
	assert.Equal(t, models.HistoryResponse{Entries: entries}, res)

	res, err = HandleHistory(te.with(`{"limit":5}`))
	require.NoError(t, err)
	assert.Equal(t, models.HistoryResponse{Entries: entries[:0]}, res)

	_, err = HandleHistory(te.with(`{"limit":0}`))
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
}

func TestHandleVersion(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)

	res, err := HandleVersion(te.with(""))
	require.NoError(t, err)
	assert.Equal(t, models.VersionResponse{Version: config.AppVersion, Platform: "mock"}, res)
}
