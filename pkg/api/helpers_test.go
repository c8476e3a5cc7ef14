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

package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/middleware"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/favorites"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	svc  requests.Services
	fs   *helpers.FSHelper
	root string
}

func newTestServices(t *testing.T, opts ...func(*config.Values)) *testServer {
	t.Helper()

	root := filepath.Join(t.TempDir(), "games")
	cfg := helpers.NewTestConfig(t, append([]func(*config.Values){func(v *config.Values) {
		v.Launcher.GamesDir = root
	}}, opts...)...)

	pl := mocks.NewMockPlatform()
	pl.SetupBasicMock(t.TempDir())

	st, _ := state.NewState(pl)
	t.Cleanup(st.StopService)

	fs := helpers.NewMemoryFS()
	return &testServer{
		svc: requests.Services{
			Platform:  pl,
			Config:    cfg,
			State:     st,
			Fs:        fs.Fs,
			Favorites: favorites.NewStore(fs.Fs, filepath.Join(root, "..", "favorites.json")),
			Session:   &mocks.MockSession{},
			Library:   &mocks.MockLibrary{},
			History:   &mocks.MockHistory{},
		},
		fs:   fs,
		root: root,
	}
}

// echoMethods is a method map with predictable handlers for transport tests.
func echoMethods(t *testing.T) *MethodMap {
	t.Helper()
	m := NewMethodMap()
	require.NoError(t, m.AddMethod("echo", func(env requests.RequestEnv) (any, error) {
		return json.RawMessage(paramsOrNull(env.Params)), nil
	}))
	require.NoError(t, m.AddMethod("local", func(env requests.RequestEnv) (any, error) {
		return env.IsLocal, nil
	}))
	return m
}

func (ts *testServer) router(t *testing.T, methodMap *MethodMap) http.Handler {
	t.Helper()
	ws := melody.New()
	limiter := middleware.NewIPRateLimiter(clockwork.NewFakeClock())
	ws.HandleMessage(handleWSMessage(methodMap, ts.svc))
	h, err := newRouter(Options{Services: ts.svc, MethodMap: methodMap}, ws, limiter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return h
}
