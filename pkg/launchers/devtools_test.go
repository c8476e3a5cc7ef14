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

package launchers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrowser accepts DevTools connections and hands them to the test.
type fakeBrowser struct {
	srv   *httptest.Server
	conns chan *websocket.Conn
}

func newFakeBrowser(t *testing.T) *fakeBrowser {
	t.Helper()

	fb := &fakeBrowser{conns: make(chan *websocket.Conn, 1)}
	upgrader := websocket.Upgrader{}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("fake browser: %v", err)
			return
		}
		fb.conns <- conn
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBrowser) endpoint() string {
	return "ws" + fb.srv.URL[len("http"):] + "/devtools/browser/test"
}

func (fb *fakeBrowser) portFile(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(fb.srv.URL)
	require.NoError(t, err)
	return u.Port() + "\n/devtools/browser/test\n"
}

func (fb *fakeBrowser) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-fb.conns:
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	case <-time.After(5 * time.Second):
		require.FailNow(t, "browser connection never arrived")
		return nil
	}
}

func readCommand(t *testing.T, conn *websocket.Conn) (string, map[string]any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg cdpMessage
	require.NoError(t, conn.ReadJSON(&msg))
	var params map[string]any
	if len(msg.Params) > 0 {
		require.NoError(t, json.Unmarshal(msg.Params, &params))
	}
	return msg.Method, params
}

func sendTarget(t *testing.T, conn *websocket.Conn, method string, info targetInfo) {
	t.Helper()
	params, err := json.Marshal(targetEvent{TargetInfo: info})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(cdpMessage{Method: method, Params: params}))
}

type openedURLs struct {
	urls []string
	mu   sync.Mutex
}

func (o *openedURLs) open(_ context.Context, u string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, u)
	return nil
}

func (o *openedURLs) get() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.urls...)
}

func dialGuard(t *testing.T, fb *fakeBrowser, clock clockwork.Clock, opened *openedURLs) (*PopupGuard, *websocket.Conn) {
	t.Helper()
	g, err := DialPopupGuard(context.Background(), fb.endpoint(), PopupGuardOptions{
		OpenExternal: opened.open,
		Clock:        clock,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })

	conn := fb.accept(t)
	method, params := readCommand(t, conn)
	require.Equal(t, "Target.setDiscoverTargets", method)
	assert.Equal(t, true, params["discover"])
	return g, conn
}

func TestReadDevToolsEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{name: "valid", content: "40123\n/devtools/browser/abc-123\n", want: "ws://127.0.0.1:40123/devtools/browser/abc-123"},
		{name: "crlf", content: "40123\r\n/devtools/browser/abc\r\n", want: "ws://127.0.0.1:40123/devtools/browser/abc"},
		{name: "port only", content: "40123\n", wantErr: true},
		{name: "wrong path", content: "40123\n/json/version\n", wantErr: true},
		{name: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			if tt.content != "" {
				require.NoError(t, afero.WriteFile(fs, filepath.Join("p", devToolsPortFile), []byte(tt.content), 0o600))
			}
			got, err := ReadDevToolsEndpoint(fs, "p")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoDevTools)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPopupGuardSendsPopupsExternal(t *testing.T) {
	t.Parallel()

	fb := newFakeBrowser(t)
	opened := &openedURLs{}
	_, conn := dialGuard(t, fb, clockwork.NewRealClock(), opened)

	// the game page itself and non-page targets are left alone
	sendTarget(t, conn, "Target.targetCreated", targetInfo{TargetID: "game", Type: "page", URL: "https://game.example/"})
	sendTarget(t, conn, "Target.targetCreated", targetInfo{TargetID: "sw", Type: "service_worker", URL: "https://game.example/sw.js", OpenerID: "game"})
	sendTarget(t, conn, "Target.targetCreated", targetInfo{
		TargetID: "popup", Type: "page", URL: "https://docs.example/help", OpenerID: "game",
	})

	method, params := readCommand(t, conn)
	assert.Equal(t, "Target.closeTarget", method)
	assert.Equal(t, "popup", params["targetId"])

	assert.Eventually(t, func() bool {
		return len(opened.get()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"https://docs.example/help"}, opened.get())

	// repeated info for the same popup is not opened twice
	sendTarget(t, conn, "Target.targetInfoChanged", targetInfo{
		TargetID: "popup", Type: "page", URL: "https://docs.example/help", OpenerID: "game",
	})
	sendTarget(t, conn, "Target.targetCreated", targetInfo{
		TargetID: "popup2", Type: "page", URL: "https://other.example/", OpenerID: "game",
	})
	method, params = readCommand(t, conn)
	assert.Equal(t, "Target.closeTarget", method)
	assert.Equal(t, "popup2", params["targetId"])
	assert.Eventually(t, func() bool {
		return len(opened.get()) == 2
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"https://docs.example/help", "https://other.example/"}, opened.get())
}

func TestPopupGuardWaitsForBlankPopupURL(t *testing.T) {
	t.Parallel()

	fb := newFakeBrowser(t)
	opened := &openedURLs{}
	_, conn := dialGuard(t, fb, clockwork.NewRealClock(), opened)

	sendTarget(t, conn, "Target.targetCreated", targetInfo{TargetID: "p", Type: "page", URL: "about:blank", OpenerID: "game"})
	sendTarget(t, conn, "Target.targetInfoChanged", targetInfo{
		TargetID: "p", Type: "page", URL: "http://127.0.0.1:7597/play/Chess/rules.html", OpenerID: "game",
	})

	method, params := readCommand(t, conn)
	assert.Equal(t, "Target.closeTarget", method)
	assert.Equal(t, "p", params["targetId"])
	assert.Eventually(t, func() bool {
		return len(opened.get()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "http://127.0.0.1:7597/play/Chess/rules.html", opened.get()[0])
}

func TestPopupGuardClosesStuckBlankPopup(t *testing.T) {
	t.Parallel()

	fb := newFakeBrowser(t)
	clock := clockwork.NewFakeClock()
	opened := &openedURLs{}
	_, conn := dialGuard(t, fb, clock, opened)

	sendTarget(t, conn, "Target.targetCreated", targetInfo{TargetID: "p", Type: "page", URL: "", OpenerID: "game"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(BlankPopupTimeout)

	method, params := readCommand(t, conn)
	assert.Equal(t, "Target.closeTarget", method)
	assert.Equal(t, "p", params["targetId"])
	assert.Empty(t, opened.get())
}

func TestPopupGuardClosesNonWebPopup(t *testing.T) {
	t.Parallel()

	fb := newFakeBrowser(t)
	opened := &openedURLs{}
	_, conn := dialGuard(t, fb, clockwork.NewRealClock(), opened)

	sendTarget(t, conn, "Target.targetCreated", targetInfo{
		TargetID: "p", Type: "page", URL: "file:///etc/passwd", OpenerID: "game",
	})

	method, params := readCommand(t, conn)
	assert.Equal(t, "Target.closeTarget", method)
	assert.Equal(t, "p", params["targetId"])
	assert.Empty(t, opened.get())
}

func TestPopupGuardDoneWhenBrowserGoes(t *testing.T) {
	t.Parallel()

	fb := newFakeBrowser(t)
	g, conn := dialGuard(t, fb, clockwork.NewRealClock(), &openedURLs{})

	require.NoError(t, conn.Close())
	select {
	case <-g.Done():
	case <-time.After(5 * time.Second):
		require.FailNow(t, "guard did not notice the browser closing")
	}
}

type fakeWindow struct {
	done       chan struct{}
	terminated chan struct{}
	once       sync.Once
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{done: make(chan struct{}), terminated: make(chan struct{})}
}

func (w *fakeWindow) Done() <-chan struct{} { return w.done }

func (w *fakeWindow) Terminate() error {
	w.once.Do(func() {
		close(w.terminated)
		close(w.done)
	})
	return nil
}

func newGuardedSurface(t *testing.T, fs afero.Fs, clock clockwork.Clock) (*SurfaceBackend, *mocks.MockPlatform) {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)
	pl := mocks.NewMockPlatform()
	pl.SetupBasicMock(t.TempDir())
	return NewSurfaceBackend(SurfaceOptions{
		Config:      cfg,
		Platform:    pl,
		Executor:    &mocks.MockCommandExecutor{},
		Fs:          fs,
		Clock:       clock,
		ProfilesDir: "profiles",
	}), pl
}

func TestGuardWindowRoutesPopupToPlatform(t *testing.T) {
	t.Parallel()

	fb := newFakeBrowser(t)
	fs := afero.NewMemMapFs()
	profile := filepath.Join("profiles", "w1")
	require.NoError(t, afero.WriteFile(fs, filepath.Join(profile, devToolsPortFile), []byte(fb.portFile(t)), 0o600))

	backend, pl := newGuardedSurface(t, fs, clockwork.NewRealClock())
	w := newFakeWindow()
	guarded := make(chan struct{})
	go func() {
		defer close(guarded)
		backend.guardWindow(profile, w)
	}()

	conn := fb.accept(t)
	method, _ := readCommand(t, conn)
	require.Equal(t, "Target.setDiscoverTargets", method)

	sendTarget(t, conn, "Target.targetCreated", targetInfo{
		TargetID: "popup", Type: "page", URL: "https://example.com/news", OpenerID: "game",
	})
	method, params := readCommand(t, conn)
	assert.Equal(t, "Target.closeTarget", method)
	assert.Equal(t, "popup", params["targetId"])

	assert.Eventually(t, func() bool {
		return len(pl.Opened()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"https://example.com/news"}, pl.Opened())

	require.NoError(t, w.Terminate())
	select {
	case <-guarded:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "guard did not stop with the window")
	}
}

func TestGuardWindowClosesUnguardableWindow(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	backend, pl := newGuardedSurface(t, afero.NewMemMapFs(), clock)
	w := newFakeWindow()
	go backend.guardWindow(filepath.Join("profiles", "none"), w)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// the attach deadline and the first poll
	require.NoError(t, clock.BlockUntilContext(ctx, 2))
	clock.Advance(DevToolsAttachTimeout)

	select {
	case <-w.terminated:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "unguarded window was left open")
	}
	assert.Empty(t, pl.Opened())
}

func TestDialPopupGuardNoBrowser(t *testing.T) {
	t.Parallel()

	_, err := DialPopupGuard(context.Background(), "ws://127.0.0.1:1/devtools/browser/x", PopupGuardOptions{
		OpenExternal: func(context.Context, string) error { return errors.New("unused") },
	})
	require.Error(t, err)
}
