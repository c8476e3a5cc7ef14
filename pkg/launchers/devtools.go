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
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	// devToolsPortFile is written into the profile by Chromium once remote
	// debugging is listening: the port on the first line, the browser
	// target path on the second.
	devToolsPortFile = "DevToolsActivePort"

	devToolsPollInterval = 100 * time.Millisecond
	// DevToolsAttachTimeout bounds the wait for a new window's debugging
	// endpoint. A window that can't be guarded is closed.
	DevToolsAttachTimeout = 15 * time.Second
	// BlankPopupTimeout is how long a popup may stay on about:blank before
	// it is closed without being opened externally.
	BlankPopupTimeout = 2 * time.Second
)

var ErrNoDevTools = errors.New("browser debugging endpoint not available")

// ReadDevToolsEndpoint returns the browser websocket URL advertised in a
// profile's DevToolsActivePort file.
func ReadDevToolsEndpoint(fs afero.Fs, profile string) (string, error) {
	data, err := afero.ReadFile(fs, filepath.Join(profile, devToolsPortFile))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoDevTools, err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("%w: incomplete %s", ErrNoDevTools, devToolsPortFile)
	}
	port := strings.TrimSpace(lines[0])
	path := strings.TrimSpace(lines[1])
	if port == "" || !strings.HasPrefix(path, "/devtools/browser/") {
		return "", fmt.Errorf("%w: malformed %s", ErrNoDevTools, devToolsPortFile)
	}
	return "ws://127.0.0.1:" + port + path, nil
}

// WaitDevToolsEndpoint polls the profile until the endpoint appears, the
// timeout passes or ctx ends.
func WaitDevToolsEndpoint(
	ctx context.Context,
	fs afero.Fs,
	clock clockwork.Clock,
	profile string,
	timeout time.Duration,
) (string, error) {
	deadline := clock.After(timeout)
	for {
		endpoint, err := ReadDevToolsEndpoint(fs, profile)
		if err == nil {
			return endpoint, nil
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for debugging endpoint: %w", ctx.Err())
		case <-deadline:
			return "", err
		case <-clock.After(devToolsPollInterval):
		}
	}
}

type cdpError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type cdpMessage struct {
	Error  *cdpError       `json:"error,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	ID     int64           `json:"id,omitempty"`
}

type targetInfo struct {
	TargetID string `json:"targetId"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	OpenerID string `json:"openerId,omitempty"`
}

type targetEvent struct {
	TargetInfo targetInfo `json:"targetInfo"`
}

type PopupGuardOptions struct {
	// OpenExternal receives every http(s) URL a popup tried to show.
	OpenExternal func(ctx context.Context, url string) error
	Clock        clockwork.Clock
}

// PopupGuard watches one browser over the DevTools protocol and closes
// every page opened by another page: window.open, target=_blank links and
// forms, including those from cross-origin frames. http(s) popups are
// handed to OpenExternal instead, so a game window never gets a sibling.
type PopupGuard struct {
	opts    PopupGuardOptions
	conn    *websocket.Conn
	done    chan struct{}
	pending map[string]clockwork.Timer
	handled map[string]bool
	nextID  atomic.Int64
	writeMu syncutil.Mutex
	mu      syncutil.Mutex
}

// DialPopupGuard connects to a browser endpoint and starts target
// discovery. Existing popups are reported by discovery too.
func DialPopupGuard(ctx context.Context, endpoint string, opts PopupGuardOptions) (*PopupGuard, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	g := &PopupGuard{
		opts:    opts,
		conn:    conn,
		done:    make(chan struct{}),
		pending: make(map[string]clockwork.Timer),
		handled: make(map[string]bool),
	}
	if err := g.send("Target.setDiscoverTargets", map[string]any{"discover": true}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	go g.readLoop()
	return g, nil
}

// Done closes when the browser connection has gone.
func (g *PopupGuard) Done() <-chan struct{} {
	return g.done
}

// Close disconnects from the browser and waits for the read loop.
func (g *PopupGuard) Close() error {
	err := g.conn.Close()
	<-g.done

	g.mu.Lock()
	for id, t := range g.pending {
		t.Stop()
		delete(g.pending, id)
	}
	g.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to close browser connection: %w", err)
	}
	return nil
}

func (g *PopupGuard) send(method string, params any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal %s params: %w", method, err)
	}
	msg := cdpMessage{
		ID:     g.nextID.Add(1),
		Method: method,
		Params: data,
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if err := g.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}
	return nil
}

func (g *PopupGuard) readLoop() {
	defer close(g.done)
	for {
		var msg cdpMessage
		if err := g.conn.ReadJSON(&msg); err != nil {
			log.Debug().Err(err).Msg("popup guard: browser connection closed")
			return
		}

		if msg.Error != nil {
			log.Debug().Int64("id", msg.ID).Str("error", msg.Error.Message).Msg("popup guard: command failed")
			continue
		}

		switch msg.Method {
		case "Target.targetCreated", "Target.targetInfoChanged":
			var ev targetEvent
			if err := json.Unmarshal(msg.Params, &ev); err != nil {
				log.Debug().Err(err).Msg("popup guard: bad target event")
				continue
			}
			g.handleTarget(ev.TargetInfo)
		case "Target.targetDestroyed":
			var ev struct {
				TargetID string `json:"targetId"`
			}
			if err := json.Unmarshal(msg.Params, &ev); err == nil {
				g.forget(ev.TargetID)
			}
		}
	}
}

func isBlankURL(raw string) bool {
	return raw == "" || strings.HasPrefix(raw, "about:blank")
}

func isExternalURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (g *PopupGuard) handleTarget(info targetInfo) {
	if info.Type != "page" || info.OpenerID == "" {
		return
	}

	g.mu.Lock()
	if g.handled[info.TargetID] {
		g.mu.Unlock()
		return
	}

	if isBlankURL(info.URL) {
		// the URL usually follows in a targetInfoChanged event
		if _, ok := g.pending[info.TargetID]; !ok {
			id := info.TargetID
			g.pending[id] = g.opts.Clock.AfterFunc(BlankPopupTimeout, func() {
				g.expire(id)
			})
		}
		g.mu.Unlock()
		return
	}

	g.handled[info.TargetID] = true
	if t, ok := g.pending[info.TargetID]; ok {
		t.Stop()
		delete(g.pending, info.TargetID)
	}
	g.mu.Unlock()

	g.closeTarget(info.TargetID)

	if !isExternalURL(info.URL) {
		log.Warn().Str("url", info.URL).Msg("popup guard: closed popup with unsupported URL")
		return
	}
	log.Info().Str("url", info.URL).Msg("popup guard: opening popup in external browser")
	if err := g.opts.OpenExternal(context.Background(), info.URL); err != nil {
		log.Error().Err(err).Str("url", info.URL).Msg("popup guard: failed to open external URL")
	}
}

func (g *PopupGuard) expire(id string) {
	g.mu.Lock()
	if _, ok := g.pending[id]; !ok {
		g.mu.Unlock()
		return
	}
	delete(g.pending, id)
	g.handled[id] = true
	g.mu.Unlock()

	log.Debug().Str("target", id).Msg("popup guard: closing blank popup")
	g.closeTarget(id)
}

func (g *PopupGuard) forget(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t, ok := g.pending[id]; ok {
		t.Stop()
		delete(g.pending, id)
	}
	delete(g.handled, id)
}

func (g *PopupGuard) closeTarget(id string) {
	if err := g.send("Target.closeTarget", map[string]string{"targetId": id}); err != nil {
		log.Debug().Err(err).Str("target", id).Msg("popup guard: failed to close popup")
	}
}
