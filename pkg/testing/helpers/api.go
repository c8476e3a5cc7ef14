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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/require"
)

// WebSocketTestServer is a melody server on /api/v0.1 that hands every
// received message to a test handler.
type WebSocketTestServer struct {
	Server   *httptest.Server
	Melody   *melody.Melody
	received [][]byte
	mu       sync.Mutex
}

// NewWebSocketTestServer starts a server. handler may be nil for tests that
// only broadcast.
func NewWebSocketTestServer(t *testing.T, handler func(*melody.Session, []byte)) *WebSocketTestServer {
	t.Helper()

	m := melody.New()
	wsts := &WebSocketTestServer{Melody: m}

	m.HandleMessage(func(session *melody.Session, msg []byte) {
		wsts.mu.Lock()
		wsts.received = append(wsts.received, msg)
		wsts.mu.Unlock()
		if handler != nil {
			handler(session, msg)
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v0.1", func(w http.ResponseWriter, r *http.Request) {
		if err := m.HandleRequest(w, r); err != nil {
			t.Logf("websocket test server: %v", err)
		}
	})
	wsts.Server = httptest.NewServer(mux)

	return wsts
}

func (wsts *WebSocketTestServer) Close() {
	_ = wsts.Melody.Close()
	wsts.Server.Close()
}

// Received returns a copy of every message the server got.
func (wsts *WebSocketTestServer) Received() [][]byte {
	wsts.mu.Lock()
	defer wsts.mu.Unlock()
	return append([][]byte(nil), wsts.received...)
}

// DialWebSocket connects to path on an HTTP test server.
func DialWebSocket(t *testing.T, serverURL, path string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = path

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SendJSONRPCRequest writes a request with a fresh string id and reads
// messages until the matching response arrives. Notifications read on the
// way are skipped.
func SendJSONRPCRequest(conn *websocket.Conn, method string, params any) (*models.ResponseObject, error) {
	id := models.NewStringID(uuid.New().String())
	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		req.Params = data
	}

	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		var resp models.ResponseObject
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if id.Equal(resp.ID) {
			return &resp, nil
		}
	}
}

// AssertJSONRPCError checks response carries an error with expectedCode.
func AssertJSONRPCError(t *testing.T, response *models.ResponseObject, expectedCode int) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.NotNil(t, response.Error, "response should contain an error")
	require.Equal(t, expectedCode, response.Error.Code, "error code should match")
}
