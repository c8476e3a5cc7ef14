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

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRPCIDRejectsObjects(t *testing.T) {
	t.Parallel()

	var req RequestObject
	err := json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":{"a":1},"method":"games"}`), &req)
	require.ErrorIs(t, err, ErrInvalidRPCID)
}

func TestRPCIDEchoesExactly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "string", raw: `"abc-123"`},
		{name: "number", raw: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req RequestObject
			require.NoError(t, json.Unmarshal(
				[]byte(`{"jsonrpc":"2.0","id":`+tt.raw+`,"method":"games"}`), &req))
			require.NotNil(t, req.ID)
			assert.False(t, req.ID.IsAbsent())

			data, err := json.Marshal(ResponseObject{JSONRPC: "2.0", ID: *req.ID})
			require.NoError(t, err)
			assert.JSONEq(t, `{"jsonrpc":"2.0","id":`+tt.raw+`,"result":null}`, string(data))
		})
	}
}

func TestRPCIDAbsent(t *testing.T) {
	t.Parallel()

	var req RequestObject
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","method":"stop"}`), &req))
	assert.True(t, req.ID.IsAbsent())
	assert.Equal(t, "null", req.ID.String())
}
