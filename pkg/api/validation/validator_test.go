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

package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameNameValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  string
		wantErr bool
	}{
		{name: "plain name", params: `{"name":"Tetris"}`},
		{name: "name with spaces", params: `{"name":"Chess (2)"}`},
		{name: "empty name", params: `{"name":""}`, wantErr: true},
		{name: "missing name", params: `{}`, wantErr: true},
		{name: "parent traversal", params: `{"name":".."}`, wantErr: true},
		{name: "nested path", params: `{"name":"a/b"}`, wantErr: true},
		{name: "backslash", params: `{"name":"a\\b"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var p models.GameNameParams
			err := ValidateAndUnmarshal(json.RawMessage(tt.params), &p)
			if tt.wantErr {
				var verr *Error
				require.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOpenExternalValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://zaparoo.org"},
		{name: "http with path", url: "http://example.com/a?b=c"},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: true},
		{name: "javascript", url: "javascript:alert(1)", wantErr: true},
		{name: "empty", url: "", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", 8192), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			raw, err := json.Marshal(models.OpenExternalParams{URL: tt.url})
			require.NoError(t, err)

			var p models.OpenExternalParams
			err = ValidateAndUnmarshal(raw, &p)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.url, p.URL)
			}
		})
	}
}

func TestValidateAndUnmarshalErrors(t *testing.T) {
	t.Parallel()

	var p models.GameNameParams
	require.ErrorIs(t, ValidateAndUnmarshal(nil, &p), ErrMissingParams)
	require.ErrorIs(t, ValidateAndUnmarshal(json.RawMessage(`{"name":`), &p), ErrInvalidParams)
	require.ErrorIs(t, ValidateAndUnmarshal(json.RawMessage(`{"name":5}`), &p), ErrInvalidParams)
}

func TestUnmarshalOptional(t *testing.T) {
	t.Parallel()

	var h models.HistoryParams
	require.NoError(t, UnmarshalOptional(nil, &h))
	require.NoError(t, UnmarshalOptional(json.RawMessage(`null`), &h))
	assert.Nil(t, h.Limit)

	require.NoError(t, UnmarshalOptional(json.RawMessage(`{"limit":5}`), &h))
	require.NotNil(t, h.Limit)
	assert.Equal(t, 5, *h.Limit)

	err := UnmarshalOptional(json.RawMessage(`{"limit":0}`), &h)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "limit must be at least 1", verr.Error())
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	var p models.GameNameParams
	err := ValidateAndUnmarshal(json.RawMessage(`{"name":""}`), &p)
	assert.EqualError(t, err, "name is required")

	err = ValidateAndUnmarshal(json.RawMessage(`{"name":"../x"}`), &p)
	assert.EqualError(t, err, `"../x" is not a valid game name`)

	var o models.OpenExternalParams
	err = ValidateAndUnmarshal(json.RawMessage(`{"url":"ftp://example.com"}`), &o)
	assert.EqualError(t, err, "url must be an http or https URL")

	assert.Equal(t, "validation failed", (&Error{}).Error())
}
