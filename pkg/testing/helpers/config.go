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

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/stretchr/testify/require"
)

// NewTestConfig creates a config in a temp directory. Each option is applied
// to the defaults before the config is written.
func NewTestConfig(t *testing.T, opts ...func(*config.Values)) *config.Instance {
	t.Helper()

	defaults := config.BaseDefaults
	for _, opt := range opts {
		opt(&defaults)
	}

	cfg, err := config.NewConfig(t.TempDir(), defaults)
	require.NoError(t, err)
	return cfg
}

// NewTestConfigWithPort is NewTestConfig with the API bound to port on
// localhost. Port 0 picks a free port.
func NewTestConfigWithPort(t *testing.T, port int, opts ...func(*config.Values)) *config.Instance {
	t.Helper()
	return NewTestConfig(t, append([]func(*config.Values){func(v *config.Values) {
		v.Service.APIPort = &port
	}}, opts...)...)
}
