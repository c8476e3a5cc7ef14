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

package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultUpdateRepository = "ZaparooProject/zaparoo-launcher"
	DefaultUpdateCheckDelay = 5 * time.Second
)

type Updates struct {
	Enabled     *bool  `toml:"enabled,omitempty"`
	AutoInstall *bool  `toml:"auto_install,omitempty"`
	CheckDelay  string `toml:"check_delay,omitempty"`
	Repository  string `toml:"repository,omitempty"`
}

// UpdatesEnabled defaults to true. Development builds never update.
func (c *Instance) UpdatesEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if AppVersion == "DEVELOPMENT" {
		return false
	}
	if c.vals.Updates.Enabled == nil {
		return true
	}
	return *c.vals.Updates.Enabled
}

func (c *Instance) SetUpdatesEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Updates.Enabled = &enabled
}

// UpdatesAutoInstall reports whether a downloaded update restarts the app
// straight away. Defaults to true.
func (c *Instance) UpdatesAutoInstall() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Updates.AutoInstall == nil {
		return true
	}
	return *c.vals.Updates.AutoInstall
}

func (c *Instance) UpdateCheckDelay() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Updates.CheckDelay == "" {
		return DefaultUpdateCheckDelay
	}
	d, err := time.ParseDuration(c.vals.Updates.CheckDelay)
	if err != nil || d < 0 {
		log.Warn().Msgf("invalid update check delay: %s", c.vals.Updates.CheckDelay)
		return DefaultUpdateCheckDelay
	}
	return d
}

func (c *Instance) UpdateRepository() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Updates.Repository == "" {
		return DefaultUpdateRepository
	}
	return c.vals.Updates.Repository
}
