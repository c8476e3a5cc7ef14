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

import "time"

type SessionStatus struct {
	Name    *string `json:"name"`
	Running bool    `json:"running"`
}

type SessionErrorPayload struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
	OK        bool     `json:"ok"`
}

type ImportResponse struct {
	Folder string `json:"folder,omitempty"`
	Reason string `json:"reason,omitempty"`
	OK     bool   `json:"ok"`
}

type RemoveResponse struct {
	Reason string `json:"reason,omitempty"`
	OK     bool   `json:"ok"`
}

const (
	UpdateStateChecking  = "checking"
	UpdateStateAvailable = "available"
	UpdateStateNone      = "none"
	UpdateStateReady     = "ready"
	UpdateStateError     = "error"
)

type UpdateStatusPayload struct {
	State   string `json:"state"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}

type UpdateProgressPayload struct {
	Percent int `json:"percent"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

type HistoryEntry struct {
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
}

type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}
