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

package requests

import (
	"context"
	"encoding/json"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/favorites"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/spf13/afero"
)

// Session is the game session manager as seen by API handlers.
type Session interface {
	Launch(name string)
	Stop()
	Status(ctx context.Context) (models.SessionStatus, error)
}

type Library interface {
	Import(ctx context.Context) models.ImportResponse
	ImportFile(ctx context.Context, archive string) models.ImportResponse
	Remove(ctx context.Context, name string) models.RemoveResponse
}

type Updater interface {
	Check(ctx context.Context) error
	Install(ctx context.Context) error
}

type History interface {
	List(limit int) ([]models.HistoryEntry, error)
}

// Services groups the long-lived dependencies shared by every request.
type Services struct {
	Platform  platforms.Platform
	Config    *config.Instance
	State     *state.State
	Fs        afero.Fs
	Favorites *favorites.Store
	Session   Session
	Library   Library
	Updater   Updater
	History   History
}

type RequestEnv struct {
	Context context.Context
	Services
	Params  json.RawMessage
	ID      models.RPCID
	IsLocal bool
}
