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

type GamesParams struct {
	Query         *string `json:"query"`
	FavoritesOnly bool    `json:"favoritesOnly"`
}

// NameParams carries a game name that is not checked with gamename. Launch
// ignores unknown names and remove reports them as a failed result.
type NameParams struct {
	Name string `json:"name"`
}

type GameNameParams struct {
	Name string `json:"name" validate:"required,gamename"`
}

type ImportParams struct {
	Path *string `json:"path" validate:"omitempty,min=1"`
}

type OpenExternalParams struct {
	URL string `json:"url" validate:"required,max=8192,http_url"`
}

type HistoryParams struct {
	Limit *int `json:"limit" validate:"omitempty,min=1,max=1000"`
}
