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

package methods

import (
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/rs/zerolog/log"
)

// HandleGames lists the catalog, optionally filtered.
func HandleGames(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.GamesParams
	if err := validation.UnmarshalOptional(env.Params, &params); err != nil {
		return nil, err
	}

	root := helpers.GamesDir(env.Platform, env.Config)
	entries := games.ListGames(env.Fs, root, env.Favorites.Load())

	query := ""
	if params.Query != nil {
		query = *params.Query
	}
	if query != "" || params.FavoritesOnly {
		entries = games.Filter(entries, query, params.FavoritesOnly)
	}

	log.Debug().Int("count", len(entries)).Msg("listed games")
	return entries, nil
}

func HandleFavoritesToggle(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.GameNameParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	set, err := env.Favorites.Toggle(params.Name)
	if err != nil {
		log.Error().Err(err).Str("name", params.Name).Msg("failed to toggle favorite")
		return nil, err
	}

	return models.FavoritesResponse{OK: true, Favorites: set}, nil
}
