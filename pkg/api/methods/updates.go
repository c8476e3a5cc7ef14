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
	"errors"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

const defaultHistoryLimit = 50

var (
	ErrUpdatesUnavailable = errors.New("updates are not available")
	ErrHistoryUnavailable = errors.New("history is not available")
)

// HandleUpdateCheck starts an update check in the background. Results
// arrive as update.status and update.progress notifications.
func HandleUpdateCheck(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	if env.Updater == nil {
		return nil, ErrUpdatesUnavailable
	}
	ctx := env.State.GetContext()
	go func() {
		if err := env.Updater.Check(ctx); err != nil {
			log.Warn().Err(err).Msg("requested update check failed")
		}
	}()
	return nil, nil
}

// HandleUpdateInstall restarts into a downloaded update. It does nothing
// when no update is available.
func HandleUpdateInstall(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	if env.Updater == nil {
		return nil, ErrUpdatesUnavailable
	}
	ctx := env.State.GetContext()
	go func() {
		if err := env.Updater.Install(ctx); err != nil {
			log.Warn().Err(err).Msg("requested update install failed")
		}
	}()
	return nil, nil
}

func HandleHistory(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.HistoryParams
	if err := validation.UnmarshalOptional(env.Params, &params); err != nil {
		return nil, err
	}
	if env.History == nil {
		return nil, ErrHistoryUnavailable
	}

	limit := defaultHistoryLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	entries, err := env.History.List(limit)
	if err != nil {
		log.Error().Err(err).Msg("error getting history")
		return nil, errors.New("error getting history")
	}
	return models.HistoryResponse{Entries: entries}, nil
}
