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
	"github.com/rs/zerolog/log"
)

// HandleLaunch queues a launch and returns straight away. Progress is
// reported through session.status notifications. Names that are not
// launchable games are ignored by the session manager.
func HandleLaunch(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.NameParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	log.Info().Str("name", params.Name).Msg("launch requested")
	env.Session.Launch(params.Name)
	return nil, nil
}

func HandleStop(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("stop requested")
	env.Session.Stop()
	return nil, nil
}

func HandleSessionStatus(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	status, err := env.Session.Status(env.Context)
	if err != nil {
		return nil, err //nolint:wrapcheck // returned to the client as is
	}
	return status, nil
}
