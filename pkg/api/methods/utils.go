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
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/rs/zerolog/log"
)

// ErrLocalOnly is returned for methods that act on the host machine when
// the request comes from another device.
var ErrLocalOnly = errors.New("method is only available to local clients")

// HandleOpenExternal opens an http(s) URL in the default browser. Bundled
// web games call it for popups and target=_blank links.
func HandleOpenExternal(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.OpenExternalParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}
	if !env.IsLocal {
		return nil, ErrLocalOnly
	}
	if err := helpers.ValidateBrowserURL(params.URL); err != nil {
		return nil, err //nolint:wrapcheck // message is shown to the client
	}

	log.Info().Str("url", params.URL).Msg("opening external url")
	if err := env.Platform.OpenExternal(env.Context, params.URL); err != nil {
		log.Error().Err(err).Str("url", params.URL).Msg("failed to open external url")
		return nil, err //nolint:wrapcheck // message is shown to the client
	}
	return nil, nil
}

func HandleVersion(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return models.VersionResponse{
		Version:  config.AppVersion,
		Platform: env.Platform.ID(),
	}, nil
}
