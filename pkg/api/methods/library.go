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

// HandleImport imports a ZIP archive. Without a path the user picks one in
// a native file dialog.
func HandleImport(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.ImportParams
	if err := validation.UnmarshalOptional(env.Params, &params); err != nil {
		return nil, err
	}

	var res models.ImportResponse
	if params.Path != nil {
		if !env.IsLocal {
			return nil, ErrLocalOnly
		}
		res = env.Library.ImportFile(env.Context, *params.Path)
	} else {
		res = env.Library.Import(env.Context)
	}

	log.Info().Bool("ok", res.OK).Str("folder", res.Folder).Str("reason", res.Reason).Msg("import finished")
	return res, nil
}

func HandleRemove(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.NameParams
	if err := validation.UnmarshalOptional(env.Params, &params); err != nil {
		return nil, err
	}

	res := env.Library.Remove(env.Context, params.Name)
	log.Info().Str("name", params.Name).Bool("ok", res.OK).Str("reason", res.Reason).Msg("remove finished")
	return res, nil
}
