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

package notifications

import (
	"encoding/json"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/rs/zerolog/log"
)

// sendNotification marshals payload and queues it without blocking. A full
// channel drops the notification.
func sendNotification(ns chan<- models.Notification, method string, payload any) {
	var params json.RawMessage
	if payload != nil {
		var err error
		params, err = json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("method", method).Msg("failed to marshal notification payload")
			return
		}
	}

	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping notification")
	}
}

func SessionStatus(ns chan<- models.Notification, payload models.SessionStatus) {
	sendNotification(ns, models.NotificationSessionStatus, payload)
}

func SessionError(ns chan<- models.Notification, payload models.SessionErrorPayload) {
	sendNotification(ns, models.NotificationSessionError, payload)
}

func GamesChanged(ns chan<- models.Notification) {
	sendNotification(ns, models.NotificationGamesChanged, nil)
}

func UpdateStatus(ns chan<- models.Notification, payload models.UpdateStatusPayload) {
	sendNotification(ns, models.NotificationUpdateStatus, payload)
}

func UpdateProgress(ns chan<- models.Notification, percent int) {
	sendNotification(ns, models.NotificationUpdateProgress, models.UpdateProgressPayload{Percent: percent})
}
