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

package state

import (
	"context"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
)

// notificationBuffer gives headroom for bursts (a watcher rescan, update
// progress) without dropping session status changes.
const notificationBuffer = 500

// State holds the service lifetime and the notification source shared by
// every component.
type State struct {
	platform      platforms.Platform
	ctx           context.Context
	ctxCancelFunc context.CancelFunc
	Notifications chan<- models.Notification
	mu            syncutil.RWMutex
	stopService   bool
	restart       bool
}

func NewState(platform platforms.Platform) (state *State, notificationCh <-chan models.Notification) {
	ns := make(chan models.Notification, notificationBuffer)
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &State{
		platform:      platform,
		Notifications: ns,
		ctx:           ctx,
		ctxCancelFunc: ctxCancelFunc,
	}, ns
}

func (s *State) Platform() platforms.Platform {
	return s.platform
}

func (s *State) GetContext() context.Context {
	return s.ctx
}

func (s *State) StopService() {
	s.mu.Lock()
	s.stopService = true
	s.mu.Unlock()
	s.ctxCancelFunc()
}

func (s *State) ShouldStopService() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopService
}

// RequestRestart stops the service and marks it to be started again from
// the executable on disk once shutdown completes.
func (s *State) RequestRestart() {
	s.mu.Lock()
	s.restart = true
	s.mu.Unlock()
	s.StopService()
}

func (s *State) RestartRequested() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restart
}
