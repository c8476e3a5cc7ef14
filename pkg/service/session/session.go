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

// Package session runs the single active game session. One event loop
// goroutine owns the session state; launches, stops, exits and status
// queries are all posted to it.
package session

import (
	"context"
	"errors"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
)

var ErrStopped = errors.New("session manager stopped")

// Status is the UI-facing view of the session.
type Status = models.SessionStatus

// Handle is a running game, either a child process or a display surface.
type Handle interface {
	// Terminate asks the game to end. It may return before the game has
	// actually gone; Done is the only signal of that.
	Terminate() error
	// Done is closed exactly once when the game has gone.
	Done() <-chan struct{}
}

type LaunchRequest struct {
	Name string
	// Dir is the game's own folder under the games root.
	Dir  string
	Spec games.LaunchSpec
}

// Backend starts games of one or more launch kinds.
type Backend interface {
	Start(ctx context.Context, req LaunchRequest) (Handle, error)
}

// BackendFunc adapts a function to a Backend.
type BackendFunc func(ctx context.Context, req LaunchRequest) (Handle, error)

func (f BackendFunc) Start(ctx context.Context, req LaunchRequest) (Handle, error) {
	return f(ctx, req)
}
