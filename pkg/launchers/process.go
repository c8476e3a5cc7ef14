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

package launchers

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/session"
	"github.com/jonboulle/clockwork"
)

// ProcessBackend runs native executables with the game folder as the
// working directory.
type ProcessBackend struct {
	cmd   command.Executor
	clock clockwork.Clock
}

func NewProcessBackend(cmd command.Executor, clock clockwork.Clock) *ProcessBackend {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ProcessBackend{cmd: cmd, clock: clock}
}

func (b *ProcessBackend) Start(ctx context.Context, req session.LaunchRequest) (session.Handle, error) {
	// games outlive the request context and the launcher itself
	proc, err := b.cmd.StartProcess(
		context.WithoutCancel(ctx),
		command.StartOptions{Dir: req.Dir, Detach: true},
		req.Spec.Target,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", req.Spec.Target, err)
	}
	return newProcessHandle(proc, b.clock, nil), nil
}
