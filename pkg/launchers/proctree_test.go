//go:build !windows

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
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/session"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func startReal(t *testing.T, name string, args ...string) *os.Process {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
	exe := &command.RealExecutor{}
	proc, err := exe.StartProcess(context.Background(), command.StartOptions{Detach: true}, name, args...)
	require.NoError(t, err)
	return proc
}

func waitDone(t *testing.T, h session.Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}
}

func TestProcessHandleNaturalExit(t *testing.T) {
	t.Parallel()

	cleaned := make(chan struct{})
	h := newProcessHandle(startReal(t, "true"), nil, func() { close(cleaned) })
	waitDone(t, h)

	select {
	case <-cleaned:
	default:
		t.Fatal("cleanup did not run before done closed")
	}

	// terminating an exited process is a no-op
	require.NoError(t, h.Terminate())
}

func TestProcessHandleTerminate(t *testing.T) {
	t.Parallel()

	h := newProcessHandle(startReal(t, "sleep", "30"), nil, nil)

	require.NoError(t, h.Terminate())
	waitDone(t, h)
}

func TestProcessHandleEscalatesToKill(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	clock := clockwork.NewFakeClock()
	proc := startReal(t, "sh", "-c", `trap "" TERM; sleep 30`)
	h := newProcessHandle(proc, clock, nil)

	// give the shell time to install the trap
	time.Sleep(200 * time.Millisecond)

	terminated := make(chan error, 1)
	go func() { terminated <- h.Terminate() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	select {
	case <-h.Done():
		t.Fatal("process exited despite ignoring SIGTERM")
	default:
	}

	clock.Advance(SIGTERMTimeout)
	waitDone(t, h)

	select {
	case err := <-terminated:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("terminate did not return")
	}
}

func TestProcessBackendStart(t *testing.T) {
	t.Parallel()

	proc := startReal(t, "true")
	dir := filepath.Join("games", "Doom")

	mockCmd := &mocks.MockCommandExecutor{}
	mockCmd.On("StartProcess", mock.Anything,
		command.StartOptions{Dir: dir, Detach: true},
		filepath.Join(dir, "doom.exe"), []string(nil),
	).Return(proc, nil)

	b := NewProcessBackend(mockCmd, nil)
	h, err := b.Start(context.Background(), session.LaunchRequest{
		Name: "Doom",
		Dir:  dir,
		Spec: games.LaunchSpec{Kind: games.KindExe, Target: filepath.Join(dir, "doom.exe")},
	})
	require.NoError(t, err)
	waitDone(t, h)
	mockCmd.AssertExpectations(t)
}

func TestProcessBackendSpawnFailure(t *testing.T) {
	t.Parallel()

	mockCmd := &mocks.MockCommandExecutor{}
	mockCmd.On("StartProcess", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, exec.ErrNotFound)

	b := NewProcessBackend(mockCmd, nil)
	_, err := b.Start(context.Background(), session.LaunchRequest{
		Name: "Doom",
		Spec: games.LaunchSpec{Kind: games.KindExe, Target: "missing.exe"},
	})
	require.ErrorIs(t, err, exec.ErrNotFound)
	assert.Contains(t, err.Error(), "missing.exe")
}
