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

// Package command wraps exec.Command so process spawning can be mocked.
package command

import (
	"context"
	"os"
	"os/exec"
)

// StartOptions configures how a command is started.
type StartOptions struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to the current environment.
	Env []string
	// HideWindow prevents a console window from appearing (Windows only).
	HideWindow bool
	// Detach starts the process in its own process group so signals sent
	// to the launcher do not reach it.
	Detach bool
}

// Executor runs system commands. Tests use mocks.MockCommandExecutor.
type Executor interface {
	// Run executes a command and waits for it to complete.
	Run(ctx context.Context, name string, args ...string) error

	// Output runs a command and returns its standard output. On a non-zero
	// exit the error is an *exec.ExitError carrying stderr.
	Output(ctx context.Context, opts StartOptions, name string, args ...string) ([]byte, error)

	// Start starts a command without waiting for it to complete.
	Start(ctx context.Context, opts StartOptions, name string, args ...string) error

	// StartProcess starts a command and hands back the process so the
	// caller can wait on it and signal it. The caller must Wait.
	StartProcess(ctx context.Context, opts StartOptions, name string, args ...string) (*os.Process, error)
}

// RealExecutor uses exec.Command to run system commands.
type RealExecutor struct{}

// Run executes a system command using exec.CommandContext.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Output runs a command and returns its standard output.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Output(
	ctx context.Context,
	opts StartOptions,
	name string,
	args ...string,
) ([]byte, error) {
	return buildCmd(ctx, opts, name, args...).Output()
}

// Start starts a command without waiting for it to complete.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Start(
	ctx context.Context,
	opts StartOptions,
	name string,
	args ...string,
) error {
	cmd := buildCmd(ctx, opts, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// StartProcess starts a command and returns its process.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) StartProcess(
	ctx context.Context,
	opts StartOptions,
	name string,
	args ...string,
) (*os.Process, error) {
	cmd := buildCmd(ctx, opts, name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Process, nil
}

func buildCmd(ctx context.Context, opts StartOptions, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	applySysProcAttr(cmd, opts)
	return cmd
}
