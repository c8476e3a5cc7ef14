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

package mocks

import (
	"context"
	"os"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/stretchr/testify/mock"
)

// MockCommandExecutor is a testify mock for command.Executor.
//
// Example:
//
//	mockCmd := &MockCommandExecutor{}
//	mockCmd.On("Start", mock.Anything, mock.Anything, "xdg-open", mock.Anything).Return(nil)
type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) Run(ctx context.Context, name string, args ...string) error {
	called := m.Called(ctx, name, args)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return called.Error(0)
}

func (m *MockCommandExecutor) Output(
	ctx context.Context,
	opts command.StartOptions,
	name string,
	args ...string,
) ([]byte, error) {
	called := m.Called(ctx, opts, name, args)
	var out []byte
	if v := called.Get(0); v != nil {
		if b, ok := v.([]byte); ok {
			out = b
		}
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return out, called.Error(1)
}

func (m *MockCommandExecutor) Start(
	ctx context.Context,
	opts command.StartOptions,
	name string,
	args ...string,
) error {
	called := m.Called(ctx, opts, name, args)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return called.Error(0)
}

func (m *MockCommandExecutor) StartProcess(
	ctx context.Context,
	opts command.StartOptions,
	name string,
	args ...string,
) (*os.Process, error) {
	called := m.Called(ctx, opts, name, args)
	var proc *os.Process
	if v := called.Get(0); v != nil {
		if p, ok := v.(*os.Process); ok {
			proc = p
		}
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return proc, called.Error(1)
}

var _ command.Executor = (*MockCommandExecutor)(nil)
