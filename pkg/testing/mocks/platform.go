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
	"fmt"
	"sync"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of the Platform interface using
// testify/mock. Opened URLs and paths are recorded for verification.
type MockPlatform struct {
	mock.Mock
	mu     sync.Mutex
	opened []string
}

func NewMockPlatform() *MockPlatform {
	return &MockPlatform{}
}

func (m *MockPlatform) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlatform) Settings() platforms.Settings {
	args := m.Called()
	if s, ok := args.Get(0).(platforms.Settings); ok {
		return s
	}
	return platforms.Settings{}
}

func (m *MockPlatform) OpenExternal(ctx context.Context, url string) error {
	m.mu.Lock()
	m.opened = append(m.opened, url)
	m.mu.Unlock()
	args := m.Called(ctx, url)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform open external failed: %w", err)
	}
	return nil
}

func (m *MockPlatform) OpenPath(ctx context.Context, path string) error {
	m.mu.Lock()
	m.opened = append(m.opened, path)
	m.mu.Unlock()
	args := m.Called(ctx, path)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform open path failed: %w", err)
	}
	return nil
}

// ExtractCommand returns the configured Command, or calls the configured
// func(archive, dest string) platforms.Command to build one.
func (m *MockPlatform) ExtractCommand(archive, dest string) platforms.Command {
	args := m.Called(archive, dest)
	switch v := args.Get(0).(type) {
	case platforms.Command:
		return v
	case func(string, string) platforms.Command:
		return v(archive, dest)
	default:
		return platforms.Command{}
	}
}

func (m *MockPlatform) BrowserCandidates() []string {
	args := m.Called()
	if s, ok := args.Get(0).([]string); ok {
		return s
	}
	return nil
}

// Opened returns every URL and path passed to OpenExternal or OpenPath.
func (m *MockPlatform) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}

// SetupBasicMock installs permissive expectations rooted at dataDir.
func (m *MockPlatform) SetupBasicMock(dataDir string) {
	m.On("ID").Return("mock").Maybe()
	m.On("Settings").Return(platforms.Settings{
		DataDir:   dataDir,
		ConfigDir: dataDir,
		TempDir:   dataDir,
	}).Maybe()
	m.On("OpenExternal", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("OpenPath", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("BrowserCandidates").Return([]string{}).Maybe()
}

var _ platforms.Platform = (*MockPlatform)(nil)
