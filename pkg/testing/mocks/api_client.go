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
	"encoding/json"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of client.APIClient for testing.
type MockAPIClient struct {
	mock.Mock
}

func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) Call(ctx context.Context, method, params string) (string, error) {
	args := m.Called(ctx, method, params)
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	notificationType string,
) (string, error) {
	args := m.Called(ctx, timeout, notificationType)
	return args.String(0), args.Error(1)
}

// SetupGamesResponse makes an unfiltered games call return entries.
func (m *MockAPIClient) SetupGamesResponse(names ...string) {
	type entry struct {
		ImagePath *string `json:"imagePath"`
		Name      string  `json:"name"`
		RootPath  string  `json:"rootPath"`
	}
	entries := make([]entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, entry{Name: n, RootPath: "/games/" + n})
	}
	data, _ := json.Marshal(entries)
	m.On("Call", mock.Anything, models.MethodGames, "").Return(string(data), nil)
}

// SetupStatusResponse makes session.status report name as running, or idle
// when name is empty.
func (m *MockAPIClient) SetupStatusResponse(name string) {
	status := models.SessionStatus{Running: name != ""}
	if name != "" {
		status.Name = &name
	}
	data, _ := json.Marshal(status)
	m.On("Call", mock.Anything, models.MethodSessionStatus, "").Return(string(data), nil)
}
