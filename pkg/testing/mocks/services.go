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

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/stretchr/testify/mock"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Launch(name string) {
	m.Called(name)
}

func (m *MockSession) Stop() {
	m.Called()
}

func (m *MockSession) Status(ctx context.Context) (models.SessionStatus, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(models.SessionStatus)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return status, args.Error(1)
}

type MockLibrary struct {
	mock.Mock
}

func (m *MockLibrary) Import(ctx context.Context) models.ImportResponse {
	args := m.Called(ctx)
	res, _ := args.Get(0).(models.ImportResponse)
	return res
}

func (m *MockLibrary) ImportFile(ctx context.Context, archive string) models.ImportResponse {
	args := m.Called(ctx, archive)
	res, _ := args.Get(0).(models.ImportResponse)
	return res
}

func (m *MockLibrary) Remove(ctx context.Context, name string) models.RemoveResponse {
	args := m.Called(ctx, name)
	res, _ := args.Get(0).(models.RemoveResponse)
	return res
}

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) Check(ctx context.Context) error {
	return m.Called(ctx).Error(0) //nolint:wrapcheck // mock
}

func (m *MockUpdater) Install(ctx context.Context) error {
	return m.Called(ctx).Error(0) //nolint:wrapcheck // mock
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) List(limit int) ([]models.HistoryEntry, error) {
	args := m.Called(limit)
	entries, _ := args.Get(0).([]models.HistoryEntry)
	return entries, args.Error(1) //nolint:wrapcheck // mock
}

var (
	_ requests.Session = (*MockSession)(nil)
	_ requests.Library = (*MockLibrary)(nil)
	_ requests.Updater = (*MockUpdater)(nil)
	_ requests.History = (*MockHistory)(nil)
)
