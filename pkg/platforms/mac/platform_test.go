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

package mac

import (
	"context"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExtractCommandUsesDitto(t *testing.T) {
	t.Parallel()

	c := NewPlatform().ExtractCommand("/Users/a/Chess.zip", "/Users/a/games/Chess")
	assert.Equal(t, "ditto", c.Name)
	assert.Equal(t, []string{"-x", "-k", "/Users/a/Chess.zip", "/Users/a/games/Chess"}, c.Args)
}

func TestOpenPath(t *testing.T) {
	t.Parallel()

	mockCmd := &mocks.MockCommandExecutor{}
	mockCmd.On("Start", mock.Anything, mock.Anything, "open", []string{"/Users/a/games"}).Return(nil)

	require.NoError(t, NewPlatformWithExecutor(mockCmd).OpenPath(context.Background(), "/Users/a/games"))
	mockCmd.AssertExpectations(t)
}
