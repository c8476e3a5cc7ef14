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

// Package mac implements the macOS platform.
package mac

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/adrg/xdg"
)

type Platform struct {
	cmd command.Executor
}

func NewPlatform() *Platform {
	return &Platform{cmd: &command.RealExecutor{}}
}

func NewPlatformWithExecutor(cmd command.Executor) *Platform {
	return &Platform{cmd: cmd}
}

func (*Platform) ID() string {
	return platforms.PlatformIDMac
}

func (*Platform) Settings() platforms.Settings {
	return platforms.Settings{
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		TempDir:   filepath.Join(os.TempDir(), config.AppName),
	}
}

func (p *Platform) OpenExternal(ctx context.Context, url string) error {
	if err := p.cmd.Start(ctx, command.StartOptions{}, "open", url); err != nil {
		return fmt.Errorf("failed to open url: %w", err)
	}
	return nil
}

func (p *Platform) OpenPath(ctx context.Context, path string) error {
	if err := p.cmd.Start(ctx, command.StartOptions{}, "open", path); err != nil {
		return fmt.Errorf("failed to open path: %w", err)
	}
	return nil
}

// ExtractCommand uses ditto, which ships with macOS, unlike unzip on some
// minimal installs.
func (*Platform) ExtractCommand(archive, dest string) platforms.Command {
	return platforms.Command{
		Name: "ditto",
		Args: []string{"-x", "-k", archive, dest},
	}
}

func (*Platform) BrowserCandidates() []string {
	return []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
	}
}
