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

// Package linux implements the desktop Linux platform.
package linux

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

// NewPlatformWithExecutor is used by tests to capture commands.
func NewPlatformWithExecutor(cmd command.Executor) *Platform {
	return &Platform{cmd: cmd}
}

func (*Platform) ID() string {
	return platforms.PlatformIDLinux
}

func (*Platform) Settings() platforms.Settings {
	return platforms.Settings{
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		TempDir:   filepath.Join(os.TempDir(), config.AppName),
	}
}

func (p *Platform) OpenExternal(ctx context.Context, url string) error {
	return p.xdgOpen(ctx, url)
}

func (p *Platform) OpenPath(ctx context.Context, path string) error {
	return p.xdgOpen(ctx, path)
}

func (p *Platform) xdgOpen(ctx context.Context, target string) error {
	err := p.cmd.Start(ctx, command.StartOptions{Detach: true}, "xdg-open", target)
	if err != nil {
		return fmt.Errorf("xdg-open failed: %w", err)
	}
	return nil
}

func (*Platform) ExtractCommand(archive, dest string) platforms.Command {
	return platforms.Command{
		Name: "unzip",
		Args: []string{"-q", archive, "-d", dest},
	}
}

func (*Platform) BrowserCandidates() []string {
	return []string{
		"chromium",
		"chromium-browser",
		"google-chrome",
		"google-chrome-stable",
		"microsoft-edge",
		"microsoft-edge-stable",
		"brave-browser",
		"vivaldi",
	}
}
