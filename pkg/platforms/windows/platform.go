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

// Package windows implements the Windows platform.
package windows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

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
	return platforms.PlatformIDWindows
}

func (*Platform) Settings() platforms.Settings {
	return platforms.Settings{
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		TempDir:   filepath.Join(os.TempDir(), config.AppName),
	}
}

// OpenExternal goes through the URL protocol handler instead of "cmd /c
// start", which would split the URL on '&'.
func (p *Platform) OpenExternal(ctx context.Context, url string) error {
	err := p.cmd.Start(
		ctx,
		command.StartOptions{HideWindow: true, Detach: true},
		"rundll32", "url.dll,FileProtocolHandler", url,
	)
	if err != nil {
		return fmt.Errorf("failed to open url: %w", err)
	}
	return nil
}

func (p *Platform) OpenPath(ctx context.Context, path string) error {
	err := p.cmd.Start(ctx, command.StartOptions{Detach: true}, "explorer", path)
	if err != nil {
		return fmt.Errorf("failed to open path: %w", err)
	}
	return nil
}

// psQuote quotes a value as a PowerShell single-quoted literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (*Platform) ExtractCommand(archive, dest string) platforms.Command {
	script := "$ErrorActionPreference = 'Stop'; Expand-Archive -LiteralPath " +
		psQuote(archive) + " -DestinationPath " + psQuote(dest)
	return platforms.Command{
		Name:       "powershell.exe",
		Args:       []string{"-NoProfile", "-NonInteractive", "-Command", script},
		HideWindow: true,
	}
}

func (*Platform) BrowserCandidates() []string {
	var candidates []string
	for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles", "LocalAppData"} {
		base := os.Getenv(env)
		if base == "" {
			continue
		}
		candidates = append(candidates,
			filepath.Join(base, "Microsoft", "Edge", "Application", "msedge.exe"),
			filepath.Join(base, "Google", "Chrome", "Application", "chrome.exe"),
			filepath.Join(base, "BraveSoftware", "Brave-Browser", "Application", "brave.exe"),
		)
	}
	return append(candidates, "msedge.exe", "chrome.exe")
}
