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

// Package systray is the desktop tray front end of the launcher.
package systray

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"fyne.io/systray"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/assets"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/session"
	"github.com/nixinwang/dialog"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"
)

// Launcher is the part of the running service the tray drives.
type Launcher interface {
	StopGame()
	OpenMainWindow(ctx context.Context) (session.Handle, error)
}

type actions struct {
	cfg       *config.Instance
	pl        platforms.Platform
	launcher  Launcher
	copyText  func(text string) error
	showAbout func(title, msg string)
	now       func() time.Time
}

func newActions(cfg *config.Instance, pl platforms.Platform, l Launcher) *actions {
	return &actions{
		cfg:      cfg,
		pl:       pl,
		launcher: l,
		copyText: func(text string) error {
			if err := clipboard.Init(); err != nil {
				return fmt.Errorf("failed to initialize clipboard: %w", err)
			}
			clipboard.Write(clipboard.FmtText, []byte(text))
			return nil
		},
		showAbout: func(title, msg string) {
			dialog.Message("%s", msg).Title(title).Info()
		},
		now: time.Now,
	}
}

func (a *actions) openLauncher() {
	if _, err := a.launcher.OpenMainWindow(context.Background()); err != nil {
		log.Error().Err(err).Msg("failed to open launcher window")
	}
}

func (a *actions) openPath(path, what string) {
	if err := a.pl.OpenPath(context.Background(), path); err != nil {
		log.Error().Err(err).Str("path", path).Msgf("failed to open %s", what)
	}
}

func (a *actions) openGamesFolder() {
	a.openPath(helpers.GamesDir(a.pl, a.cfg), "games folder")
}

func (a *actions) editConfig() {
	a.openPath(filepath.Join(helpers.ConfigDir(a.pl), config.CfgFile), "config file")
}

func (a *actions) viewLog() {
	a.openPath(helpers.LogFilePath(a.pl), "log file")
}

func (a *actions) copyAddress() {
	if err := a.copyText(helpers.UIURL(a.cfg)); err != nil {
		log.Error().Err(err).Msg("failed to copy address")
	}
}

func (a *actions) aboutText() string {
	return fmt.Sprintf("%s\nVersion v%s\n\n© %d Zaparoo Contributors\nLicense: GPLv3\n\nwww.zaparoo.org",
		config.DisplayName, config.AppVersion, a.now().Year())
}

func (a *actions) about() {
	a.showAbout("About "+config.DisplayName, a.aboutText())
}

func onReady(a *actions, icon []byte, quit <-chan struct{}) func() {
	return func() {
		systray.SetIcon(icon)
		if runtime.GOOS != "darwin" {
			systray.SetTitle(config.DisplayName)
		}
		systray.SetTooltip(config.DisplayName)

		mOpen := systray.AddMenuItem("Open Launcher", "Open the launcher window")
		mGames := systray.AddMenuItem("Games Folder", "Open the games folder")
		mStop := systray.AddMenuItem("Stop Game", "Close the running game")
		systray.AddSeparator()

		mAddress := systray.AddMenuItem("Address: "+helpers.LocalAddress(a.cfg), "Copy the launcher address")
		mEditConfig := systray.AddMenuItem("Edit Config", "Edit launcher config file")
		mOpenLog := systray.AddMenuItem("View Log", "View launcher log file")

		systray.AddSeparator()
		mVersion := systray.AddMenuItem("Version "+config.AppVersion, "")
		mVersion.Disable()
		mAbout := systray.AddMenuItem("About "+config.DisplayName, "")

		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Quit the launcher")

		go func() {
			for {
				select {
				case <-mOpen.ClickedCh:
					a.openLauncher()
				case <-mGames.ClickedCh:
					a.openGamesFolder()
				case <-mStop.ClickedCh:
					a.launcher.StopGame()
				case <-mAddress.ClickedCh:
					a.copyAddress()
				case <-mEditConfig.ClickedCh:
					a.editConfig()
				case <-mOpenLog.ClickedCh:
					a.viewLog()
				case <-mAbout.ClickedCh:
					a.about()
				case <-mQuit.ClickedCh:
					systray.Quit()
					return
				case <-quit:
					systray.Quit()
					return
				}
			}
		}()
	}
}

// Run shows the tray icon and blocks until the user quits or quit is
// closed. Must be called from the main goroutine.
func Run(cfg *config.Instance, pl platforms.Platform, l Launcher, quit <-chan struct{}) {
	a := newActions(cfg, pl, l)
	systray.Run(onReady(a, assets.TrayIcon(), quit), func() {
		log.Info().Msg("tray exited")
	})
}

// UI adapts Run to the launcher's front end hook.
func UI(cfg *config.Instance, pl platforms.Platform) func(*service.Service, <-chan struct{}) {
	return func(svc *service.Service, quit <-chan struct{}) {
		Run(cfg, pl, svc, quit)
	}
}
