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

// Package service wires the launcher's long running parts together: the
// session manager and its backends, the library workflows, the API server
// and the supporting notification consumers.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/favorites"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/launchers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/broker"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/history"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/library"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/publishers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/session"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/updater"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/watcher"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/ui/picker"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	subscriberBuffer = 100

	MainWindowWidth  = 1000
	MainWindowHeight = 680
)

// Options replaces the production dependencies of a service. Zero values
// use the real implementations.
type Options struct {
	Fs           afero.Fs
	Executor     command.Executor
	Picker       picker.Picker
	Clock        clockwork.Clock
	UpdateSource updater.Source
	MQTTClient   publishers.ClientFactory
	// LookPath overrides the browser lookup of the surface backend.
	LookPath func(file string) (string, error)
}

func (o *Options) defaults(pl platforms.Platform, cfg *config.Instance) {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Executor == nil {
		o.Executor = &command.RealExecutor{}
	}
	if o.Picker == nil {
		o.Picker = picker.DialogPicker{StartDir: helpers.GamesDir(pl, cfg)}
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.UpdateSource == nil {
		o.UpdateSource = updater.GitHubSource{Repository: cfg.UpdateRepository()}
	}
}

// Service is a running launcher service.
type Service struct {
	pl      platforms.Platform
	st      *state.State
	cfg     *config.Instance
	session *session.Manager
	surface *launchers.SurfaceBackend
	addr    net.Addr
	done    chan struct{}
}

// Start runs the service with the production dependencies.
func Start(pl platforms.Platform, cfg *config.Instance) (*Service, error) {
	return StartWithOptions(pl, cfg, Options{})
}

//nolint:funlen // linear setup sequence
func StartWithOptions(
	pl platforms.Platform,
	cfg *config.Instance,
	opts Options, //nolint:gocritic // read once
) (*Service, error) {
	log.Info().Msgf("version: %s", config.AppVersion)
	opts.defaults(pl, cfg)

	if _, ok := helpers.HasUserDir(); ok {
		log.Info().Msg("using 'user' directory for storage")
	}
	if err := helpers.EnsureDirectories(pl); err != nil {
		return nil, fmt.Errorf("error setting up environment: %w", err)
	}

	gamesRoot := func() string { return helpers.GamesDir(pl, cfg) }
	if err := opts.Fs.MkdirAll(gamesRoot(), 0o750); err != nil {
		log.Warn().Err(err).Str("root", gamesRoot()).Msg("failed to create games folder")
	}

	st, ns := state.NewState(pl)
	ctx := st.GetContext()

	notifBroker := broker.NewBroker(ctx, ns)
	notifBroker.Start()

	favs := favorites.NewStore(opts.Fs, helpers.FavoritesPath(pl))

	surface := launchers.NewSurfaceBackend(launchers.SurfaceOptions{
		Config:      cfg,
		Platform:    pl,
		Executor:    opts.Executor,
		Fs:          opts.Fs,
		Clock:       opts.Clock,
		ProfilesDir: helpers.ProfilesDir(pl),
		PlayURL: func(name, relPath string) string {
			return api.PlayURL(cfg, name, relPath)
		},
		LookPath: opts.LookPath,
	})
	process := launchers.NewProcessBackend(opts.Executor, opts.Clock)

	log.Info().Msg("starting session manager")
	mgr := session.NewManager(session.Options{
		GamesRoot: gamesRoot,
		Detector:  games.FSDetector{Fs: opts.Fs},
		Backends: map[games.Kind]session.Backend{
			games.KindExe:       process,
			games.KindWebLocal:  surface,
			games.KindWebRemote: surface,
		},
		Notifications: st.Notifications,
	})
	go mgr.Run(ctx)

	lib := library.NewLibrary(library.Options{
		Fs:            opts.Fs,
		Executor:      opts.Executor,
		Platform:      pl,
		Picker:        opts.Picker,
		Favorites:     favs,
		Session:       mgr,
		GamesRoot:     gamesRoot,
		Notifications: st.Notifications,
	})

	svcs := requests.Services{
		Platform:  pl,
		Config:    cfg,
		State:     st,
		Fs:        opts.Fs,
		Favorites: favs,
		Session:   mgr,
		Library:   lib,
	}

	var cleanups []func()

	log.Info().Msg("opening launch history")
	historyDone := make(chan struct{})
	store, err := history.Open(helpers.HistoryPath(pl))
	if err != nil {
		log.Error().Err(err).Msg("error opening launch history, history disabled")
		close(historyDone)
	} else {
		svcs.History = store
		kind := func(name string) games.Kind {
			return games.Detect(opts.Fs, filepath.Join(gamesRoot(), name)).Kind
		}
		tracker := history.NewTracker(store, opts.Clock, kind)
		historyNotifs, _ := notifBroker.Subscribe(subscriberBuffer, models.NotificationSessionStatus)
		go func() {
			defer close(historyDone)
			tracker.Listen(ctx, historyNotifs)
		}()
		cleanups = append(cleanups, func() {
			<-historyDone
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing launch history")
			}
		})
	}

	if cfg.UpdatesEnabled() {
		upd := updater.NewUpdater(updater.Options{
			Config:        cfg,
			Source:        opts.UpdateSource,
			Clock:         opts.Clock,
			Notifications: st.Notifications,
			Restart:       st.RequestRestart,
		})
		svcs.Updater = upd
		go upd.Run(ctx)
	} else {
		log.Info().Msg("updates disabled")
	}

	log.Info().Msg("starting games folder watcher")
	w, err := watcher.Start(gamesRoot(), st.Notifications, opts.Clock, 0)
	if err != nil {
		log.Warn().Err(err).Msg("games folder watcher failed to start (continuing without it)")
	} else {
		cleanups = append(cleanups, func() {
			if err := w.Close(); err != nil {
				log.Debug().Err(err).Msg("error closing games folder watcher")
			}
		})
	}

	log.Info().Msg("starting publishers")
	pubs := publishers.StartMQTTPublishers(cfg, notifBroker, opts.MQTTClient)
	cleanups = append(cleanups, func() {
		for _, p := range pubs {
			p.Stop()
		}
	})

	log.Info().Msg("starting API service")
	apiNotifs, _ := notifBroker.Subscribe(subscriberBuffer)
	addr, err := api.Start(api.Options{
		Services:      svcs,
		Notifications: apiNotifs,
		Clock:         opts.Clock,
	})
	if err != nil {
		st.StopService()
		<-notifBroker.Done()
		for _, c := range cleanups {
			c()
		}
		return nil, fmt.Errorf("error starting API server: %w", err)
	}

	svc := &Service{
		pl:      pl,
		st:      st,
		cfg:     cfg,
		session: mgr,
		surface: surface,
		addr:    addr,
		done:    make(chan struct{}),
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("service context cancelled, running cleanup")
		for _, c := range cleanups {
			c()
		}
		notifBroker.Stop()
		log.Info().Msg("service cleanup completed")
		close(svc.done)
	}()

	log.Info().Str("address", addr.String()).Msg("service fully initialized")
	return svc, nil
}

// Addr is the address the API server is bound to.
func (s *Service) Addr() net.Addr {
	return s.addr
}

// Done is closed once the service has stopped and cleaned up.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Stop shuts the service down and waits for cleanup. A running game is left
// running.
func (s *Service) Stop() error {
	s.st.StopService()
	<-s.done
	return nil
}

// RestartRequested reports whether the service stopped to apply an update.
func (s *Service) RestartRequested() bool {
	return s.st.RestartRequested()
}

// StopGame asks the running game, if any, to close.
func (s *Service) StopGame() {
	s.session.Stop()
}

// OpenMainWindow shows the launcher UI in an app-mode window. The handle
// is nil when the UI was handed to the default browser instead.
func (s *Service) OpenMainWindow(ctx context.Context) (session.Handle, error) {
	return openUI(ctx, s.pl, s.cfg, s.surface)
}

// OpenMainWindow shows the UI of an already running launcher.
func OpenMainWindow(
	ctx context.Context,
	pl platforms.Platform,
	cfg *config.Instance,
) (session.Handle, error) {
	surface := launchers.NewSurfaceBackend(launchers.SurfaceOptions{
		Config:      cfg,
		Platform:    pl,
		Executor:    &command.RealExecutor{},
		ProfilesDir: helpers.ProfilesDir(pl),
	})
	return openUI(ctx, pl, cfg, surface)
}

func openUI(
	ctx context.Context,
	pl platforms.Platform,
	cfg *config.Instance,
	surface *launchers.SurfaceBackend,
) (session.Handle, error) {
	url := helpers.UIURL(cfg)
	h, err := surface.OpenWindow(ctx, url, MainWindowWidth, MainWindowHeight)
	if errors.Is(err, launchers.ErrNoBrowser) {
		log.Warn().Msg("no app-mode browser found, opening UI in the default browser")
		if openErr := pl.OpenExternal(ctx, url); openErr != nil {
			return nil, fmt.Errorf("failed to open UI: %w", openErr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open UI: %w", err)
	}
	return h, nil
}
