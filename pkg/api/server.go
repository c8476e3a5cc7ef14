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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/middleware"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/assets"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const (
	maxRequestSize    = 1 << 20
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func init() {
	// platform mime tables are unreliable for these on Windows
	for ext, typ := range map[string]string{
		".js":    "text/javascript; charset=utf-8",
		".mjs":   "text/javascript; charset=utf-8",
		".css":   "text/css; charset=utf-8",
		".json":  "application/json",
		".svg":   "image/svg+xml",
		".wasm":  "application/wasm",
		".woff2": "font/woff2",
	} {
		_ = mime.AddExtensionType(ext, typ)
	}
}

func requestEnv(ctx context.Context, svc requests.Services, remoteAddr string) requests.RequestEnv { //nolint:gocritic // copied per request
	return requests.RequestEnv{
		Context:  ctx,
		Services: svc,
		IsLocal:  middleware.IsLoopbackAddr(remoteAddr),
	}
}

func handleWSMessage(
	methodMap *MethodMap,
	svc requests.Services, //nolint:gocritic // captured once
) func(session *melody.Session, msg []byte) {
	return func(session *melody.Session, msg []byte) {
		// ping command for heartbeat operation
		if string(msg) == "ping" {
			if err := session.Write([]byte("pong")); err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		env := requestEnv(svc.State.GetContext(), svc, session.Request.RemoteAddr)
		resp, err := processRequestObject(methodMap, env, msg)
		if err != nil {
			log.Error().Err(err).Msg("error processing websocket message")
			return
		}
		if resp == nil {
			return
		}
		if err := session.Write(resp); err != nil {
			log.Error().Err(err).Msg("error sending response")
		}
	}
}

func handlePostRequest(
	methodMap *MethodMap,
	svc requests.Services, //nolint:gocritic // captured once
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize+1))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		if len(body) > maxRequestSize {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		env := requestEnv(r.Context(), svc, r.RemoteAddr)
		resp, err := processRequestObject(methodMap, env, body)
		if err != nil {
			log.Error().Err(err).Msg("error processing post request")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(resp); err != nil {
			log.Error().Err(err).Msg("error writing post response")
		}
	}
}

// broadcastNotifications forwards every notification to all websocket
// clients in the order they were sent.
func broadcastNotifications(
	ctx context.Context,
	session *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-notifications:
			if !ok {
				return
			}
			data, err := marshalNotification(notif)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification request")
				continue
			}
			if err := session.Broadcast(data); err != nil && !errors.Is(err, melody.ErrClosed) {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func marshalNotification(notif models.Notification) ([]byte, error) {
	req := models.RequestObject{
		JSONRPC: "2.0",
		Method:  notif.Method,
		Params:  notif.Params,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}
	return data, nil
}

// privateNetworkAccessMiddleware answers Private Network Access preflights
// so pages on public origins may call the local API.
func privateNetworkAccessMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions &&
			r.Header.Get("Access-Control-Request-Private-Network") == "true" {
			w.Header().Set("Access-Control-Allow-Private-Network", "true")
		}
		next.ServeHTTP(w, r)
	})
}

// fsCustom404 serves files from root and falls back to index.html for
// unknown paths so client side routes load the app.
func fsCustom404(root http.FileSystem) http.Handler {
	fileServer := http.FileServer(root)

	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		f, err := root.Open("/index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer func() { _ = f.Close() }()

		stat, err := f.Stat()
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		http.ServeContent(w, r, "index.html", stat.ModTime(), f)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")

		upath := path.Clean("/" + r.URL.Path)
		if upath == "/" || upath == "/index.html" {
			serveIndex(w, r)
			return
		}

		f, err := root.Open(upath)
		if err != nil {
			serveIndex(w, r)
			return
		}
		stat, err := f.Stat()
		_ = f.Close()
		if err != nil || stat.IsDir() {
			serveIndex(w, r)
			return
		}

		if typ := mime.TypeByExtension(path.Ext(upath)); typ != "" {
			w.Header().Set("Content-Type", typ)
		}
		fileServer.ServeHTTP(w, r)
	})
}

func appFileSystem() (http.FileSystem, error) {
	sub, err := fs.Sub(assets.App, "_app")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded app: %w", err)
	}
	return http.FS(sub), nil
}

// allowedOrigins are the CORS origins the API accepts on top of the ones
// from the config.
func allowedOrigins(extra []string) []string {
	origins := []string{
		"http://localhost",
		"http://localhost:*",
		"http://127.0.0.1",
		"http://127.0.0.1:*",
	}
	return append(origins, extra...)
}

// Options configures the API server.
type Options struct {
	Services      requests.Services
	Notifications <-chan models.Notification
	MethodMap     *MethodMap
	Clock         clockwork.Clock
}

func newRouter(
	opts Options, //nolint:gocritic // built once
	ws *melody.Melody,
	limiter *middleware.IPRateLimiter,
) (http.Handler, error) {
	svc := opts.Services
	cfg := svc.Config

	appFS, err := appFileSystem()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.HTTPIPFilterMiddleware(middleware.NewIPFilter(cfg.AllowedIPs())))
	r.Use(privateNetworkAccessMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg.AllowedOrigins()),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
		MaxAge:         300,
	}))

	handleWS := func(w http.ResponseWriter, r *http.Request) {
		if err := ws.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	}
	postHandler := handlePostRequest(opts.MethodMap, svc)

	r.Group(func(r chi.Router) {
		r.Use(middleware.HTTPRateLimitMiddleware(limiter))
		r.Use(chimiddleware.NoCache)
		for _, p := range []string{"/api", "/api/v0", "/api/v0.1"} {
			r.Get(p, handleWS)
			r.Post(p, postHandler)
		}
	})

	play := newPlayHandler(svc.Fs, func() string { return gamesRoot(svc) })
	r.Get("/play/{name}", play.redirectToIndex)
	r.Get("/play/{name}/*", play.ServeHTTP)
	r.Get("/covers/{name}/{file}", play.serveCover)

	r.Get("/app", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/app/", http.StatusFound)
	})
	r.Get("/app/*", http.StripPrefix("/app", fsCustom404(appFS)).ServeHTTP)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/app/", http.StatusFound)
	})

	return r, nil
}

// Start binds the API listener and serves in the background until the
// service context is done. The returned address is the bound one, which
// differs from the config when port 0 is used.
func Start(opts Options) (net.Addr, error) { //nolint:gocritic // built once
	svc := opts.Services
	if opts.MethodMap == nil {
		opts.MethodMap = NewDefaultMethodMap()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	ctx := svc.State.GetContext()

	limiter := middleware.NewIPRateLimiter(opts.Clock)
	limiter.StartCleanup(ctx)

	ws := melody.New()
	ws.Config.MaxMessageSize = maxRequestSize
	// the IP filter and CORS middleware guard upgrades
	ws.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	ws.HandleMessage(middleware.WebSocketRateLimitHandler(limiter, handleWSMessage(opts.MethodMap, svc)))

	router, err := newRouter(opts, ws, limiter)
	if err != nil {
		return nil, err
	}

	addr := svc.Config.APIListen()
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go broadcastNotifications(ctx, ws, opts.Notifications)

	go func() {
		log.Info().Str("address", listener.Addr().String()).Msg("starting API server")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		log.Debug().Msg("closing API server via context cancellation")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := ws.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing websocket sessions")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("error shutting down API server")
		}
	}()

	return listener.Addr(), nil
}
