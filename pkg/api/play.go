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
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/assets"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// maxHTMLSize caps pages read into memory for shim injection.
const maxHTMLSize = 32 << 20

var (
	reHeadTag = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
	reHTMLTag = regexp.MustCompile(`(?i)<html(\s[^>]*)?>`)
)

// PlayPath is the server path of a file inside a bundled game. rel uses
// forward slashes and is relative to the game folder.
func PlayPath(name, rel string) string {
	parts := strings.Split(strings.TrimPrefix(rel, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/play/" + url.PathEscape(name) + "/" + strings.Join(parts, "/")
}

// PlayURL is PlayPath on the local API address.
func PlayURL(cfg *config.Instance, name, rel string) string {
	return "http://" + helpers.LocalAddress(cfg) + PlayPath(name, rel)
}

// InjectShim adds the navigation shim script to an HTML page, right after
// <head> when there is one. name is exposed to the shim as the default
// window title.
func InjectShim(page []byte, name string) []byte {
	encoded, err := json.Marshal(name)
	if err != nil {
		encoded = []byte(`""`)
	}

	var script bytes.Buffer
	script.WriteString("<script>window.__zaparooGame=")
	script.Write(encoded)
	script.WriteString(";\n")
	script.WriteString(assets.Shim)
	script.WriteString("</script>")

	for _, re := range []*regexp.Regexp{reHeadTag, reHTMLTag} {
		if loc := re.FindIndex(page); loc != nil {
			out := make([]byte, 0, len(page)+script.Len())
			out = append(out, page[:loc[1]]...)
			out = append(out, script.Bytes()...)
			return append(out, page[loc[1]:]...)
		}
	}
	return append(script.Bytes(), page...)
}

func gamesRoot(svc requests.Services) string { //nolint:gocritic // read only
	return helpers.GamesDir(svc.Platform, svc.Config)
}

type playHandler struct {
	fs   afero.Fs
	root func() string
}

func newPlayHandler(fs afero.Fs, root func() string) *playHandler {
	return &playHandler{fs: fs, root: root}
}

// urlParam returns a decoded route parameter. chi hands back escaped
// values when routing used the raw path.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

// gameFolder resolves the game named in the request, or "" if the name
// can't be a game.
func (h *playHandler) gameFolder(r *http.Request) (name, folder string) {
	name = urlParam(r, "name")
	if !games.ValidName(name) {
		return "", ""
	}
	return name, filepath.Join(h.root(), name)
}

// redirectToIndex sends /play/{name} to the page the game launches with.
func (h *playHandler) redirectToIndex(w http.ResponseWriter, r *http.Request) {
	name, folder := h.gameFolder(r)
	if folder == "" {
		http.NotFound(w, r)
		return
	}
	spec := games.Detect(h.fs, folder)
	if spec.Kind != games.KindWebLocal {
		http.NotFound(w, r)
		return
	}
	rel, err := filepath.Rel(folder, spec.Target)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, PlayPath(name, filepath.ToSlash(rel)), http.StatusFound)
}

func (h *playHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, folder := h.gameFolder(r)
	if folder == "" {
		http.NotFound(w, r)
		return
	}

	rel := path.Clean("/" + urlParam(r, "*"))
	if rel == "/" {
		h.redirectToIndex(w, r)
		return
	}
	p := filepath.Join(folder, filepath.FromSlash(rel))

	fi, err := h.fs.Stat(p)
	if err == nil && fi.IsDir() {
		p = filepath.Join(p, "index.html")
		fi, err = h.fs.Stat(p)
	}
	if err != nil || !fi.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	if isHTMLPath(p) {
		h.serveHTML(w, r, name, p, fi.Size())
		return
	}
	h.serveFile(w, r, p)
}

func (h *playHandler) serveHTML(w http.ResponseWriter, r *http.Request, name, p string, size int64) {
	if size > maxHTMLSize {
		log.Warn().Str("path", p).Int64("size", size).Msg("page too large for shim, serving as is")
		h.serveFile(w, r, p)
		return
	}

	page, err := afero.ReadFile(h.fs, p)
	if err != nil {
		log.Error().Err(err).Str("path", p).Msg("failed to read game page")
		http.Error(w, "failed to read page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(InjectShim(page, name)); err != nil {
		log.Debug().Err(err).Str("path", p).Msg("failed to write game page")
	}
}

func (h *playHandler) serveFile(w http.ResponseWriter, r *http.Request, p string) {
	f, err := h.fs.Open(p)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

// serveCover serves an image file sitting directly in a game folder.
func (h *playHandler) serveCover(w http.ResponseWriter, r *http.Request) {
	_, folder := h.gameFolder(r)
	file := urlParam(r, "file")
	if folder == "" || !games.ValidName(file) || !games.IsImage(file) {
		http.NotFound(w, r)
		return
	}
	p := filepath.Join(folder, file)
	if fi, err := h.fs.Stat(p); err != nil || !fi.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "max-age=300")
	h.serveFile(w, r, p)
}

func isHTMLPath(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".html" || ext == ".htm"
}
