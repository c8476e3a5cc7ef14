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

package games

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// WebSubdirs are searched in order for an index.html.
var WebSubdirs = []string{"web", "www", "build", "dist", "public"}

// Detector resolves the LaunchSpec of a game folder.
type Detector interface {
	Detect(folder string) LaunchSpec
}

type FSDetector struct {
	Fs afero.Fs
}

func (d FSDetector) Detect(folder string) LaunchSpec {
	return Detect(d.Fs, folder)
}

func hasSuffixFold(name, suffix string) bool {
	return len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

// Detect inspects a game folder and picks the first match of: a top-level
// .html file, an index.html in one of WebSubdirs, a .url shortcut with a
// URL key, a .exe file. Anything else, including read errors, is unknown.
// A shortcut whose URL key is empty yields a WebRemote spec that isn't
// Launchable.
func Detect(fs afero.Fs, folder string) LaunchSpec {
	files, err := afero.ReadDir(fs, folder)
	if err != nil {
		log.Debug().Err(err).Str("folder", folder).Msg("failed to read game folder")
		return LaunchSpec{Kind: KindUnknown}
	}

	for _, f := range files {
		if f.Mode().IsRegular() && hasSuffixFold(f.Name(), ".html") {
			return LaunchSpec{Kind: KindWebLocal, Target: filepath.Join(folder, f.Name())}
		}
	}

	for _, sub := range WebSubdirs {
		p := filepath.Join(folder, sub, "index.html")
		if fi, err := fs.Stat(p); err == nil && fi.Mode().IsRegular() {
			return LaunchSpec{Kind: KindWebLocal, Target: p}
		}
	}

	for _, f := range files {
		if f.IsDir() || !hasSuffixFold(f.Name(), ".url") {
			continue
		}
		// only the first shortcut counts; an empty URL key still claims the
		// folder so a stray .exe doesn't launch in its place
		if u, ok := readShortcutURL(fs, filepath.Join(folder, f.Name())); ok {
			return LaunchSpec{Kind: KindWebRemote, Target: u}
		}
		break
	}

	for _, f := range files {
		if !f.IsDir() && hasSuffixFold(f.Name(), ".exe") {
			return LaunchSpec{Kind: KindExe, Target: filepath.Join(folder, f.Name())}
		}
	}

	return LaunchSpec{Kind: KindUnknown}
}

// shortcutURLLine matches a URL key line when the shortcut isn't valid INI.
var shortcutURLLine = regexp.MustCompile(`(?im)^[ \t]*URL[ \t]*=[ \t]*(.*)$`)

// readShortcutURL returns the value of the first URL key of an Internet
// Shortcut file, across all sections and repeated keys. found is false
// when the file has no URL key or can't be read.
func readShortcutURL(fs afero.Fs, path string) (u string, found bool) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("failed to read shortcut")
		return "", false
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
		AllowBooleanKeys:        true,
		AllowShadows:            true,
	}, data)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("failed to parse shortcut, scanning lines")
		m := shortcutURLLine.FindSubmatch(data)
		if m == nil {
			return "", false
		}
		return strings.TrimSpace(string(m[1])), true
	}

	for _, sec := range f.Sections() {
		if !sec.HasKey("url") {
			continue
		}
		vals := sec.Key("url").ValueWithShadows()
		if len(vals) == 0 {
			return "", true
		}
		return strings.TrimSpace(vals[0]), true
	}
	return "", false
}
