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

package session

import (
	"context"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/games"
	"pgregory.net/rapid"
)

// TestPropertySingleSession drives random launch, stop and exit sequences
// and checks the session invariants after every step.
func TestPropertySingleSession(t *testing.T) {
	t.Parallel()

	specs := map[string]games.LaunchSpec{
		"Doom":   exeSpec("Doom"),
		"Quake":  exeSpec("Quake"),
		"Chess":  webSpec("Chess"),
		"Online": {Kind: games.KindWebRemote, Target: "https://example.com"},
	}
	names := []string{"Doom", "Quake", "Chess", "Online", "Empty", ""}

	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness(specs)
		defer h.stop()

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for range steps {
			switch rapid.IntRange(0, 2).Draw(rt, "action") {
			case 0:
				h.m.Launch(rapid.SampledFrom(names).Draw(rt, "name"))
			case 1:
				h.m.Stop()
			case 2:
				if fh := h.exe.last(); fh != nil && rapid.Bool().Draw(rt, "exe") {
					fh.exit()
				} else if fh := h.surface.last(); fh != nil {
					fh.exit()
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			st, err := h.m.Status(ctx)
			cancel()
			if err != nil {
				rt.Fatalf("status: %v", err)
			}

			if st.Running != (st.Name != nil) {
				rt.Fatalf("running=%v but name=%v", st.Running, st.Name)
			}
			if st.Name != nil && *st.Name == "" {
				rt.Fatalf("running with an empty name")
			}

			live := h.exe.live() + h.surface.live()
			if live > 1 {
				rt.Fatalf("%d games alive at once", live)
			}
			if !st.Running && live != 0 {
				rt.Fatalf("idle with %d games alive", live)
			}
		}
	})
}
