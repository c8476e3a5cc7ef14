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

package helpers

import (
	"errors"
	"fmt"
	"strings"
)

// MaxURLLength is the maximum allowed URL length for browser opening.
const MaxURLLength = 8192

// ValidateBrowserURL checks if the URL has a valid scheme for browser
// opening. Only http:// and https:// URLs are accepted.
func ValidateBrowserURL(url string) error {
	if len(url) > MaxURLLength {
		return fmt.Errorf("URL too long: %d bytes (max %d)", len(url), MaxURLLength)
	}
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return errors.New("invalid URL scheme: must be http:// or https://")
	}
	return nil
}
