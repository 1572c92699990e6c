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


package platforms

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	PlatformIDMac     = "mac"
	PlatformIDGeneric = "generic"
)

// SystemAppRoot is where macOS installs applications for all users.
const SystemAppRoot = "/Applications"

type Settings struct {
	// DataDir is the root folder for persistent files. WARNING: This value
	// should be accessed using the DataDir function in the helpers package.
	DataDir string
	// ConfigDir is the directory where the config file is stored. WARNING:
	// This value should be accessed using the ConfigDir function in the
	// helpers package.
	ConfigDir string
	// TempDir holds the log file. Expect it to be deleted.
	TempDir string
}

// Platform defines where the launcher keeps its files and where it looks
// for applications on a supported host.
type Platform interface {
	// ID returns the unique ID of this platform.
	ID() string
	// Settings returns the platform's directory layout.
	Settings() Settings
	// AppRoots returns the default roots scanned for application bundles,
	// in scan order. Config discovery.roots replaces these when set.
	AppRoots() []string
}

// DefaultAppRoots returns /Applications followed by the user's
// Applications folder when home is known.
func DefaultAppRoots(home string) []string {
	roots := []string{SystemAppRoot}
	if home != "" {
		roots = append(roots, filepath.Join(home, "Applications"))
	}
	return roots
}

// UserHome returns the current user's home directory as resolved by xdg.
func UserHome() string {
	return xdg.Home
}
