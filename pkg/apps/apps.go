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

// Package apps discovers installed application bundles. A scan lists the
// .app directories under a set of roots, reads each bundle's Info.plist and
// icon container, and returns a deduplicated catalog sorted by name.
//
// Failures are resolved at the smallest possible scope: an unreadable root
// contributes nothing, a bundle with a bad manifest is skipped, and a bundle
// whose icon can't be extracted is still listed with an empty icon.
package apps

import (
	"errors"
	"fmt"
)

const (
	// BundleExt is the directory extension of an application bundle.
	BundleExt = ".app"
	// IconExt is the canonical extension of a bundle's icon container.
	IconExt = ".icns"
	// IconDataPrefix is prepended to the base64 PNG in Application.Icon.
	IconDataPrefix = "data:image/png;base64,"
)

var (
	ErrManifestMissing = errors.New("bundle manifest not found")
	ErrManifestInvalid = errors.New("bundle manifest is invalid")
	ErrMissingField    = errors.New("bundle manifest is missing a required field")
)

// Application is a single entry in the catalog.
type Application struct {
	Name     string `json:"name" yaml:"name" csv:"name"`
	Path     string `json:"path" yaml:"path" csv:"path"`
	BundleID string `json:"bundle_id" yaml:"bundle_id" csv:"bundle_id"`
	// Icon is a data URI of a PNG image, or empty when no icon could be
	// extracted from the bundle.
	Icon string `json:"icon" yaml:"icon" csv:"icon"`
}

// DedupMode selects the identity used to merge records found more than once
// during a scan.
type DedupMode string

const (
	// DedupPath treats records with the same bundle path as duplicates and
	// keeps the first one inserted.
	DedupPath DedupMode = "path"
	// DedupRecord only merges records where every field is equal.
	DedupRecord DedupMode = "record"
)

// ParseDedupMode converts a config value to a DedupMode. An empty string
// means DedupPath.
func ParseDedupMode(s string) (DedupMode, error) {
	switch DedupMode(s) {
	case "", DedupPath:
		return DedupPath, nil
	case DedupRecord:
		return DedupRecord, nil
	default:
		return "", fmt.Errorf("unknown dedup mode: %q", s)
	}
}
