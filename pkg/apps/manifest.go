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

package apps

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"howett.net/plist"
)

// Info.plist keys read from each bundle.
const (
	KeyBundleName        = "CFBundleName"
	KeyBundleDisplayName = "CFBundleDisplayName"
	KeyBundleIdentifier  = "CFBundleIdentifier"
	KeyBundleIconFile    = "CFBundleIconFile"
)

// Document is a decoded manifest dictionary.
type Document map[string]any

// String returns the value of key if it is a non-empty string.
func (d Document) String(key string) (string, bool) {
	v, ok := d[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ManifestDecoder turns raw manifest bytes into a Document.
type ManifestDecoder interface {
	Decode(data []byte) (Document, error)
}

// PlistDecoder decodes XML, binary and OpenStep property lists.
type PlistDecoder struct{}

func (PlistDecoder) Decode(data []byte) (Document, error) {
	var v any
	if _, err := plist.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestInvalid, err)
	}
	dict, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level value is %T, not a dictionary", ErrManifestInvalid, v)
	}
	return Document(dict), nil
}

// bundleInfo is the subset of a manifest needed to build a record.
type bundleInfo struct {
	Name     string
	BundleID string
	IconFile string
}

func manifestPath(bundle string) string {
	return filepath.Join(bundle, "Contents", "Info.plist")
}

// readManifest loads and validates the manifest of bundle. With fallback
// set, a missing CFBundleName is replaced by CFBundleDisplayName or the
// bundle's directory name.
func readManifest(
	afs afero.Fs,
	dec ManifestDecoder,
	bundle string,
	fallback bool,
) (bundleInfo, error) {
	data, err := afero.ReadFile(afs, manifestPath(bundle))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return bundleInfo{}, ErrManifestMissing
		}
		return bundleInfo{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	doc, err := dec.Decode(data)
	if err != nil {
		return bundleInfo{}, err
	}

	name, ok := doc.String(KeyBundleName)
	if !ok && fallback {
		name, ok = doc.String(KeyBundleDisplayName)
		if !ok {
			name = strings.TrimSuffix(filepath.Base(bundle), filepath.Ext(bundle))
			ok = name != ""
		}
	}
	if !ok {
		return bundleInfo{}, fmt.Errorf("%w: %s", ErrMissingField, KeyBundleName)
	}

	id, ok := doc.String(KeyBundleIdentifier)
	if !ok {
		return bundleInfo{}, fmt.Errorf("%w: %s", ErrMissingField, KeyBundleIdentifier)
	}

	icon, ok := doc.String(KeyBundleIconFile)
	if !ok {
		return bundleInfo{}, fmt.Errorf("%w: %s", ErrMissingField, KeyBundleIconFile)
	}

	return bundleInfo{Name: name, BundleID: id, IconFile: icon}, nil
}

// iconPath resolves the icon container of bundle from the manifest's icon
// file name. The name is forced to the .icns extension: appended when it
// has none, replaced when it has another one. Only the base name is used
// so a manifest can't point outside the bundle's resources.
func iconPath(bundle, iconFile string) string {
	name := filepath.Base(iconFile)
	if ext := filepath.Ext(name); ext != IconExt {
		name = strings.TrimSuffix(name, ext) + IconExt
	}
	return filepath.Join(bundle, "Contents", "Resources", name)
}
