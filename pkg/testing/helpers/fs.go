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
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/spf13/afero"
	"howett.net/plist"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOSFS creates a filesystem helper using the real filesystem (for integration tests)
func NewOSFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewOsFs(),
	}
}

// Bundle describes an application bundle to create on a test filesystem.
// Zero-value string fields are left out of the manifest.
type Bundle struct {
	// Extra is merged into the manifest dictionary.
	Extra       map[string]any
	Name        string
	DisplayName string
	BundleID    string
	IconFile    string
	// Icon is written to Contents/Resources/<IconFile>.icns when set.
	Icon []byte
	// RawManifest replaces the generated Info.plist contents.
	RawManifest []byte
	// Format is a howett.net/plist format; the zero value is XML.
	Format int
	// NoManifest leaves Contents/Info.plist out entirely.
	NoManifest bool
}

// Manifest returns the Info.plist bytes for b.
func (b *Bundle) Manifest() ([]byte, error) {
	if b.RawManifest != nil {
		return b.RawManifest, nil
	}

	dict := make(map[string]any, len(b.Extra)+4)
	for k, v := range b.Extra {
		dict[k] = v
	}
	for k, v := range map[string]string{
		"CFBundleName":        b.Name,
		"CFBundleDisplayName": b.DisplayName,
		"CFBundleIdentifier":  b.BundleID,
		"CFBundleIconFile":    b.IconFile,
	} {
		if v != "" {
			dict[k] = v
		}
	}

	format := b.Format
	if format == 0 {
		format = plist.XMLFormat
	}
	data, err := plist.MarshalIndent(dict, format, "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}

// CreateBundle creates root/dirName with the layout described by b and
// returns the bundle path.
func (h *FSHelper) CreateBundle(root, dirName string, b *Bundle) (string, error) {
	bundlePath := filepath.Join(root, dirName)
	contents := filepath.Join(bundlePath, "Contents")
	if err := h.Fs.MkdirAll(contents, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bundle directory %s: %w", bundlePath, err)
	}

	if !b.NoManifest {
		data, err := b.Manifest()
		if err != nil {
			return "", err
		}
		if err := afero.WriteFile(h.Fs, filepath.Join(contents, "Info.plist"), data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write manifest for %s: %w", bundlePath, err)
		}
	}

	if b.Icon != nil {
		if b.IconFile == "" {
			return "", errors.New("bundle icon set without an icon file name")
		}
		name := b.IconFile
		if filepath.Ext(name) == "" {
			name += ".icns"
		}
		iconPath := filepath.Join(contents, "Resources", name)
		if err := h.WriteFile(iconPath, b.Icon, 0o644); err != nil {
			return "", err
		}
	}

	return bundlePath, nil
}

// CreateDirectoryStructure creates a complex directory structure for testing
func (h *FSHelper) CreateDirectoryStructure(structure map[string]any) error {
	return h.createStructureRecursive("", structure)
}

// createStructureRecursive recursively creates directory structures
func (h *FSHelper) createStructureRecursive(basePath string, structure map[string]any) error {
	for name, content := range structure {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := h.WriteFile(fullPath, []byte(v), 0o644); err != nil {
				return err
			}
		case []byte:
			if err := h.WriteFile(fullPath, v, 0o644); err != nil {
				return err
			}
		case map[string]any:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
			}
			if err := h.createStructureRecursive(fullPath, v); err != nil {
				return err
			}
		case nil:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create empty directory %s: %w", fullPath, err)
			}
		}
	}
	return nil
}

// FileExists checks if a file exists
func (h *FSHelper) FileExists(path string) bool {
	exists, err := afero.Exists(h.Fs, path)
	if err != nil {
		return false
	}
	return exists
}

// WriteFile writes content to a file, creating parent directories.
func (h *FSHelper) WriteFile(path string, content []byte, _ int) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for file %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// NewTestConfig creates a config instance backed by a file in configDir,
// ignoring the process environment. Config files always live on the OS
// filesystem, so the helper's fs is not used.
func NewTestConfig(_ *FSHelper, configDir string) (*config.Instance, error) {
	cfg, err := config.NewConfigWithEnv(configDir, config.BaseDefaults, config.Env{})
	if err != nil {
		return nil, fmt.Errorf("failed to create test config: %w", err)
	}
	return cfg, nil
}

// NewTestConfigWithPort creates a test config that points the API at port.
func NewTestConfigWithPort(fs *FSHelper, configDir string, port int) (*config.Instance, error) {
	cfg, err := NewTestConfig(fs, configDir)
	if err != nil {
		return nil, err
	}
	cfg.SetAPIPort(port)
	return cfg, nil
}
