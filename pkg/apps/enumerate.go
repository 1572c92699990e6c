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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// hasBundleExt reports whether name ends in .app, ignoring case.
func hasBundleExt(name string) bool {
	return strings.EqualFold(filepath.Ext(name), BundleExt)
}

// listBundles returns the bundle directories under root in directory order.
// Non-bundle subdirectories are descended into while depth < maxDepth; the
// children of root are depth 1. Bundles are never descended into.
//
// A missing root, a root that isn't a directory, and listing errors all
// produce no paths for the affected directory.
func listBundles(afs afero.Fs, root string, maxDepth int) []string {
	info, err := afs.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("root", root).Msg("application root does not exist")
		} else {
			log.Warn().Err(err).Str("root", root).Msg("error reading application root")
		}
		return nil
	}
	if !info.IsDir() {
		log.Debug().Str("root", root).Msg("application root is not a directory")
		return nil
	}

	return walkBundles(afs, root, 1, max(maxDepth, 1))
}

func walkBundles(afs afero.Fs, dir string, depth, maxDepth int) []string {
	entries, err := afero.ReadDir(afs, dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("error listing application directory")
		return nil
	}

	var paths []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		isDir := entry.IsDir()
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := afs.Stat(path)
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("skipping broken symlink")
				continue
			}
			isDir = target.IsDir()
		}
		if !isDir {
			continue
		}

		if hasBundleExt(entry.Name()) {
			paths = append(paths, path)
			continue
		}

		if depth < maxDepth {
			paths = append(paths, walkBundles(afs, path, depth+1, maxDepth)...)
		}
	}

	return paths
}
