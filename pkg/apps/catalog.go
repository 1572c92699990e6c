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
	"cmp"
	"slices"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"golang.org/x/text/cases"
)

// catalog is the set scan workers insert records into. It is safe for
// concurrent use.
type catalog struct {
	seen  map[any]struct{}
	mode  DedupMode
	items []Application
	mu    syncutil.Mutex
}

func newCatalog(mode DedupMode) *catalog {
	return &catalog{
		mode: mode,
		seen: make(map[any]struct{}),
	}
}

func (c *catalog) key(app Application) any {
	if c.mode == DedupRecord {
		return app
	}
	return app.Path
}

// add inserts app unless a record with the same identity is already
// present. It reports whether app was inserted.
func (c *catalog) add(app Application) bool {
	k := c.key(app)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[k]; ok {
		return false
	}
	c.seen[k] = struct{}{}
	c.items = append(c.items, app)
	return true
}

// sorted returns a copy of the records in catalog order.
func (c *catalog) sorted() []Application {
	c.mu.Lock()
	out := slices.Clone(c.items)
	c.mu.Unlock()

	SortApplications(out)
	return out
}

// SortApplications orders apps by case-folded name, then by path so that
// names equal under folding still come out in a fixed order.
func SortApplications(apps []Application) {
	folder := cases.Fold()
	keys := make(map[string]string, len(apps))
	for _, app := range apps {
		if _, ok := keys[app.Name]; !ok {
			keys[app.Name] = folder.String(app.Name)
		}
	}

	slices.SortStableFunc(apps, func(a, b Application) int {
		if c := cmp.Compare(keys[a.Name], keys[b.Name]); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}
