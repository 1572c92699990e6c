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

package config

import "slices"

const (
	DedupPath   = "path"
	DedupRecord = "record"
)

type Discovery struct {
	Dedup        string   `toml:"dedup,omitempty" validate:"omitempty,oneof=path record"`
	Roots        []string `toml:"roots,omitempty,multiline" validate:"dive,required"`
	ExtraRoots   []string `toml:"extra_roots,omitempty,multiline" validate:"dive,required"`
	MaxDepth     int      `toml:"max_depth,omitempty" validate:"gte=0,lte=8"`
	Workers      int      `toml:"workers,omitempty" validate:"gte=0,lte=256"`
	IconMaxSize  int      `toml:"icon_max_size,omitempty" validate:"gte=0,lte=1024"`
	NameFallback bool     `toml:"name_fallback,omitempty"`
}

// DiscoveryRoots returns the configured roots. When empty the platform's
// default roots are used.
func (c *Instance) DiscoveryRoots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Discovery.Roots)
}

func (c *Instance) SetDiscoveryRoots(roots []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Discovery.Roots = slices.Clone(roots)
}

// DiscoveryExtraRoots returns roots scanned in addition to the configured
// or default roots, followed by any from ZAPAROO_LAUNCHER_EXTRA_ROOTS.
func (c *Instance) DiscoveryExtraRoots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	roots := slices.Clone(c.vals.Discovery.ExtraRoots)
	return append(roots, c.env.ExtraRoots...)
}

func (c *Instance) DiscoveryMaxDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return max(c.vals.Discovery.MaxDepth, 1)
}

// DiscoveryWorkers returns the worker pool size; 0 means one per CPU.
func (c *Instance) DiscoveryWorkers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Discovery.Workers
}

// DiscoveryIconMaxSize returns the largest icon side length in pixels; 0
// keeps icons at their native size.
func (c *Instance) DiscoveryIconMaxSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Discovery.IconMaxSize
}

func (c *Instance) DiscoveryDedup() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Discovery.Dedup == "" {
		return DedupPath
	}
	return c.vals.Discovery.Dedup
}

func (c *Instance) DiscoveryNameFallback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Discovery.NameFallback
}
