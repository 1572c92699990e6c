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


package models

import "github.com/ZaparooProject/zaparoo-launcher/pkg/apps"

type ApplicationsResponse struct {
	Applications []apps.Application `json:"applications"`
}

type SearchResultApplication struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	BundleID string  `json:"bundle_id"`
	Icon     string  `json:"icon"`
	Score    float32 `json:"score"`
}

type SearchResponse struct {
	Results []SearchResultApplication `json:"results"`
	Total   int                       `json:"total"`
}

type SettingsResponse struct {
	Dedup        string   `json:"dedup"`
	Roots        []string `json:"roots"`
	ExtraRoots   []string `json:"extraRoots"`
	ScannedRoots []string `json:"scannedRoots"`
	MaxDepth     int      `json:"maxDepth"`
	Workers      int      `json:"workers"`
	IconMaxSize  int      `json:"iconMaxSize"`
	DebugLogging bool     `json:"debugLogging"`
	NameFallback bool     `json:"nameFallback"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}
