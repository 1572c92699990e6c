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


package methods

import (
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleSettings(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings request")

	cfg := env.Config
	resp := models.SettingsResponse{
		DebugLogging: cfg.DebugLogging(),
		Roots:        make([]string, 0),
		ExtraRoots:   make([]string, 0),
		ScannedRoots: make([]string, 0),
		MaxDepth:     cfg.DiscoveryMaxDepth(),
		Workers:      cfg.DiscoveryWorkers(),
		IconMaxSize:  cfg.DiscoveryIconMaxSize(),
		Dedup:        cfg.DiscoveryDedup(),
		NameFallback: cfg.DiscoveryNameFallback(),
	}

	resp.Roots = append(resp.Roots, cfg.DiscoveryRoots()...)
	resp.ExtraRoots = append(resp.ExtraRoots, cfg.DiscoveryExtraRoots()...)
	if env.Platform != nil {
		resp.ScannedRoots = append(resp.ScannedRoots, apps.Roots(cfg, env.Platform)...)
	}

	return resp, nil
}
