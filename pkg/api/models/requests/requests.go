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


package requests

import (
	"context"
	"encoding/json"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/google/uuid"
)

// DiscoverFunc runs an application scan for a request.
type DiscoverFunc func(ctx context.Context) ([]apps.Application, error)

type RequestEnv struct {
	Context  context.Context
	Platform platforms.Platform
	Config   *config.Instance
	Discover DiscoverFunc
	Params   json.RawMessage
	ID       uuid.UUID
}
