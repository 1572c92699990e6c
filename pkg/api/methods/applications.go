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
	"errors"
	"fmt"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps"
	"github.com/rs/zerolog/log"
)

const defaultMaxResults = 100

var ErrDiscoveryUnavailable = errors.New("application discovery is not configured")

func discover(env *requests.RequestEnv) ([]apps.Application, error) {
	if env.Discover == nil {
		return nil, ErrDiscoveryUnavailable
	}
	list, err := env.Discover(env.Context)
	if err != nil {
		return nil, fmt.Errorf("error discovering applications: %w", err)
	}
	return list, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleApplications(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received applications request")

	list, err := discover(&env)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []apps.Application{}
	}

	return models.ApplicationsResponse{Applications: list}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleApplicationsSearch(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received applications search request")

	var params models.SearchParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Warn().Err(err).Msg("invalid search params")
		return nil, models.ClientErrorf("invalid params: %w", err)
	}

	list, err := discover(&env)
	if err != nil {
		return nil, err
	}

	limit := defaultMaxResults
	if params.MaxResults != nil {
		limit = *params.MaxResults
	}
	minSimilarity := apps.DefaultMinSimilarity
	if params.MinSimilarity != nil {
		minSimilarity = *params.MinSimilarity
	}

	matches := apps.Search(list, params.Query, minSimilarity, limit)
	resp := models.SearchResponse{
		Results: make([]models.SearchResultApplication, 0, len(matches)),
		Total:   len(matches),
	}
	for _, m := range matches {
		resp.Results = append(resp.Results, models.SearchResultApplication{
			Name:     m.Name,
			Path:     m.Path,
			BundleID: m.BundleID,
			Icon:     m.Icon,
			Score:    m.Score,
		})
	}

	return resp, nil
}
