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
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMinSimilarity is the Jaro-Winkler score a name must reach to be
// returned as a fuzzy match.
const DefaultMinSimilarity float32 = 0.8

// Match is a search result.
type Match struct {
	Application `yaml:",inline"`
	Score       float32 `json:"score" yaml:"score" csv:"score"`
}

// normalizeSearch folds case and strips diacritics so "Pokémon" and
// "POKEMON" compare equal.
func normalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// Search returns the applications matching query, best first. Names or
// bundle IDs containing the query score 1, or 1.1 when the name starts
// with it; other names are scored with Jaro-Winkler similarity and kept
// when they reach minSimilarity. Equal scores keep catalog order. A limit
// above 0 caps the number of results.
func Search(list []Application, query string, minSimilarity float32, limit int) []Match {
	q := normalizeSearch(query)
	if q == "" {
		return nil
	}

	var matches []Match
	for _, app := range list {
		name := normalizeSearch(app.Name)

		var score float32
		switch {
		case strings.HasPrefix(name, q):
			score = 1.1
		case strings.Contains(name, q), strings.Contains(cases.Fold().String(app.BundleID), q):
			score = 1
		default:
			score = edlib.JaroWinklerSimilarity(q, name)
			if score < minSimilarity {
				continue
			}
			log.Debug().
				Str("query", q).
				Str("candidate", name).
				Float32("similarity", score).
				Msg("fuzzy application match")
		}

		matches = append(matches, Match{Application: app, Score: score})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
