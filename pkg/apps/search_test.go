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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSearch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pokemon", normalizeSearch("  Pokémon "))
	assert.Equal(t, normalizeSearch("POKEMON"), normalizeSearch("pokémon"))
	assert.Empty(t, normalizeSearch("   "))
}

func TestSearch(t *testing.T) {
	t.Parallel()

	list := []Application{
		{Name: "Calculator", Path: "/Applications/Calculator.app", BundleID: "com.apple.calculator"},
		{Name: "Calendar", Path: "/Applications/Calendar.app", BundleID: "com.apple.iCal"},
		{Name: "Mail", Path: "/Applications/Mail.app", BundleID: "com.apple.mail"},
		{Name: "Safari", Path: "/Applications/Safari.app", BundleID: "com.apple.Safari"},
		{Name: "Visual Studio Code", Path: "/Applications/VSCode.app", BundleID: "com.microsoft.VSCode"},
	}

	tests := []struct {
		name      string
		query     string
		wantPaths []string
		limit     int
	}{
		{
			name:      "prefix matches rank first",
			query:     "cal",
			wantPaths: []string{"/Applications/Calculator.app", "/Applications/Calendar.app"},
		},
		{
			name:      "limit caps results",
			query:     "cal",
			limit:     1,
			wantPaths: []string{"/Applications/Calculator.app"},
		},
		{
			name:      "substring of name",
			query:     "studio",
			wantPaths: []string{"/Applications/VSCode.app"},
		},
		{
			name:      "bundle identifier",
			query:     "microsoft",
			wantPaths: []string{"/Applications/VSCode.app"},
		},
		{
			name:      "fuzzy typo",
			query:     "safarj",
			wantPaths: []string{"/Applications/Safari.app"},
		},
		{
			name:  "no match",
			query: "zzzzzz",
		},
		{
			name:  "blank query",
			query: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matches := Search(list, tt.query, DefaultMinSimilarity, tt.limit)
			var got []string
			for _, m := range matches {
				got = append(got, m.Path)
			}
			assert.Equal(t, tt.wantPaths, got)
		})
	}
}

func TestSearch_Scores(t *testing.T) {
	t.Parallel()

	list := []Application{
		{Name: "Text Mail", Path: "/b"},
		{Name: "Mail", Path: "/a"},
	}

	matches := Search(list, "mail", DefaultMinSimilarity, 0)
	if assert.Len(t, matches, 2) {
		assert.Equal(t, "/a", matches[0].Path, "prefix beats substring")
		assert.InDelta(t, 1.1, matches[0].Score, 0.0001)
		assert.InDelta(t, 1.0, matches[1].Score, 0.0001)
	}
}
