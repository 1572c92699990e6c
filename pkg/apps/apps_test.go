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
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// decodeIcon parses an Application.Icon data URI back into an image.
func decodeIcon(t *testing.T, icon string) image.Image {
	t.Helper()

	require.True(t, strings.HasPrefix(icon, IconDataPrefix), "icon should be a png data uri")
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(icon, IconDataPrefix))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestParseDedupMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    DedupMode
		wantErr bool
	}{
		{name: "empty defaults to path", input: "", want: DedupPath},
		{name: "path", input: "path", want: DedupPath},
		{name: "record", input: "record", want: DedupRecord},
		{name: "unknown", input: "name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDedupMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
