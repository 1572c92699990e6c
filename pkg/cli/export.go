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


package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the accepted values of the -format flag.
var Formats = []string{FormatJSON, FormatCSV, FormatYAML}

func checkFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownFormat, format, Formats)
	}
	return nil
}

// writeRows encodes rows to w in format. JSON is indented and an empty
// list is written as [] rather than null.
func writeRows[T any](w io.Writer, format string, rows []T) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if rows == nil {
		rows = []T{}
	}

	switch format {
	case FormatCSV:
		if err := gocsv.Marshal(&rows, w); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
	}
	return nil
}

// WriteCatalog writes the application catalog to w.
func WriteCatalog(w io.Writer, format string, list []apps.Application) error {
	return writeRows(w, format, list)
}

// WriteMatches writes search results to w.
func WriteMatches(w io.Writer, format string, matches []apps.Match) error {
	return writeRows(w, format, matches)
}

func stripIcons(list []apps.Application) []apps.Application {
	out := slices.Clone(list)
	for i := range out {
		out[i].Icon = ""
	}
	return out
}
