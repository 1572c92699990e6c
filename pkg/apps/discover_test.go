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
	"context"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/fixtures"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func alphaBundle() *helpers.Bundle {
	return &helpers.Bundle{
		Name:     "Alpha",
		BundleID: "com.example.alpha",
		IconFile: "AppIcon",
		Icon: fixtures.BuildICNS(
			fixtures.PNGElement("icp4", 16, green),
			fixtures.PNGElement("ic12", 64, blue),
		),
	}
}

func TestDiscover_AlphaAndBeta(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	_, err := fs.CreateBundle("/Applications", "Alpha.app", alphaBundle())
	require.NoError(t, err)
	_, err = fs.CreateBundle("/Applications", "Beta.app", &helpers.Bundle{NoManifest: true})
	require.NoError(t, err)

	got, err := NewScanner([]string{"/Applications"}, WithFs(fs.Fs)).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1, "bundle without manifest is skipped")

	app := got[0]
	assert.Equal(t, "Alpha", app.Name)
	assert.Equal(t, "com.example.alpha", app.BundleID)
	assert.Equal(t, "/Applications/Alpha.app", app.Path)

	img := decodeIcon(t, app.Icon)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds(), "icon comes from the 64x64 variant")
}

func TestDiscover_SameBundleFromTwoRoots(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	_, err := fs.CreateBundle("/Applications", "Alpha.app", alphaBundle())
	require.NoError(t, err)

	got, err := NewScanner(
		[]string{"/Applications", "/Applications"},
		WithFs(fs.Fs),
	).Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDiscover_RecordDedupKeepsDistinctPaths(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	_, err := fs.CreateBundle("/Applications", "Alpha.app", alphaBundle())
	require.NoError(t, err)
	_, err = fs.CreateBundle("/Users/me/Applications", "Alpha.app", alphaBundle())
	require.NoError(t, err)

	got, err := NewScanner(
		[]string{"/Applications", "/Users/me/Applications", "/Applications"},
		WithFs(fs.Fs),
		WithDedup(DedupRecord),
	).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/Applications/Alpha.app", got[0].Path, "equal names are ordered by path")
	assert.Equal(t, "/Users/me/Applications/Alpha.app", got[1].Path)
}

func TestDiscover_IconFailuresKeepRecord(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	_, err := fs.CreateBundle("/Applications", "NoIcon.app", &helpers.Bundle{
		Name: "NoIcon", BundleID: "com.example.noicon", IconFile: "Missing",
	})
	require.NoError(t, err)
	_, err = fs.CreateBundle("/Applications", "Corrupt.app", &helpers.Bundle{
		Name: "Corrupt", BundleID: "com.example.corrupt", IconFile: "AppIcon.icns",
		Icon: []byte("definitely not icns"),
	})
	require.NoError(t, err)
	_, err = fs.CreateBundle("/Applications", "Empty.app", &helpers.Bundle{
		Name: "Empty", BundleID: "com.example.empty", IconFile: "AppIcon",
		Icon: fixtures.BuildICNS(),
	})
	require.NoError(t, err)

	got, err := NewScanner([]string{"/Applications"}, WithFs(fs.Fs)).Discover(context.Background())
	require.NoError(t, err)

	require.Equal(t, []Application{
		{Name: "Corrupt", Path: "/Applications/Corrupt.app", BundleID: "com.example.corrupt"},
		{Name: "Empty", Path: "/Applications/Empty.app", BundleID: "com.example.empty"},
		{Name: "NoIcon", Path: "/Applications/NoIcon.app", BundleID: "com.example.noicon"},
	}, got)
}

func TestDiscover_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	_, err := fs.CreateBundle("/Applications", "NoName.app", &helpers.Bundle{
		BundleID: "com.example.noname", IconFile: "AppIcon",
	})
	require.NoError(t, err)
	_, err = fs.CreateBundle("/Applications", "NoID.app", &helpers.Bundle{
		Name: "NoID", IconFile: "AppIcon",
	})
	require.NoError(t, err)
	_, err = fs.CreateBundle("/Applications", "Alpha.app", alphaBundle())
	require.NoError(t, err)

	got, err := NewScanner([]string{"/Applications"}, WithFs(fs.Fs)).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)

	got, err = NewScanner(
		[]string{"/Applications"},
		WithFs(fs.Fs),
		WithNameFallback(true),
	).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2, "name fallback recovers a bundle without CFBundleName")
	assert.Equal(t, "NoName", got[1].Name)
}

func TestDiscover_MaxDepth(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	_, err := fs.CreateBundle("/Applications", "Alpha.app", alphaBundle())
	require.NoError(t, err)
	_, err = fs.CreateBundle("/Applications/Utilities", "Terminal.app", &helpers.Bundle{
		Name: "Terminal", BundleID: "com.apple.Terminal", IconFile: "Terminal",
	})
	require.NoError(t, err)

	shallow, err := NewScanner([]string{"/Applications"}, WithFs(fs.Fs)).Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, shallow, 1)

	deep, err := NewScanner([]string{"/Applications"}, WithFs(fs.Fs), WithMaxDepth(2)).
		Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, deep, 2)
	assert.Equal(t, "Terminal", deep[1].Name)
}

func TestDiscover_NoRoots(t *testing.T) {
	t.Parallel()

	got, err := NewScanner(nil, WithFs(helpers.NewMemoryFS().Fs)).Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NewScanner([]string{"/missing"}, WithFs(helpers.NewMemoryFS().Fs)).Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	_, err := fs.CreateBundle("/Applications", "Alpha.app", alphaBundle())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := NewScanner([]string{"/Applications"}, WithFs(fs.Fs)).Discover(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestDiscover_NeverWaitsOnClock(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	_, err := fs.CreateBundle("/Applications", "Alpha.app", &helpers.Bundle{
		Name:     "Alpha",
		BundleID: "com.example.alpha",
		IconFile: "AppIcon",
		Icon:     fixtures.BuildICNS(fixtures.PNGElement("icp4", 16, blue)),
	})
	require.NoError(t, err)

	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewScanner([]string{"/Applications"}, WithFs(fs.Fs), WithClock(clock))

	type result struct {
		apps []Application
		err  error
	}
	done := make(chan result, 1)
	go func() {
		got, err := s.Discover(context.Background())
		done <- result{got, err}
	}()

	// a fake clock that is never advanced would block any sleep or timer
	select {
	case r := <-done:
		require.NoError(t, r.err)
		require.Len(t, r.apps, 1)
		assert.Equal(t, "Alpha", r.apps[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("discover blocked on the fake clock")
	}
	assert.Equal(t, epoch, clock.Now(), "discover only reads the clock")
}

func TestDiscover_Idempotent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		fs := helpers.NewMemoryFS()
		n := rapid.IntRange(0, 8).Draw(t, "bundles")
		for i := range n {
			name := rapid.StringMatching(`[A-Za-z]{1,6}`).Draw(t, "name")
			_, err := fs.CreateBundle("/Applications", name+"-"+string(rune('a'+i))+".app", &helpers.Bundle{
				Name:     name,
				BundleID: "com.example." + name,
				IconFile: "AppIcon",
				Icon:     fixtures.BuildICNS(fixtures.PNGElement("icp4", 16, blue)),
			})
			if err != nil {
				t.Fatal(err)
			}
		}

		workers := rapid.IntRange(1, 4).Draw(t, "workers")
		s := NewScanner([]string{"/Applications"}, WithFs(fs.Fs), WithWorkers(workers))

		first, err := s.Discover(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		second, err := s.Discover(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		assert.Len(t, first, n)
		assert.Equal(t, first, second, "repeated scans return identical catalogs")
	})
}

func TestRoots(t *testing.T) {
	t.Parallel()

	pl := mocks.NewMockPlatform()
	pl.SetupBasicMock(testSettings(t), "/Applications", "/Users/me/Applications")

	cfg, err := helpers.NewTestConfig(helpers.NewMemoryFS(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, []string{"/Applications", "/Users/me/Applications"}, Roots(cfg, pl),
		"platform defaults when no roots are configured")

	cfg.SetDiscoveryRoots([]string{"/opt/apps", "relative"})
	roots := Roots(cfg, pl)
	require.Len(t, roots, 2)
	assert.Equal(t, "/opt/apps", roots[0], "configured roots replace defaults")
	assert.True(t, filepath.IsAbs(roots[1]), "relative roots are made absolute")
}

func TestDiscoverApplications(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fs := helpers.NewOSFS()
	_, err := fs.CreateBundle(root, "Alpha.app", alphaBundle())
	require.NoError(t, err)

	pl := mocks.NewMockPlatform()
	pl.SetupBasicMock(testSettings(t), root)

	cfg, err := helpers.NewTestConfig(fs, t.TempDir())
	require.NoError(t, err)

	got, err := DiscoverApplications(context.Background(), cfg, pl)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "Alpha.app"), got[0].Path)
	assert.NotEmpty(t, got[0].Icon)
}

func TestNewScannerFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := config.NewConfigWithEnv(dir, config.Values{
		ConfigSchema: config.SchemaVersion,
		Discovery: config.Discovery{
			Roots:        []string{"/srv/apps"},
			MaxDepth:     3,
			Workers:      2,
			IconMaxSize:  32,
			Dedup:        config.DedupRecord,
			NameFallback: true,
		},
	}, config.Env{})
	require.NoError(t, err)

	pl := mocks.NewMockPlatform()
	pl.SetupBasicMock(testSettings(t))

	s := NewScannerFromConfig(cfg, pl)
	assert.Equal(t, []string{"/srv/apps"}, s.roots)
	assert.Equal(t, 3, s.maxDepth)
	assert.Equal(t, 2, s.workers)
	assert.Equal(t, DedupRecord, s.dedup)
	assert.True(t, s.nameFallback)
	assert.Equal(t, PNGEncoder{MaxSize: 32}, s.encoder)
}

func testSettings(t *testing.T) platforms.Settings {
	t.Helper()
	dir := t.TempDir()
	return platforms.Settings{DataDir: dir, ConfigDir: dir, TempDir: dir}
}
