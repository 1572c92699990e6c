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
	"errors"
	"path/filepath"
	"runtime"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps/icns"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Scanner runs application discovery over a fixed list of roots. A Scanner
// holds no results between calls and may be reused.
type Scanner struct {
	fs           afero.Fs
	manifests    ManifestDecoder
	icons        IconDecoder
	encoder      IconEncoder
	clock        clockwork.Clock
	dedup        DedupMode
	roots        []string
	workers      int
	maxDepth     int
	nameFallback bool
}

type Option func(*Scanner)

// WithFs sets the filesystem the scanner reads from.
func WithFs(afs afero.Fs) Option {
	return func(s *Scanner) { s.fs = afs }
}

func WithManifestDecoder(dec ManifestDecoder) Option {
	return func(s *Scanner) { s.manifests = dec }
}

func WithIconDecoder(dec IconDecoder) Option {
	return func(s *Scanner) { s.icons = dec }
}

func WithIconEncoder(enc IconEncoder) Option {
	return func(s *Scanner) { s.encoder = enc }
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Scanner) { s.clock = clock }
}

// WithWorkers bounds the number of bundles processed at once. Values below
// 1 mean one worker per CPU.
func WithWorkers(n int) Option {
	return func(s *Scanner) { s.workers = n }
}

// WithMaxDepth sets how many directory levels below each root are searched
// for bundles. 1 only looks at the root's direct children.
func WithMaxDepth(depth int) Option {
	return func(s *Scanner) { s.maxDepth = depth }
}

func WithDedup(mode DedupMode) Option {
	return func(s *Scanner) { s.dedup = mode }
}

// WithNameFallback allows bundles without CFBundleName to be named from
// CFBundleDisplayName or their directory name.
func WithNameFallback(enabled bool) Option {
	return func(s *Scanner) { s.nameFallback = enabled }
}

// NewScanner creates a scanner for roots. Without options it reads the OS
// filesystem, decodes plist manifests and icns icons, and encodes icons as
// native size PNG data URIs.
func NewScanner(roots []string, opts ...Option) *Scanner {
	s := &Scanner{
		roots:     roots,
		fs:        afero.NewOsFs(),
		manifests: PlistDecoder{},
		icons:     icns.Codec{},
		encoder:   PNGEncoder{},
		clock:     clockwork.NewRealClock(),
		dedup:     DedupPath,
		maxDepth:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	return s
}

// Discover scans every root and returns the sorted catalog. Per-root,
// per-bundle and per-icon failures never fail the scan; the only error is
// the context's, when it's cancelled before the scan finishes.
func (s *Scanner) Discover(ctx context.Context) ([]Application, error) {
	start := s.clock.Now()

	// roots are listed concurrently, each keeping its own order
	candidates := make([][]string, len(s.roots))
	var rg errgroup.Group
	for i, root := range s.roots {
		rg.Go(func() error {
			candidates[i] = listBundles(s.fs, root, s.maxDepth)
			return nil
		})
	}
	_ = rg.Wait()

	found := newCatalog(s.dedup)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

dispatch:
	for _, paths := range candidates {
		for _, path := range paths {
			if gctx.Err() != nil {
				break dispatch
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if app, ok := s.scanBundle(path); ok {
					found.add(app)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := found.sorted()
	log.Info().
		Int("roots", len(s.roots)).
		Int("applications", len(result)).
		Dur("elapsed", s.clock.Since(start)).
		Msg("application discovery finished")

	return result, nil
}

// scanBundle builds the record for one bundle. It returns false when the
// bundle has no usable manifest.
func (s *Scanner) scanBundle(path string) (Application, bool) {
	info, err := readManifest(s.fs, s.manifests, path, s.nameFallback)
	if err != nil {
		if errors.Is(err, ErrManifestMissing) {
			log.Debug().Str("bundle", path).Msg("skipping bundle without manifest")
		} else {
			log.Debug().Err(err).Str("bundle", path).Msg("skipping bundle with invalid manifest")
		}
		return Application{}, false
	}

	app := Application{
		Name:     info.Name,
		Path:     path,
		BundleID: info.BundleID,
	}

	icon, err := extractIcon(s.fs, s.icons, s.encoder, iconPath(path, info.IconFile))
	if err != nil {
		log.Debug().Err(err).Str("bundle", path).Msg("no icon for bundle")
	} else {
		app.Icon = icon
	}

	return app, true
}

// Roots returns the roots scanned for cfg on pl: the configured roots when
// set, otherwise the platform defaults, followed by any extra roots.
// Relative roots are made absolute.
func Roots(cfg *config.Instance, pl platforms.Platform) []string {
	roots := cfg.DiscoveryRoots()
	if len(roots) == 0 {
		roots = pl.AppRoots()
	}
	roots = append(roots, cfg.DiscoveryExtraRoots()...)

	out := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			log.Warn().Err(err).Str("root", root).Msg("error resolving application root")
			continue
		}
		out = append(out, abs)
	}
	return out
}

// NewScannerFromConfig creates a scanner using the roots and discovery
// settings of cfg on pl. Extra options are applied last.
func NewScannerFromConfig(cfg *config.Instance, pl platforms.Platform, opts ...Option) *Scanner {
	dedup, err := ParseDedupMode(cfg.DiscoveryDedup())
	if err != nil {
		log.Warn().Err(err).Msg("using default dedup mode")
		dedup = DedupPath
	}

	base := []Option{
		WithWorkers(cfg.DiscoveryWorkers()),
		WithMaxDepth(cfg.DiscoveryMaxDepth()),
		WithDedup(dedup),
		WithNameFallback(cfg.DiscoveryNameFallback()),
		WithIconEncoder(PNGEncoder{MaxSize: cfg.DiscoveryIconMaxSize()}),
	}
	return NewScanner(Roots(cfg, pl), append(base, opts...)...)
}

// DiscoverApplications runs a single discovery scan with the settings of
// cfg on pl.
func DiscoverApplications(
	ctx context.Context,
	cfg *config.Instance,
	pl platforms.Platform,
) ([]Application, error) {
	return NewScannerFromConfig(cfg, pl).Discover(ctx)
}
