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
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps/icns"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/fixtures"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	blue  = color.NRGBA{B: 0xff, A: 0xff}
	green = color.NRGBA{G: 0xff, A: 0xff}
)

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestPNGEncoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     image.Image
		maxSize int
		wantW   int
		wantH   int
	}{
		{name: "native size", src: solid(64, 64, blue), wantW: 64, wantH: 64},
		{name: "downscale square", src: solid(512, 512, blue), maxSize: 128, wantW: 128, wantH: 128},
		{name: "downscale wide", src: solid(200, 100, blue), maxSize: 50, wantW: 50, wantH: 25},
		{name: "downscale tall", src: solid(100, 400, blue), maxSize: 100, wantW: 25, wantH: 100},
		{name: "never upscales", src: solid(16, 16, blue), maxSize: 128, wantW: 16, wantH: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := PNGEncoder{MaxSize: tt.maxSize}.Encode(tt.src)
			require.NoError(t, err)

			img := decodeIcon(t, out)
			assert.Equal(t, tt.wantW, img.Bounds().Dx())
			assert.Equal(t, tt.wantH, img.Bounds().Dy())

			r, g, b, a := img.At(img.Bounds().Dx()/2, img.Bounds().Dy()/2).RGBA()
			assert.Equal(t, [4]uint32{0, 0, 0xffff, 0xffff}, [4]uint32{r, g, b, a}, "colour survives encoding")
		})
	}
}

func TestPNGEncoder_ConcurrentUseIsStable(t *testing.T) {
	t.Parallel()

	want, err := PNGEncoder{}.Encode(solid(48, 48, green))
	require.NoError(t, err)

	const n = 16
	got := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := green
			if i%2 == 1 {
				c = blue
			}
			got[i], errs[i] = PNGEncoder{}.Encode(solid(48, 48, c))
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		if i%2 == 0 {
			assert.Equal(t, want, got[i], "pooled buffers do not leak between encodes")
		} else {
			assert.NotEqual(t, want, got[i])
		}
	}
}

func TestPNGEncoder_BestCompression(t *testing.T) {
	t.Parallel()

	assert.Equal(t, png.BestCompression, pngEncoder.CompressionLevel)

	img := image.NewNRGBA(image.Rect(0, 0, 128, 128))
	for y := range 128 {
		for x := range 128 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 2), G: uint8(y * 2), B: uint8(x ^ y), A: 0xff})
		}
	}
	var fast bytes.Buffer
	require.NoError(t, (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(&fast, img))

	out, err := PNGEncoder{}.Encode(img)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, IconDataPrefix))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(raw), fast.Len())
}

func TestPNGEncoder_EmptyImage(t *testing.T) {
	t.Parallel()

	_, err := PNGEncoder{}.Encode(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	require.Error(t, err)
}

func TestExtractIcon(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	path := "/Applications/Alpha.app/Contents/Resources/AppIcon.icns"
	require.NoError(t, fs.WriteFile(path, fixtures.BuildICNS(
		fixtures.PNGElement("icp4", 16, green),
		fixtures.PNGElement("ic12", 64, blue),
		fixtures.PNGElement("icp5", 32, green),
	), 0o644))

	out, err := extractIcon(fs.Fs, icns.Codec{}, PNGEncoder{}, path)
	require.NoError(t, err)

	img := decodeIcon(t, out)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds(), "largest variant is chosen")
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0xffff}, [3]uint32{r, g, b})
}

type failingDecoder struct {
	icns.Codec
}

func (failingDecoder) Decode(icns.Variant) (image.Image, error) {
	return nil, errors.New("boom")
}

type failingEncoder struct{}

func (failingEncoder) Encode(image.Image) (string, error) {
	return "", errors.New("boom")
}

func TestExtractIcon_Errors(t *testing.T) {
	t.Parallel()

	valid := fixtures.BuildICNS(fixtures.PNGElement("ic07", 128, blue))

	tests := []struct {
		dec     IconDecoder
		enc     IconEncoder
		wantIs  error
		name    string
		content []byte
	}{
		{name: "missing file", dec: icns.Codec{}, enc: PNGEncoder{}},
		{name: "not a container", content: []byte("PNG?"), dec: icns.Codec{}, enc: PNGEncoder{}, wantIs: icns.ErrInvalidHeader},
		{name: "no variants", content: fixtures.BuildICNS(), dec: icns.Codec{}, enc: PNGEncoder{}, wantIs: icns.ErrNoVariants},
		{
			name:    "undecodable variant",
			content: fixtures.BuildICNS(fixtures.ICNSElement{Type: "ic07", Data: []byte("garbage")}),
			dec:     icns.Codec{},
			enc:     PNGEncoder{},
			wantIs:  icns.ErrUnsupportedPayload,
		},
		{name: "decoder failure", content: valid, dec: failingDecoder{}, enc: PNGEncoder{}},
		{name: "encoder failure", content: valid, dec: icns.Codec{}, enc: failingEncoder{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := helpers.NewMemoryFS()
			path := "/icon.icns"
			if tt.content != nil {
				require.NoError(t, fs.WriteFile(path, tt.content, 0o644))
			}

			out, err := extractIcon(fs.Fs, tt.dec, tt.enc, path)
			require.Error(t, err)
			assert.Empty(t, out)
			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
