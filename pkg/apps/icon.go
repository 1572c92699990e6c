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
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps/icns"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
)

// IconDecoder lists the raster variants of an icon container and decodes
// a chosen variant.
type IconDecoder interface {
	Variants(data []byte) ([]icns.Variant, error)
	Decode(v icns.Variant) (image.Image, error)
}

// IconEncoder serialises a decoded icon to the string stored in
// Application.Icon.
type IconEncoder interface {
	Encode(img image.Image) (string, error)
}

// PNGEncoder encodes icons as PNG data URIs. Images larger than MaxSize on
// either side are scaled down to fit, keeping their aspect ratio; a MaxSize
// of 0 keeps the native size.
type PNGEncoder struct {
	MaxSize int
}

// pngBuffers shares the encoder's scratch buffers between scans.
type pngBuffers struct {
	pool sync.Pool
}

func (p *pngBuffers) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *pngBuffers) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}

var (
	pngEncoder = png.Encoder{
		CompressionLevel: png.BestCompression,
		BufferPool:       &pngBuffers{},
	}
	outBuffers = sync.Pool{New: func() any { return new(bytes.Buffer) }}
)

func (e PNGEncoder) Encode(img image.Image) (string, error) {
	img = fit(img, e.MaxSize)

	buf, _ := outBuffers.Get().(*bytes.Buffer)
	buf.Reset()
	defer outBuffers.Put(buf)

	if err := pngEncoder.Encode(buf, img); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}

	return IconDataPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fit scales img down so neither side exceeds maxSize. Smaller images are
// returned unchanged.
func fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	dw, dh := maxSize, maxSize
	if w > h {
		dh = max(1, h*maxSize/w)
	} else if h > w {
		dw = max(1, w*maxSize/h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// extractIcon loads the icon container at path, decodes its largest
// variant and encodes it with enc.
func extractIcon(afs afero.Fs, dec IconDecoder, enc IconEncoder, path string) (string, error) {
	data, err := afero.ReadFile(afs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read icon: %w", err)
	}

	variants, err := dec.Variants(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse icon: %w", err)
	}

	best, err := icns.Best(variants)
	if err != nil {
		return "", err
	}

	img, err := dec.Decode(best)
	if err != nil {
		return "", fmt.Errorf("failed to decode icon variant %s: %w", best.Type, err)
	}

	return enc.Encode(img)
}
