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

package icns

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
)

const (
	mimePNG = "image/png"
	mimeJP2 = "image/jp2"

	// maxPNGScale bounds how far an embedded PNG may exceed the nominal
	// size of its slot before it is rejected unread.
	maxPNGScale = 4
)

var argbMagic = []byte("ARGB")

// Codec exposes the container parser and the variant decoder as a single
// value so the discovery engine can take it behind an interface.
type Codec struct{}

// Variants parses data and returns its raster variants in container order.
func (Codec) Variants(data []byte) ([]Variant, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return f.Variants(), nil
}

// Decode decodes a single variant to an image.
func (Codec) Decode(v Variant) (image.Image, error) {
	return Decode(v)
}

// Decode converts the payload of v into an image. PNG payloads are decoded
// as is, RLE payloads are expanded into an NRGBA image of the variant's
// nominal size. JPEG 2000 payloads have no decoder and return
// ErrUnsupportedPayload.
func Decode(v Variant) (image.Image, error) {
	vt, ok := variantTypes[v.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v.Type)
	}

	mime := mimetype.Detect(v.Data)
	switch {
	case detected(mime, mimePNG):
		cfg, err := png.DecodeConfig(bytes.NewReader(v.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to read png header of %s: %w", v.Type, err)
		}
		if cfg.Width > v.Width*maxPNGScale || cfg.Height > v.Height*maxPNGScale {
			return nil, fmt.Errorf(
				"%w: %s declares %dx%d png in a %dx%d slot",
				ErrCorrupt, v.Type, cfg.Width, cfg.Height, v.Width, v.Height,
			)
		}
		img, err := png.Decode(bytes.NewReader(v.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode png payload of %s: %w", v.Type, err)
		}
		return img, nil
	case detected(mime, mimeJP2):
		return nil, fmt.Errorf("%w: %s in %s", ErrUnsupportedPayload, mime.String(), v.Type)
	}

	switch vt.kind {
	case kindARGB:
		if !bytes.HasPrefix(v.Data, argbMagic) {
			return nil, fmt.Errorf("%w: %s in %s", ErrUnsupportedPayload, mime.String(), v.Type)
		}
		return decodeARGB(v)
	case kindMixed:
		if bytes.HasPrefix(v.Data, argbMagic) {
			return decodeARGB(v)
		}
		return decodeRGB(v)
	case kindRGB:
		return decodeRGB(v)
	case kindImage:
		return nil, fmt.Errorf("%w: %s in %s", ErrUnsupportedPayload, mime.String(), v.Type)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v.Type)
}

// detected reports whether m or one of its parents is the want type.
func detected(m *mimetype.MIME, want string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}

func decodeARGB(v Variant) (image.Image, error) {
	pixels := v.Width * v.Height
	channels, err := unpackBits(v.Data[len(argbMagic):], pixels*4)
	if err != nil {
		return nil, fmt.Errorf("failed to decode argb payload of %s: %w", v.Type, err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, v.Width, v.Height))
	for i := range pixels {
		img.Pix[i*4+0] = channels[pixels+i]
		img.Pix[i*4+1] = channels[pixels*2+i]
		img.Pix[i*4+2] = channels[pixels*3+i]
		img.Pix[i*4+3] = channels[i]
	}
	return img, nil
}

func decodeRGB(v Variant) (image.Image, error) {
	pixels := v.Width * v.Height
	data := v.Data
	img := image.NewNRGBA(image.Rect(0, 0, v.Width, v.Height))

	if len(data) == pixels*4 {
		// uncompressed xRGB
		for i := range pixels {
			img.Pix[i*4+0] = data[i*4+1]
			img.Pix[i*4+1] = data[i*4+2]
			img.Pix[i*4+2] = data[i*4+3]
			img.Pix[i*4+3] = 0xff
		}
	} else {
		if v.Type == "it32" {
			if len(data) < 4 {
				return nil, fmt.Errorf("%w: it32 payload too short", ErrCorrupt)
			}
			data = data[4:]
		}
		channels, err := unpackBits(data, pixels*3)
		if err != nil {
			return nil, fmt.Errorf("failed to decode rgb payload of %s: %w", v.Type, err)
		}
		for i := range pixels {
			img.Pix[i*4+0] = channels[i]
			img.Pix[i*4+1] = channels[pixels+i]
			img.Pix[i*4+2] = channels[pixels*2+i]
			img.Pix[i*4+3] = 0xff
		}
	}

	if len(v.Mask) == pixels {
		for i := range pixels {
			img.Pix[i*4+3] = v.Mask[i]
		}
	}

	return img, nil
}

// unpackBits expands the icns flavour of PackBits. A header byte below 0x80
// is followed by header+1 literal bytes; any other header byte repeats the
// next byte header-125 times.
func unpackBits(src []byte, want int) ([]byte, error) {
	out := make([]byte, 0, want)
	i := 0
	for len(out) < want {
		if i >= len(src) {
			return nil, fmt.Errorf("%w: rle data ended after %d of %d bytes", ErrCorrupt, len(out), want)
		}
		n := int(src[i])
		i++
		if n < 0x80 {
			count := n + 1
			if i+count > len(src) {
				return nil, fmt.Errorf("%w: rle literal run past end of data", ErrCorrupt)
			}
			out = append(out, src[i:i+count]...)
			i += count
		} else {
			count := n - 125
			if i >= len(src) {
				return nil, fmt.Errorf("%w: rle repeat run past end of data", ErrCorrupt)
			}
			b := src[i]
			i++
			for range count {
				out = append(out, b)
			}
		}
	}
	// some encoders let the final run overshoot
	return out[:want], nil
}
