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
	"image"
	"image/color"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nrgbaAt(t *testing.T, img image.Image, x, y int) color.NRGBA {
	t.Helper()
	c, ok := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	require.True(t, ok)
	return c
}

func TestDecodePNG(t *testing.T) {
	t.Parallel()

	blue := color.NRGBA{B: 0xff, A: 0xff}
	v := Variant{Type: "icp6", Width: 64, Height: 64, Data: fixtures.SolidPNG(64, 64, blue)}

	img, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	assert.Equal(t, blue, nrgbaAt(t, img, 10, 10))
}

func TestDecodePNGSmallerThanSlot(t *testing.T) {
	t.Parallel()

	red := color.NRGBA{R: 0xff, A: 0xff}
	v := Variant{Type: "ic10", Width: 1024, Height: 1024, Data: fixtures.SolidPNG(8, 8, red)}

	img, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
}

func TestDecodePNGOversizedForSlot(t *testing.T) {
	t.Parallel()

	red := color.NRGBA{R: 0xff, A: 0xff}
	v := Variant{Type: "icp4", Width: 16, Height: 16, Data: fixtures.SolidPNG(65, 16, red)}

	_, err := Decode(v)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "65x16")

	v.Data = fixtures.SolidPNG(64, 64, red)
	_, err = Decode(v)
	require.NoError(t, err, "four times the slot size is still accepted")
}

func TestDecodeARGB(t *testing.T) {
	t.Parallel()

	c := color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}
	elem := fixtures.ARGBElement("ic04", 16, c)
	v := Variant{Type: elem.Type, Width: 16, Height: 16, Data: elem.Data}

	img, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	assert.Equal(t, c, nrgbaAt(t, img, 15, 15))
}

func TestDecodeARGBRequiresMagic(t *testing.T) {
	t.Parallel()

	v := Variant{Type: "ic05", Width: 32, Height: 32, Data: []byte("XXXX")}
	_, err := Decode(v)
	require.ErrorIs(t, err, ErrUnsupportedPayload)
}

func TestDecodeRGBWithMask(t *testing.T) {
	t.Parallel()

	pixels := make([]color.NRGBA, 16*16)
	for i := range pixels {
		pixels[i] = color.NRGBA{R: byte(i), G: 0x40, B: 0x80}
	}
	alpha := bytes.Repeat([]byte{0x7f}, 16*16)
	data := fixtures.BuildICNS(
		fixtures.RGBElement("is32", pixels),
		fixtures.MaskElement("s8mk", alpha),
	)

	f, err := Parse(data)
	require.NoError(t, err)
	best, err := f.Best()
	require.NoError(t, err)

	img, err := Decode(best)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 17, G: 0x40, B: 0x80, A: 0x7f}, nrgbaAt(t, img, 1, 1))
}

func TestDecodeRGBWithoutMaskIsOpaque(t *testing.T) {
	t.Parallel()

	pixels := make([]color.NRGBA, 128*128)
	for i := range pixels {
		pixels[i] = color.NRGBA{G: 0xff}
	}
	elem := fixtures.RGBElement("it32", pixels)
	v := Variant{Type: elem.Type, Width: 128, Height: 128, Data: elem.Data}

	img, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0xff}, nrgbaAt(t, img, 127, 0))
}

func TestDecodeRGBUncompressed(t *testing.T) {
	t.Parallel()

	data := make([]byte, 16*16*4)
	for i := 0; i < len(data); i += 4 {
		data[i+1], data[i+2], data[i+3] = 1, 2, 3
	}
	v := Variant{Type: "is32", Width: 16, Height: 16, Data: data}

	img, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}, nrgbaAt(t, img, 0, 0))
}

func TestDecodeTruncatedRLE(t *testing.T) {
	t.Parallel()

	v := Variant{Type: "il32", Width: 32, Height: 32, Data: []byte{0x05, 1, 2}}
	_, err := Decode(v)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeJPEG2000Unsupported(t *testing.T) {
	t.Parallel()

	jp2 := []byte{
		0x00, 0x00, 0x00, 0x0c, 0x6a, 0x50, 0x20, 0x20, 0x0d, 0x0a, 0x87, 0x0a,
		0x00, 0x00, 0x00, 0x14, 0x66, 0x74, 0x79, 0x70, 0x6a, 0x70, 0x32, 0x20,
	}
	v := Variant{Type: "ic08", Width: 256, Height: 256, Data: jp2}

	_, err := Decode(v)
	require.ErrorIs(t, err, ErrUnsupportedPayload)
}

func TestDecodeGarbageImageElement(t *testing.T) {
	t.Parallel()

	v := Variant{Type: "ic10", Width: 1024, Height: 1024, Data: []byte("garbage")}
	_, err := Decode(v)
	require.ErrorIs(t, err, ErrUnsupportedPayload)
}

func TestDecodeUnknownType(t *testing.T) {
	t.Parallel()

	_, err := Decode(Variant{Type: "nope"})
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestUnpackBitsRoundTrip(t *testing.T) {
	t.Parallel()

	src := []byte{1, 1, 1, 1, 2, 3, 4, 4, 4, 5}
	src = append(src, bytes.Repeat([]byte{9}, 300)...)
	src = append(src, bytes.Repeat([]byte{1, 2}, 100)...)

	out, err := unpackBits(fixtures.PackBits(src), len(src))
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestUnpackBitsTruncatesOvershoot(t *testing.T) {
	t.Parallel()

	// repeat run of 5 when only 3 bytes are wanted
	out, err := unpackBits([]byte{0x82, 7}, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 7, 7}, out)
}
