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

// Package fixtures builds in-memory icon containers for tests.
package fixtures

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

// ICNSElement is a single typed element of an icon container.
type ICNSElement struct {
	Type string
	Data []byte
}

// BuildICNS assembles elements into a container, in the order given.
func BuildICNS(elements ...ICNSElement) []byte {
	total := 8
	for _, e := range elements {
		total += 8 + len(e.Data)
	}

	buf := make([]byte, 0, total)
	buf = append(buf, "icns"...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(total)) //nolint:gosec // test data is small
	for _, e := range elements {
		buf = append(buf, e.Type...)
		buf = binary.BigEndian.AppendUint32(buf, uint32(8+len(e.Data))) //nolint:gosec // test data is small
		buf = append(buf, e.Data...)
	}
	return buf
}

// SolidPNG encodes a w×h PNG filled with c.
func SolidPNG(w, h int, c color.NRGBA) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNGElement returns a PNG element of the given type filled with c.
func PNGElement(elemType string, size int, c color.NRGBA) ICNSElement {
	return ICNSElement{Type: elemType, Data: SolidPNG(size, size, c)}
}

// ARGBElement returns an RLE compressed ARGB element (ic04, ic05, icsb).
func ARGBElement(elemType string, size int, c color.NRGBA) ICNSElement {
	n := size * size
	data := []byte("ARGB")
	data = append(data, PackBits(bytes.Repeat([]byte{c.A}, n))...)
	data = append(data, PackBits(bytes.Repeat([]byte{c.R}, n))...)
	data = append(data, PackBits(bytes.Repeat([]byte{c.G}, n))...)
	data = append(data, PackBits(bytes.Repeat([]byte{c.B}, n))...)
	return ICNSElement{Type: elemType, Data: data}
}

// RGBElement returns a legacy RLE compressed 24-bit element (is32, il32,
// ih32, it32) whose pixels are given in row order.
func RGBElement(elemType string, pixels []color.NRGBA) ICNSElement {
	n := len(pixels)
	r := make([]byte, n)
	g := make([]byte, n)
	b := make([]byte, n)
	for i, p := range pixels {
		r[i], g[i], b[i] = p.R, p.G, p.B
	}
	var data []byte
	if elemType == "it32" {
		data = append(data, 0, 0, 0, 0)
	}
	data = append(data, PackBits(r)...)
	data = append(data, PackBits(g)...)
	data = append(data, PackBits(b)...)
	return ICNSElement{Type: elemType, Data: data}
}

// MaskElement returns an uncompressed 8-bit mask element.
func MaskElement(elemType string, alpha []byte) ICNSElement {
	return ICNSElement{Type: elemType, Data: alpha}
}

// PackBits compresses src with the icns flavour of PackBits: runs of three
// or more equal bytes become a repeat header, everything else is written as
// literal blocks of up to 128 bytes.
func PackBits(src []byte) []byte {
	var out []byte
	var literal []byte

	flush := func() {
		for len(literal) > 0 {
			n := min(len(literal), 128)
			out = append(out, byte(n-1))
			out = append(out, literal[:n]...)
			literal = literal[n:]
		}
	}

	for i := 0; i < len(src); {
		run := 1
		for i+run < len(src) && src[i+run] == src[i] && run < 130 {
			run++
		}
		if run >= 3 {
			flush()
			out = append(out, byte(run+125), src[i])
			i += run
			continue
		}
		literal = append(literal, src[i])
		i++
	}
	flush()

	return out
}
