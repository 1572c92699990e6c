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

// Package icns reads Apple icon family (.icns) containers. A container holds
// several raster variants of the same icon at different resolutions; this
// package lists them in file order, picks the largest and decodes it to an
// image.Image.
package icns

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic is the four byte signature at the start of every container.
	Magic = "icns"

	headerSize = 8
)

var (
	ErrInvalidHeader      = errors.New("invalid icns header")
	ErrCorrupt            = errors.New("corrupt icns container")
	ErrNoVariants         = errors.New("icns container has no icon variants")
	ErrUnsupportedPayload = errors.New("unsupported icns payload")
	ErrUnknownVariant     = errors.New("unknown icns variant type")
)

// payloadKind describes which encodings an element type may carry.
type payloadKind int

const (
	// kindImage elements hold PNG or JPEG 2000 data.
	kindImage payloadKind = iota
	// kindARGB elements hold PNG, JPEG 2000 or RLE compressed ARGB data.
	kindARGB
	// kindRGB elements hold legacy RLE compressed 24-bit data with a
	// separate 8-bit mask element.
	kindRGB
	// kindMixed elements hold PNG, JPEG 2000 or legacy 24-bit data.
	kindMixed
)

type variantType struct {
	mask string
	size int
	kind payloadKind
}

var variantTypes = map[string]variantType{
	"is32": {size: 16, kind: kindRGB, mask: "s8mk"},
	"il32": {size: 32, kind: kindRGB, mask: "l8mk"},
	"ih32": {size: 48, kind: kindRGB, mask: "h8mk"},
	"it32": {size: 128, kind: kindRGB, mask: "t8mk"},
	"icp4": {size: 16, kind: kindMixed},
	"icp5": {size: 32, kind: kindMixed},
	"icp6": {size: 64, kind: kindImage},
	"ic04": {size: 16, kind: kindARGB},
	"ic05": {size: 32, kind: kindARGB},
	"ic07": {size: 128, kind: kindImage},
	"ic08": {size: 256, kind: kindImage},
	"ic09": {size: 512, kind: kindImage},
	"ic10": {size: 1024, kind: kindImage},
	"ic11": {size: 32, kind: kindImage},
	"ic12": {size: 64, kind: kindImage},
	"ic13": {size: 256, kind: kindImage},
	"ic14": {size: 512, kind: kindImage},
	"icsb": {size: 18, kind: kindARGB},
	"icsB": {size: 36, kind: kindImage},
	"sb24": {size: 24, kind: kindImage},
	"SB24": {size: 48, kind: kindImage},
}

// Variant is one raster entry of a container. Data is the raw element
// payload, Mask the payload of the matching 8-bit mask element for legacy
// 24-bit types (nil when the container has none).
type Variant struct {
	Type   string
	Data   []byte
	Mask   []byte
	Width  int
	Height int
	// Index is the position of the element in the container.
	Index int
}

// Area returns the pixel count of the variant.
func (v Variant) Area() int {
	return v.Width * v.Height
}

// Family is a parsed icon container.
type Family struct {
	variants []Variant
}

// Parse reads the element table of an icns container. Metadata elements
// (table of contents, version, name) and element types this package does
// not know are skipped. A container with no raster elements parses
// successfully; callers see ErrNoVariants from Best.
func Parse(data []byte) (*Family, error) {
	if len(data) < headerSize || string(data[:4]) != Magic {
		return nil, ErrInvalidHeader
	}

	total := int(binary.BigEndian.Uint32(data[4:8]))
	if total < headerSize {
		return nil, fmt.Errorf("%w: declared length %d", ErrInvalidHeader, total)
	}
	if total > len(data) {
		return nil, fmt.Errorf("%w: declared length %d exceeds file size %d", ErrCorrupt, total, len(data))
	}

	f := &Family{}
	masks := make(map[string][]byte)
	offset := headerSize
	index := 0
	for offset < total {
		if total-offset < headerSize {
			return nil, fmt.Errorf("%w: truncated element header at offset %d", ErrCorrupt, offset)
		}
		elemType := string(data[offset : offset+4])
		elemLen := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		if elemLen < headerSize || elemLen > total-offset {
			return nil, fmt.Errorf(
				"%w: element %q at offset %d has invalid length %d",
				ErrCorrupt, elemType, offset, elemLen,
			)
		}
		payload := data[offset+headerSize : offset+elemLen]
		offset += elemLen

		if isMask(elemType) {
			masks[elemType] = payload
			continue
		}

		vt, ok := variantTypes[elemType]
		if !ok {
			continue
		}
		f.variants = append(f.variants, Variant{
			Type:   elemType,
			Width:  vt.size,
			Height: vt.size,
			Data:   payload,
			Index:  index,
		})
		index++
	}

	// masks may appear before or after their colour element
	for i := range f.variants {
		vt := variantTypes[f.variants[i].Type]
		if vt.mask != "" {
			f.variants[i].Mask = masks[vt.mask]
		}
	}

	return f, nil
}

func isMask(elemType string) bool {
	switch elemType {
	case "s8mk", "l8mk", "h8mk", "t8mk":
		return true
	default:
		return false
	}
}

// Variants returns the raster variants in container order.
func (f *Family) Variants() []Variant {
	out := make([]Variant, len(f.variants))
	copy(out, f.variants)
	return out
}

// Best returns the variant with the largest pixel area.
func (f *Family) Best() (Variant, error) {
	return Best(f.variants)
}

// Best returns the variant with the largest pixel area. Ties go to the
// variant that appears first in the slice, so container order decides
// between e.g. ic09 and ic14 which are both 512x512.
func Best(variants []Variant) (Variant, error) {
	if len(variants) == 0 {
		return Variant{}, ErrNoVariants
	}
	best := variants[0]
	for _, v := range variants[1:] {
		if v.Area() > best.Area() {
			best = v
		}
	}
	return best, nil
}
