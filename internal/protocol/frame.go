// Package protocol implements the framing of the host-to-viewer wire format.
//
// Two framing variants exist and a deployment uses exactly one of them:
//
//	Typed (variant A)
//	┌──────────┬───────────────┬────────────────┬──────────────────────┐
//	│ Type     │ Width         │ Height         │ RGBA pixels          │
//	│ (1 byte) │ (u32, LE)     │ (u32, LE)      │ (w*h*4 bytes)        │
//	└──────────┴───────────────┴────────────────┴──────────────────────┘
//	Type 0 is a video frame; type 1 carries UTF-8 JSON from byte 1 onwards.
//
//	Untyped (variant B)
//	┌───────────────┬────────────────┬──────────────────────┐
//	│ Width (u32 LE)│ Height (u32 LE)│ RGBA pixels          │
//	└───────────────┴────────────────┴──────────────────────┘
//	Every message is a frame.
package protocol

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"math/bits"
)

// BytesPerPixel is fixed: RGBA, row-major, no padding.
const BytesPerPixel = 4

// geometryHeaderSize is the width+height prefix shared by both variants.
const geometryHeaderSize = 8

// Frame errors.
var (
	ErrShortHeader      = errors.New("protocol: message shorter than frame header")
	ErrEmptyGeometry    = errors.New("protocol: frame has zero width or height")
	ErrGeometryMismatch = errors.New("protocol: pixel payload does not match declared geometry")
)

// Frame is one decoded raster. Pix aliases the message buffer it was decoded
// from; the surface copies it before painting.
type Frame struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

// ExpectedLen returns width*height*4. ok is false when that size overflows
// 64 bits or cannot be addressed as an int; no payload can match it then.
func ExpectedLen(width, height uint32) (n int, ok bool) {
	hi, lo := bits.Mul64(uint64(width)*uint64(height), BytesPerPixel)
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// DecodeFrame parses a geometry header followed by pixels. data must start at
// the width field, i.e. with the type byte already stripped for the typed variant.
func DecodeFrame(data []byte) (Frame, error) {
	if len(data) < geometryHeaderSize {
		return Frame{}, ErrShortHeader
	}
	width := binary.LittleEndian.Uint32(data[0:4])
	height := binary.LittleEndian.Uint32(data[4:8])
	if width == 0 || height == 0 {
		return Frame{}, ErrEmptyGeometry
	}
	pix := data[geometryHeaderSize:]
	if n, ok := ExpectedLen(width, height); !ok || len(pix) != n {
		return Frame{}, ErrGeometryMismatch
	}
	return Frame{Width: width, Height: height, Pix: pix}, nil
}

// appendFrame writes the geometry header and pixels to buf.
func appendFrame(buf []byte, width, height uint32, pix []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, width)
	buf = binary.LittleEndian.AppendUint32(buf, height)
	return append(buf, pix...)
}

// PackRGBA returns the tightly packed pixels of img, row-major from its
// top-left corner. It returns img.Pix itself when no repacking is needed.
func PackRGBA(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := BytesPerPixel * b.Dx()
	if img.Stride == rowLen && len(img.Pix) == rowLen*b.Dy() {
		return img.Pix
	}
	pix := make([]byte, 0, rowLen*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		pix = append(pix, img.Pix[off:off+rowLen]...)
	}
	return pix
}
