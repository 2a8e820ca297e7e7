// Package surface holds the render target the decoded frames are painted on.
package surface

import (
	"image"

	"rdviewer/internal/coords"
	"rdviewer/internal/protocol"
)

// Surface is the video-resolution pixel buffer. It always matches the last
// accepted frame: len(Image().Pix) == width*height*4.
type Surface struct {
	img    *image.RGBA
	geom   coords.Geometry
	frames uint64
	gen    uint64
	resize uint64
}

// New returns an empty surface with unknown geometry.
func New() *Surface {
	return &Surface{}
}

// Paint presents one validated frame. The pixels are copied into a fresh
// buffer which replaces the current image in a single assignment, so a reader
// never sees a partially painted frame. It reports whether the dimensions
// changed.
func (s *Surface) Paint(f protocol.Frame) bool {
	geom := coords.Geometry{Width: f.Width, Height: f.Height}
	resized := geom != s.geom
	if resized {
		s.geom = geom
		s.resize++
	}

	img := image.NewRGBA(image.Rect(0, 0, int(f.Width), int(f.Height)))
	copy(img.Pix, f.Pix)
	s.img = img
	s.frames++
	s.gen++
	return resized
}

// Image returns the last painted frame, or nil before the first one.
func (s *Surface) Image() *image.RGBA { return s.img }

// Geometry returns the dimensions of the last accepted frame.
func (s *Surface) Geometry() coords.Geometry { return s.geom }

// Frames returns the number of accepted frames.
func (s *Surface) Frames() uint64 { return s.frames }

// Resizes returns how many times the dimensions changed.
func (s *Surface) Resizes() uint64 { return s.resize }

// Generation changes every time a new frame is painted. Display backends use
// it to skip re-uploading an unchanged image.
func (s *Surface) Generation() uint64 { return s.gen }
