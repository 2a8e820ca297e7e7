// Package cursor keeps the remote cursor overlay: its image, hotspot,
// visibility and last computed screen placement.
package cursor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	"rdviewer/internal/coords"
	"rdviewer/internal/protocol"
	"rdviewer/internal/types"
)

// Cursor errors.
var (
	ErrBadEncoding  = errors.New("cursor: image is not valid base64")
	ErrEmptyImage   = errors.New("cursor: zero width or height")
	ErrSizeMismatch = errors.New("cursor: pixel data does not match width*height*4")
)

// Placement is the overlay's top-left corner in local screen pixels together
// with the scale it should be drawn at.
type Placement struct {
	X, Y           float64
	ScaleX, ScaleY float64
}

// State is the overlay state for one session. The zero value is an invisible
// cursor with no image.
type State struct {
	id      uint64
	img     *image.RGBA
	hotX    int
	hotY    int
	visible bool

	placement Placement
	placed    bool
}

// Apply replaces the cursor image and hotspot from a cursor_data message.
// On error the previous image, hotspot and visibility are kept.
func (s *State) Apply(cd types.CursorData) error {
	raw, err := base64.StdEncoding.DecodeString(cd.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}
	if cd.Width == 0 || cd.Height == 0 {
		return ErrEmptyImage
	}
	if n, ok := protocol.ExpectedLen(cd.Width, cd.Height); !ok || len(raw) != n {
		return fmt.Errorf("%w: got %d bytes for %dx%d", ErrSizeMismatch, len(raw), cd.Width, cd.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(cd.Width), int(cd.Height)))
	copy(img.Pix, raw)

	s.id = cd.ID
	s.img = img
	s.hotX = cd.HotX
	s.hotY = cd.HotY
	s.visible = true
	return nil
}

// Place recomputes the overlay position for a cursor_position message using
// the current hotspot. Image and visibility are not touched.
func (s *State) Place(x, y int, rect coords.Rect, geom coords.Geometry) Placement {
	px, py := coords.CursorOrigin(x, y, s.hotX, s.hotY, rect, geom)
	sx, sy := coords.Scale(rect, geom)
	s.placement = Placement{X: px, Y: py, ScaleX: sx, ScaleY: sy}
	s.placed = true
	return s.placement
}

// Image returns the current cursor image, or nil before the first cursor_data.
func (s *State) Image() *image.RGBA { return s.img }

// ID returns the host-assigned cursor id of the current image.
func (s *State) ID() uint64 { return s.id }

// Hotspot returns the pointer tip offset inside the image.
func (s *State) Hotspot() (int, int) { return s.hotX, s.hotY }

// Visible reports whether the overlay should be drawn.
func (s *State) Visible() bool { return s.visible }

// Placement returns the last computed placement and whether one exists.
func (s *State) Placement() (Placement, bool) { return s.placement, s.placed }
