// Package render composes the remote frame and the cursor overlay into a
// single image without a window system, for snapshots and tests.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"

	"rdviewer/internal/coords"
	"rdviewer/internal/cursor"
)

// Compositor draws into a fixed-size canvas with the video letterboxed in.
type Compositor struct {
	Width      int
	Height     int
	Background color.Color
	// Scaler resamples the frame. Nil selects bilinear.
	Scaler draw.Scaler
}

// Rect returns the display rectangle for a frame of geom on this canvas.
func (c Compositor) Rect(geom coords.Geometry) coords.Rect {
	return coords.Fit(geom, c.Width, c.Height)
}

// Compose paints frame scaled into its display rectangle, then the cursor at
// its last placement when visible. frame and cur may be nil.
func (c Compositor) Compose(frame *image.RGBA, cur *cursor.State) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	bg := c.Background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if frame != nil {
		b := frame.Bounds()
		r := c.Rect(coords.Geometry{Width: uint32(b.Dx()), Height: uint32(b.Dy())})
		scaler := c.Scaler
		if scaler == nil {
			scaler = draw.BiLinear
		}
		scaler.Scale(dst, toImageRect(r.Left, r.Top, r.Width, r.Height), frame, b, draw.Src, nil)
	}

	if cur != nil && cur.Visible() && cur.Image() != nil {
		if p, ok := cur.Placement(); ok {
			cb := cur.Image().Bounds()
			target := toImageRect(p.X, p.Y, float64(cb.Dx())*p.ScaleX, float64(cb.Dy())*p.ScaleY)
			draw.NearestNeighbor.Scale(dst, target, cur.Image(), cb, draw.Over, nil)
		}
	}
	return dst
}

func toImageRect(x, y, w, h float64) image.Rectangle {
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	x1, y1 := int(math.Round(x+w)), int(math.Round(y+h))
	return image.Rect(x0, y0, x1, y1)
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
