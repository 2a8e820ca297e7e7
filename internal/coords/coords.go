// Package coords converts between local display pixels and the remote video
// buffer. The two directions are kept as separate functions and are always
// computed from the rectangle and geometry passed in; nothing is cached.
package coords

import "math"

// Geometry is the remote video buffer size in pixels.
type Geometry struct {
	Width  uint32
	Height uint32
}

// Known reports whether a frame has established the geometry.
func (g Geometry) Known() bool {
	return g.Width != 0 && g.Height != 0
}

// Rect is the on-screen box the video is drawn into, in local UI pixels.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the local point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Offset converts an absolute local point to an offset inside the rectangle.
func (r Rect) Offset(x, y float64) (float64, float64) {
	return x - r.Left, y - r.Top
}

// ToRemote maps an offset inside the display rectangle to remote-space pixels.
// With no geometry yet, or an empty rectangle, the offset passes through
// unscaled.
func ToRemote(offsetX, offsetY float64, rect Rect, geom Geometry) (int, int) {
	if !geom.Known() || rect.Empty() {
		return round(offsetX), round(offsetY)
	}
	scaleX := float64(geom.Width) / rect.Width
	scaleY := float64(geom.Height) / rect.Height
	return round(offsetX * scaleX), round(offsetY * scaleY)
}

// Scale returns the remote-to-screen scale factors (display / geometry).
// Unknown geometry yields 1:1.
func Scale(rect Rect, geom Geometry) (float64, float64) {
	if !geom.Known() {
		return 1, 1
	}
	return rect.Width / float64(geom.Width), rect.Height / float64(geom.Height)
}

// ToScreen maps a remote-space point to an absolute local screen position.
func ToScreen(x, y float64, rect Rect, geom Geometry) (float64, float64) {
	sx, sy := Scale(rect, geom)
	return rect.Left + x*sx, rect.Top + y*sy
}

// CursorOrigin returns where the top-left of a cursor image goes so that its
// hotspot lands on the remote point (x, y).
func CursorOrigin(x, y, hotX, hotY int, rect Rect, geom Geometry) (float64, float64) {
	sx, sy := Scale(rect, geom)
	return rect.Left + float64(x)*sx - float64(hotX)*sx,
		rect.Top + float64(y)*sy - float64(hotY)*sy
}

// Fit returns the largest rectangle with the geometry's aspect ratio that fits
// centred inside an outer area of w×h. Unknown geometry fills the area.
func Fit(geom Geometry, w, h int) Rect {
	outer := Rect{Width: float64(w), Height: float64(h)}
	if !geom.Known() || outer.Empty() {
		return outer
	}
	scale := math.Min(outer.Width/float64(geom.Width), outer.Height/float64(geom.Height))
	fw := float64(geom.Width) * scale
	fh := float64(geom.Height) * scale
	return Rect{
		Left:   (outer.Width - fw) / 2,
		Top:    (outer.Height - fh) / 2,
		Width:  fw,
		Height: fh,
	}
}

// round matches JavaScript Math.round: halves go towards +Inf.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
