// Package ui is the desktop window of the viewer: it draws the remote frame
// and cursor overlay with ebiten and turns local mouse and keyboard activity
// into relay calls.
package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"rdviewer/internal/coords"
	"rdviewer/internal/session"
	"rdviewer/internal/viewer"
)

// wheelPixelsPerStep converts ebiten wheel steps into DOM pixel deltas.
const wheelPixelsPerStep = 100

// Game drives one viewer from the ebiten loop. Update and Draw run on the
// same goroutine, so the viewer needs no locking.
type Game struct {
	v      *viewer.Viewer
	events <-chan session.Event
	log    *logrus.Entry

	width, height int
	rect          coords.Rect

	frame    *ebiten.Image
	frameGen uint64
	cur      *ebiten.Image
	curSrc   *image.RGBA

	lastX, lastY int
	pressed      map[ebiten.Key]string
	swallowed    map[ebiten.Key]bool
	sourceOpen   bool
}

// NewGame builds a game for v fed by events.
func NewGame(events <-chan session.Event, log *logrus.Entry) *Game {
	return &Game{
		events:     events,
		log:        log.WithField("component", "ui"),
		pressed:    make(map[ebiten.Key]string),
		swallowed:  make(map[ebiten.Key]bool),
		lastX:      -1,
		lastY:      -1,
		sourceOpen: true,
	}
}

// Attach sets the viewer. It is separate from NewGame because the viewer's
// display rectangle is read back from the game.
func (g *Game) Attach(v *viewer.Viewer) { g.v = v }

// DisplayRect is the rectangle the video currently occupies in the window.
func (g *Game) DisplayRect() coords.Rect { return g.rect }

// Update processes queued transport events, then local input.
func (g *Game) Update() error {
	if g.sourceOpen {
		g.sourceOpen = g.v.Drain(g.events)
	}
	g.relayout()
	if g.v.State() != session.Open {
		return nil
	}
	g.pointer()
	g.keyboard()
	return nil
}

func (g *Game) relayout() {
	r := coords.Fit(g.v.Surface().Geometry(), g.width, g.height)
	if r != g.rect {
		g.rect = r
		g.v.Reposition()
	}
}

func (g *Game) pointer() {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	inside := g.rect.Contains(fx, fy)
	g.updateCursorMode(inside)
	if !inside {
		return
	}
	relay := g.v.Relay()
	geom := g.v.Surface().Geometry()
	offX, offY := g.rect.Offset(fx, fy)

	if x != g.lastX || y != g.lastY {
		g.lastX, g.lastY = x, y
		relay.PointerMove(offX, offY, g.rect, geom)
	}

	// ebiten orders buttons left, right, middle; the wire uses DOM ordinals.
	buttons := []struct {
		b       ebiten.MouseButton
		ordinal int
	}{
		{ebiten.MouseButtonLeft, 0},
		{ebiten.MouseButtonMiddle, 1},
		{ebiten.MouseButtonRight, 2},
	}
	for _, mb := range buttons {
		if inpututil.IsMouseButtonJustPressed(mb.b) {
			relay.PointerDown(mb.ordinal, offX, offY, g.rect, geom)
		}
		if inpututil.IsMouseButtonJustReleased(mb.b) {
			relay.PointerUp(mb.ordinal, offX, offY, g.rect, geom)
		}
	}

	// ebiten reports positive y for scrolling up; DOM deltas are the opposite.
	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		relay.Wheel(-wx*wheelPixelsPerStep, -wy*wheelPixelsPerStep)
	}
}

func (g *Game) updateCursorMode(inside bool) {
	mode := ebiten.CursorModeVisible
	if inside && g.v.Cursor().Visible() {
		mode = ebiten.CursorModeHidden
	}
	if ebiten.CursorMode() != mode {
		ebiten.SetCursorMode(mode)
	}
}

func (g *Game) keyboard() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	relay := g.v.Relay()

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if ctrl && alt && g.hotkey(k) {
			g.swallowed[k] = true
			continue
		}
		name := domKey(k, shift)
		if name == "" {
			continue
		}
		g.pressed[k] = name
		relay.KeyDown(name)
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		if g.swallowed[k] {
			delete(g.swallowed, k)
			continue
		}
		name, ok := g.pressed[k]
		if !ok {
			continue
		}
		delete(g.pressed, k)
		relay.KeyUp(name)
	}
}

// hotkey runs the Ctrl+Alt chord bound to k. It reports whether k is bound.
func (g *Game) hotkey(k ebiten.Key) bool {
	switch k {
	case ebiten.KeyEnd:
		g.log.Info("sending secure attention sequence")
		g.v.Relay().SecureAttention()
	case ebiten.KeyP:
		if !g.v.Relay().InjectCredentials() {
			g.log.Warn("autotype: no credentials provisioned")
		}
	case ebiten.KeyN:
		g.v.Notices().DismissAll()
	default:
		return false
	}
	return true
}

// Draw paints the frame, the cursor overlay, notices and the status line.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.drawFrame(screen)
	g.drawCursor(screen)
	g.drawNotices(screen)
	g.drawStatus(screen)
}

func (g *Game) drawFrame(screen *ebiten.Image) {
	s := g.v.Surface()
	img := s.Image()
	if img == nil || g.rect.Empty() {
		return
	}
	b := img.Bounds()
	if g.frame == nil || g.frame.Bounds().Size() != b.Size() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
		g.frameGen = 0
	}
	if g.frameGen != s.Generation() {
		g.frame.WritePixels(img.Pix)
		g.frameGen = s.Generation()
	}

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(g.rect.Width/float64(b.Dx()), g.rect.Height/float64(b.Dy()))
	op.GeoM.Translate(g.rect.Left, g.rect.Top)
	screen.DrawImage(g.frame, op)
}

func (g *Game) drawCursor(screen *ebiten.Image) {
	c := g.v.Cursor()
	p, placed := c.Placement()
	if !c.Visible() || !placed || c.Image() == nil {
		return
	}
	if c.Image() != g.curSrc {
		if g.cur != nil {
			g.cur.Deallocate()
		}
		g.cur = ebiten.NewImageFromImage(c.Image())
		g.curSrc = c.Image()
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(p.ScaleX, p.ScaleY)
	op.GeoM.Translate(p.X, p.Y)
	screen.DrawImage(g.cur, op)
}

var noticeBackground = color.RGBA{0x8b, 0x1a, 0x1a, 0xe0}

func (g *Game) drawNotices(screen *ebiten.Image) {
	y := 8
	for _, n := range g.v.Notices().Active() {
		text := fmt.Sprintf("%s: %s", n.Title, n.Message)
		w := float32(len(text)*6 + 16)
		vector.DrawFilledRect(screen, 8, float32(y), w, 24, noticeBackground, false)
		ebitenutil.DebugPrintAt(screen, text, 16, y+4)
		y += 30
	}
	if y > 8 {
		ebitenutil.DebugPrintAt(screen, "Ctrl+Alt+N to dismiss", 16, y)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	var status string
	switch g.v.State() {
	case session.Connecting:
		status = "Connecting..."
	case session.Closed:
		info, _ := g.v.CloseInfo()
		status = fmt.Sprintf("Disconnected (code %d) %s", info.Code, info.Reason)
	default:
		if g.v.Surface().Image() == nil {
			status = "Waiting for first frame..."
		}
	}
	if status != "" {
		ebitenutil.DebugPrintAt(screen, status, 8, g.height-20)
	}
}

// Layout uses the window size as the logical screen, so local pixels and
// window pixels coincide.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Options configure the window.
type Options struct {
	Width, Height int
	Title         string
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, opts Options) error {
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
