// Package inject replays viewer input on the host desktop with robotgo.
package inject

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/sirupsen/logrus"

	"rdviewer/internal/keymap"
	"rdviewer/internal/types"
)

// Injector drives the local mouse and keyboard. Pointer coordinates arrive in
// the captured display's pixel space and are shifted by its origin.
type Injector struct {
	origin image.Point
	log    *logrus.Entry
}

// New returns an injector for a display whose top-left corner is origin.
func New(origin image.Point, log *logrus.Entry) *Injector {
	return &Injector{origin: origin, log: log.WithField("component", "inject")}
}

// Handle executes the side effect of one input event.
func (in *Injector) Handle(ev types.InputEvent) error {
	switch ev.Type {
	case types.EventMouseMove:
		x, y, ok := ev.Point()
		if !ok {
			return fmt.Errorf("inject: %s without coordinates", ev.Type)
		}
		robotgo.Move(in.origin.X+x, in.origin.Y+y)
	case types.EventMouseDown, types.EventMouseUp:
		if x, y, ok := ev.Point(); ok {
			robotgo.Move(in.origin.X+x, in.origin.Y+y)
		}
		dir := "down"
		if ev.Type == types.EventMouseUp {
			dir = "up"
		}
		return robotgo.Toggle(keymap.Button(string(ev.Button)), dir)
	case types.EventWheel:
		var dx, dy float64
		if ev.DeltaX != nil {
			dx = *ev.DeltaX
		}
		if ev.DeltaY != nil {
			dy = *ev.DeltaY
		}
		robotgo.Scroll(keymap.WheelSteps(dx), keymap.WheelSteps(dy))
	case types.EventKeyDown, types.EventKeyUp:
		key, ok := keymap.Key(ev.Key)
		if !ok {
			in.log.WithField("key", ev.Key).Warn("unknown key")
			return nil
		}
		dir := "down"
		if ev.Type == types.EventKeyUp {
			dir = "up"
		}
		return robotgo.KeyToggle(key, dir)
	case types.EventSendSAS:
		// Most desktops reserve the real sequence; this is the closest
		// synthetic equivalent.
		return robotgo.KeyTap("delete", "ctrl", "alt")
	case types.EventSendText:
		if ev.Text == nil || *ev.Text == "" {
			return nil
		}
		robotgo.TypeStr(*ev.Text)
		if ev.Enter != nil && *ev.Enter {
			return robotgo.KeyTap("enter")
		}
	default:
		return fmt.Errorf("inject: unknown event type %q", ev.Type)
	}
	return nil
}
