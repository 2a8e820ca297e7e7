// Package input turns local pointer, wheel and keyboard activity into
// outbound control messages. Pointer positions are mapped into remote pixel
// space before they leave; keys and actions pass through unchanged.
package input

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"rdviewer/internal/coords"
	"rdviewer/internal/types"
)

// Sender accepts outbound events. *session.Session satisfies it.
type Sender interface {
	Send(types.InputEvent)
}

// WheelPolicy selects the sign convention of wheel deltas on the wire.
type WheelPolicy int

const (
	// WheelInvert negates local deltas before sending.
	WheelInvert WheelPolicy = iota
	// WheelPreserve sends local deltas unchanged.
	WheelPreserve
)

func (p WheelPolicy) String() string {
	if p == WheelPreserve {
		return "preserve"
	}
	return "invert"
}

// ParseWheelPolicy maps a config name to a policy. Empty selects WheelInvert.
func ParseWheelPolicy(name string) (WheelPolicy, error) {
	switch strings.ToLower(name) {
	case "", "invert":
		return WheelInvert, nil
	case "preserve":
		return WheelPreserve, nil
	default:
		return WheelInvert, fmt.Errorf("input: unknown wheel policy %q", name)
	}
}

// CredentialSource supplies the text for credential autotype. ok=false means
// nothing is provisioned and no message is sent.
type CredentialSource interface {
	Credentials() (text string, enter bool, ok bool)
}

// EnvCredentials reads the autotype text from an environment variable at
// call time.
type EnvCredentials struct {
	Var   string
	Enter bool
}

func (e EnvCredentials) Credentials() (string, bool, bool) {
	if e.Var == "" {
		return "", false, false
	}
	text := os.Getenv(e.Var)
	if text == "" {
		return "", false, false
	}
	return text, e.Enter, true
}

// ButtonName maps a DOM-style button ordinal to its wire name. Ordinals other
// than 0, 1 and 2 fall back to left with ok=false.
func ButtonName(ordinal int) (types.Button, bool) {
	switch ordinal {
	case 0:
		return types.ButtonLeft, true
	case 1:
		return types.ButtonMiddle, true
	case 2:
		return types.ButtonRight, true
	default:
		return types.ButtonLeft, false
	}
}

// Config configures a Relay.
type Config struct {
	Wheel WheelPolicy
	// StrictButtons drops button events with an unrecognised ordinal instead
	// of sending them as left.
	StrictButtons bool
	Credentials   CredentialSource
	Log           *logrus.Entry
}

// Relay maps and forwards local input. Every call sends at most one message,
// immediately.
type Relay struct {
	out Sender
	cfg Config
	log *logrus.Entry
}

// NewRelay builds a relay writing to out.
func NewRelay(out Sender, cfg Config) *Relay {
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Relay{out: out, cfg: cfg, log: log.WithField("component", "input")}
}

func (r *Relay) send(ev types.InputEvent) {
	r.out.Send(ev)
}

// PointerMove sends a mousemove for a position relative to the display rect.
func (r *Relay) PointerMove(offsetX, offsetY float64, rect coords.Rect, geom coords.Geometry) {
	x, y := coords.ToRemote(offsetX, offsetY, rect, geom)
	r.send(types.MouseMove(x, y))
}

// PointerDown sends a mousedown.
func (r *Relay) PointerDown(ordinal int, offsetX, offsetY float64, rect coords.Rect, geom coords.Geometry) {
	r.button(types.EventMouseDown, ordinal, offsetX, offsetY, rect, geom)
}

// PointerUp sends a mouseup.
func (r *Relay) PointerUp(ordinal int, offsetX, offsetY float64, rect coords.Rect, geom coords.Geometry) {
	r.button(types.EventMouseUp, ordinal, offsetX, offsetY, rect, geom)
}

func (r *Relay) button(t types.EventType, ordinal int, offsetX, offsetY float64, rect coords.Rect, geom coords.Geometry) {
	btn, known := ButtonName(ordinal)
	if !known {
		if r.cfg.StrictButtons {
			r.log.WithField("button", ordinal).Debug("dropping unknown button")
			return
		}
		r.log.WithField("button", ordinal).Debug("unknown button sent as left")
	}
	x, y := coords.ToRemote(offsetX, offsetY, rect, geom)
	r.send(types.MouseButton(t, btn, x, y))
}

// Wheel sends a wheel event. Deltas follow the DOM convention: positive dy
// scrolls down.
func (r *Relay) Wheel(dx, dy float64) {
	if r.cfg.Wheel == WheelInvert {
		dx, dy = -dx, -dy
	}
	r.send(types.Wheel(dx, dy))
}

// KeyDown sends a keydown with the key identifier unchanged.
func (r *Relay) KeyDown(key string) {
	r.send(types.Key(types.EventKeyDown, key))
}

// KeyUp sends a keyup with the key identifier unchanged.
func (r *Relay) KeyUp(key string) {
	r.send(types.Key(types.EventKeyUp, key))
}

// SecureAttention asks the host for the secure attention sequence.
func (r *Relay) SecureAttention() {
	r.send(types.SendSAS())
}

// InjectCredentials sends the provisioned credential text. It reports whether
// anything was sent.
func (r *Relay) InjectCredentials() bool {
	if r.cfg.Credentials == nil {
		return false
	}
	text, enter, ok := r.cfg.Credentials.Credentials()
	if !ok {
		r.log.Debug("no credentials provisioned")
		return false
	}
	r.send(types.SendText(text, enter))
	return true
}
