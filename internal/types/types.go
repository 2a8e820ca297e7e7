package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// EventType is the discriminant of an outbound input message.
type EventType string

const (
	EventMouseMove EventType = "mousemove"
	EventMouseDown EventType = "mousedown"
	EventMouseUp   EventType = "mouseup"
	EventWheel     EventType = "wheel"
	EventKeyDown   EventType = "keydown"
	EventKeyUp     EventType = "keyup"
	EventSendSAS   EventType = "send_sas"
	EventSendText  EventType = "send_text"
)

// Button names a mouse button on the wire.
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonMiddle Button = "middle"
	ButtonRight  Button = "right"
)

// InputEvent is the outbound control message sent from viewer to host.
// Only the fields relevant to Type are serialised.
type InputEvent struct {
	Type   EventType `json:"type"`
	X      *int      `json:"x,omitempty"`
	Y      *int      `json:"y,omitempty"`
	Button Button    `json:"btn,omitempty"`
	DeltaX *float64  `json:"delta_x,omitempty"`
	DeltaY *float64  `json:"delta_y,omitempty"`
	Key    string    `json:"key,omitempty"`
	Text   *string   `json:"text,omitempty"`
	Enter  *bool     `json:"enter,omitempty"`
}

// MouseMove builds a mousemove event in remote space.
func MouseMove(x, y int) InputEvent {
	return InputEvent{Type: EventMouseMove, X: &x, Y: &y}
}

// MouseButton builds a mousedown or mouseup event.
func MouseButton(t EventType, btn Button, x, y int) InputEvent {
	return InputEvent{Type: t, Button: btn, X: &x, Y: &y}
}

// Wheel builds a wheel event.
func Wheel(dx, dy float64) InputEvent {
	return InputEvent{Type: EventWheel, DeltaX: &dx, DeltaY: &dy}
}

// Key builds a keydown or keyup event.
func Key(t EventType, key string) InputEvent {
	return InputEvent{Type: t, Key: key}
}

// SendSAS builds a secure-attention-sequence request.
func SendSAS() InputEvent {
	return InputEvent{Type: EventSendSAS}
}

// SendText builds a credential autotype request.
func SendText(text string, enter bool) InputEvent {
	return InputEvent{Type: EventSendText, Text: &text, Enter: &enter}
}

// Point returns the remote-space coordinates carried by a pointer event.
func (e InputEvent) Point() (x, y int, ok bool) {
	if e.X == nil || e.Y == nil {
		return 0, 0, false
	}
	return *e.X, *e.Y, true
}

// ControlType is the discriminant of an inbound JSON control message.
type ControlType string

const (
	ControlCursorData     ControlType = "cursor_data"
	ControlCursorPosition ControlType = "cursor_position"
	ControlError          ControlType = "error"
)

// Control is the inbound control envelope. Fields are a union over the
// control kinds; Type selects which ones are meaningful.
type Control struct {
	Type ControlType `json:"type"`

	// cursor_data
	ID     uint64 `json:"id,omitempty"`
	Data   string `json:"data,omitempty"`
	Width  uint32 `json:"width,omitempty"`
	Height uint32 `json:"height,omitempty"`
	HotX   Coord  `json:"hotx,omitempty"`
	HotY   Coord  `json:"hoty,omitempty"`

	// cursor_position
	X Coord `json:"x,omitempty"`
	Y Coord `json:"y,omitempty"`

	// error
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// Coord is an integer pixel coordinate that also accepts fractional JSON
// numbers such as 100.0 or 100.5, rounding half up.
type Coord int

func (c *Coord) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	r := math.Floor(f + 0.5)
	if r < math.MinInt32 || r > math.MaxInt32 {
		return fmt.Errorf("types: coordinate %v out of range", f)
	}
	*c = Coord(r)
	return nil
}

// CursorData is the payload of a cursor_data message.
type CursorData struct {
	ID     uint64
	Data   string // base64 RGBA, row-major
	Width  uint32
	Height uint32
	HotX   int
	HotY   int
}

// CursorData extracts the cursor_data fields.
func (c Control) CursorData() CursorData {
	return CursorData{ID: c.ID, Data: c.Data, Width: c.Width, Height: c.Height, HotX: int(c.HotX), HotY: int(c.HotY)}
}

// The message types below are the encoding side of Control. Their fields are
// never omitted, so a zero coordinate still reaches the viewer.

// CursorDataMessage is the wire form of cursor_data.
type CursorDataMessage struct {
	Type   ControlType `json:"type"`
	ID     uint64      `json:"id"`
	Data   string      `json:"data"`
	Width  uint32      `json:"width"`
	Height uint32      `json:"height"`
	HotX   int         `json:"hotx"`
	HotY   int         `json:"hoty"`
}

// CursorPositionMessage is the wire form of cursor_position.
type CursorPositionMessage struct {
	Type ControlType `json:"type"`
	X    int         `json:"x"`
	Y    int         `json:"y"`
}

// ErrorMessage is the wire form of error.
type ErrorMessage struct {
	Type    ControlType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// NewCursorData builds a cursor_data message.
func NewCursorData(cd CursorData) CursorDataMessage {
	return CursorDataMessage{
		Type: ControlCursorData, ID: cd.ID, Data: cd.Data,
		Width: cd.Width, Height: cd.Height, HotX: cd.HotX, HotY: cd.HotY,
	}
}

// NewCursorPosition builds a cursor_position message.
func NewCursorPosition(x, y int) CursorPositionMessage {
	return CursorPositionMessage{Type: ControlCursorPosition, X: x, Y: y}
}

// NewError builds an error message.
func NewError(title, message string) ErrorMessage {
	return ErrorMessage{Type: ControlError, Title: title, Message: message}
}
