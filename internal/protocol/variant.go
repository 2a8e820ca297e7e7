package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Variant selects the framing strategy. It is fixed per deployment and
// resolved once when a session is constructed.
type Variant uint8

const (
	VariantTyped Variant = iota
	VariantUntyped
)

// String returns the configuration name of the variant.
func (v Variant) String() string {
	switch v {
	case VariantTyped:
		return "typed"
	case VariantUntyped:
		return "untyped"
	default:
		return "unknown"
	}
}

// ParseVariant maps a configuration name to a Variant.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "typed", "a", "":
		return VariantTyped, nil
	case "untyped", "b":
		return VariantUntyped, nil
	default:
		return 0, fmt.Errorf("protocol: unknown variant %q", name)
	}
}

// HasControl reports whether the variant carries a JSON control channel.
func (v Variant) HasControl() bool {
	return v == VariantTyped
}

// MessageType is the first byte of a typed-variant message.
type MessageType uint8

const (
	TypeFrame   MessageType = 0x00
	TypeControl MessageType = 0x01
)

// String returns the name of the message type.
func (t MessageType) String() string {
	switch t {
	case TypeFrame:
		return "Frame"
	case TypeControl:
		return "Control"
	default:
		return "Unknown"
	}
}

// ErrUnknownType is returned for a typed message with an unassigned discriminant.
var ErrUnknownType = errors.New("protocol: unknown message type")

// Message is one decoded inbound message: either a frame or raw control JSON.
type Message struct {
	Type    MessageType
	Frame   Frame
	Control []byte
}

// Decode splits an inbound message according to the variant. Frame messages
// are fully validated; control payloads are returned undecoded for ParseControl.
func Decode(v Variant, data []byte) (Message, error) {
	if v == VariantUntyped {
		f, err := DecodeFrame(data)
		if err != nil {
			return Message{Type: TypeFrame}, err
		}
		return Message{Type: TypeFrame, Frame: f}, nil
	}

	if len(data) == 0 {
		return Message{}, ErrShortHeader
	}
	t := MessageType(data[0])
	switch t {
	case TypeFrame:
		f, err := DecodeFrame(data[1:])
		if err != nil {
			return Message{Type: t}, err
		}
		return Message{Type: t, Frame: f}, nil
	case TypeControl:
		return Message{Type: t, Control: data[1:]}, nil
	default:
		return Message{Type: t}, fmt.Errorf("%w: %d", ErrUnknownType, data[0])
	}
}

// EncodeFrame builds a frame message for the variant.
func EncodeFrame(v Variant, width, height uint32, pix []byte) []byte {
	size := geometryHeaderSize + len(pix)
	if v == VariantTyped {
		buf := make([]byte, 0, 1+size)
		buf = append(buf, byte(TypeFrame))
		return appendFrame(buf, width, height, pix)
	}
	return appendFrame(make([]byte, 0, size), width, height, pix)
}

// ErrNoControlChannel is returned when encoding control for the untyped variant.
var ErrNoControlChannel = errors.New("protocol: variant has no control channel")

// EncodeControl marshals v as JSON behind the control discriminant.
func EncodeControl(variant Variant, v any) ([]byte, error) {
	if !variant.HasControl() {
		return nil, ErrNoControlChannel
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal control: %w", err)
	}
	buf := make([]byte, 0, 1+len(body))
	buf = append(buf, byte(TypeControl))
	return append(buf, body...), nil
}
