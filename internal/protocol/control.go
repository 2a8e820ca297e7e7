package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"rdviewer/internal/types"
)

// Control errors.
var (
	ErrInvalidControl = errors.New("protocol: invalid control message")
	ErrUnknownControl = errors.New("protocol: unknown control message")
)

// ParseControl decodes a control JSON payload and checks its discriminant.
func ParseControl(data []byte) (types.Control, error) {
	if !utf8.Valid(data) {
		return types.Control{}, fmt.Errorf("%w: not utf-8", ErrInvalidControl)
	}
	var c types.Control
	if err := json.Unmarshal(data, &c); err != nil {
		return types.Control{}, fmt.Errorf("%w: %v", ErrInvalidControl, err)
	}
	switch c.Type {
	case types.ControlCursorData, types.ControlCursorPosition, types.ControlError:
		return c, nil
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownControl, c.Type)
	}
}
