package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdviewer/internal/types"
)

func TestParseControl(t *testing.T) {
	c, err := ParseControl([]byte(`{"type":"cursor_data","id":7,"hotx":1,"hoty":2,"width":1,"height":1,"data":"AAAAAA=="}`))
	require.NoError(t, err)
	assert.Equal(t, types.ControlCursorData, c.Type)
	cd := c.CursorData()
	assert.Equal(t, uint64(7), cd.ID)
	assert.Equal(t, 1, cd.HotX)
	assert.Equal(t, 2, cd.HotY)
	assert.Equal(t, "AAAAAA==", cd.Data)

	c, err = ParseControl([]byte(`{"type":"error","title":"Login","message":"denied"}`))
	require.NoError(t, err)
	assert.Equal(t, "Login", c.Title)
	assert.Equal(t, "denied", c.Message)
}

func TestParseControlFractionalCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		wantX types.Coord
		wantY types.Coord
	}{
		{"integral_float", `{"type":"cursor_position","x":100.0,"y":50.0}`, 100, 50},
		{"half_rounds_up", `{"type":"cursor_position","x":100.5,"y":49.4}`, 101, 49},
		{"negative", `{"type":"cursor_position","x":-0.5,"y":-1.6}`, 0, -2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseControl([]byte(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.wantX, c.X)
			assert.Equal(t, tc.wantY, c.Y)
		})
	}

	c, err := ParseControl([]byte(`{"type":"cursor_data","hotx":2.6,"hoty":0.2,"width":1,"height":1,"data":"AAAAAA=="}`))
	require.NoError(t, err)
	assert.Equal(t, 3, c.CursorData().HotX)
	assert.Equal(t, 0, c.CursorData().HotY)
}

func TestParseControlRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"truncated", []byte(`{"type":"cursor_pos`), ErrInvalidControl},
		{"not_utf8", []byte{0xff, 0xfe}, ErrInvalidControl},
		{"unknown_kind", []byte(`{"type":"clipboard"}`), ErrUnknownControl},
		{"missing_kind", []byte(`{}`), ErrUnknownControl},
		{"coordinate_out_of_range", []byte(`{"type":"cursor_position","x":1e300,"y":0}`), ErrInvalidControl},
		{"coordinate_not_number", []byte(`{"type":"cursor_position","x":"1","y":0}`), ErrInvalidControl},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseControl(tc.data)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
