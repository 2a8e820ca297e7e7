package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Enter", "enter", true},
		{"Control", "ctrl", true},
		{"Meta", "cmd", true},
		{"Escape", "esc", true},
		{" ", "space", true},
		{"ArrowLeft", "left", true},
		{"PageDown", "pagedown", true},
		{"F1", "f1", true},
		{"F12", "f12", true},
		{"F13", "", false},
		{"A", "a", true},
		{"7", "7", true},
		{"é", "é", true},
		{"Dead", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Key(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestButton(t *testing.T) {
	assert.Equal(t, "left", Button("left"))
	assert.Equal(t, "right", Button("RIGHT"))
	assert.Equal(t, "center", Button("middle"))
	assert.Equal(t, "left", Button("back"))
}

func TestWheelSteps(t *testing.T) {
	assert.Equal(t, 0, WheelSteps(0))
	assert.Equal(t, 1, WheelSteps(3))
	assert.Equal(t, -1, WheelSteps(-40))
	assert.Equal(t, 1, WheelSteps(120))
	assert.Equal(t, -3, WheelSteps(-300))
}
