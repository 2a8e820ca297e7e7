// Package keymap translates wire identifiers (DOM key names, button names,
// wheel deltas) into the names the host's input injector understands.
package keymap

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var named = map[string]string{
	"enter":      "enter",
	"return":     "enter",
	"shift":      "shift",
	"control":    "ctrl",
	"ctrl":       "ctrl",
	"alt":        "alt",
	"option":     "alt",
	"meta":       "cmd",
	"command":    "cmd",
	"cmd":        "cmd",
	"os":         "cmd",
	"escape":     "esc",
	"esc":        "esc",
	" ":          "space",
	"space":      "space",
	"tab":        "tab",
	"backspace":  "backspace",
	"delete":     "delete",
	"insert":     "insert",
	"home":       "home",
	"end":        "end",
	"pageup":     "pageup",
	"pagedown":   "pagedown",
	"capslock":   "capslock",
	"arrowup":    "up",
	"arrowdown":  "down",
	"arrowleft":  "left",
	"arrowright": "right",
}

// Key normalises a DOM key identifier. ok is false for keys the injector has
// no name for; those are skipped by the caller.
func Key(k string) (name string, ok bool) {
	lower := strings.ToLower(k)
	if n, found := named[lower]; found {
		return n, true
	}
	if fn, found := functionKey(lower); found {
		return fn, true
	}
	// Single characters (letters, digits, symbols) are typed as themselves.
	if utf8.RuneCountInString(lower) == 1 {
		return lower, true
	}
	return "", false
}

func functionKey(k string) (string, bool) {
	if len(k) < 2 || k[0] != 'f' {
		return "", false
	}
	n, err := strconv.Atoi(k[1:])
	if err != nil || n < 1 || n > 12 {
		return "", false
	}
	return k, true
}

// Button maps a wire button name to the injector's name. Anything
// unrecognised is treated as left.
func Button(b string) string {
	switch strings.ToLower(b) {
	case "left", "l":
		return "left"
	case "right", "r":
		return "right"
	case "center", "middle", "m":
		return "center"
	default:
		return "left"
	}
}

// WheelPixelsPerStep is the DOM delta that corresponds to one wheel notch.
const WheelPixelsPerStep = 100

// WheelSteps converts a pixel delta into whole scroll steps. Any non-zero
// delta scrolls at least one step in its direction.
func WheelSteps(delta float64) int {
	if delta == 0 || math.IsNaN(delta) {
		return 0
	}
	steps := int(math.Round(delta / WheelPixelsPerStep))
	if steps == 0 {
		if delta > 0 {
			return 1
		}
		return -1
	}
	return steps
}
