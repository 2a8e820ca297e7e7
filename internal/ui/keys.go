package ui

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// namedKeys maps ebiten keys to DOM KeyboardEvent.key values.
var namedKeys = map[ebiten.Key]string{
	ebiten.KeyEnter:        "Enter",
	ebiten.KeyNumpadEnter:  "Enter",
	ebiten.KeyTab:          "Tab",
	ebiten.KeySpace:        " ",
	ebiten.KeyBackspace:    "Backspace",
	ebiten.KeyDelete:       "Delete",
	ebiten.KeyInsert:       "Insert",
	ebiten.KeyEscape:       "Escape",
	ebiten.KeyHome:         "Home",
	ebiten.KeyEnd:          "End",
	ebiten.KeyPageUp:       "PageUp",
	ebiten.KeyPageDown:     "PageDown",
	ebiten.KeyArrowUp:      "ArrowUp",
	ebiten.KeyArrowDown:    "ArrowDown",
	ebiten.KeyArrowLeft:    "ArrowLeft",
	ebiten.KeyArrowRight:   "ArrowRight",
	ebiten.KeyCapsLock:     "CapsLock",
	ebiten.KeyShiftLeft:    "Shift",
	ebiten.KeyShiftRight:   "Shift",
	ebiten.KeyControlLeft:  "Control",
	ebiten.KeyControlRight: "Control",
	ebiten.KeyAltLeft:      "Alt",
	ebiten.KeyAltRight:     "Alt",
	ebiten.KeyMetaLeft:     "Meta",
	ebiten.KeyMetaRight:    "Meta",
	ebiten.KeyF1:           "F1",
	ebiten.KeyF2:           "F2",
	ebiten.KeyF3:           "F3",
	ebiten.KeyF4:           "F4",
	ebiten.KeyF5:           "F5",
	ebiten.KeyF6:           "F6",
	ebiten.KeyF7:           "F7",
	ebiten.KeyF8:           "F8",
	ebiten.KeyF9:           "F9",
	ebiten.KeyF10:          "F10",
	ebiten.KeyF11:          "F11",
	ebiten.KeyF12:          "F12",
}

// symbolKeys holds the unshifted and shifted character of each symbol key
// on a US layout.
var symbolKeys = map[ebiten.Key][2]string{
	ebiten.KeyMinus:        {"-", "_"},
	ebiten.KeyEqual:        {"=", "+"},
	ebiten.KeyBracketLeft:  {"[", "{"},
	ebiten.KeyBracketRight: {"]", "}"},
	ebiten.KeyBackslash:    {"\\", "|"},
	ebiten.KeySemicolon:    {";", ":"},
	ebiten.KeyQuote:        {"'", "\""},
	ebiten.KeyBackquote:    {"`", "~"},
	ebiten.KeyComma:        {",", "<"},
	ebiten.KeyPeriod:       {".", ">"},
	ebiten.KeySlash:        {"/", "?"},
	ebiten.Key0:            {"0", ")"},
	ebiten.Key1:            {"1", "!"},
	ebiten.Key2:            {"2", "@"},
	ebiten.Key3:            {"3", "#"},
	ebiten.Key4:            {"4", "$"},
	ebiten.Key5:            {"5", "%"},
	ebiten.Key6:            {"6", "^"},
	ebiten.Key7:            {"7", "&"},
	ebiten.Key8:            {"8", "*"},
	ebiten.Key9:            {"9", "("},
}

// domKey returns the DOM key name for k, or "" if it has none.
func domKey(k ebiten.Key, shift bool) string {
	if name, ok := namedKeys[k]; ok {
		return name
	}
	if s := k.String(); len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z' {
		if shift {
			return s
		}
		return strings.ToLower(s)
	}
	if pair, ok := symbolKeys[k]; ok {
		if shift {
			return pair[1]
		}
		return pair[0]
	}
	return ""
}
