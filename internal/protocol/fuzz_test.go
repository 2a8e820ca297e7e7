package protocol_test

import (
	"encoding/binary"
	"testing"

	"rdviewer/internal/cursor"
	"rdviewer/internal/protocol"
	"rdviewer/internal/surface"
	"rdviewer/internal/types"
)

func hugeHeader() []byte {
	b := binary.LittleEndian.AppendUint32(nil, 1<<31)
	return binary.LittleEndian.AppendUint32(b, 1<<31)
}

// FuzzDecode tests that decoding and painting arbitrary bytes doesn't panic.
func FuzzDecode(f *testing.F) {
	// Seed with valid frames
	f.Add(true, protocol.EncodeFrame(protocol.VariantTyped, 2, 1, make([]byte, 8)))
	f.Add(false, protocol.EncodeFrame(protocol.VariantUntyped, 1, 1, []byte{1, 2, 3, 4}))
	cd, _ := protocol.EncodeControl(protocol.VariantTyped, types.NewCursorData(types.CursorData{
		Data: "AQIDBA==", Width: 1, Height: 1,
	}))
	f.Add(true, cd)
	f.Add(true, append([]byte{0}, hugeHeader()...))
	f.Add(false, hugeHeader())
	f.Add(true, append([]byte{1}, `{"type":"cursor_data","width":2147483648,"height":2147483648,"data":""}`...))

	f.Fuzz(func(t *testing.T, typed bool, data []byte) {
		v := protocol.VariantUntyped
		if typed {
			v = protocol.VariantTyped
		}
		m, err := protocol.Decode(v, data)
		if err != nil {
			return
		}
		switch m.Type {
		case protocol.TypeFrame:
			s := surface.New()
			s.Paint(m.Frame)
			if len(s.Image().Pix) != len(m.Frame.Pix) {
				t.Fatalf("painted %d bytes from a %d byte frame", len(s.Image().Pix), len(m.Frame.Pix))
			}
		case protocol.TypeControl:
			c, err := protocol.ParseControl(m.Control)
			if err != nil || c.Type != types.ControlCursorData {
				return
			}
			var st cursor.State
			_ = st.Apply(c.CursorData())
		}
	})
}
