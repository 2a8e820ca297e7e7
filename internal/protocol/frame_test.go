package protocol

import (
	"encoding/binary"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdviewer/internal/types"
)

func header(w, h uint32) []byte {
	b := binary.LittleEndian.AppendUint32(nil, w)
	return binary.LittleEndian.AppendUint32(b, h)
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
		wantW   uint32
		wantH   uint32
	}{
		{
			name:  "two_by_one",
			data:  append(header(2, 1), 255, 0, 0, 255, 0, 255, 0, 255),
			wantW: 2,
			wantH: 1,
		},
		{
			name:    "short_payload",
			data:    append(header(2, 1), 1, 2, 3),
			wantErr: ErrGeometryMismatch,
		},
		{
			name:    "long_payload",
			data:    append(header(1, 1), 1, 2, 3, 4, 5),
			wantErr: ErrGeometryMismatch,
		},
		{
			name:    "header_only",
			data:    []byte{1, 0, 0},
			wantErr: ErrShortHeader,
		},
		{
			name:    "zero_width",
			data:    header(0, 10),
			wantErr: ErrEmptyGeometry,
		},
		{
			name:    "size_wraps_to_zero",
			data:    header(1<<31, 1<<31),
			wantErr: ErrGeometryMismatch,
		},
		{
			name:    "huge_geometry_small_payload",
			data:    append(header(0xFFFFFFFF, 0xFFFFFFFF), 1, 2, 3, 4),
			wantErr: ErrGeometryMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := DecodeFrame(tc.data)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantW, f.Width)
			assert.Equal(t, tc.wantH, f.Height)
			n, ok := ExpectedLen(tc.wantW, tc.wantH)
			require.True(t, ok)
			assert.Len(t, f.Pix, n)
		})
	}
}

func TestExpectedLen(t *testing.T) {
	n, ok := ExpectedLen(2, 3)
	assert.True(t, ok)
	assert.Equal(t, 24, n)

	_, ok = ExpectedLen(1<<31, 1<<31)
	assert.False(t, ok, "2^31 * 2^31 * 4 overflows")

	_, ok = ExpectedLen(0xFFFFFFFF, 0xFFFFFFFF)
	assert.False(t, ok)
}

func TestDecodeTyped(t *testing.T) {
	pix := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	msg := EncodeFrame(VariantTyped, 2, 1, pix)
	assert.Equal(t, byte(TypeFrame), msg[0])
	assert.Len(t, msg, 1+8+len(pix))

	m, err := Decode(VariantTyped, msg)
	require.NoError(t, err)
	assert.Equal(t, TypeFrame, m.Type)
	assert.Equal(t, pix, m.Frame.Pix)

	ctl, err := EncodeControl(VariantTyped, types.Control{Type: types.ControlCursorPosition, X: 3, Y: 4})
	require.NoError(t, err)
	m, err = Decode(VariantTyped, ctl)
	require.NoError(t, err)
	assert.Equal(t, TypeControl, m.Type)
	assert.JSONEq(t, `{"type":"cursor_position","x":3,"y":4}`, string(m.Control))

	_, err = Decode(VariantTyped, []byte{7, 1, 2})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Decode(VariantTyped, nil)
	assert.ErrorIs(t, err, ErrShortHeader)
}

func TestDecodeUntyped(t *testing.T) {
	pix := []byte{1, 2, 3, 4}
	msg := EncodeFrame(VariantUntyped, 1, 1, pix)
	assert.Len(t, msg, 8+len(pix))

	m, err := Decode(VariantUntyped, msg)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), m.Frame.Width)
	assert.Equal(t, pix, m.Frame.Pix)

	// A leading 0x01 is just part of the width in this variant.
	_, err = Decode(VariantUntyped, append([]byte{1}, msg...))
	assert.ErrorIs(t, err, ErrGeometryMismatch)

	_, err = EncodeControl(VariantUntyped, types.Control{})
	assert.ErrorIs(t, err, ErrNoControlChannel)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("Typed")
	require.NoError(t, err)
	assert.Equal(t, VariantTyped, v)

	v, err = ParseVariant("untyped")
	require.NoError(t, err)
	assert.Equal(t, VariantUntyped, v)
	assert.False(t, v.HasControl())

	_, err = ParseVariant("protobuf")
	assert.Error(t, err)
}

func TestPackRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	assert.Equal(t, img.Pix, PackRGBA(img))

	sub := img.SubImage(image.Rect(1, 0, 3, 2)).(*image.RGBA)
	assert.Equal(t, []byte{4, 5, 6, 7, 8, 9, 10, 11, 16, 17, 18, 19, 20, 21, 22, 23}, PackRGBA(sub))
}
