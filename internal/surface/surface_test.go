package surface

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdviewer/internal/coords"
	"rdviewer/internal/protocol"
)

func TestPaintTwoByOne(t *testing.T) {
	s := New()
	assert.Nil(t, s.Image())
	assert.False(t, s.Geometry().Known())

	pix := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	f, err := protocol.DecodeFrame(append([]byte{2, 0, 0, 0, 1, 0, 0, 0}, pix...))
	require.NoError(t, err)

	assert.True(t, s.Paint(f))
	img := s.Image()
	require.NotNil(t, img)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
	assert.Equal(t, pix, img.Pix)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(1, 0))
	assert.Equal(t, coords.Geometry{Width: 2, Height: 1}, s.Geometry())
}

func TestPaintCopiesPayload(t *testing.T) {
	s := New()
	pix := []byte{1, 2, 3, 4}
	s.Paint(protocol.Frame{Width: 1, Height: 1, Pix: pix})
	pix[0] = 99
	assert.Equal(t, byte(1), s.Image().Pix[0])
}

func TestResizeOnlyOnChange(t *testing.T) {
	s := New()
	sizes := []struct{ w, h uint32 }{{4, 4}, {4, 4}, {8, 2}, {8, 2}, {4, 4}}
	for _, sz := range sizes {
		n, _ := protocol.ExpectedLen(sz.w, sz.h)
		s.Paint(protocol.Frame{Width: sz.w, Height: sz.h, Pix: make([]byte, n)})
		assert.Len(t, s.Image().Pix, n)
	}
	assert.Equal(t, uint64(3), s.Resizes())
	assert.Equal(t, uint64(5), s.Frames())
	assert.Equal(t, uint64(5), s.Generation())
}
