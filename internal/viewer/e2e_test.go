package viewer

import (
	"context"
	"image"
	"image/color"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdviewer/internal/coords"
	"rdviewer/internal/protocol"
	"rdviewer/internal/server"
	"rdviewer/internal/session"
	"rdviewer/internal/types"
)

type gradient struct{}

func (gradient) Frame() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.SetRGBA(3, 1, color.RGBA{10, 20, 30, 255})
	return img, nil
}

func (gradient) CursorPos() (int, int) { return 2, 1 }

type inbox chan types.InputEvent

func (i inbox) Handle(ev types.InputEvent) error {
	i <- ev
	return nil
}

func TestHostToViewer(t *testing.T) {
	for _, variant := range []protocol.Variant{protocol.VariantTyped, protocol.VariantUntyped} {
		t.Run(variant.String(), func(t *testing.T) {
			received := make(inbox, 8)
			host := server.New(server.Config{Variant: variant, FPS: 50, Source: gradient{}, Injector: received})
			hs := httptest.NewServer(host.Handler())
			defer hs.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			go host.Stream(ctx)

			sess := session.Dial(ctx, "ws"+strings.TrimPrefix(hs.URL, "http"), session.Options{})
			defer sess.Close()

			rect := coords.Rect{Width: 8, Height: 4}
			v := New(sess, func() coords.Rect { return rect }, Config{Variant: variant})
			require.NoError(t, v.WaitForFrame(ctx, sess.Events()))

			img := v.Surface().Image()
			require.NotNil(t, img)
			assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(3, 1))

			if variant.HasControl() {
				p, ok := v.Cursor().Placement()
				require.True(t, ok)
				assert.Equal(t, 4.0, p.X)
				assert.Equal(t, 2.0, p.Y)
			}

			// 6,3 in an 8x4 rect is remote 3,2 (rounded from 1.5).
			v.Relay().PointerDown(0, 6, 3, rect, v.Surface().Geometry())
			select {
			case ev := <-received:
				assert.Equal(t, types.EventMouseDown, ev.Type)
				x, y, _ := ev.Point()
				assert.Equal(t, 3, x)
				assert.Equal(t, 2, y)
			case <-ctx.Done():
				t.Fatal("host never received input")
			}
		})
	}
}
