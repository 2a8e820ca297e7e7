package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rdviewer/internal/coords"
	"rdviewer/internal/metrics"
	"rdviewer/internal/render"
	"rdviewer/internal/session"
	"rdviewer/internal/surface"
	"rdviewer/internal/viewer"
)

func snapshotCmd(root *rootOptions) *cobra.Command {
	var (
		out     string
		width   int
		height  int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Connect, wait for a frame and save it as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(root)
			if err != nil {
				return err
			}
			if width <= 0 || height <= 0 {
				width, height = cfg.Window.Width, cfg.Window.Height
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			sess := session.Dial(ctx, cfg.Endpoint, session.Options{Log: log})
			defer sess.Close()
			log = log.WithField("session", sess.ID())

			comp := render.Compositor{Width: width, Height: height}
			var v *viewer.Viewer
			v = viewer.New(sess, func() coords.Rect {
				return comp.Rect(v.Surface().Geometry())
			}, viewerConfig(cfg, metrics.New(), log))
			v.OnFrame(func(s *surface.Surface) {
				log.WithField("frames", s.Frames()).Debug("frame received")
			})

			if err := v.WaitForFrame(ctx, sess.Events()); err != nil {
				return err
			}

			img := comp.Compose(v.Surface().Image(), v.Cursor())
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			defer f.Close()
			if err := render.WritePNG(f, img); err != nil {
				return err
			}
			log.WithField("out", out).Info("snapshot written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "snapshot.png", "output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "canvas width (default: window width)")
	cmd.Flags().IntVar(&height, "height", 0, "canvas height (default: window height)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	return cmd
}
