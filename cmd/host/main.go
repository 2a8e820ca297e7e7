package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rdviewer/internal/capture"
	"rdviewer/internal/config"
	"rdviewer/internal/inject"
	"rdviewer/internal/logging"
	"rdviewer/internal/metrics"
	"rdviewer/internal/server"
)

type options struct {
	configPath string
	addr       string
	fps        int
	display    int
	variant    string
	logLevel   string
}

func main() {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "host",
		Short: "Serve this desktop to a single rdviewer",
		Long: `Captures a local display, streams it as raw RGBA frames over websocket
and injects the input events the viewer sends back. A new viewer
replaces the one currently connected.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "config file")
	flags.StringVar(&opts.addr, "addr", "", "listen address (env ADDR)")
	flags.IntVar(&opts.fps, "fps", 0, "frames per second")
	flags.IntVar(&opts.display, "display", -1, "display index")
	flags.StringVar(&opts.variant, "variant", "", "wire framing: typed or untyped")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Host.Addr = opts.addr
	}
	if opts.fps > 0 {
		cfg.Host.FPS = opts.fps
	}
	if opts.display >= 0 {
		cfg.Host.Display = opts.display
	}
	if opts.variant != "" {
		cfg.Variant = opts.variant
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, "host")
	if err != nil {
		return err
	}

	if os.Getenv("DISPLAY") == "" {
		// Keep X11 capture working when launched outside a session shell.
		os.Setenv("DISPLAY", ":0")
	}

	screen, err := capture.Open(cfg.Host.Display)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"display": cfg.Host.Display, "bounds": screen.Bounds()}).Info("capturing display")

	m := metrics.New()
	host := server.New(server.Config{
		Variant:  cfg.ProtocolVariant(),
		FPS:      cfg.Host.FPS,
		Source:   screen,
		Injector: inject.New(screen.Bounds().Min, log),
		Metrics:  m,
		Log:      log,
	})

	mux := http.NewServeMux()
	mux.Handle("/", host.Handler())
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: cfg.Host.Addr, Handler: mux}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go host.Stream(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Host.Addr, "variant": cfg.Variant, "fps": cfg.Host.FPS}).Info("host listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	host.Notify("Host shutting down", "The remote host is stopping.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
	return nil
}
