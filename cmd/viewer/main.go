package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rdviewer/internal/config"
	"rdviewer/internal/input"
	"rdviewer/internal/logging"
	"rdviewer/internal/metrics"
	"rdviewer/internal/session"
	"rdviewer/internal/ui"
	"rdviewer/internal/viewer"
)

type rootOptions struct {
	configPath string
	endpoint   string
	variant    string
	logLevel   string
}

func main() {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "viewer",
		Short: "Remote desktop viewer",
		Long: `Connects to a remote host over websocket, shows its screen with the
remote cursor overlaid and forwards local mouse and keyboard input.

Hotkeys:
  Ctrl+Alt+End  send the secure attention sequence
  Ctrl+Alt+P    type the provisioned credentials
  Ctrl+Alt+N    dismiss notices`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "config file")
	flags.StringVarP(&opts.endpoint, "endpoint", "e", "", "host websocket URL")
	flags.StringVar(&opts.variant, "variant", "", "wire framing: typed or untyped")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level")

	rootCmd.AddCommand(snapshotCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// load reads the config file and applies flag overrides.
func load(opts *rootOptions) (*config.Config, *logrus.Entry, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.endpoint != "" {
		cfg.Endpoint = opts.endpoint
	}
	if opts.variant != "" {
		cfg.Variant = opts.variant
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, "viewer")
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func viewerConfig(cfg *config.Config, m *metrics.Metrics, log *logrus.Entry) viewer.Config {
	return viewer.Config{
		Variant:   cfg.ProtocolVariant(),
		NoticeTTL: cfg.NoticeTTL,
		Metrics:   m,
		Log:       log,
		Input: input.Config{
			Wheel:         cfg.WheelPolicy(),
			StrictButtons: cfg.StrictButtons,
			Credentials:   cfg.Credentials(),
		},
	}
}

func runWindow(cmd *cobra.Command, opts *rootOptions) error {
	cfg, log, err := load(opts)
	if err != nil {
		return err
	}
	m := metrics.New()
	if srv := m.Serve(cfg.MetricsAddr, log); srv != nil {
		defer srv.Close()
	}

	sess := session.Dial(cmd.Context(), cfg.Endpoint, session.Options{Log: log})
	defer sess.Close()
	log = log.WithField("session", sess.ID())
	log.WithFields(logrus.Fields{"endpoint": cfg.Endpoint, "variant": cfg.Variant}).Info("connecting")

	game := ui.NewGame(sess.Events(), log)
	v := viewer.New(sess, game.DisplayRect, viewerConfig(cfg, m, log))
	game.Attach(v)

	return ui.Run(game, ui.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  fmt.Sprintf("%s - %s", cfg.Window.Title, cfg.Endpoint),
	})
}
