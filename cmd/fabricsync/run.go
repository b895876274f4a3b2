package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fabricsync/fabricsync/pkg/config"
	"github.com/fabricsync/fabricsync/pkg/controller"
	"github.com/fabricsync/fabricsync/pkg/log"
	"github.com/fabricsync/fabricsync/pkg/metrics"
	"github.com/fabricsync/fabricsync/pkg/session"
	"github.com/fabricsync/fabricsync/pkg/source"
	"github.com/fabricsync/fabricsync/pkg/syncer"
	"github.com/fabricsync/fabricsync/pkg/transport"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the periodic sync daemon",
	Long: `Run the sync daemon: every sync interval, claim the region's
sync session, push the local network model to the controller in
dependency order, and release the session.`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
	})
	logger := log.WithComponent("daemon")

	metrics.Register()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	src, err := source.NewBoltSource(cfg.DataDir)
	if err != nil {
		return err
	}
	defer src.Close()

	tr, err := pickController(cfg)
	if err != nil {
		return err
	}

	w := controller.NewWrapper(cfg.Region, cfg.SyncInterval, tr)
	sess := session.NewManager(cfg.Region, cfg.SyncInterval, tr)

	if err := w.RegisterRegion(); err != nil {
		return fmt.Errorf("failed to register region %s: %w", cfg.Region, err)
	}
	logger.Info().Str("region", cfg.Region).Int("interval", cfg.SyncInterval).Msg("region registered")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := syncer.New(src, w, sess, cfg.SyncPeriod())
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("daemon stopped")
	return nil
}

// pickController returns a transport to the first reachable
// configured endpoint. Leader election among controllers is the
// controller cluster's concern, not ours.
func pickController(cfg *config.Config) (*transport.Client, error) {
	var opts []transport.Option
	opts = append(opts, transport.WithTimeout(cfg.RequestTimeout()))
	if !cfg.TLSVerify() {
		opts = append(opts, transport.WithInsecureTLS())
	}
	if cfg.Username != "" {
		opts = append(opts, transport.WithBasicAuth(cfg.Username, cfg.Password))
	}

	for _, endpoint := range cfg.Controllers {
		c := transport.NewClient(endpoint, opts...)
		if c.Reachable() {
			return c, nil
		}
		log.Warn("controller endpoint unreachable: " + endpoint)
	}
	return nil, fmt.Errorf("no reachable controller among %d configured endpoints", len(cfg.Controllers))
}
