package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Amr-9/YggHunter/internal/config"
	"github.com/Amr-9/YggHunter/internal/ui"
	"github.com/Amr-9/YggHunter/pkg/generator"
	"github.com/Amr-9/YggHunter/pkg/generator/cpu"
	"github.com/Amr-9/YggHunter/pkg/generator/gpu"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ygghunter",
		Short: "Search Ed25519 keys for high network addresses",
		Long: `ygghunter derives Ed25519 key pairs from random seeds and reports, for each
pattern, every key whose address height (leading zero bits of the public key)
is at least the best seen so far. It runs until interrupted.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if err := config.Bind(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	cmd.AddCommand(newVerifyCmd())
	return cmd
}

func newLogger(w io.Writer, cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	})
	logger.SetLevel(cfg.Level())
	return logger
}

// newGenerator builds the backend selected by cfg. The release function
// frees the device, if any.
func newGenerator(cfg *config.Config, log logrus.FieldLogger) (generator.Generator, func() error, error) {
	backend, err := generator.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	switch backend {
	case generator.CPU:
		return cpu.NewCPUGenerator(cfg.Workers), func() error { return nil }, nil
	default:
		dev := gpu.NewSoftwareDevice(cfg.Workers)
		log.WithField("device", dev.Name()).Info("compute device ready")
		g := gpu.NewGPUGenerator(dev)
		return g, g.Release, nil
	}
}

// run searches until ctx is cancelled or the backend fails. Reports go to
// out; banner, progress and logs go to errOut so out stays parseable.
func run(ctx context.Context, out, errOut io.Writer, cfg *config.Config) error {
	logger := newLogger(errOut, cfg)

	reports, err := ui.NewReportWriter(out, cfg.Format)
	if err != nil {
		return err
	}

	gen, release, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.WithError(err).Warn("release device")
		}
	}()

	gcfg := cfg.Generator(logger)
	ui.PrintBanner(errOut, version)
	ui.PrintSearchInfo(errOut, gen.Name(), gcfg)

	results, err := gen.Start(ctx, gcfg)
	if err != nil {
		return fmt.Errorf("start %s search: %w", gen.Name(), err)
	}

	var tick <-chan time.Time
	if cfg.Stats {
		ticker := time.NewTicker(cfg.StatsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case res, ok := <-results:
			if !ok {
				return gen.Wait()
			}
			if err := reports.Write(&res); err != nil {
				logger.WithError(err).Error("write report")
			}
		case <-tick:
			logger.Info(ui.StatsLine(gen.Stats()))
		}
	}
}
