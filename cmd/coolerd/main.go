package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"runtime"

	"github.com/icetrail/coolerd"
	showprofiles "github.com/icetrail/coolerd/cmd/coolerd/show_profiles"
	"github.com/icetrail/coolerd/vertex"
	"github.com/mdouchement/logger"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cpath string
	dummy bool
)

func main() {
	cmd := &cobra.Command{
		Use:     "coolerd",
		Short:   "A monitor daemon for Icetrail Vertex liquid coolers",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.NoArgs,
		RunE:    daemon,
	}
	cmd.Flags().StringVarP(&cpath, "config", "c", "/etc/coolerd/coolerd.yml", "Configfile path")
	cmd.Flags().BoolVarP(&dummy, "dummy", "", false, "Start coolerd with a dummy cooler")
	cmd.AddCommand(showprofiles.Command())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for coolerd",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cmd.Version)
		},
	})

	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func daemon(_ *cobra.Command, args []string) error {
	cfg, err := coolerd.Load(cpath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	h := logger.NewSlogTextHandler(os.Stdout, &logger.SlogTextOption{
		Level:            level,
		ForceColors:      true,
		ForceFormatting:  true,
		PrefixRE:         regexp.MustCompile(`^(\[.*?\])\s`),
		DisableTimestamp: true, // Provided by journalctl
	})
	log := logger.WrapSlogHandler(h)
	ctx := logger.WithLogger(context.Background(), log)

	log.Infof("coolerd version %s", version)

	var cooler coolerd.Cooler = coolerd.NewDummyCooler()
	if !dummy {
		ctrl, err := open(cfg)
		if err != nil {
			return fmt.Errorf("cooler: %w", err)
		}
		if cfg.Debug {
			ctrl.SetLogger(log)
		}
		ctrl.SetStrict(cfg.Device.StrictAcks)

		{
			log.Infof("Cooler `%s` - SN: %s", ctrl.Name(), ctrl.Serial())

			fw, err := ctrl.FirmwareVersion()
			if err != nil {
				panic(err)
			}
			log.Infof("Firmware - %s", fw)
		}

		defer ctrl.Close()
		cooler = ctrl
	}

	ctx, cancel := context.WithCancel(ctx)

	controler, err := coolerd.New(cfg, cooler)
	if err != nil {
		cancel()
		return err
	}

	if err := controler.Apply(ctx, cfg); err != nil {
		cancel()
		return err
	}

	controler.Launch(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	<-ctx.Done()
	cancel()

	log.Info("Gracefully shutdown")
	return nil
}

func open(cfg coolerd.Config) (*vertex.Controller, error) {
	if cfg.Device.Serial != "" {
		return vertex.Open(cfg.Device.Serial)
	}

	return vertex.OpenAuto()
}
