package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gpssim.weilijiang.com/internal/app"
	"gpssim.weilijiang.com/internal/config"
	"gpssim.weilijiang.com/internal/controller"
	"gpssim.weilijiang.com/internal/form"
	"gpssim.weilijiang.com/internal/gpssim"
	"gpssim.weilijiang.com/internal/logging"
	"gpssim.weilijiang.com/internal/serialport"
)

var (
	flagConfig       string
	flagLogFile      string
	flagLogLevel     string
	flagProbeCount   int
	flagProbeTimeout time.Duration
	flagBaud         int
	flagAutostart    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gpssim",
		Short: "GPSSIM - NMEA 0183 GPS receiver simulator",
		Long: `GPSSIM emits NMEA 0183 sentences for a simulated GPS receiver on a
serial device, or without one for a dry run.

Edit the receiver configuration in the console and press Enter to
(re)start the simulator. Values that cannot be used are corrected in
place and the simulator starts anyway.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML settings file")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (disabled when empty)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagProbeCount, "probe-count", config.ProbeCount, "Indexed serial devices to probe")
	rootCmd.PersistentFlags().DurationVar(&flagProbeTimeout, "probe-timeout", config.ProbeTimeout, "Per-device probe timeout, e.g. 250ms")
	rootCmd.Flags().IntVar(&flagBaud, "baud", config.DefaultBaudRate, "Initial baud rate")
	rootCmd.Flags().BoolVar(&flagAutostart, "autostart", false, "Start the simulator with the default values")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "ports",
		Short: "List serial devices that can be opened",
		RunE:  listPorts,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the settings file and applies flag overrides.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.Load(flagConfig)
	if err != nil {
		return s, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-file") {
		s.LogFile = flagLogFile
	}
	if flags.Changed("log-level") {
		s.LogLevel = flagLogLevel
	}
	if flags.Changed("probe-count") {
		s.ProbeCount = flagProbeCount
	}
	if flags.Changed("probe-timeout") {
		s.ProbeTimeout = flagProbeTimeout
	}
	if flags.Changed("baud") {
		s.BaudRate = flagBaud
	}
	return s, s.Validate()
}

func discover(s config.Settings, logger *zap.Logger) []string {
	return serialport.Discover(context.Background(), serialport.Options{
		ProbeCount:   s.ProbeCount,
		ProbeTimeout: s.ProbeTimeout,
		USBPatterns:  s.USBPatterns,
		Logger:       logger,
	})
}

func listPorts(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(s.LogFile, s.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	for _, p := range discover(s, logger) {
		if p == "" {
			p = "(none)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(s.LogFile, s.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ports := discover(s, logger)
	logger.Info("ports discovered", zap.Strings("ports", ports))

	log := app.NewSentenceLog(config.SentenceLogSize)
	sim := gpssim.New(
		gpssim.WithInterval(s.TickInterval),
		gpssim.WithObserver(log.Push),
		gpssim.WithLogger(logger),
	)
	pipeline := form.New(nil)
	ctrl := controller.New(sim, pipeline, logger)
	// Kill the simulator on the way out, however the console exits.
	defer ctrl.Stop()

	model := app.New(ctrl, pipeline, log, app.Options{
		Ports:     ports,
		BaudRate:  s.BaudRate,
		Autostart: flagAutostart,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
