package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"karolbroda.com/karaoke/internal/config"
	"karolbroda.com/karaoke/internal/logging"
)

var (
	// global flags
	mprisService string
	syncOffsetMs int64
	hideHeader   bool
	logLevel     string
	logFile      string
)

var rootCmd = &cobra.Command{
	Use:   "karaoke [audio file]",
	Short: "terminal karaoke lyrics viewer",
	Long: `karaoke shows synchronized lyrics from .lrc sidecar files in the terminal.

given an audio file it plays the lyrics on a local clock. use 'karaoke follow'
to track a running mpris music player instead.`,
	Version: "0.1.0",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runLocal(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris service name (e.g., org.mpris.MediaPlayer2.mpd)")
	rootCmd.PersistentFlags().Int64VarP(&syncOffsetMs, "sync-offset", "s", 0, "initial sync offset in milliseconds, positive shows lyrics earlier")
	rootCmd.PersistentFlags().BoolVarP(&hideHeader, "hide-header", "H", false, "hide header section")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file used by the viewer")
}

// loadConfig merges config files, environment and flags, flags winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if mprisService != "" {
		cfg.MprisService = mprisService
	}
	if flags.Changed("sync-offset") {
		cfg.SyncOffsetMs = syncOffsetMs
	}
	if flags.Changed("hide-header") {
		cfg.HideHeader = hideHeader
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	return cfg, nil
}

// setupCLILogging sends logs to stderr for the plain subcommands.
func setupCLILogging(cfg *config.Config) error {
	_, err := logging.Setup(cfg.Log.Level, "")
	return err
}

// setupViewerLogging sends logs to a file, the viewer owns the terminal.
func setupViewerLogging(cfg *config.Config) (func(), error) {
	path := cfg.Log.File
	if path == "" {
		path = config.DefaultLogFile()
	}

	closer, err := logging.Setup(cfg.Log.Level, path)
	if err != nil {
		return nil, err
	}

	return func() {
		log.SetOutput(os.Stderr)
		_ = closer.Close()
	}, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
