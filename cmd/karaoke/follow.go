package main

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"karolbroda.com/karaoke/internal/lyrics"
	"karolbroda.com/karaoke/internal/player"
	"karolbroda.com/karaoke/internal/ui"
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "show lyrics for the track an mpris player is playing",
	Long: `follows an mpris-compatible music player over d-bus and shows the lyrics of
the current track. the player must report a local file url so the .lrc file
next to it can be found.`,
	Args: cobra.NoArgs,
	RunE: runFollow,
}

func init() {
	rootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer bus.Close()

	restore, err := setupViewerLogging(cfg)
	if err != nil {
		return err
	}
	defer restore()

	playerService, err := player.NewService(bus, cfg.MprisService)
	if err != nil {
		return fmt.Errorf("failed to create player service: %w", err)
	}

	if err := playerService.Start(); err != nil {
		log.WithError(err).Warn("could not set up dbus signals, falling back to polling")
	}
	defer playerService.Stop()

	log.WithField("service", cfg.MprisService).Info("following player")

	model := ui.NewModel(ui.ModelConfig{
		Follower:     playerService,
		Store:        lyrics.NewStore(),
		SyncOffsetMs: cfg.SyncOffsetMs,
		HideHeader:   cfg.HideHeader,
		PollInterval: cfg.PollInterval(),
	})

	return runProgram(model, playerService.Stop)
}
