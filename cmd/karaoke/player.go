package main

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"karolbroda.com/karaoke/internal/lrc"
	"karolbroda.com/karaoke/internal/lyrics"
	"karolbroda.com/karaoke/internal/player"
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "mpris player utilities",
	Long:  `discover mpris-compatible music players and inspect what they are playing.`,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "list available mpris players",
	RunE: func(cmd *cobra.Command, args []string) error {
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		services, err := player.ListServices(bus)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(services) == 0 {
			fmt.Fprintln(out, "no mpris players found")
			fmt.Fprintln(out, "\ncheck if your music player is running and supports mpris")
			return nil
		}

		fmt.Fprintf(out, "found %d mpris player(s):\n\n", len(services))
		for _, service := range services {
			if identity := player.Identity(bus, service); identity != "" {
				fmt.Fprintf(out, "  %s (%s)\n", service, identity)
			} else {
				fmt.Fprintf(out, "  %s\n", service)
			}
		}

		fmt.Fprintln(out, "\nuse --mpris-service to choose which player to follow")

		return nil
	},
}

var playerCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "show the current track and whether it has lyrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := setupCLILogging(cfg); err != nil {
			return err
		}

		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		playerService, err := player.NewService(bus, cfg.MprisService)
		if err != nil {
			return fmt.Errorf("failed to connect to player: %w", err)
		}

		out := cmd.OutOrStdout()

		trk, err := playerService.CurrentTrack()
		if err != nil {
			fmt.Fprintf(out, "no track currently playing on %s\n", cfg.MprisService)
			return nil
		}

		fmt.Fprintf(out, "title:    %s\n", trk.Title)
		fmt.Fprintf(out, "artist:   %s\n", trk.Artist)
		if trk.Album != "" {
			fmt.Fprintf(out, "album:    %s\n", trk.Album)
		}
		if trk.DurationMs > 0 {
			fmt.Fprintf(out, "duration: %s\n", lrc.FromMillis(trk.DurationMs))
		}
		if pos, err := playerService.PositionMillis(); err == nil {
			fmt.Fprintf(out, "position: %s\n", lrc.FromMillis(pos))
		}
		if playing, err := playerService.Playing(); err == nil {
			if playing {
				fmt.Fprintln(out, "state:    playing")
			} else {
				fmt.Fprintln(out, "state:    paused")
			}
		}

		if trk.Path == "" {
			fmt.Fprintln(out, "lyrics:   not a local file")
			return nil
		}

		fmt.Fprintf(out, "file:     %s\n", trk.Path)
		lines, err := lyrics.LoadFor(trk.Path)
		if err != nil {
			fmt.Fprintf(out, "lyrics:   %s\n", lyrics.Describe(err))
			return nil
		}
		fmt.Fprintf(out, "lyrics:   %d lines (%s)\n", len(lines), lyrics.SidecarPath(trk.Path))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(playerCmd)

	playerCmd.AddCommand(playerListCmd)
	playerCmd.AddCommand(playerCurrentCmd)
}
