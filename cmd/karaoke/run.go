package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"karolbroda.com/karaoke/internal/clock"
	"karolbroda.com/karaoke/internal/lyrics"
	"karolbroda.com/karaoke/internal/track"
	"karolbroda.com/karaoke/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run <audio file>",
	Short: "show lyrics for a local audio file",
	Long: `starts the lyrics viewer for an audio file, timed by a local clock that starts
immediately. space pauses, left and right seek. lyrics are read from the .lrc
file next to the audio file.`,
	Args: cobra.ExactArgs(1),
	RunE: runLocal,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runLocal(cmd *cobra.Command, args []string) error {
	audioPath := args[0]
	if _, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("cannot open audio file: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	restore, err := setupViewerLogging(cfg)
	if err != nil {
		return err
	}
	defer restore()

	trk := track.FromFile(audioPath)
	log.WithFields(log.Fields{"path": audioPath, "track": trk.DisplayTitle()}).Info("starting local viewer")

	c := clock.New()
	c.Start()

	model := ui.NewModel(ui.ModelConfig{
		Clock:        c,
		Track:        trk,
		Store:        lyrics.NewStore(),
		SyncOffsetMs: cfg.SyncOffsetMs,
		HideHeader:   cfg.HideHeader,
		PollInterval: cfg.PollInterval(),
		SeekStep:     cfg.SeekStep(),
	})

	return runProgram(model, nil)
}

// runProgram runs the viewer until it quits or the process is signalled.
func runProgram(model ui.Model, onStop func()) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		if onStop != nil {
			onStop()
		}
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running bubble tea: %w", err)
	}

	return nil
}
