package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/karaoke/internal/artwork"
	"karolbroda.com/karaoke/internal/clock"
	"karolbroda.com/karaoke/internal/logging"
	"karolbroda.com/karaoke/internal/lyrics"
	"karolbroda.com/karaoke/internal/lyricsync"
	"karolbroda.com/karaoke/internal/player"
	"karolbroda.com/karaoke/internal/track"
)

// ErrNoLocalFile means the followed player is playing something that is
// not a local file, so there is no sidecar to look for.
var ErrNoLocalFile = errors.New("player did not report a local file")

const (
	offsetStepSmall = 100
	offsetStepLarge = 500

	errorLogInterval = 5 * time.Second
)

// PositionSource reports the playback position in milliseconds.
type PositionSource interface {
	PositionMillis() (uint64, error)
}

// Follower is an external media player the viewer tracks.
type Follower interface {
	PositionSource
	Poll() error
	Events() <-chan player.EventData
	Stop()
}

type TickMsg time.Time

type PlayerEventMsg struct {
	Event player.EventData
}

type LyricsLoadedMsg struct {
	Track *track.Info
	Lines []lyrics.Line
	Err   error
}

type PaletteMsg struct {
	Track   *track.Info
	Palette *artwork.Palette
}

type Model struct {
	source   PositionSource
	follower Follower
	clock    *clock.Clock
	store    *lyrics.Store

	track   *track.Info
	lines   []lyrics.Line
	loadErr error
	loading bool
	palette *artwork.Palette

	active       int
	positionMs   uint64
	playing      bool
	syncOffsetMs int64
	hideHeader   bool
	pollInterval time.Duration
	seekStepMs   int64

	pollErrLog     logging.Throttle
	positionErrLog logging.Throttle

	width    int
	height   int
	quitting bool
}

type ModelConfig struct {
	// Clock drives a locally played file. Set either Clock or Follower.
	Clock *clock.Clock
	// Track is the local file shown with Clock.
	Track *track.Info

	Follower Follower

	Store        *lyrics.Store
	SyncOffsetMs int64
	HideHeader   bool
	PollInterval time.Duration
	SeekStep     time.Duration
}

func NewModel(cfg ModelConfig) Model {
	m := Model{
		follower:       cfg.Follower,
		clock:          cfg.Clock,
		store:          cfg.Store,
		track:          cfg.Track,
		palette:        artwork.DefaultPalette(),
		active:         lyricsync.NoLine,
		syncOffsetMs:   cfg.SyncOffsetMs,
		hideHeader:     cfg.HideHeader,
		pollInterval:   cfg.PollInterval,
		seekStepMs:     cfg.SeekStep.Milliseconds(),
		pollErrLog:     logging.Throttle{Interval: errorLogInterval},
		positionErrLog: logging.Throttle{Interval: errorLogInterval},
	}

	if m.store == nil {
		m.store = lyrics.NewStore()
	}
	if m.pollInterval <= 0 {
		m.pollInterval = 50 * time.Millisecond
	}
	if m.seekStepMs <= 0 {
		m.seekStepMs = 5_000
	}

	switch {
	case cfg.Follower != nil:
		m.source = cfg.Follower
	case cfg.Clock != nil:
		m.source = cfg.Clock
		m.playing = cfg.Clock.Playing()
	}

	if m.track != nil {
		m.loading = true
	}

	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd()}

	if m.follower != nil {
		cmds = append(cmds, m.listenForPlayerEvents())
	}
	if m.track != nil {
		cmds = append(cmds, loadLyricsCmd(m.store, m.track), loadPaletteCmd(m.track))
	}

	return tea.Batch(cmds...)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) listenForPlayerEvents() tea.Cmd {
	if m.follower == nil {
		return nil
	}

	events := m.follower.Events()
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return PlayerEventMsg{Event: event}
	}
}

func loadLyricsCmd(store *lyrics.Store, trk *track.Info) tea.Cmd {
	return func() tea.Msg {
		if trk.Path == "" {
			return LyricsLoadedMsg{Track: trk, Err: ErrNoLocalFile}
		}
		lines, err := store.Get(trk.Path)
		return LyricsLoadedMsg{Track: trk, Lines: lines, Err: err}
	}
}

func loadPaletteCmd(trk *track.Info) tea.Cmd {
	return func() tea.Msg {
		if trk.Path == "" {
			return PaletteMsg{Track: trk, Palette: artwork.DefaultPalette()}
		}
		return PaletteMsg{Track: trk, Palette: artwork.PaletteFor(trk.Path)}
	}
}

// recompute derives the active line from the last known position.
func (m *Model) recompute() {
	m.active = lyricsync.Update(m.lines, lyricsync.AdjustPosition(m.positionMs, m.syncOffsetMs))
}

func (m *Model) resetForTrack(trk *track.Info) {
	m.track = trk
	m.lines = nil
	m.loadErr = nil
	m.loading = trk != nil
	m.active = lyricsync.NoLine
	m.positionMs = 0
	m.palette = artwork.DefaultPalette()
}

func (m Model) Track() *track.Info        { return m.track }
func (m Model) Lines() []lyrics.Line      { return m.lines }
func (m Model) Active() int               { return m.active }
func (m Model) PositionMs() uint64        { return m.positionMs }
func (m Model) SyncOffsetMs() int64       { return m.syncOffsetMs }
func (m Model) HideHeader() bool          { return m.hideHeader }
func (m Model) Palette() *artwork.Palette { return m.palette }
func (m Model) LoadErr() error            { return m.loadErr }
func (m Model) Loading() bool             { return m.loading }
func (m Model) Playing() bool             { return m.playing }
func (m Model) IsQuitting() bool          { return m.quitting }

func (m *Model) Stop() {
	if m.follower != nil {
		m.follower.Stop()
	}
	if m.clock != nil {
		m.clock.Pause()
	}
}
