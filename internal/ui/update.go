package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"karolbroda.com/karaoke/internal/lyrics"
	"karolbroda.com/karaoke/internal/player"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case PlayerEventMsg:
		return m.handlePlayerEvent(msg.Event)

	case LyricsLoadedMsg:
		return m.handleLyricsLoaded(msg)

	case PaletteMsg:
		if msg.Palette != nil && msg.Track.IsSameTrack(m.track) {
			m.palette = msg.Palette
		}
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		m.Stop()
		return m, tea.Quit

	case " ":
		if m.clock != nil {
			m.playing = m.clock.Toggle()
		}

	case "left", "h":
		m.seek(-m.seekStepMs)

	case "right", "l":
		m.seek(m.seekStepMs)

	case "+", "=":
		m.syncOffsetMs += offsetStepSmall

	case "-", "_":
		m.syncOffsetMs -= offsetStepSmall

	case "]":
		m.syncOffsetMs += offsetStepLarge

	case "[":
		m.syncOffsetMs -= offsetStepLarge

	case "0":
		m.syncOffsetMs = 0

	case "tab", "i":
		m.hideHeader = !m.hideHeader
		return m, nil

	default:
		return m, nil
	}

	m.refreshPosition()
	return m, nil
}

// seek only applies to the local clock; a followed player is seeked from
// the player itself.
func (m *Model) seek(deltaMs int64) {
	if m.clock == nil {
		return
	}
	m.clock.SeekBy(deltaMs)
}

func (m *Model) refreshPosition() {
	if m.source != nil {
		if pos, err := m.source.PositionMillis(); err == nil {
			m.positionMs = pos
		}
	}
	m.recompute()
}

func (m Model) handlePlayerEvent(event player.EventData) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.listenForPlayerEvents()}

	switch event.Type {
	case player.EventTrackChanged:
		m.resetForTrack(event.Track)
		m.positionMs = event.PositionMs
		m.playing = event.Playing
		if event.Track != nil {
			log.WithFields(log.Fields{
				"track": event.Track.DisplayTitle(),
				"path":  event.Track.Path,
			}).Info("now playing")
			cmds = append(cmds, loadLyricsCmd(m.store, event.Track), loadPaletteCmd(event.Track))
		}

	case player.EventSeeked:
		m.positionMs = event.PositionMs
		m.recompute()

	case player.EventPlaybackStateChanged:
		m.playing = event.Playing
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleLyricsLoaded(msg LyricsLoadedMsg) (tea.Model, tea.Cmd) {
	if !msg.Track.IsSameTrack(m.track) {
		// a newer track replaced this one while loading
		return m, nil
	}

	m.loading = false
	m.lines = msg.Lines
	m.loadErr = msg.Err

	entry := log.WithField("track", msg.Track.DisplayTitle())
	switch {
	case msg.Err == nil:
		entry.WithField("lines", len(msg.Lines)).Debug("lyrics ready")
	case errors.Is(msg.Err, lyrics.ErrNotFound), errors.Is(msg.Err, ErrNoLocalFile):
		entry.WithError(msg.Err).Info("no lyrics")
	default:
		entry.WithError(msg.Err).Warn("failed to load lyrics")
	}

	m.recompute()
	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.follower != nil {
		if err := m.follower.Poll(); err != nil && m.pollErrLog.Allow(now) {
			log.WithError(err).Debug("player poll failed")
		}
	}

	if m.source != nil {
		pos, err := m.source.PositionMillis()
		if err != nil {
			if m.positionErrLog.Allow(now) {
				log.WithError(err).Debug("failed to read playback position")
			}
		} else {
			m.positionMs = pos
		}
	}

	if m.clock != nil {
		m.playing = m.clock.Playing()
	}

	m.recompute()
	return m, m.tickCmd()
}
