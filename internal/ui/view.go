package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/karaoke/internal/artwork"
	"karolbroda.com/karaoke/internal/lrc"
	"karolbroda.com/karaoke/internal/lyrics"
	"karolbroda.com/karaoke/internal/lyricsync"
)

const (
	errorColor  = "#FF6B6B"
	lineSpacing = 2
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	palette := m.palette
	if palette == nil {
		palette = artwork.DefaultPalette()
	}

	if m.track == nil {
		return m.renderWaitingScreen(palette, width, height)
	}

	var lines []string
	if !m.hideHeader {
		lines = append(lines, m.renderHeader(palette, width)...)
	}

	bodyHeight := height - len(lines)
	switch {
	case m.loading:
		lines = append(lines, m.renderNotice(palette.Dim, "loading lyrics", bodyHeight, width)...)
	case m.loadErr != nil:
		lines = append(lines, m.renderLoadError(palette, bodyHeight, width)...)
	default:
		lines = append(lines, m.renderLyrics(palette, bodyHeight, width)...)
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderWaitingScreen(palette *artwork.Palette, width int, height int) string {
	lines := m.renderNotice(palette.Dim, "waiting for a track", height, width)
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader(palette *artwork.Palette, width int) []string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))

	maxWidth := max(width-4, 10)

	lines := []string{"", "  " + titleStyle.Render(truncate(m.track.DisplayTitle(), maxWidth))}
	if m.track.Album != "" {
		lines = append(lines, "  "+infoStyle.Render(truncate(m.track.Album, maxWidth)))
	}

	status := formatPosition(m.positionMs)
	if m.track.DurationMs > 0 {
		status += " / " + formatPosition(m.track.DurationMs)
	}
	if !m.playing {
		status += "  paused"
	}
	if m.syncOffsetMs != 0 {
		status += fmt.Sprintf("  offset %+dms", m.syncOffsetMs)
	}
	lines = append(lines, "  "+dimStyle.Render(status), "")

	return lines
}

func (m Model) renderLoadError(palette *artwork.Palette, height int, width int) []string {
	var parseErr *lyrics.ParseError
	var readErr *lyrics.ReadError

	switch {
	case errors.Is(m.loadErr, lyrics.ErrNotFound):
		return m.renderNotice(palette.Dim, "no lyrics for this song", height, width)
	case errors.Is(m.loadErr, ErrNoLocalFile):
		return m.renderNotice(palette.Dim, "not a local file, no lyrics to show", height, width)
	case errors.Is(m.loadErr, lyrics.ErrEmpty):
		return m.renderNotice(palette.Dim, "lyrics file has no timed lines", height, width)
	case errors.As(m.loadErr, &parseErr):
		return m.renderNotice(errorColor, "could not parse lyrics: "+parseErr.Err.Error(), height, width)
	case errors.As(m.loadErr, &readErr):
		return m.renderNotice(errorColor, "could not read lyrics: "+readErr.Err.Error(), height, width)
	default:
		return m.renderNotice(errorColor, m.loadErr.Error(), height, width)
	}
}

func (m Model) renderNotice(color string, text string, height int, width int) []string {
	height = max(height, 0)
	lines := make([]string, 0, height+1)
	for i := 0; i < height/2-1; i++ {
		lines = append(lines, "")
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Italic(true)
	lines = append(lines, centerText(style.Render(truncate(text, width-2)), width))

	return lines
}

func roleStyle(palette *artwork.Palette, role lyricsync.Role) lipgloss.Style {
	switch role {
	case lyricsync.RoleCurrent:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
	case lyricsync.RoleUpcoming:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Accent))
	case lyricsync.RolePast:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Faint(true)
	}
}

// renderLyrics centers the active line, or the gap above the first line
// before playback reaches it.
func (m Model) renderLyrics(palette *artwork.Palette, height int, width int) []string {
	output := make([]string, height)
	if height <= 0 {
		return output
	}

	mid := height / 2
	for i, line := range m.lines {
		row := mid + (i-m.active)*lineSpacing
		if row < 0 {
			continue
		}
		if row >= height {
			break
		}

		text := line.Text
		if strings.TrimSpace(text) == "" {
			text = "♪"
		}

		style := roleStyle(palette, lyricsync.Classify(m.active, i))
		output[row] = centerText(style.Render(truncate(text, width-4)), width)
	}

	return output
}

func centerText(text string, screenWidth int) string {
	padding := (screenWidth - lipgloss.Width(text)) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat(" ", padding) + text
}

func truncate(text string, maxWidth int) string {
	runes := []rune(text)
	if maxWidth < 1 || len(runes) <= maxWidth {
		return text
	}
	return string(runes[:maxWidth-1]) + "…"
}

func formatPosition(ms uint64) string {
	ts := lrc.FromMillis(ms)
	return fmt.Sprintf("%d:%02d", ts.Minutes, ts.Seconds)
}
