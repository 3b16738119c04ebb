package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/yandex-music-downloader/internal/config"
	"github.com/handiism/yandex-music-downloader/internal/download"
)

var (
	accent = lipgloss.Color("#FF6B6B")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// logMark is how a log line of one level is drawn.
type logMark struct {
	prefix string
	style  lipgloss.Style
}

var logMarks = map[download.ProgressLevel]logMark{
	download.LevelInfo:    {"›", lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))},
	download.LevelVerbose: {"•", dimStyle},
	download.LevelWarning: {"!", lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))},
	download.LevelError:   {"✗", lipgloss.NewStyle().Foreground(accent)},
	download.LevelSuccess: {"✓", lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))},
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♪ Yandex Music Downloader"))
	b.WriteString("\n")

	switch m.state {
	case StateInput:
		m.writeInput(&b)
	case StateInitializing:
		b.WriteString(m.spinner.View() + " " + headingStyle.Render("Resolving tracks..."))
		b.WriteString("\n\n")
	case StateDownloading:
		m.writeAlbums(&b)
		b.WriteString(m.progress.ViewAs(m.percent()))
		b.WriteString("\n")
		b.WriteString(m.summary(" | "))
		b.WriteString("\n\n")
	case StateComplete:
		b.WriteString(summaryStyle.Render("Download complete\n" + m.summary("\n")))
		b.WriteString("\n\n")
	case StateError:
		b.WriteString(logMarks[download.LevelError].style.Render(fmt.Sprintf("✗ %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.state != StateInput {
		for _, entry := range m.logs {
			mark := logMarks[entry.Level]
			b.WriteString(mark.style.Render(mark.prefix + " " + entry.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) writeInput(b *strings.Builder) {
	b.WriteString(headingStyle.Render("Enter album, track or artist URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	opts := m.opts
	for _, item := range opts.items() {
		box := "[ ]"
		if *item.value {
			box = "[×]"
		}
		fmt.Fprintf(b, "  %s %s (%s)\n", box, item.label, item.key)
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Saving to " + filepath.Join(m.settings.DownloadsPath, m.settings.PathPattern)))
	b.WriteString("\n")
	if m.settings.SessionID == "" {
		b.WriteString(logMarks[download.LevelWarning].style.Render("No session: set " + config.EnvSessionID + " for full-length tracks"))
		b.WriteString("\n")
	}
}

func (m Model) writeAlbums(b *strings.Builder) {
	for _, album := range m.albums {
		b.WriteString(headingStyle.Render("♪ " + album))
		b.WriteString("\n")
	}
	if len(m.albums) > 0 {
		b.WriteString("\n")
	}
}

func (m Model) percent() float64 {
	if m.stats.Total == 0 {
		return 0
	}
	return float64(m.stats.Done()) / float64(m.stats.Total)
}

// summary renders the batch counters joined by sep.
func (m Model) summary(sep string) string {
	return strings.Join([]string{
		fmt.Sprintf("Tracks: %d/%d", m.stats.Downloaded, m.stats.Total),
		fmt.Sprintf("Skipped: %d", m.stats.Skipped),
		fmt.Sprintf("Failed: %d", m.stats.Failed),
		fmt.Sprintf("Received: %.2f MB", float64(m.stats.ReceivedBytes)/1024/1024),
	}, sep)
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+o/l/g/p/t: toggle options • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	default:
		return "r: new download • q: quit"
	}
}
