// Package tui provides a Bubble Tea terminal user interface for yandex-music-downloader.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/yandex-music-downloader/internal/config"
	"github.com/handiism/yandex-music-downloader/internal/download"
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// options are the settings toggled on the input screen.
type options struct {
	embedCover bool
	lyrics     bool
	hq         bool
	playlist   bool
	verbose    bool
}

// toggle flips the option bound to key and reports whether key is bound.
func (o *options) toggle(key string) bool {
	for _, item := range o.items() {
		if item.key == key {
			*item.value = !*item.value
			return true
		}
	}
	return false
}

type optionItem struct {
	key   string
	label string
	value *bool
}

func (o *options) items() []optionItem {
	return []optionItem{
		{"ctrl+o", "Embed cover", &o.embedCover},
		{"ctrl+l", "Add lyrics", &o.lyrics},
		{"ctrl+g", "High quality", &o.hq},
		{"ctrl+p", "Create playlist", &o.playlist},
		{"ctrl+t", "Verbose output", &o.verbose},
	}
}

// eventSink collects progress events from download goroutines until the
// next tick drains them.
type eventSink struct {
	mu     sync.Mutex
	events []download.ProgressEvent
}

func (s *eventSink) add(e download.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *eventSink) drain() []download.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	albums    []string
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager
	sink    *eventSink

	// Download progress
	stats download.Progress

	opts options

	width  int
	height int
}

// NewModel creates a new TUI model using settings as the base
// configuration.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "https://music.yandex.ru/album/123"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		sink:      &eventSink{},
		ctx:       ctx,
		cancel:    cancel,
		opts: options{
			embedCover: settings.EmbedCover,
			lyrics:     settings.AddLyrics,
			hq:         settings.HQ,
			playlist:   settings.CreatePlaylist,
		},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when download progress updates.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when initialization completes.
	InitDoneMsg struct {
		Albums  []string
		Manager *download.Manager
		Err     error
	}

	// DownloadStartMsg triggers the actual download after init.
	DownloadStartMsg struct{}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Stats download.Progress
		Err   error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if m.state == StateInput && m.opts.toggle(msg.String()) {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeDownload(), m.spinner.Tick)
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for new download
				m.state = StateInput
				m.logs = nil
				m.albums = nil
				m.err = nil
				m.stats = download.Progress{}
				m.manager = nil
				m.sink.drain()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.addLog(msg.Event)

	case InitDoneMsg:
		for _, e := range m.sink.drain() {
			m.addLog(e)
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.albums = msg.Albums
			m.manager = msg.Manager
			m.state = StateDownloading
			m.stats = msg.Manager.GetProgress()
			// Start the actual download and tick for progress updates
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.stats = msg.Stats
		for _, e := range m.sink.drain() {
			m.addLog(e)
		}
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		for _, e := range m.sink.drain() {
			m.addLog(e)
		}
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			m.stats = m.manager.GetProgress()

			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// addLog appends an event to the visible log, keeping the last 10.
func (m *Model) addLog(e download.ProgressEvent) {
	if e.Level == download.LevelVerbose && !m.opts.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// downloadSettings returns a copy of the base settings with the toggled
// options applied.
func (m Model) downloadSettings() *config.Settings {
	settings := *m.settings
	settings.EmbedCover = m.opts.embedCover
	settings.AddLyrics = m.opts.lyrics
	settings.HQ = m.opts.hq
	settings.CreatePlaylist = m.opts.playlist
	return &settings
}

// initializeDownload fetches album info and creates the manager.
func (m *Model) initializeDownload() tea.Cmd {
	input := m.textInput.Value()
	settings := m.downloadSettings()
	sink := m.sink
	ctx := m.ctx

	return func() tea.Msg {
		// Events are collected and shown on the next tick
		manager, err := download.New(settings, sink.add)
		if err != nil {
			return InitDoneMsg{Err: err}
		}

		// Initialize - this fetches album info
		if err := manager.Initialize(ctx, input); err != nil {
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{
			Albums:  manager.GetAlbumNames(),
			Manager: manager,
		}
	}
}

// startDownload starts the actual download in background.
func (m *Model) startDownload() tea.Cmd {
	manager := m.manager
	ctx := m.ctx

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := manager.StartDownloads(ctx)
		return DownloadDoneMsg{
			Stats: manager.GetProgress(),
			Err:   err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
