// Package tui is the terminal front end: transport status, keyboard
// shortcuts and the highlight table.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/app/highlight"
	"github.com/osa030/pobre/internal/app/sequencer"
	"github.com/osa030/pobre/internal/app/shell"
	"github.com/osa030/pobre/internal/domain/annotation"
	"github.com/osa030/pobre/internal/domain/timecode"
)

const actionTimeout = 2 * time.Second

type mode int

const (
	modeNormal mode = iota
	modeOpen
	modeEditTime
	modeSave
)

type sequencerMsg struct {
	toolID string
	event  sequencer.Event
}

type eventsClosedMsg struct {
	toolID string
}

type tickMsg time.Time

type progressMsg struct {
	progress shell.Progress
	err      error
}

// Options configures the model.
type Options struct {
	Version      string
	PollInterval time.Duration // Transport status refresh (500ms when zero)
	OpenTool     bool          // Open the highlight tool on start
}

// Model is the bubbletea model.
type Model struct {
	shell    *shell.Shell
	notifier *Notifier
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	input    textinput.Model
	mode     mode

	version   string
	poll      time.Duration
	progress  shell.Progress
	cursor    int
	status    string
	errText   string
	listening string // id of the tool whose events are being read
	about     bool
	quitting  bool
}

// New creates the model. notifier must be the one the shell was created with.
func New(sh *shell.Shell, notifier *Notifier, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 1024

	m := Model{
		shell:    sh,
		notifier: notifier,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		input:    in,
		version:  opts.Version,
		poll:     opts.PollInterval,
		progress: shell.Progress{Volume: sh.Volume(), Paused: true},
		status:   "Ready - press o to open a video file",
	}
	if sh.File() != "" {
		m.status = fmt.Sprintf("Playing: %s", filepath.Base(sh.File()))
	}
	if opts.OpenTool {
		m.listening = sh.OpenHighlight().ID()
	}
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, sh *shell.Shell, notifier *Notifier, opts Options) error {
	p := tea.NewProgram(New(sh, notifier, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.notifier.wait(), m.pollProgress()}
	if tool := m.shell.Highlight(); tool != nil {
		cmds = append(cmds, waitForEvent(tool))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)

	case statusMsg:
		m.status = string(msg)
		m.errText = ""
		return m, m.notifier.wait()

	case scrollMsg:
		m.cursor = int(msg)
		return m, m.notifier.wait()

	case sequencerMsg:
		tool := m.shell.Highlight()
		if tool == nil || tool.ID() != msg.toolID {
			return m, nil
		}
		m.status = msg.event.Message
		// Started follows the first step and keeps that step's seek error.
		if msg.event.Type != sequencer.EventStarted {
			m.errText = ""
			if msg.event.Err != nil {
				m.errText = msg.event.Err.Error()
			}
		}
		if msg.event.Type == sequencer.EventStep {
			m.cursor = msg.event.Index
		}
		cmds := []tea.Cmd{waitForEvent(tool)}
		if msg.event.Type == sequencer.EventStarted {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case eventsClosedMsg:
		if m.listening == msg.toolID {
			m.listening = ""
		}
		return m, nil

	case tickMsg:
		return m, m.pollProgress()

	case progressMsg:
		if msg.err != nil {
			zlog.Debug().Msgf("tui: progress poll failed: %v", msg.err)
		} else {
			m.progress = msg.progress
		}
		return m, m.tick()

	case spinner.TickMsg:
		if tool := m.shell.Highlight(); tool != nil && tool.Playing() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.About):
		m.about = !m.about
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m, m.startInput(modeOpen, "", "path to a .mp4, .avi, .mkv or .mov file")
	case key.Matches(msg, m.keys.Highlight):
		tool := m.shell.OpenHighlight()
		if m.listening == tool.ID() {
			return m, nil
		}
		m.listening = tool.ID()
		m.cursor = max(0, tool.Table().Len()-1)
		return m, waitForEvent(tool)
	}

	if tool := m.shell.Highlight(); tool != nil {
		if handled, cmd := m.updateToolKeys(tool, msg); handled {
			return m, cmd
		}
	}

	if k := m.keys.shellKey(msg); k != shell.KeyUnknown {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := m.shell.HandleKey(ctx, k); err != nil {
			zlog.Warn().Err(err).Msgf("tui: key %s failed", msg.String())
			m.errText = err.Error()
		}
		return m, m.pollProgress()
	}

	return m, nil
}

// updateToolKeys handles keys that only exist while the highlight tool is open.
func (m *Model) updateToolKeys(tool *highlight.Tool, msg tea.KeyMsg) (bool, tea.Cmd) {
	table := tool.Table()
	switch {
	case key.Matches(msg, m.keys.AddRow):
		m.cursor = tool.AddRow()
	case key.Matches(msg, m.keys.PlayAll):
		if err := tool.PlayAll(); err != nil {
			zlog.Debug().Msgf("tui: play all rejected: %v", err)
		}
	case key.Matches(msg, m.keys.Stop):
		tool.StopPlayback()
	case key.Matches(msg, m.keys.Next):
		m.cursor = min(m.cursor+1, max(0, table.Len()-1))
	case key.Matches(msg, m.keys.Prev):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, m.keys.Edit):
		entry, ok := table.At(m.cursor)
		if !ok {
			return true, nil
		}
		return true, m.startInput(modeEditTime, entry.Time, "HH:MM:SS")
	case key.Matches(msg, m.keys.Toggle):
		if entry, ok := table.At(m.cursor); ok {
			_ = table.SetDirection(m.cursor, entry.Direction.Toggle())
		}
	case key.Matches(msg, m.keys.Save):
		return true, m.startInput(modeSave, "", "file name (empty for highlights_<date>.csv)")
	case key.Matches(msg, m.keys.CloseTool):
		tool.Close()
		m.listening = ""
		m.cursor = 0
		m.status = "Highlight CSV closed"
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) startInput(md mode, value, placeholder string) tea.Cmd {
	m.mode = md
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		md := m.mode
		value := strings.TrimSpace(m.input.Value())
		m.mode = modeNormal
		m.input.Blur()
		m.submit(md, value)
		return m, m.pollProgress()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit applies the text entered in an input prompt.
func (m *Model) submit(md mode, value string) {
	m.errText = ""
	switch md {
	case modeOpen:
		if value == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := m.shell.Open(ctx, value); err != nil {
			zlog.Warn().Err(err).Msgf("tui: open %s failed", value)
			m.errText = err.Error()
		}

	case modeEditTime:
		tool := m.shell.Highlight()
		if tool == nil {
			return
		}
		if err := tool.Table().SetTime(m.cursor, value); err != nil {
			m.errText = err.Error()
			return
		}
		if !timecode.Valid(value) {
			m.status = fmt.Sprintf("Invalid time %q will play from 00:00:00", value)
		}

	case modeSave:
		tool := m.shell.Highlight()
		if tool == nil {
			return
		}
		if _, err := tool.Save(value, time.Now()); err != nil {
			m.errText = err.Error()
		}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.poll, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) pollProgress() tea.Cmd {
	sh := m.shell
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		progress, err := sh.Progress(ctx)
		return progressMsg{progress: progress, err: err}
	}
}

func waitForEvent(tool *highlight.Tool) tea.Cmd {
	id := tool.ID()
	events := tool.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{toolID: id}
		}
		return sequencerMsg{toolID: id, event: ev}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(BulletStyle.Render("┌") + TitleStyle.Render(shell.AppName) + " " + MutedStyle.Render("v"+m.version) + "\n")
	b.WriteString(BulletStyle.Render("├") + m.transportView() + "\n")

	tool := m.shell.Highlight()
	if tool != nil {
		b.WriteString(m.tableView(tool))
	}
	if m.about {
		for _, line := range strings.Split(strings.TrimRight(shell.About(m.version), "\n"), "\n") {
			b.WriteString(BulletStyle.Render("│") + TextStyle.Render(line) + "\n")
		}
	}
	if m.mode != modeNormal {
		b.WriteString(BulletStyle.Render("├") + m.input.View() + "\n")
	}

	status := TextStyle.Render(m.status)
	if m.errText != "" {
		status = ErrorStyle.Render(m.errText)
	}
	b.WriteString(BulletStyle.Render("└") + status + "\n\n")

	keys := m.keys
	keys.toolOpen = tool != nil
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) transportView() string {
	icon := "▶"
	if m.progress.Paused {
		icon = "⏸"
	}
	file := "no file"
	if f := m.shell.File(); f != "" {
		file = filepath.Base(f)
	}
	return fmt.Sprintf("%s %s / %s  %s  %s",
		icon,
		TextStyle.Render(timecode.Format(m.progress.Position)),
		MutedStyle.Render(timecode.Format(m.progress.Duration)),
		MutedStyle.Render(fmt.Sprintf("Vol %d%%", m.progress.Volume)),
		TextStyle.Render(file),
	)
}

func (m Model) tableView(tool *highlight.Tool) string {
	var b strings.Builder
	b.WriteString(BulletStyle.Render("│") + "\n")
	b.WriteString(BulletStyle.Render("├") + TitleStyle.Render("Highlight CSV") + "\n")
	b.WriteString(BulletStyle.Render("│") + HeaderStyle.Render(fmt.Sprintf("    %3s  %-10s %s", "#", "Time", "Side")) + "\n")

	playing := -1
	if tool.Playing() {
		playing = tool.PlayingIndex()
	}
	for i, entry := range tool.Table().Entries() {
		b.WriteString(BulletStyle.Render("│") + renderRow(i, entry, i == m.cursor, i == playing, m.spinner.View()) + "\n")
	}
	return b.String()
}

// renderRow draws one table row. Times that do not parse are marked.
func renderRow(index int, entry annotation.Entry, selected, playing bool, spin string) string {
	marker := "  "
	switch {
	case playing:
		marker = spin
	case selected:
		marker = "> "
	}

	timeText := fmt.Sprintf("%-10s", entry.Time)
	if timecode.Valid(entry.Time) {
		timeText = TextStyle.Render(timeText)
	} else {
		timeText = InvalidStyle.Render(timeText)
	}

	line := fmt.Sprintf("%s %3d  %s %s", marker, index+1, timeText, entry.Direction)
	if !timecode.Valid(entry.Time) {
		line += " " + ErrorStyle.Render("invalid time")
	}

	switch {
	case playing:
		return PlayingStyle.Render(line)
	case selected:
		return SelectedStyle.Render(line)
	default:
		return RowStyle.Render(line)
	}
}
