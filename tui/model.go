// Package tui is the thin presentation shell over the conversation core: it
// renders the message log, relays input, and progressively reveals each
// finished response.
package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
	"github.com/SubhamSharma-IITM/dost-chat/voice"
)

const (
	// revealInterval paces the typing effect.
	revealInterval = 30 * time.Millisecond
	// revealChunk is how many runes appear per tick.
	revealChunk = 3
)

type ctrlEventMsg chat.Event

type revealTickMsg time.Time

// Model is the bubbletea model for the chat shell.
type Model struct {
	ctrl    *chat.Controller
	rec     *voice.Recorder
	presets []string
	logger  *zap.Logger

	input    textinput.Model
	timeline viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	width   int
	height  int
	ready   bool
	staged  *chat.Attachment
	notice  string
	preset  int
	reveal  *revealState
	quitReq bool
}

// New creates the shell over an initialized controller and recorder.
func New(ctrl *chat.Controller, rec *voice.Recorder, presets []string, logger *zap.Logger) Model {
	input := textinput.New()
	input.Placeholder = "Ask DOST anything…"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = statusStyle

	return Model{
		ctrl:    ctrl,
		rec:     rec,
		presets: presets,
		logger:  logger,
		input:   input,
		spin:    sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, waitEvent(m.ctrl.Events()))
}

func waitEvent(ch <-chan chat.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ctrlEventMsg(ev)
	}
}

func revealTick() tea.Cmd {
	return tea.Tick(revealInterval, func(t time.Time) tea.Msg {
		return revealTickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.syncTimeline()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case ctrlEventMsg:
		ev := chat.Event(msg)
		switch ev.Type {
		case chat.EventResponseReady:
			if p := m.ctrl.PendingResponse(); p != nil {
				m.reveal = newRevealState(*p)
				cmds = append(cmds, revealTick())
			}
		case chat.EventFailed:
			m.notice = ev.Notice
		case chat.EventCancelled:
			// Silent: log retained as-is, no user-visible error.
		}
		m.syncTimeline()
		cmds = append(cmds, waitEvent(m.ctrl.Events()))

	case revealTickMsg:
		if m.reveal != nil {
			if m.reveal.advance(revealChunk) {
				cmds = append(cmds, revealTick())
			} else {
				m.ctrl.FinishReveal()
				m.reveal = nil
			}
			m.syncTimeline()
		}

	case tea.KeyMsg:
		cmd, handled := m.handleKey(msg)
		if handled {
			if m.quitReq {
				return m, tea.Quit
			}
			cmds = append(cmds, cmd)
			break
		}
		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		cmds = append(cmds, inputCmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quitReq = true
		return nil, true

	case "enter":
		m.handleSubmit()
		return nil, true

	case "ctrl+g":
		m.ctrl.Cancel()
		m.syncTimeline()
		return nil, true

	case "ctrl+r":
		m.toggleRecording()
		return nil, true

	case "ctrl+p":
		if len(m.presets) > 0 {
			m.input.SetValue(m.presets[m.preset%len(m.presets)])
			m.input.CursorEnd()
			m.preset++
		}
		return nil, true

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (m *Model) handleSubmit() {
	raw := m.input.Value()
	if strings.HasPrefix(strings.TrimSpace(raw), "/image") {
		m.stageImage(strings.TrimSpace(raw))
		return
	}
	m.submit(chat.Input{Text: raw, Image: m.staged})
}

// submit routes staged input into the controller. Staged input clears the
// moment a submission is accepted, independent of the eventual outcome;
// validation no-ops leave everything untouched.
func (m *Model) submit(in chat.Input) {
	_, err := m.ctrl.Submit(in)
	if errors.Is(err, chat.ErrEmptyInput) || errors.Is(err, chat.ErrRequestInFlight) {
		return
	}
	m.input.Reset()
	m.staged = nil
	m.notice = ""
	m.syncTimeline()
}

// stageImage handles "/image <path> [caption]": the image and caption are
// staged for the next text or voice submission.
func (m *Model) stageImage(cmdline string) {
	fields := strings.SplitN(cmdline, " ", 3)
	if len(fields) < 2 || fields[1] == "" {
		m.notice = "usage: /image <path> [caption]"
		return
	}
	path := fields[1]
	data, err := os.ReadFile(path)
	if err != nil {
		m.notice = "could not read image: " + err.Error()
		return
	}
	m.staged = &chat.Attachment{Name: filepath.Base(path), Data: data}
	caption := ""
	if len(fields) == 3 {
		caption = fields[2]
	}
	m.input.SetValue(caption)
	m.input.CursorEnd()
	m.notice = "staged image " + m.staged.Name
}

func (m *Model) toggleRecording() {
	if m.rec.Recording() {
		att, err := m.rec.Stop()
		m.rec.Reset()
		if err != nil {
			m.notice = "recording failed: " + err.Error()
			return
		}
		m.submit(chat.Input{Text: m.input.Value(), Image: m.staged, Audio: att})
		return
	}

	if m.ctrl.Loading() {
		return
	}
	if err := m.rec.Start(context.Background()); err != nil {
		// Microphone/permission problems surface here, with no state change.
		m.notice = err.Error()
		m.logger.Warn("could not start recording", zap.Error(err))
		return
	}
	m.notice = ""
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	chrome := 4 // title, status, input, help
	m.timeline = viewport.New(width, max(1, height-chrome))
	m.ready = true

	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.logger.Warn("could not create markdown renderer", zap.Error(err))
		m.renderer = nil
		return
	}
	m.renderer = renderer
}
