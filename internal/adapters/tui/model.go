// Package tui is the terminal page of the navigator: transcript, archive
// sidebar, input line, attachment preview and notices.
package tui

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/dbu-intelligence/navigator/internal/app/conversation"
	"github.com/dbu-intelligence/navigator/internal/domain"
	"github.com/dbu-intelligence/navigator/internal/observability"
)

const (
	sidebarWidth    = 30
	minSidebarWidth = 80 // terminal width below which the sidebar is hidden
	headerHeight    = 2
	inputHeight     = 3
	footerHeight    = 1
	statusHeight    = 2 // loading line + attachment preview
)

type viewMode int

const (
	chatView viewMode = iota
	pickerView
)

// Options tune the page. GlamourStyle is a glamour standard style name; empty
// means detect from the terminal.
type Options struct {
	GlamourStyle string
	StartDir     string
}

type replyMsg struct {
	result conversation.Result
}

type dictationMsg struct {
	event  domain.DictationEvent
	events <-chan domain.DictationEvent
}

type dictationClosedMsg struct{}

type attachmentMsg struct {
	attachment *domain.Attachment
	err        error
}

// Model is the bubbletea model of the chat page. All session state lives in
// the manager; the model only holds widgets.
type Model struct {
	ctx     context.Context
	manager *conversation.Manager
	keys    keyMap
	styles  Styles
	opts    Options

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	picker   filepicker.Model
	help     help.Model
	renderer *glamour.TermRenderer

	mode     viewMode
	notice   *conversation.Notice
	status   string
	exchange *conversation.Exchange

	width  int
	height int
	ready  bool
}

func New(ctx context.Context, manager *conversation.Manager, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask DBU AI anything..."
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:      ctx,
		manager:  manager,
		keys:     defaultKeyMap(),
		styles:   DefaultStyles(),
		opts:     opts,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		picker:   newPicker(opts.StartDir),
		help:     help.New(),
	}
	sp.Style = m.styles.Loading
	m.spinner = sp
	return m
}

func newPicker(dir string) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = pickerTypes()
	if dir == "" {
		dir, _ = os.Getwd()
	}
	fp.CurrentDirectory = dir
	return fp
}

// pickerTypes lists each image extension in lower and upper case; the picker
// matches suffixes case-sensitively and cameras write IMG_0001.JPG.
func pickerTypes() []string {
	types := make([]string, 0, 2*len(conversation.ImageExtensions))
	for _, ext := range conversation.ImageExtensions {
		types = append(types, ext, strings.ToUpper(ext))
	}
	return types
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyMsg:
		m.manager.Complete(m.ctx, msg.result)
		m.exchange = nil
		m.refresh()
		return m, nil

	case dictationMsg:
		if n := m.manager.HandleDictationEvent(m.ctx, msg.event); n != nil {
			m.notice = n
		}
		if msg.event.Type == domain.DictationResult {
			m.input.SetValue(m.manager.Pending().Text)
			m.input.CursorEnd()
		}
		return m, waitDictation(msg.events)

	case dictationClosedMsg:
		m.manager.HandleDictationEvent(m.ctx, domain.DictationEvent{Type: domain.DictationEnded})
		return m, nil

	case attachmentMsg:
		if msg.err != nil {
			observability.Logger().Warn("attachment rejected", "error", msg.err)
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		m.manager.SetPendingAttachment(msg.attachment)
		return m, nil

	case spinner.TickMsg:
		// the spinner only runs while a request is out
		if !m.manager.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.mode == pickerView {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// notices block everything until acknowledged
	if m.notice != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.notice = nil
		}
		return m, nil
	}

	if m.mode == pickerView {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m.send()

	case key.Matches(msg, m.keys.NewSession):
		m.manager.StartNewSession(m.ctx)
		m.input.Reset()
		m.status = ""
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Attach):
		m.mode = pickerView
		m.picker = newPicker(m.opts.StartDir)
		m.picker.Height = m.pickerHeight()
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.Detach):
		m.manager.SetPendingAttachment(nil)
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Dictate):
		return m.dictate()

	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.manager.SetPendingText(m.input.Value())
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.mode = chatView
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.mode = chatView
		return m, tea.Batch(cmd, loadAttachment(path))
	}
	if didSelect, path := m.picker.DidSelectDisabledFile(msg); didSelect {
		m.status = path + " is not an image"
	}
	return m, cmd
}

// send runs the first phase of a submission on the event loop and hands the
// network call to a command.
func (m Model) send() (tea.Model, tea.Cmd) {
	m.manager.SetPendingText(m.input.Value())

	ex, ok := m.manager.Submit(m.ctx)
	if !ok {
		return m, nil
	}

	m.exchange = ex
	m.input.Reset()
	m.status = ""
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.dispatch(ex))
}

func (m Model) dispatch(ex *conversation.Exchange) tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		return replyMsg{result: manager.Dispatch(ctx, ex)}
	}
}

func (m Model) dictate() (tea.Model, tea.Cmd) {
	events, err := m.manager.StartDictation(m.ctx)
	switch {
	case errors.Is(err, domain.ErrSpeechUnavailable):
		m.notice = &conversation.Notice{Text: conversation.UnsupportedNotice}
		return m, nil
	case errors.Is(err, domain.ErrDictationActive):
		return m, nil
	case err != nil:
		observability.Logger().Warn("dictation could not start", "error", err)
		m.status = "Dictation failed to start."
		return m, nil
	}
	return m, waitDictation(events)
}

func waitDictation(events <-chan domain.DictationEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return dictationClosedMsg{}
		}
		return dictationMsg{event: ev, events: events}
	}
}

func loadAttachment(path string) tea.Cmd {
	return func() tea.Msg {
		att, err := conversation.LoadAttachment(path)
		return attachmentMsg{attachment: att, err: err}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	chatWidth := width
	if width >= minSidebarWidth {
		chatWidth = width - sidebarWidth - 1
	}
	if chatWidth < 1 {
		chatWidth = 1
	}

	vpHeight := height - headerHeight - inputHeight - footerHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	m.viewport.Width = chatWidth
	m.viewport.Height = vpHeight
	m.input.Width = chatWidth - 6
	m.picker.Height = m.pickerHeight()
	m.help.Width = width

	wrap := chatWidth - 4
	if wrap < 10 {
		wrap = 10
	}
	m.renderer = newRenderer(m.opts.GlamourStyle, wrap)
	m.ready = true
	m.refresh()
}

func (m Model) pickerHeight() int {
	h := m.height - headerHeight - footerHeight - 2
	if h < 3 {
		return 3
	}
	return h
}

func newRenderer(style string, wrap int) *glamour.TermRenderer {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		observability.Logger().Warn("markdown renderer unavailable", "error", err)
		return nil
	}
	return r
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
