package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"askpdf/internal/domain"
	"askpdf/internal/llm"
	"askpdf/internal/service"
	"askpdf/internal/session"
)

// RAGPort is the TUI-facing subset of the RAG service.
type RAGPort interface {
	IngestPDF(ctx context.Context, name string, r io.Reader) (service.IngestReport, error)
	Answer(ctx context.Context, question string, choice llm.Choice) (domain.Answer, error)
}

type page int

const (
	pageUpload page = iota
	pageAsk
)

func (p page) String() string {
	if p == pageAsk {
		return "Ask PDF"
	}
	return "Upload PDF"
}

var pages = []page{pageUpload, pageAsk}

// Options tune the TUI.
type Options struct {
	// Timeout bounds each upload or question.
	Timeout time.Duration
	// StartDir is where the file picker opens.
	StartDir string
	// Collection is shown in the upload result line.
	Collection string
}

type ingestDoneMsg struct {
	report service.IngestReport
	err    error
}

type answerDoneMsg struct {
	answer domain.Answer
	err    error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service RAGPort
	session *session.Session
	opts    Options
	keys    keyMap
	help    help.Model

	page   page
	width  int
	height int
	ready  bool

	// one upload or question at a time
	busy    bool
	spinner spinner.Model

	picker  filepicker.Model
	upload  uploadState
	input   textinput.Model
	answer  viewport.Model
	result  *domain.Answer
	askNote string
	askErr  bool
}

// New creates a new TUI model instance.
func New(svc RAGPort, sess *session.Session, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".PDF"}
	fp.AutoHeight = false
	fp.Height = 10
	if opts.StartDir != "" {
		fp.CurrentDirectory = opts.StartDir
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your PDF"
	ti.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		service: svc,
		session: sess,
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		picker:  fp,
		input:   ti,
		answer:  viewport.New(0, 0),
		askNote: "Type a question and press enter.",
	}
}

// Init starts reading the picker's directory.
func (m Model) Init() tea.Cmd { return m.picker.Init() }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextPage):
			return m, m.switchPage()
		case key.Matches(msg, m.keys.Reset):
			m.session.Reset()
			m.result = nil
			m.askNote = "New session started."
			m.askErr = false
			m.answer.SetContent("")
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		if m.page == pageAsk {
			return m.updateAsk(msg)
		}
		return m.updateUpload(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ingestDoneMsg:
		m.busy = false
		m.upload.finish(msg.report, msg.err, m.opts.Collection)
		return m, nil

	case answerDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.askNote = domain.UserMessage(msg.err)
			m.askErr = true
			return m, nil
		}
		m.session.Add(msg.answer.Cost)
		ans := msg.answer
		m.result = &ans
		m.askNote = ""
		m.askErr = false
		m.answer.SetContent(renderAnswer(ans, m.answer.Width))
		m.answer.GotoTop()
		return m, nil
	}

	// directory listings, cursor blink
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.ready = true
	m.width = width
	m.height = height
	m.help.Width = width

	mainWidth := max(20, width-sidebarWidth-3)
	m.input.Width = mainWidth - 6
	m.picker.Height = max(3, height-10)

	bw, bh := boxStyle.GetFrameSize()
	// title, input box, note and help lines
	reserved := 1 + 3 + 1 + 1 + bh
	m.answer.Width = max(10, mainWidth-bw)
	m.answer.Height = max(3, height-reserved)
	if m.result != nil {
		m.answer.SetContent(renderAnswer(*m.result, m.answer.Width))
	}
}

func (m *Model) switchPage() tea.Cmd {
	m.page = pages[(int(m.page)+1)%len(pages)]
	if m.page == pageAsk {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// View renders the sidebar next to the active page.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var body string
	if m.page == pageAsk {
		body = m.viewAsk()
	} else {
		body = m.viewUpload()
	}
	main := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.page.String()),
		body,
		m.help.ShortHelpView(m.keys.bindings(m.page)),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), main)
}

func (m Model) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.opts.Timeout)
}
