package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"askpdf/internal/domain"
	"askpdf/internal/service"
)

type noteKind int

const (
	noteInfo noteKind = iota
	noteWarn
	noteError
)

type uploadState struct {
	file   string
	note   string
	kind   noteKind
	report *service.IngestReport
}

func (u *uploadState) start(path string) {
	u.file = filepath.Base(path)
	u.note = ""
	u.kind = noteInfo
	u.report = nil
}

func (u *uploadState) finish(report service.IngestReport, err error, collection string) {
	switch {
	case errors.Is(err, domain.ErrNoText):
		u.kind = noteWarn
		u.note = fmt.Sprintf("No text could be extracted from %s (%d pages). Scanned PDFs are not supported.", report.Name, report.Pages)
	case err != nil:
		u.kind = noteError
		u.note = domain.UserMessage(err)
		if report.Chunks > 0 {
			u.note += fmt.Sprintf(" (%d chunks were stored before the failure)", report.Chunks)
		}
	default:
		u.kind = noteInfo
		u.report = &report
		u.note = fmt.Sprintf("Stored %d chunks from %s (%d pages)", report.Chunks, report.Name, report.Pages)
		if collection != "" {
			u.note += " in " + collection
		}
		u.note += "."
	}
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, m.startIngest(path)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.upload.file = filepath.Base(path)
		m.upload.kind = noteWarn
		m.upload.note = "Only .pdf files can be uploaded."
		m.upload.report = nil
		return m, cmd
	}
	return m, cmd
}

func (m *Model) startIngest(path string) tea.Cmd {
	m.busy = true
	m.upload.start(path)
	return tea.Batch(m.spinner.Tick, m.ingest(path))
}

func (m Model) ingest(path string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		f, err := os.Open(path)
		if err != nil {
			return ingestDoneMsg{err: err}
		}
		defer f.Close()
		report, err := svc.IngestPDF(ctx, filepath.Base(path), f)
		return ingestDoneMsg{report: report, err: err}
	}
}

func (m Model) viewUpload() string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render("Choose a PDF: arrows to move, enter to select"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(fmt.Sprintf("%s Processing %s...", m.spinner.View(), m.upload.file))
	case m.upload.note != "":
		switch m.upload.kind {
		case noteWarn:
			b.WriteString(warnStyle.Render(m.upload.note))
		case noteError:
			b.WriteString(errorStyle.Render(m.upload.note))
		default:
			b.WriteString(statusStyle.Render(m.upload.note))
		}
	}
	if m.upload.report != nil && m.upload.report.Summary != "" {
		b.WriteString("\n\n")
		b.WriteString(headingStyle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(boxStyle.Width(max(20, m.width-sidebarWidth-6)).Render(m.upload.report.Summary))
	}
	return b.String()
}
