package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"askpdf/internal/domain"
	"askpdf/internal/session"
)

func (m Model) updateAsk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			m.askNote = domain.UserMessage(domain.ErrEmptyQuestion)
			m.askErr = true
			return m, nil
		}
		return m, m.startAsk(q)
	case key.Matches(msg, m.keys.NextModel):
		if err := m.nextModel(); err != nil {
			m.askNote = err.Error()
			m.askErr = true
		}
		return m, nil
	case isScrollKey(msg):
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// isScrollKey leaves letter keys to the text input.
func isScrollKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		return true
	}
	return false
}

func (m *Model) startAsk(question string) tea.Cmd {
	m.busy = true
	m.askNote = ""
	m.askErr = false
	return tea.Batch(m.spinner.Tick, m.ask(question))
}

func (m Model) ask(question string) tea.Cmd {
	svc := m.service
	choice := m.session.Model()
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		ans, err := svc.Answer(ctx, question, choice)
		return answerDoneMsg{answer: ans, err: err}
	}
}

func (m Model) viewAsk() string {
	var note string
	switch {
	case m.busy:
		note = fmt.Sprintf("%s Asking %s...", m.spinner.View(), m.session.Model().Model)
	case m.askErr:
		note = errorStyle.Render(m.askNote)
	case m.askNote != "":
		note = mutedStyle.Render(m.askNote)
	case m.result != nil:
		note = statusStyle.Render(fmt.Sprintf("%s · %d tokens · %s",
			m.result.Model, m.result.Usage.Total(), session.FormatCost(m.result.Cost)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(m.input.View()),
		note,
		boxStyle.Render(m.answer.View()),
	)
}

func renderAnswer(ans domain.Answer, width int) string {
	wrap := lipgloss.NewStyle().Width(max(10, width))
	var b strings.Builder
	b.WriteString(wrap.Render(ans.Text))
	b.WriteString("\n\n")
	b.WriteString(headingStyle.Render(fmt.Sprintf("Sources (%d)", len(ans.Sources))))
	for i, r := range ans.Sources {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("[%d] %s #%d  score=%.3f", i+1, r.Chunk.Source, r.Chunk.Index, r.Score)))
		b.WriteString("\n")
		b.WriteString(wrap.Render(highlightBestSentence(r.Chunk.Text, ans.Question)))
	}
	return b.String()
}

var (
	unicodeWordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe    = regexp.MustCompile(`(?s)[^.!?]+[.!?]*`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// highlightBestSentence marks the sentence of text sharing the most words
// with query.
func highlightBestSentence(text, query string) string {
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 || len(sentences) == 0 {
		return text
	}
	bestIdx, bestScore := 0, 0
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestScore == 0 {
		return text
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sent = highlightStyle.Render(sent)
		}
		sentences[i] = sent
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
