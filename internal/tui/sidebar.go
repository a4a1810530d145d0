package tui

import (
	"fmt"
	"strings"

	"askpdf/internal/llm"
	"askpdf/internal/session"
)

// per-query costs listed before the rest are elided
const maxCostLines = 8

func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("askpdf"))
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Page"))
	b.WriteString("\n")
	for _, p := range pages {
		b.WriteString(radio(p.String(), p == m.page))
		b.WriteString("\n")
	}

	if m.page == pageAsk {
		current := m.session.Model()
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Model"))
		b.WriteString("\n")
		for _, label := range llm.Labels() {
			b.WriteString(radio(label, label == current.Label))
			b.WriteString("\n")
		}
		b.WriteString(mutedStyle.Render(current.Model))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Max tokens: %d\n", m.session.MaxTokens()))
	}

	costs := m.session.Costs()
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Cost"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %s\n", session.FormatCost(m.session.Total())))
	start := 0
	if len(costs) > maxCostLines {
		start = len(costs) - maxCostLines
		b.WriteString(mutedStyle.Render(fmt.Sprintf("… %d earlier", start)))
		b.WriteString("\n")
	}
	for i := start; i < len(costs); i++ {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d. %s", i+1, session.FormatCost(costs[i]))))
		b.WriteString("\n")
	}
	return sidebarStyle.Height(max(1, m.height)).Render(strings.TrimRight(b.String(), "\n"))
}

func radio(label string, on bool) string {
	if on {
		return activeStyle.Render("(•) " + label)
	}
	return "( ) " + label
}

func (m *Model) nextModel() error {
	labels := llm.Labels()
	current := m.session.Model().Label
	next := labels[0]
	for i, l := range labels {
		if l == current {
			next = labels[(i+1)%len(labels)]
			break
		}
	}
	_, err := m.session.SelectModel(next)
	return err
}
