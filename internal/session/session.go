// Package session holds the per-user state of one UI session: the selected
// model and the cost of every query answered so far.
package session

import (
	"fmt"
	"sync"

	"askpdf/internal/llm"
)

// Session is safe for concurrent use. The zero value is not usable; call New.
type Session struct {
	mu       sync.Mutex
	selector llm.Selector
	choice   llm.Choice
	costs    []float64
}

// New starts a session with the model behind label selected.
func New(selector llm.Selector, label string) (*Session, error) {
	choice, err := selector.Select(label)
	if err != nil {
		return nil, err
	}
	return &Session{selector: selector, choice: choice}, nil
}

// Reset clears the recorded costs. The selected model is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costs = nil
}

// SelectModel switches the model used for subsequent queries.
func (s *Session) SelectModel(label string) (llm.Choice, error) {
	choice, err := s.selector.Select(label)
	if err != nil {
		return llm.Choice{}, err
	}
	s.mu.Lock()
	s.choice = choice
	s.mu.Unlock()
	return choice, nil
}

// Model returns the selected model.
func (s *Session) Model() llm.Choice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.choice
}

// MaxTokens is the token budget of the selected model.
func (s *Session) MaxTokens() int {
	return s.selector.MaxTokens(s.Model())
}

// Add records the cost of one answered query.
func (s *Session) Add(cost float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costs = append(s.costs, cost)
}

// Costs returns a copy of the recorded costs in order.
func (s *Session) Costs() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.costs))
	copy(out, s.costs)
	return out
}

// Total is the sum of all recorded costs.
func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, c := range s.costs {
		total += c
	}
	return total
}

// FormatCost renders a dollar amount the way the sidebar shows it.
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.5f", cost)
}
