package llm

import (
	"fmt"
	"strings"
)

// Choice is one entry of the model selector.
type Choice struct {
	Label       string
	Model       string
	ContextSize int
}

// Choices lists the selectable models in display order.
var Choices = []Choice{
	{Label: "GPT-3.5", Model: "gpt-3.5-turbo", ContextSize: 4096},
	{Label: "GPT-3.5-16k", Model: "gpt-3.5-turbo-16k", ContextSize: 16385},
	{Label: "GPT-4", Model: "gpt-4", ContextSize: 8192},
}

// Labels returns the selector labels in display order.
func Labels() []string {
	out := make([]string, len(Choices))
	for i, c := range Choices {
		out[i] = c.Label
	}
	return out
}

// Selector maps selector labels to model names.
//
// With legacy set it reproduces the earlier mapping, in which the branch
// for "GPT-3.5-16k" compared against "GPT-3.5" a second time and could never
// match, so that option fell through to gpt-3.5-turbo.
type Selector struct {
	legacy  bool
	reserve int
}

// NewSelector returns a selector that reserves reserve tokens of every
// context window for instructions.
func NewSelector(legacy bool, reserve int) Selector {
	return Selector{legacy: legacy, reserve: reserve}
}

// Legacy reports whether the conflated mapping is active.
func (s Selector) Legacy() bool { return s.legacy }

// Select resolves a label. Unknown labels are an error.
func (s Selector) Select(label string) (Choice, error) {
	for _, c := range Choices {
		if !strings.EqualFold(c.Label, label) {
			continue
		}
		if s.legacy && c.Model == "gpt-3.5-turbo-16k" {
			legacy := Choices[0]
			legacy.Label = c.Label
			return legacy, nil
		}
		return c, nil
	}
	return Choice{}, fmt.Errorf("unknown model %q (want one of %s)", label, strings.Join(Labels(), ", "))
}

// MaxTokens is the usable token budget of c once the instruction reserve is
// taken out.
func (s Selector) MaxTokens(c Choice) int {
	n := c.ContextSize - s.reserve
	if n < 0 {
		return 0
	}
	return n
}
