package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	sentencePattern = regexp.MustCompile(`(?s)[^.!?]+[.!?]+`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// FrequencySummarizer picks the sentences whose words are most frequent in
// the document, stopwords excluded. Used for the upload preview, so it needs
// no model call.
type FrequencySummarizer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Summarize returns up to maxSentences sentences of text in document order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return normalize(text), nil
	}

	freq := map[string]float64{}
	maxF := 0.0
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			freq[tok]++
			maxF = math.Max(maxF, freq[tok])
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		total := 0.0
		for _, tok := range toks {
			total += freq[tok] / maxF
		}
		// long sentences would otherwise always win
		if len(toks) > 0 {
			total /= math.Sqrt(float64(len(toks)))
		}
		scores[i] = scored{i, total}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := min(maxSentences, len(scores))
	picked := make([]int, n)
	for i := 0; i < n; i++ {
		picked[i] = scores[i].idx
	}
	sort.Ints(picked)
	out := make([]string, n)
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

func splitSentences(text string) []string {
	raw := sentencePattern.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := normalize(r); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// normalize collapses the hard line breaks PDF extraction leaves inside sentences.
func normalize(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

func (s *FrequencySummarizer) tokens(text string) []string {
	raw := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := s.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"el", "la", "los", "las", "de", "del", "y", "en", "un", "una", "que", "por", "con", "para", "se", "es",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
