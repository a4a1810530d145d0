package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_PicksFrequentSentencesInOrder(t *testing.T) {
	text := "Go channels carry values between goroutines.\nThe weather was nice.\n\n" +
		"Goroutines and channels make Go concurrency simple. Lunch was late. Channels block goroutines until ready."

	s := NewFrequencySummarizer()
	out, err := s.Summarize(text, 2)
	require.NoError(t, err)

	assert.NotContains(t, out, "weather")
	assert.NotContains(t, out, "Lunch")
	assert.Equal(t, 2, strings.Count(out, "."))
	assert.NotContains(t, out, "\n")
}

func TestSummarize_NoSentenceTerminator(t *testing.T) {
	out, err := NewFrequencySummarizer().Summarize("  a title\nwithout punctuation ", 3)
	require.NoError(t, err)
	assert.Equal(t, "a title without punctuation", out)
}

func TestSummarize_FewerSentencesThanMax(t *testing.T) {
	out, err := NewFrequencySummarizer().Summarize("Only one sentence here.", 5)
	require.NoError(t, err)
	assert.Equal(t, "Only one sentence here.", out)
}

func TestSummarize_Empty(t *testing.T) {
	out, err := NewFrequencySummarizer().Summarize("", 3)
	require.NoError(t, err)
	assert.Empty(t, out)
}
