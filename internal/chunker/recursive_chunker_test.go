package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordLen(s string) int { return len(strings.Fields(s)) }

func TestSplit_SmallTextIsSingleChunk(t *testing.T) {
	c := NewRecursiveChunker(500, 0, wordLen)
	text := "Alpha Beta Gamma Delta. Epsilon Zeta."

	chunks := c.Split(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_EmptyInput(t *testing.T) {
	c := NewRecursiveChunker(500, 0, nil)
	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("  \n\n \t"))
	assert.Nil(t, c.Chunk("doc", "\n"))
}

func TestSplit_ReconstructsAndRespectsSize(t *testing.T) {
	var b strings.Builder
	for p := 0; p < 12; p++ {
		if p > 0 {
			b.WriteString("\n\n")
		}
		for s := 0; s < 7; s++ {
			if s > 0 {
				b.WriteString(" ")
			}
			b.WriteString("word")
			b.WriteString(strings.Repeat("x", p%4))
			b.WriteString(" lorem ipsum dolor sit amet.")
		}
		if p%3 == 0 {
			b.WriteString("\nA trailing line on its own.")
		}
	}
	text := b.String()

	for _, tc := range []struct {
		name   string
		size   int
		length LenFunc
	}{
		{"words", 20, wordLen},
		{"runes", 64, RuneLen},
		{"tiny runes", 5, RuneLen},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := NewRecursiveChunker(tc.size, 0, tc.length)
			chunks := c.Split(text)
			require.NotEmpty(t, chunks)
			assert.Equal(t, text, strings.Join(chunks, ""))
			for i, ch := range chunks {
				assert.LessOrEqual(t, tc.length(ch), tc.size, "chunk %d too large: %q", i, ch)
			}
		})
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	c := NewRecursiveChunker(4, 0, wordLen)
	text := "one two three\n\nfour five six\n\nseven"

	chunks := c.Split(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "one two three", chunks[0])
	assert.Equal(t, "\n\nfour five six\n\nseven", chunks[1])
}

func TestSplit_Overlap(t *testing.T) {
	c := NewRecursiveChunker(4, 2, wordLen)
	chunks := c.Split("a b c d e f g h")

	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.LessOrEqual(t, wordLen(ch), 4)
	}
	// consecutive chunks share their boundary words
	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	assert.Equal(t, first[len(first)-2:], second[:2])
}

func TestChunk_AssignsPositions(t *testing.T) {
	c := NewRecursiveChunker(3, 0, wordLen)
	chunks := c.Chunk("report.pdf", "a b c d e f g")

	require.Len(t, chunks, 3)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, "report.pdf", ch.Source)
		assert.NotEmpty(t, ch.ID)
	}
}

func TestTokenLen(t *testing.T) {
	length, err := TokenLen("text-embedding-ada-002")
	require.NoError(t, err)

	assert.Zero(t, length(""))
	assert.Greater(t, length("Alpha Beta Gamma"), 0)

	c := NewRecursiveChunker(500, 0, length)
	text := "Alpha Beta Gamma, a short document well below the chunk size."
	assert.Equal(t, []string{text}, c.Split(text))
}
