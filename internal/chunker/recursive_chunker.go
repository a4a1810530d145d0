package chunker

import (
	"strconv"
	"strings"

	"askpdf/internal/domain"
)

// LenFunc measures a piece of text, usually in model tokens.
type LenFunc func(string) int

// DefaultSeparators are tried in order, coarsest first. The empty separator
// splits into single runes.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveChunker splits text on the coarsest separator that keeps pieces
// under chunkSize and greedily merges neighbours back up to chunkSize.
// Separators stay attached to the start of the following piece, so with zero
// overlap the chunks concatenate back to the input.
type RecursiveChunker struct {
	chunkSize  int
	overlap    int
	separators []string
	length     LenFunc
}

func NewRecursiveChunker(chunkSize, overlap int, length LenFunc) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	if length == nil {
		length = RuneLen
	}
	return &RecursiveChunker{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: DefaultSeparators,
		length:     length,
	}
}

// RuneLen measures text in runes.
func RuneLen(s string) int { return len([]rune(s)) }

// Chunk splits text into ordered chunks tagged with source.
func (c *RecursiveChunker) Chunk(source, text string) []domain.Chunk {
	parts := c.Split(text)
	if len(parts) == 0 {
		return nil
	}
	chunks := make([]domain.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = domain.Chunk{
			ID:     source + ":" + strconv.Itoa(i),
			Source: source,
			Text:   p,
			Index:  i,
		}
	}
	return chunks
}

// Split returns the chunk texts for text. Whitespace-only input yields nothing.
func (c *RecursiveChunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return c.split(text, c.separators)
}

func (c *RecursiveChunker) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, s := range separators {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	var out []string
	var good []piece
	for _, p := range splitKeep(text, sep) {
		n := c.length(p)
		if n <= c.chunkSize {
			good = append(good, piece{text: p, n: n})
			continue
		}
		if len(good) > 0 {
			out = append(out, c.merge(good)...)
			good = nil
		}
		if sep == "" || len(rest) == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, c.split(p, rest)...)
	}
	if len(good) > 0 {
		out = append(out, c.merge(good)...)
	}
	return out
}

type piece struct {
	text string
	n    int
}

func (c *RecursiveChunker) merge(pieces []piece) []string {
	var docs []string
	var cur []piece
	total := 0
	for _, p := range pieces {
		if total+p.n > c.chunkSize && len(cur) > 0 {
			docs = append(docs, join(cur))
			for len(cur) > 0 && (total > c.overlap || total+p.n > c.chunkSize) {
				total -= cur[0].n
				cur = cur[1:]
			}
		}
		cur = append(cur, p)
		total += p.n
	}
	if len(cur) > 0 {
		docs = append(docs, join(cur))
	}
	return docs
}

func join(pieces []piece) string {
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.text)
	}
	return b.String()
}

// splitKeep splits text on sep, keeping sep at the start of every piece after
// the first. An empty sep splits into runes.
func splitKeep(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	raw := strings.Split(text, sep)
	out := make([]string, 0, len(raw))
	for i, r := range raw {
		if i > 0 {
			r = sep + r
		}
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}
