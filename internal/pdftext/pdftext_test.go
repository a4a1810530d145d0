package pdftext

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	pages []string
	fail  int
}

func (f fakePages) NumPage() int { return len(f.pages) }

func (f fakePages) PageText(i int) (string, error) {
	if i == f.fail {
		return "", errors.New("bad font")
	}
	return f.pages[i-1], nil
}

func TestExtract_JoinsPagesWithBlankLine(t *testing.T) {
	doc, err := extract("a.pdf", fakePages{pages: []string{"first page", "second page", "third"}})
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Pages)
	assert.Equal(t, "first page\n\nsecond page\n\nthird", doc.Text)
	assert.False(t, doc.Empty())
}

func TestExtract_ImageOnlyPDFIsEmpty(t *testing.T) {
	doc, err := extract("scan.pdf", fakePages{pages: []string{"", " ", ""}})
	require.NoError(t, err)
	assert.True(t, doc.Empty())
}

func TestExtract_PageError(t *testing.T) {
	_, err := extract("a.pdf", fakePages{pages: []string{"x", "y"}, fail: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
}

func TestRead_RejectsNonPDF(t *testing.T) {
	_, err := Read("notes.pdf", strings.NewReader("this is plain text, not a pdf"))
	require.Error(t, err)
}
