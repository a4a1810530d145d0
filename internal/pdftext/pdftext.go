// Package pdftext extracts plain text from PDF documents.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageSeparator joins the text of consecutive pages.
const PageSeparator = "\n\n"

// Document is the extracted text of one PDF.
type Document struct {
	Name  string
	Pages int
	Text  string
}

// Empty reports whether extraction produced no usable text, as happens with
// scanned, image-only PDFs.
func (d Document) Empty() bool { return strings.TrimSpace(d.Text) == "" }

type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.r.NumPage() }

func (p pdfPages) PageText(i int) (string, error) {
	page := p.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// Read extracts the text of every page in r, joined with PageSeparator.
func Read(name string, r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", name, err)
	}
	return ReadBytes(name, data)
}

// ReadBytes is Read over an in-memory PDF.
func ReadBytes(name string, data []byte) (doc Document, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse %s: %v", name, r)
		}
	}()
	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return extract(name, pdfPages{r: rdr})
}

func extract(name string, src pageSource) (Document, error) {
	n := src.NumPage()
	texts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text, err := src.PageText(i)
		if err != nil {
			return Document{}, fmt.Errorf("page %d of %s: %w", i, name, err)
		}
		texts = append(texts, text)
	}
	return Document{
		Name:  name,
		Pages: n,
		Text:  strings.Join(texts, PageSeparator),
	}, nil
}
