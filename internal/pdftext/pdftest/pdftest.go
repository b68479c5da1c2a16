// Package pdftest builds small single-font PDF files for tests. Text is
// drawn in Courier (600/1000 em per glyph) with WinAnsi encoding, so a
// glyph at size 10 is 6pt wide.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// GlyphWidth is the advance of one glyph at the given font size.
func GlyphWidth(size float64) float64 { return 0.6 * size }

// Text is a string drawn with its baseline starting at (X, Y).
type Text struct {
	X, Y float64
	Size float64 // default 10
	S    string
}

// Page is the list of strings drawn on one page, in content-stream order.
type Page []Text

// Lines lays out lines top to bottom at a fixed left margin.
func Lines(lines ...string) Page {
	p := make(Page, 0, len(lines))
	y := 780.0
	for _, l := range lines {
		p = append(p, Text{X: 40, Y: y, Size: 10, S: l})
		y -= 14
	}
	return p
}

// Build renders pages into PDF bytes. No pages yields one empty page.
func Build(pages ...Page) []byte {
	if len(pages) == 0 {
		pages = []Page{{}}
	}
	widths := strings.TrimSpace(strings.Repeat("600 ", 224))
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 255 /Widths [" + widths + "] >>",
	}
	var kids []string
	for _, p := range pages {
		stream := contentStream(p)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream))
		contents := len(objs)
		objs = append(objs, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contents))
		kids = append(kids, fmt.Sprintf("%d 0 R", len(objs)))
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

// Write renders pages to path.
func Write(path string, pages ...Page) error {
	return os.WriteFile(path, Build(pages...), 0o644)
}

// Corrupt returns bytes that start like a PDF but cannot be parsed.
func Corrupt() []byte {
	return []byte("%PDF-1.4\n" + strings.Repeat("garbage that is not a pdf body\n", 8))
}

func contentStream(p Page) string {
	var b bytes.Buffer
	for _, t := range p {
		size := t.Size
		if size == 0 {
			size = 10
		}
		fmt.Fprintf(&b, "BT /F1 %s Tf %s %s Td (%s) Tj ET\n", num(size), num(t.X), num(t.Y), escape(t.S))
	}
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// escape encodes s as the body of a PDF literal string in WinAnsi bytes.
func escape(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteByte('\\')
			b.WriteByte(byte(r))
		case r < 0x100:
			b.WriteByte(byte(r))
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
