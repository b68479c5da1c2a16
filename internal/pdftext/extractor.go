// Package pdftext reads the text layer of PDF files: ordered lines for
// line-based matching and positioned word tokens for layout matching.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/energy-invoices/internal/common"
	"github.com/joseph-ayodele/energy-invoices/internal/textnorm"
)

type Config struct {
	RowTolerance  float64 // points; glyphs closer than this vertically share a row. Default 3
	WordGapFactor float64 // gap > factor*fontSize starts a new word. Default 0.3
	MaxPages      int     // 0 = no limit

	Pdftotext string // optional fallback binary used when a file has no text layer
	DumpDir   string // when set, the extracted text of every file is written here
}

// Token is one word on a page. Coordinates are PDF user space: points,
// origin at the bottom-left corner, Y growing upward. Y is the baseline.
type Token struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	FontSize float64
	Page     int
}

// Right returns the X coordinate where the token ends.
func (t Token) Right() float64 { return t.X + t.Width }

// Page is the transient content of one PDF page.
type Page struct {
	Index  int
	Lines  []string
	Tokens []Token
}

// Document is everything read from one file.
type Document struct {
	Path   string
	Pages  []Page
	Method string // "pdf-text" | "pdftotext"
}

// Lines returns the normalized lines of all pages in order.
func (d Document) Lines() []string {
	var out []string
	for _, p := range d.Pages {
		out = append(out, p.Lines...)
	}
	return out
}

// Tokens returns the positioned tokens of all pages in order.
func (d Document) Tokens() []Token {
	var out []Token
	for _, p := range d.Pages {
		out = append(out, p.Tokens...)
	}
	return out
}

// Text joins all lines with newlines.
func (d Document) Text() string {
	return strings.Join(d.Lines(), "\n")
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	return newExtractor(cfg, execRunner{}, logger)
}

func newExtractor(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RowTolerance <= 0 {
		cfg.RowTolerance = 3
	}
	if cfg.WordGapFactor <= 0 {
		cfg.WordGapFactor = 0.3
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Extract opens path and reads every page. Any failure to open or parse the
// file is reported as common.ErrUnreadablePDF. The file handle is closed on
// every return path.
func (e *Extractor) Extract(ctx context.Context, path string) (Document, error) {
	start := time.Now()
	e.logger.Debug("pdftext.extract.start", "path", path)

	doc, err := e.extractNative(ctx, path)
	if err != nil {
		e.logger.Debug("pdftext.extract.failed", "path", path, "error", err)
		return Document{}, err
	}

	if !hasText(doc) && e.cfg.Pdftotext != "" {
		fallback, ferr := e.extractWithPdftotext(ctx, path)
		if ferr != nil {
			e.logger.Warn("pdftext.fallback.failed", "path", path, "error", ferr)
		} else {
			doc = fallback
		}
	}

	if e.cfg.DumpDir != "" {
		if derr := dump(e.cfg.DumpDir, doc); derr != nil {
			e.logger.Warn("pdftext.dump.failed", "path", path, "error", derr)
		}
	}

	e.logger.Debug("pdftext.extract.ok",
		"path", path,
		"pages", len(doc.Pages),
		"method", doc.Method,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

func (e *Extractor) extractNative(ctx context.Context, path string) (doc Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, common.UnreadablePDF(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("close file error", "path", path, "error", cerr)
		}
	}()
	// the pdf package reports malformed objects by panicking, also while
	// reading the trailer
	defer func() {
		if rec := recover(); rec != nil {
			doc = Document{}
			err = common.UnreadablePDF(path, fmt.Errorf("parse: %v", rec))
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return Document{}, common.UnreadablePDF(path, err)
	}
	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return Document{}, common.UnreadablePDF(path, err)
	}

	n := r.NumPage()
	if n <= 0 {
		return Document{}, common.UnreadablePDF(path, errors.New("no pages"))
	}
	if e.cfg.MaxPages > 0 && n > e.cfg.MaxPages {
		n = e.cfg.MaxPages
	}

	doc = Document{Path: path, Method: "pdf-text"}
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		doc.Pages = append(doc.Pages, e.readPage(p, i))
	}
	return doc, nil
}

// readPage rebuilds rows from glyph positions and compares them with the
// library's content-order text; the one carrying more characters wins.
func (e *Extractor) readPage(p pdf.Page, index int) Page {
	glyphs := p.Content().Text
	rows := groupRows(glyphs, e.cfg.RowTolerance)

	var tokens []Token
	var rowLines []string
	for _, row := range rows {
		words := splitWords(row, e.cfg.WordGapFactor, index)
		if len(words) == 0 {
			continue
		}
		texts := make([]string, len(words))
		for i, w := range words {
			texts[i] = w.Text
		}
		tokens = append(tokens, words...)
		rowLines = append(rowLines, strings.Join(texts, " "))
	}
	layoutText := strings.Join(rowLines, "\n")

	plain, err := p.GetPlainText(nil)
	if err != nil {
		e.logger.Debug("pdftext.plain.failed", "page", index, "error", err)
		plain = ""
	}

	chosen := layoutText
	if visibleLen(plain) > visibleLen(layoutText) {
		chosen = plain
	}
	return Page{Index: index, Lines: textnorm.Lines(chosen), Tokens: tokens}
}

func visibleLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func hasText(doc Document) bool {
	for _, p := range doc.Pages {
		if len(p.Lines) > 0 {
			return true
		}
	}
	return false
}
