package render

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tckz/go-visit-counter/internal/visit"
)

const (
	TodayID      = "visit-today"
	MonthID      = "visit-month"
	MonthLabelID = "visit-month-label"

	DefaultLabelFormat = "%s 누적 방문"
)

//go:embed default.html
var defaultPage []byte

// Template is the source of the hosting page. Every request gets its own Page.
type Template struct {
	src         []byte
	labelFormat string
}

// ValidateLabelFormat reports an error unless the format takes exactly the month key.
func ValidateLabelFormat(labelFormat string) error {
	if !strings.Contains(labelFormat, "%s") {
		return fmt.Errorf("label format must contain %%s: %q", labelFormat)
	}
	if s := fmt.Sprintf(labelFormat, "2006-01"); strings.Contains(s, "%!") {
		return fmt.Errorf("label format must take only the month key: %q", labelFormat)
	}
	return nil
}

func NewTemplate(src []byte, labelFormat string) (*Template, error) {
	if labelFormat == "" {
		labelFormat = DefaultLabelFormat
	}
	if err := ValidateLabelFormat(labelFormat); err != nil {
		return nil, err
	}
	return &Template{src: src, labelFormat: labelFormat}, nil
}

func DefaultTemplate() *Template {
	return &Template{src: defaultPage, labelFormat: DefaultLabelFormat}
}

func LoadTemplate(path, labelFormat string) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}
	// Fail at startup rather than on the first request.
	if _, err := ParseBytes(b); err != nil {
		return nil, err
	}
	return NewTemplate(b, labelFormat)
}

func (t *Template) WithLabelFormat(labelFormat string) (*Template, error) {
	return NewTemplate(t.src, labelFormat)
}

// Label is the month label text for monthKey.
func (t *Template) Label(monthKey string) string {
	return fmt.Sprintf(t.labelFormat, monthKey)
}

func (t *Template) Page() (*Page, error) {
	doc, err := ParseBytes(t.src)
	if err != nil {
		return nil, err
	}
	return &Page{doc: doc, tmpl: t}, nil
}

var _ visit.Renderer = (*Page)(nil)

// Page writes counts into the three counter elements of one document.
type Page struct {
	doc  *Document
	tmpl *Template
}

func (p *Page) Render(c visit.Counts) {
	p.doc.SetText(TodayID, strconv.FormatInt(c.Today, 10))
	p.doc.SetText(MonthID, strconv.FormatInt(c.Month, 10))
	p.doc.SetText(MonthLabelID, p.tmpl.Label(c.MonthKey))
}

func (p *Page) Document() *Document {
	return p.doc
}

func (p *Page) WriteHTML(w io.Writer) error {
	return p.doc.Render(w)
}
