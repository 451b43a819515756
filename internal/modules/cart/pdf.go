package cart

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"foodgram/internal/domain"
	"foodgram/internal/logging"

	"github.com/go-pdf/fpdf"
)

// A4 in points, origin at the top-left corner.
const (
	pageHeight   = 841.89
	bottomMargin = 40.0

	titleX    = 230.0
	titleY    = 42.0
	titleSize = 16.0

	rowSize   = 12.0
	nameX     = 70.0
	amountX   = 450.0
	firstRowY = 107.0
	rowStep   = 25.0
)

// line is one positioned row of the listing.
type line struct {
	Page   int
	Y      float64
	Name   string
	Amount string
}

// layout numbers items from 1 and assigns page and baseline. Rows that would
// cross the bottom margin start a new page at firstRowY; the title is only on
// the first page.
func layout(items []domain.ShoppingListItem) []line {
	lines := make([]line, 0, len(items))
	page, y := 1, firstRowY
	for i, item := range items {
		if y > pageHeight-bottomMargin {
			page++
			y = firstRowY
		}
		lines = append(lines, line{
			Page:   page,
			Y:      y,
			Name:   fmt.Sprintf("%d. %s", i+1, capitalize(item.Name)),
			Amount: fmt.Sprintf("%d %s", item.Amount, item.MeasurementUnit),
		})
		y += rowStep
	}
	return lines
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Renderer draws a shopping list onto A4 pages.
type Renderer struct {
	title    string
	fontPath string
	now      func() time.Time
}

// NewRenderer uses Helvetica unless fontPath names a UTF-8 TTF font.
func NewRenderer(title, fontPath string) *Renderer {
	return &Renderer{title: title, fontPath: fontPath, now: time.Now}
}

// CoreFont reports whether no TTF font is configured. Core fonts only cover Latin-1.
func (r *Renderer) CoreFont() bool {
	return r.fontPath == ""
}

func (r *Renderer) Render(items []domain.ShoppingListItem) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(r.now())
	pdf.SetTitle(r.title, true)

	family, translate := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font("listfont", "", r.fontPath)
		family, translate = "listfont", func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "", titleSize)
	pdf.Text(titleX, titleY, translate(r.title))

	if r.CoreFont() {
		if n := countNonLatin1(items); n > 0 {
			logging.Warn().Int("items", n).Msg("shopping list has names the core font cannot render; set pdf.font_path")
		}
	}

	pdf.SetFont(family, "", rowSize)
	page := 1
	for _, l := range layout(items) {
		for page < l.Page {
			pdf.AddPage()
			pdf.SetFont(family, "", rowSize)
			page++
		}
		pdf.Text(nameX, l.Y, translate(l.Name))
		pdf.Text(amountX, l.Y, translate(l.Amount))
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render shopping list: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write shopping list: %w", err)
	}
	return buf.Bytes(), nil
}

func countNonLatin1(items []domain.ShoppingListItem) int {
	n := 0
	for _, item := range items {
		if !isLatin1(item.Name) || !isLatin1(item.MeasurementUnit) {
			n++
		}
	}
	return n
}

func isLatin1(s string) bool {
	for _, r := range s {
		if r > unicode.MaxLatin1 {
			return false
		}
	}
	return true
}
