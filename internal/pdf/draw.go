package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// A4 portrait in points.
const (
	pageWidth  = 595.28
	pageHeight = 841.89
	margin     = 40.0
	fontFamily = "Helvetica"
)

type fpdfMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (m fpdfMeasurer) setFont(f font) {
	style := ""
	if f.bold {
		style = "B"
	}

	m.pdf.SetFont(fontFamily, style, f.size)
}

func (m fpdfMeasurer) lineHeight(f font) float64 {
	return f.size * 1.2
}

func (m fpdfMeasurer) split(f font, s string, width float64) []string {
	m.setFont(f)

	var lines []string

	for _, para := range strings.Split(s, "\n") {
		wrapped := m.pdf.SplitText(m.tr(para), width)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}

		lines = append(lines, wrapped...)
	}

	return lines
}

type canvas struct {
	pdf    *fpdf.Fpdf
	m      fpdfMeasurer
	images int
}

func newCanvas() *canvas {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)

	return &canvas{
		pdf: pdf,
		m:   fpdfMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("cp1252")},
	}
}

// render lays the document out and draws it. Layout errors are returned before any
// page is drawn.
func (d Document) render() ([]byte, error) {
	c := newCanvas()

	pages, err := d.paginate(c.m, pageWidth, pageHeight, margin)
	if err != nil {
		return nil, err
	}

	for _, p := range pages {
		c.pdf.AddPage()

		for _, n := range p.nodes {
			c.draw(n)
		}
	}

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (c *canvas) setDraw(col Color, width float64) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
	c.pdf.SetLineWidth(width)
}

func (c *canvas) draw(n *node) {
	switch r := n.region.(type) {
	case Box:
		c.drawBox(r, n)
	case Text:
		c.drawLines(n.lines, r.font(), r.Align, n.rect, r.LineGap)
	case Table:
		c.drawTable(r, n)
	case Image:
		c.drawImage(r, n.rect)
	case Rule:
		c.setDraw(black, 0.5)
		c.pdf.Line(n.rect.X, n.rect.Y, n.rect.X+n.rect.W, n.rect.Y)
	}

	for _, child := range n.children {
		c.draw(child)
	}
}

func (c *canvas) drawBox(b Box, n *node) {
	style := ""

	if b.Fill != nil {
		c.pdf.SetFillColor(b.Fill.R, b.Fill.G, b.Fill.B)
		style += "F"
	}

	if b.Border != BorderNone {
		col := lightGray
		if b.Border == BorderDashed {
			col = black
		}

		if b.Color != nil {
			col = *b.Color
		}

		c.setDraw(col, 0.5)

		if b.Border == BorderDashed {
			c.pdf.SetDashPattern([]float64{3, 2}, 0)
		}

		style += "D"
	}

	if style != "" {
		c.pdf.Rect(n.rect.X, n.rect.Y, n.rect.W, n.rect.H, style)
	}

	c.pdf.SetDashPattern([]float64{}, 0)
}

func alignStr(a Align) string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	default:
		return "L"
	}
}

// drawLines writes already translated lines from the top of r.
func (c *canvas) drawLines(lines []string, f font, a Align, r Rect, gap float64) {
	c.m.setFont(f)
	c.pdf.SetTextColor(0, 0, 0)

	lh := c.m.lineHeight(f)

	for i, line := range lines {
		c.pdf.SetXY(r.X, r.Y+float64(i)*(lh+gap))
		c.pdf.CellFormat(r.W, lh, line, "", 0, alignStr(a), false, 0, "")
	}
}

func (c *canvas) drawTable(t Table, n *node) {
	widths, _ := t.colWidths(n.rect.W)
	y := n.rect.Y

	for r, cells := range n.cells {
		h := n.rowH[r]

		c.setDraw(black, 0.5)

		if r == 0 {
			c.pdf.SetFillColor(headerBG.R, headerBG.G, headerBG.B)
			c.pdf.Rect(n.rect.X, y, n.rect.W, h, "FD")
		} else {
			c.pdf.Rect(n.rect.X, y, n.rect.W, h, "D")
		}

		x := n.rect.X

		for i, col := range t.Columns {
			cell := Rect{X: x + t.Padding, Y: y + t.Padding, W: widths[i] - 2*t.Padding}
			c.drawLines(cells[i], t.font(r == 0), col.Align, cell, 0)
			x += widths[i]
		}

		y += h
	}
}

func (c *canvas) drawImage(img Image, r Rect) {
	if img.Data == nil {
		return
	}

	c.images++
	name := fmt.Sprintf("img%d", c.images)

	info := c.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(img.Data))
	if info == nil {
		return
	}

	w, h := fit(info.Width(), info.Height(), r.W, r.H)
	c.pdf.ImageOptions(name, r.X, r.Y, w, h, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
}

// fit scales w×h to fit inside maxW×maxH, keeping the aspect ratio.
func fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}

	scale := min(maxW/w, maxH/h)

	return w * scale, h * scale
}
