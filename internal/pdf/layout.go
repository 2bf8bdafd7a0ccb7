package pdf

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidLayout = errors.New("invalid layout")

type Rect struct {
	X, Y, W, H float64
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

type Border int

const (
	BorderNone Border = iota
	BorderSolid
	BorderDashed
)

type Color struct {
	R, G, B int
}

var (
	black     = Color{0, 0, 0}
	lightGray = Color{0xCC, 0xCC, 0xCC}
	headerBG  = Color{0xF0, 0xF0, 0xF0}
)

type font struct {
	size float64
	bold bool
}

// measurer supplies font metrics to the layout pass.
type measurer interface {
	lineHeight(f font) float64
	// split wraps s into lines no wider than width, honoring explicit newlines.
	split(f font, s string, width float64) []string
}

// Region is a node of a document tree. Layout turns a region into a node with a
// fixed rectangle; drawing never measures.
type Region interface {
	layout(m measurer, x, y, width float64) (*node, error)
}

type node struct {
	region   Region
	rect     Rect
	lines    []string
	cells    [][][]string // table rows, columns, lines
	rowH     []float64
	children []*node
}

func (n *node) translate(dy float64) {
	n.rect.Y += dy
	for _, c := range n.children {
		c.translate(dy)
	}
}

func checkWidth(kind string, width float64) error {
	if width <= 0 {
		return fmt.Errorf("%w: %s has non-positive width %.2f", ErrInvalidLayout, kind, width)
	}

	return nil
}

// Stack places children top to bottom.
type Stack struct {
	Children []Region
	Gap      float64
}

func (s Stack) layout(m measurer, x, y, width float64) (*node, error) {
	if err := checkWidth("stack", width); err != nil {
		return nil, err
	}

	n := &node{region: s, rect: Rect{X: x, Y: y, W: width}}
	cur := y

	for i, child := range s.Children {
		if i > 0 {
			cur += s.Gap
		}

		c, err := child.layout(m, x, cur, width)
		if err != nil {
			return nil, err
		}

		n.children = append(n.children, c)
		cur += c.rect.H
	}

	n.rect.H = cur - y

	return n, nil
}

// Columns places children side by side. A zero width shares the space left by
// the fixed ones. With Stretch, every column takes the height of the tallest.
type Columns struct {
	Children []Region
	Widths   []float64
	Gap      float64
	Stretch  bool
}

func (c Columns) widths(total float64) ([]float64, error) {
	if len(c.Widths) != 0 && len(c.Widths) != len(c.Children) {
		return nil, fmt.Errorf("%w: %d widths for %d columns", ErrInvalidLayout, len(c.Widths), len(c.Children))
	}

	out := make([]float64, len(c.Children))
	free := total - c.Gap*float64(len(c.Children)-1)
	flex := 0

	for i := range c.Children {
		w := 0.0
		if len(c.Widths) > 0 {
			w = c.Widths[i]
		}

		switch {
		case w < 0:
			return nil, fmt.Errorf("%w: negative column width %.2f", ErrInvalidLayout, w)
		case w == 0:
			flex++
		default:
			out[i] = w
			free -= w
		}
	}

	if flex > 0 {
		share := free / float64(flex)
		if share <= 0 {
			return nil, fmt.Errorf("%w: fixed columns leave no room (%.2f left)", ErrInvalidLayout, free)
		}

		for i := range out {
			if out[i] == 0 {
				out[i] = share
			}
		}
	} else if free < -0.01 {
		return nil, fmt.Errorf("%w: columns overflow by %.2f", ErrInvalidLayout, -free)
	}

	return out, nil
}

func (c Columns) layout(m measurer, x, y, width float64) (*node, error) {
	if err := checkWidth("columns", width); err != nil {
		return nil, err
	}

	widths, err := c.widths(width)
	if err != nil {
		return nil, err
	}

	n := &node{region: c, rect: Rect{X: x, Y: y, W: width}}
	cur := x

	for i, child := range c.Children {
		cn, err := child.layout(m, cur, y, widths[i])
		if err != nil {
			return nil, err
		}

		n.children = append(n.children, cn)
		n.rect.H = max(n.rect.H, cn.rect.H)
		cur += widths[i] + c.Gap
	}

	if c.Stretch {
		for _, cn := range n.children {
			cn.rect.H = n.rect.H
		}
	}

	return n, nil
}

// Box frames its child with padding.
type Box struct {
	Child     Region
	Border    Border
	Color     *Color
	Fill      *Color
	Padding   float64
	MinHeight float64
}

func (b Box) layout(m measurer, x, y, width float64) (*node, error) {
	inner := width - 2*b.Padding
	if err := checkWidth("box content", inner); err != nil {
		return nil, err
	}

	n := &node{region: b, rect: Rect{X: x, Y: y, W: width, H: 2 * b.Padding}}

	if b.Child != nil {
		c, err := b.Child.layout(m, x+b.Padding, y+b.Padding, inner)
		if err != nil {
			return nil, err
		}

		n.children = []*node{c}
		n.rect.H += c.rect.H
	}

	n.rect.H = max(n.rect.H, b.MinHeight)

	return n, nil
}

type Text struct {
	Content string
	Size    float64
	Bold    bool
	Align   Align
	LineGap float64
}

func (t Text) font() font {
	size := t.Size
	if size <= 0 {
		size = 11
	}

	return font{size: size, bold: t.Bold}
}

func (t Text) layout(m measurer, x, y, width float64) (*node, error) {
	if err := checkWidth("text", width); err != nil {
		return nil, err
	}

	f := t.font()
	lines := m.split(f, t.Content, width)

	h := float64(len(lines))*m.lineHeight(f) + float64(max(len(lines)-1, 0))*t.LineGap

	return &node{region: t, rect: Rect{X: x, Y: y, W: width, H: h}, lines: lines}, nil
}

type Column struct {
	Title string
	Share float64 // fraction of the table width
	Align Align
}

type Table struct {
	Columns []Column
	Rows    [][]string
	Size    float64
	Padding float64
}

func (t Table) font(header bool) font {
	size := t.Size
	if size <= 0 {
		size = 11
	}

	return font{size: size, bold: header}
}

func (t Table) colWidths(width float64) ([]float64, error) {
	total := 0.0
	out := make([]float64, len(t.Columns))

	for i, c := range t.Columns {
		if c.Share <= 0 {
			return nil, fmt.Errorf("%w: column %q has no width", ErrInvalidLayout, c.Title)
		}

		total += c.Share
		out[i] = c.Share * width
	}

	if total > 1.0001 {
		return nil, fmt.Errorf("%w: table columns take %.2f of the width", ErrInvalidLayout, total)
	}

	return out, nil
}

func (t Table) layout(m measurer, x, y, width float64) (*node, error) {
	if err := checkWidth("table", width); err != nil {
		return nil, err
	}

	widths, err := t.colWidths(width)
	if err != nil {
		return nil, err
	}

	n := &node{region: t, rect: Rect{X: x, Y: y, W: width}}

	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Title
	}

	for r, row := range append([][]string{header}, t.Rows...) {
		f := t.font(r == 0)
		cells := make([][]string, len(t.Columns))
		rowLines := 1

		for i := range t.Columns {
			text := ""
			if i < len(row) {
				text = row[i]
			}

			inner := widths[i] - 2*t.Padding
			if err := checkWidth("table cell", inner); err != nil {
				return nil, err
			}

			cells[i] = m.split(f, text, inner)
			rowLines = max(rowLines, len(cells[i]))
		}

		h := float64(rowLines)*m.lineHeight(f) + 2*t.Padding
		n.cells = append(n.cells, cells)
		n.rowH = append(n.rowH, h)
		n.rect.H += h
	}

	return n, nil
}

// Image reserves a fixed-height area and draws Data, a JPEG, fitted inside it.
// Nil Data leaves the area empty.
type Image struct {
	Data   []byte
	Width  float64 // 0 takes the available width
	Height float64
}

func (img Image) layout(_ measurer, x, y, width float64) (*node, error) {
	if img.Height <= 0 {
		return nil, fmt.Errorf("%w: image has non-positive height", ErrInvalidLayout)
	}

	w := width
	if img.Width > 0 {
		w = min(img.Width, width)
	}

	if err := checkWidth("image", w); err != nil {
		return nil, err
	}

	return &node{region: img, rect: Rect{X: x, Y: y, W: w, H: img.Height}}, nil
}

type Spacer struct {
	Height float64
}

func (s Spacer) layout(_ measurer, x, y, width float64) (*node, error) {
	return &node{region: s, rect: Rect{X: x, Y: y, W: width, H: s.Height}}, nil
}

// Rule is a horizontal line across the available width.
type Rule struct{}

func (r Rule) layout(_ measurer, x, y, width float64) (*node, error) {
	return &node{region: r, rect: Rect{X: x, Y: y, W: width, H: 0.5}}, nil
}

// Document is a sequence of top-level sections. A section that does not fit on the
// current page moves to the next one. A section taller than a whole page fills the
// rest of the current page and continues on the next; one that cannot be split is
// an error.
type Document struct {
	Sections []Region
	Gap      float64
}

type page struct {
	nodes []*node
}

func (d Document) paginate(m measurer, pageW, pageH, margin float64) ([]page, error) {
	width := pageW - 2*margin
	bottom := pageH - margin
	avail := bottom - margin

	pages := []page{{}}
	y := margin

	place := func(r Region, at float64) error {
		n, err := r.layout(m, margin, 0, width)
		if err != nil {
			return err
		}

		n.translate(at)
		pages[len(pages)-1].nodes = append(pages[len(pages)-1].nodes, n)
		y = at + n.rect.H

		return nil
	}

	nextPage := func() {
		pages = append(pages, page{})
		y = margin
	}

	for i, s := range d.Sections {
		for r := s; r != nil; {
			n, err := r.layout(m, margin, 0, width)
			if err != nil {
				return nil, fmt.Errorf("section %d: %w", i+1, err)
			}

			top := y
			if len(pages[len(pages)-1].nodes) > 0 {
				top += d.Gap
			}

			switch {
			case top+n.rect.H <= bottom:
				if err := place(r, top); err != nil {
					return nil, fmt.Errorf("section %d: %w", i+1, err)
				}

				r = nil
			case n.rect.H <= avail:
				nextPage()
			default:
				head, tail, ok := splitRegion(r, m, width, bottom-top)
				if !ok {
					if len(pages[len(pages)-1].nodes) == 0 {
						return nil, fmt.Errorf("%w: section %d is %.0fpt tall, page holds %.0fpt", ErrInvalidLayout, i+1, n.rect.H, avail)
					}

					nextPage()

					continue
				}

				if err := place(head, top); err != nil {
					return nil, fmt.Errorf("section %d: %w", i+1, err)
				}

				nextPage()

				r = tail
			}
		}
	}

	return pages, nil
}

func joinLines(lines []string) string {
	var kept []string

	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}

	return strings.Join(kept, "\n")
}
