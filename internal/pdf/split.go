package pdf

import "strings"

// splitter is a region that can end on one page and continue on the next.
// splitAt returns a head no taller than height and the remainder. ok is false
// when nothing useful fits or the region already fits whole.
type splitter interface {
	splitAt(m measurer, width, height float64) (head, tail Region, ok bool)
}

func splitRegion(r Region, m measurer, width, height float64) (Region, Region, bool) {
	s, ok := r.(splitter)
	if !ok || height <= 0 {
		return nil, nil, false
	}

	return s.splitAt(m, width, height)
}

func (t Text) splitAt(m measurer, width, height float64) (Region, Region, bool) {
	f := t.font()
	lines := m.split(f, t.Content, width)
	k := int((height + t.LineGap) / (m.lineHeight(f) + t.LineGap))

	if k < 1 || k >= len(lines) {
		return nil, nil, false
	}

	head, tail := t, t
	head.Content = strings.Join(lines[:k], "\n")
	tail.Content = strings.Join(lines[k:], "\n")

	return head, tail, true
}

func (s Stack) splitAt(m measurer, width, height float64) (Region, Region, bool) {
	cur := 0.0

	for i, child := range s.Children {
		if i > 0 {
			cur += s.Gap
		}

		n, err := child.layout(m, 0, cur, width)
		if err != nil {
			return nil, nil, false
		}

		if cur+n.rect.H <= height {
			cur += n.rect.H
			continue
		}

		before := append([]Region(nil), s.Children[:i]...)

		if h, t, ok := splitRegion(child, m, width, height-cur); ok {
			return Stack{Gap: s.Gap, Children: append(before, h)},
				Stack{Gap: s.Gap, Children: append([]Region{t}, s.Children[i+1:]...)},
				true
		}

		if i == 0 {
			return nil, nil, false
		}

		return Stack{Gap: s.Gap, Children: before},
			Stack{Gap: s.Gap, Children: append([]Region(nil), s.Children[i:]...)},
			true
	}

	return nil, nil, false
}

// The tail of a box keeps its frame but drops the minimum height.
func (b Box) splitAt(m measurer, width, height float64) (Region, Region, bool) {
	if b.Child == nil {
		return nil, nil, false
	}

	h, t, ok := splitRegion(b.Child, m, width-2*b.Padding, height-2*b.Padding)
	if !ok {
		return nil, nil, false
	}

	head, tail := b, b
	head.Child, head.MinHeight = h, 0
	tail.Child, tail.MinHeight = t, 0

	return head, tail, true
}

// Columns split together: a column that fits keeps its content on the first
// page and leaves an empty slot on the next.
func (c Columns) splitAt(m measurer, width, height float64) (Region, Region, bool) {
	widths, err := c.widths(width)
	if err != nil {
		return nil, nil, false
	}

	heads := make([]Region, len(c.Children))
	tails := make([]Region, len(c.Children))
	split := false

	for i, child := range c.Children {
		n, err := child.layout(m, 0, 0, widths[i])
		if err != nil {
			return nil, nil, false
		}

		if n.rect.H <= height {
			heads[i], tails[i] = child, Spacer{}
			continue
		}

		h, t, ok := splitRegion(child, m, widths[i], height)
		if !ok {
			return nil, nil, false
		}

		heads[i], tails[i] = h, t
		split = true
	}

	if !split {
		return nil, nil, false
	}

	head, tail := c, c
	head.Children, tail.Children = heads, tails

	return head, tail, true
}

// Tables split between rows and repeat the header.
func (t Table) splitAt(m measurer, width, height float64) (Region, Region, bool) {
	n, err := t.layout(m, 0, 0, width)
	if err != nil {
		return nil, nil, false
	}

	cur := n.rowH[0]
	k := 0

	for _, h := range n.rowH[1:] {
		if cur+h > height {
			break
		}

		cur += h
		k++
	}

	if k == 0 || k == len(t.Rows) {
		return nil, nil, false
	}

	head, tail := t, t
	head.Rows, tail.Rows = t.Rows[:k], t.Rows[k:]

	return head, tail, true
}
