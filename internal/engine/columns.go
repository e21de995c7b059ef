package engine

import (
	"math"

	"github.com/pkg/errors"
)

// Columns tracks the top and bottom edge of every lane and decides which lane
// a position goes into. An item in a lane occupies [edge, edge+margin+height]:
// the margin sits above the item. Headers and footers span every lane and
// carry no margin.
type Columns struct {
	count   int
	width   int
	margin  int
	lefts   []int
	tops    []int
	bottoms []int
	records *Records
}

func NewColumns(records *Records) *Columns {
	return &Columns{records: records}
}

// Setup sizes the lanes for totalWidth. Edges are kept when the count does
// not change and reset to zero otherwise.
func (c *Columns) Setup(count, totalWidth, padLeft, padRight, margin int) error {
	if count < 1 {
		return errors.Wrapf(ErrInvalidColumnCount, "%d", count)
	}
	avail := totalWidth - padLeft - padRight - margin*(count+1)
	width := avail / count
	if width < 1 {
		width = 1
	}
	if count != c.count {
		c.tops = make([]int, count)
		c.bottoms = make([]int, count)
	}
	c.count = count
	c.width = width
	c.margin = margin
	c.lefts = make([]int, count)
	for i := range c.lefts {
		c.lefts[i] = padLeft + margin + i*(width+margin)
	}
	return nil
}

func (c *Columns) Ready() bool    { return c.count > 0 }
func (c *Columns) Count() int     { return c.count }
func (c *Columns) Width() int     { return c.width }
func (c *Columns) Margin() int    { return c.margin }
func (c *Columns) Left(i int) int { return c.lefts[i] }

// Tops returns a copy of the top edges.
func (c *Columns) Tops() []int { return append([]int(nil), c.tops...) }

// Bottoms returns a copy of the bottom edges.
func (c *Columns) Bottoms() []int { return append([]int(nil), c.bottoms...) }

// ResetEdges puts every lane at y.
func (c *Columns) ResetEdges(y int) {
	for i := range c.tops {
		c.tops[i] = y
		c.bottoms[i] = y
	}
}

// ResetToTop puts every lane at y and forgets every record.
func (c *Columns) ResetToTop(y int) {
	c.ResetEdges(y)
	c.records.Clear()
}

// PrepareRelayout collapses each lane onto its top so the lane can be filled
// again from there.
func (c *Columns) PrepareRelayout() {
	copy(c.bottoms, c.tops)
}

// SetTops installs saved top edges and collapses bottoms onto them.
func (c *Columns) SetTops(tops []int) {
	copy(c.tops, tops)
	copy(c.bottoms, tops)
}

// HighestBottomColumn is the lane with the smallest bottom, lowest index on ties.
func (c *Columns) HighestBottomColumn() int {
	col := 0
	for i := 1; i < c.count; i++ {
		if c.bottoms[i] < c.bottoms[col] {
			col = i
		}
	}
	return col
}

// LowestTopColumn is the lane with the largest top, lowest index on ties.
func (c *Columns) LowestTopColumn() int {
	col := 0
	for i := 1; i < c.count; i++ {
		if c.tops[i] > c.tops[col] {
			col = i
		}
	}
	return col
}

func (c *Columns) HighestTop() int    { return minOf(c.tops) }
func (c *Columns) LowestTop() int     { return maxOf(c.tops) }
func (c *Columns) HighestBottom() int { return minOf(c.bottoms) }
func (c *Columns) LowestBottom() int  { return maxOf(c.bottoms) }
func (c *Columns) Top(col int) int    { return c.tops[col] }
func (c *Columns) Bottom(col int) int { return c.bottoms[col] }

// ColumnFor returns the lane pos belongs in: its recorded lane when that is
// still valid, otherwise the shortest lane in the fill direction.
func (c *Columns) ColumnFor(pos int, flowDown bool) int {
	if col := c.records.Column(pos); col >= 0 && col < c.count {
		return col
	}
	if flowDown {
		return c.HighestBottomColumn()
	}
	return c.LowestTopColumn()
}

// Place lays pos out against the lane edges and updates the edges and the
// record. It returns the item box top and bottom and the lane, -1 for
// headers and footers.
func (c *Columns) Place(pos, height int, flowDown, header bool) (top, bottom, col int) {
	if height < 0 {
		height = 0
	}
	if header {
		if flowDown {
			top = c.LowestBottom()
			bottom = top + height
		} else {
			bottom = c.HighestTop()
			top = bottom - height
		}
		for i := range c.tops {
			if top < c.tops[i] {
				c.tops[i] = top
			}
			if bottom > c.bottoms[i] {
				c.bottoms[i] = bottom
			}
		}
		if flowDown {
			for i := range c.bottoms {
				c.bottoms[i] = bottom
			}
		} else {
			for i := range c.tops {
				c.tops[i] = top
			}
		}
		c.records.SetHeaderOrFooter(pos, true)
		c.records.SetColumn(pos, -1)
		c.records.SetHeightRatio(pos, c.ratio(height))
		return top, bottom, -1
	}

	col = c.ColumnFor(pos, flowDown)
	if flowDown {
		top = c.bottoms[col] + c.margin
		bottom = top + height
		c.bottoms[col] = bottom
		if top-c.margin < c.tops[col] {
			c.tops[col] = top - c.margin
		}
	} else {
		bottom = c.tops[col]
		top = bottom - height
		c.tops[col] = top - c.margin
		if bottom > c.bottoms[col] {
			c.bottoms[col] = bottom
		}
	}
	c.records.SetHeaderOrFooter(pos, false)
	c.records.SetColumn(pos, col)
	c.records.SetHeightRatio(pos, c.ratio(height))
	return top, bottom, col
}

func (c *Columns) ratio(height int) float64 {
	return float64(height) / float64(c.width)
}

// Offset moves every lane by dy.
func (c *Columns) Offset(dy int) {
	for i := range c.tops {
		c.tops[i] += dy
		c.bottoms[i] += dy
	}
}

// OffsetColumn moves one lane by dy.
func (c *Columns) OffsetColumn(col, dy int) {
	c.tops[col] += dy
	c.bottoms[col] += dy
}

// Repair recomputes lane edges from the items still attached. A lane left
// with no item collapses onto the edge the removed items were leaving from.
func (c *Columns) Repair(children []*Item, removedAbove bool) {
	tops := make([]int, c.count)
	bottoms := make([]int, c.count)
	seen := make([]bool, c.count)
	grow := func(col, top, bottom int) {
		if !seen[col] {
			seen[col] = true
			tops[col], bottoms[col] = top, bottom
			return
		}
		if top < tops[col] {
			tops[col] = top
		}
		if bottom > bottoms[col] {
			bottoms[col] = bottom
		}
	}
	for _, it := range children {
		if it.IsHeaderOrFooter() {
			for col := 0; col < c.count; col++ {
				grow(col, it.Bounds.Top, it.Bounds.Bottom)
			}
			continue
		}
		if it.Column < 0 || it.Column >= c.count {
			continue
		}
		grow(it.Column, it.Bounds.Top-c.margin, it.Bounds.Bottom)
	}
	for col := 0; col < c.count; col++ {
		switch {
		case seen[col]:
			c.tops[col], c.bottoms[col] = tops[col], bottoms[col]
		case removedAbove:
			c.tops[col] = c.bottoms[col]
		default:
			c.bottoms[col] = c.tops[col]
		}
	}
}

// Sync rebuilds lane edges for the current column count from recorded height
// ratios. Positions [0, syncPos) are replayed through the shortest lane rule,
// then every lane is shifted so syncPos starts at specificTop. The result
// approximates the previous layout; it is not pixel exact. Calling Sync twice
// in a row yields the same edges.
func (c *Columns) Sync(syncPos, specificTop int, isHeader func(pos int) bool) {
	if syncPos < 0 {
		syncPos = 0
	}
	ratios := make([]float64, syncPos)
	known := make([]bool, syncPos)
	var sum float64
	var n int
	for pos := 0; pos < syncPos; pos++ {
		if r, ok := c.records.HeightRatio(pos); ok {
			ratios[pos], known[pos] = r, true
			sum += r
			n++
		}
	}
	fallback := 1.0
	if n > 0 {
		fallback = sum / float64(n)
	}

	c.records.Clear()
	c.ResetEdges(0)
	for pos := 0; pos < syncPos; pos++ {
		ratio := ratios[pos]
		if !known[pos] {
			ratio = fallback
		}
		height := int(math.Round(float64(c.width) * ratio))
		c.Place(pos, height, true, isHeader(pos))
		c.records.SetHeightRatio(pos, ratio)
	}

	var anchor int
	if isHeader(syncPos) {
		anchor = c.LowestBottom()
	} else {
		col := c.HighestBottomColumn()
		c.records.SetColumn(syncPos, col)
		anchor = c.bottoms[col]
	}
	c.Offset(specificTop - anchor)
	copy(c.tops, c.bottoms)
}

func minOf(v []int) int {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(v []int) int {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
