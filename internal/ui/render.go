package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/stagger-tui/internal/engine"
	"github.com/DaanHessen/stagger-tui/internal/feed"
)

const statusRows = 1

type segment struct {
	x    int
	text string
}

// canvas collects card lines per screen row. Lanes never overlap
// horizontally, so a row is its segments in x order.
type canvas struct {
	width int
	rows  [][]segment
}

func newCanvas(width, height int) *canvas {
	return &canvas{width: width, rows: make([][]segment, height)}
}

// place draws block with its top-left corner at (x, y), clipping rows outside
// the canvas.
func (c *canvas) place(x, y int, block string) {
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(c.rows) {
			continue
		}
		c.rows[row] = append(c.rows[row], segment{x: x, text: line})
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for i, row := range c.rows {
		sort.Slice(row, func(a, b int) bool { return row[a].x < row[b].x })
		cursor := 0
		for _, seg := range row {
			if seg.x > cursor {
				b.WriteString(strings.Repeat(" ", seg.x-cursor))
				cursor = seg.x
			}
			b.WriteString(seg.text)
			cursor += lipgloss.Width(seg.text)
		}
		if cursor < c.width {
			b.WriteString(strings.Repeat(" ", c.width-cursor))
		}
		if i < len(c.rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m model) styleFor(it *engine.Item, card *feed.Card, pressed *engine.Item) lipgloss.Style {
	switch {
	case card.Flashing():
		return m.styles.flash
	case pressed == it:
		return m.styles.pressed
	case card.Entry.Kind == feed.KindPhoto:
		return m.styles.photo
	}
	return m.styles.normal
}

func (m model) renderGrid() string {
	c := newCanvas(m.width, m.gridHeight())
	pressed := m.s.grid.Resolve(m.s.grid.Pressed())
	for _, it := range m.s.grid.Children() {
		card, ok := it.Content.(*feed.Card)
		if !ok {
			continue
		}
		block := card.Render(it.Bounds.Width(), m.styleFor(it, card, pressed))
		c.place(it.Bounds.Left, it.Bounds.Top, block)
	}
	return c.String()
}

func (m model) renderStatus() string {
	st := m.s.grid.State()
	left := fmt.Sprintf(" stagger %s  #%d  %d/%d  cols %d  %s", m.version, st.FirstPosition, m.s.visible, m.s.total, m.s.grid.ColumnCount(), m.s.scrollState)
	right := m.s.status
	style := m.styles.status
	if m.err != nil {
		right, style = "error: "+m.err.Error(), m.styles.failed
	}
	if right != "" {
		right += " "
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return style.Width(m.width).MaxWidth(m.width).MaxHeight(statusRows).Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "starting..."
	}
	body := m.renderGrid()
	if m.showHelp {
		body = lipgloss.Place(m.width, m.gridHeight(), lipgloss.Center, lipgloss.Center, m.help)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus())
}
