package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedContent struct {
	height    int
	transient bool
}

func (f *fixedContent) Measure(int) int         { return f.height }
func (f *fixedContent) HasTransientState() bool { return f.transient }

// fakeAdapter serves items of fixed heights. Positions listed in headers use
// the header view type.
type fakeAdapter struct {
	heights   []int
	headers   map[int]bool
	types     int
	typeOf    func(pos int) int
	stableIDs bool
	ids       []int64
	observers []Observer
	created   int
	bound     []int
}

func newFakeAdapter(heights ...int) *fakeAdapter {
	ids := make([]int64, len(heights))
	for i := range ids {
		ids[i] = int64(1000 + i)
	}
	return &fakeAdapter{heights: heights, headers: map[int]bool{}, types: 1, ids: ids}
}

func uniform(n, h int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = h
	}
	return out
}

func (a *fakeAdapter) Count() int { return len(a.heights) }

func (a *fakeAdapter) ViewType(pos int) int {
	if a.headers[pos] {
		return ViewTypeHeaderOrFooter
	}
	if a.typeOf != nil {
		return a.typeOf(pos)
	}
	return 0
}

func (a *fakeAdapter) ViewTypeCount() int     { return a.types }
func (a *fakeAdapter) HasStableIDs() bool     { return a.stableIDs }
func (a *fakeAdapter) StableID(pos int) int64 { return a.ids[pos] }
func (a *fakeAdapter) IsEnabled(pos int) bool { return !a.headers[pos] }

func (a *fakeAdapter) Bind(pos int, recycled *Item) *Item {
	a.bound = append(a.bound, pos)
	if recycled != nil {
		recycled.Content.(*fixedContent).height = a.heights[pos]
		return recycled
	}
	a.created++
	return &Item{Content: &fixedContent{height: a.heights[pos]}}
}

func (a *fakeAdapter) Subscribe(o Observer) func() {
	a.observers = append(a.observers, o)
	return func() {
		for i, x := range a.observers {
			if x == o {
				a.observers = append(a.observers[:i], a.observers[i+1:]...)
				return
			}
		}
	}
}

func (a *fakeAdapter) changed() {
	for _, o := range a.observers {
		o.Changed()
	}
}

func (a *fakeAdapter) invalidated() {
	for _, o := range a.observers {
		o.Invalidated()
	}
}

type fakeHost struct {
	attached map[*Item]bool
	frames   int
}

func newFakeHost() *fakeHost { return &fakeHost{attached: map[*Item]bool{}} }

func (h *fakeHost) AttachItem(it *Item) { h.attached[it] = true }
func (h *fakeHost) DetachItem(it *Item) { delete(h.attached, it) }
func (h *fakeHost) RequestFrame()       { h.frames++ }

type scrollEvent struct {
	first, visible, total int
}

type recordingListener struct {
	scrolls []scrollEvent
	states  []ScrollState
}

func (l *recordingListener) OnScroll(first, visible, total int) {
	l.scrolls = append(l.scrolls, scrollEvent{first, visible, total})
}

func (l *recordingListener) OnScrollStateChanged(s ScrollState) {
	l.states = append(l.states, s)
}

// newTestController lays out a controller of the given size over adapter.
func newTestController(t *testing.T, a *fakeAdapter, width, height int, opts ...Option) (*Controller, *fakeHost) {
	t.Helper()
	host := newFakeHost()
	c := New(host, opts...)
	require.NoError(t, c.SetAdapter(a))
	require.NoError(t, c.Layout(0, 0, width, height))
	return c, host
}

func positions(items []*Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Position
	}
	return out
}

// requireConsistent checks lane edges bracket their items and that no two
// items in a lane overlap.
func requireConsistent(t *testing.T, c *Controller) {
	t.Helper()
	tops, bottoms := c.ColumnEdges()
	for i := range tops {
		require.LessOrEqual(t, tops[i], bottoms[i], "lane %d", i)
	}
	byLane := map[int][]Rect{}
	for i, it := range c.Children() {
		require.Equal(t, c.State().FirstPosition+i, it.Position, "positions must be contiguous")
		if it.IsHeaderOrFooter() {
			continue
		}
		require.GreaterOrEqual(t, it.Column, 0)
		require.Less(t, it.Column, c.ColumnCount())
		for _, r := range byLane[it.Column] {
			overlap := it.Bounds.Top < r.Bottom && r.Top < it.Bounds.Bottom
			require.False(t, overlap, "position %d overlaps in lane %d", it.Position, it.Column)
		}
		byLane[it.Column] = append(byLane[it.Column], it.Bounds)
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
