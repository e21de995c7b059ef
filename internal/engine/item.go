package engine

// Rect is a half-open box in container coordinates.
type Rect struct {
	Left, Top, Right, Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

func (r Rect) offset(dy int) Rect {
	r.Top += dy
	r.Bottom += dy
	return r
}

// Content is whatever the data source renders into an item. The engine only
// needs its height for a given width.
type Content interface {
	Measure(width int) int
}

// TransientContent is implemented by content that can carry state which must
// not be handed to another position (a running highlight, an edit in progress).
type TransientContent interface {
	HasTransientState() bool
}

// Item is one data bound renderable. The exported fields are the tagged
// layout parameters the engine maintains; Content belongs to the data source.
type Item struct {
	Position       int
	ViewType       int
	StableID       int64
	Column         int
	MeasuredHeight int
	Bounds         Rect
	Content        Content

	measuredWidth int
	scrappedFrom  int
	generation    uint64
}

// Handle refers to an item binding without holding a pointer to it.
type Handle struct {
	Position   int
	Generation uint64
}

// NoHandle never resolves.
var NoHandle = Handle{Position: InvalidPosition}

func (it *Item) Handle() Handle {
	return Handle{Position: it.Position, Generation: it.generation}
}

func (it *Item) IsHeaderOrFooter() bool { return it.ViewType == ViewTypeHeaderOrFooter }

func (it *Item) hasTransientState() bool {
	if tc, ok := it.Content.(TransientContent); ok {
		return tc.HasTransientState()
	}
	return false
}

func (it *Item) measure(width int) {
	if it.Content != nil {
		it.MeasuredHeight = it.Content.Measure(width)
	}
	if it.MeasuredHeight < 0 {
		it.MeasuredHeight = 0
	}
	it.measuredWidth = width
}
