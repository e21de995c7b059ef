package engine

import (
	"time"

	"github.com/pkg/errors"
)

// syncMode says how lane edges are prepared before a SYNC fill.
type syncMode int

const (
	// syncRelayout refills from the current lane tops.
	syncRelayout syncMode = iota
	// syncReset levels every lane at the sync top.
	syncReset
	// syncReconstruct replays recorded height ratios for a new lane count.
	syncReconstruct
)

// ViewportState is a snapshot of what the controller is showing.
type ViewportState struct {
	FirstPosition   int
	ChildCount      int
	ScrollOffsetY   int
	TouchMode       TouchMode
	ActivePointerID int
	LayoutMode      LayoutMode
}

// Controller decides which positions are on screen, where they go and how
// touch input moves them. It is not safe for concurrent use; every call must
// come from the host's event loop.
type Controller struct {
	cfg      config
	host     Host
	adapter  Adapter
	unsub    func()
	records  *Records
	columns  *Columns
	recycler *Recycler
	fling    *Fling
	velocity VelocityTracker

	width, height   int
	left, top       int
	pinnedColumns   int
	children        []*Item
	firstPosition   int
	itemCount       int
	scrollOffsetY   int
	generation      uint64
	layoutMode      LayoutMode
	dataChanged     bool
	inLayout        bool
	layoutRequested bool
	needSync        bool
	syncPosition    int
	syncStableID    int64
	specificTop     int
	syncMode        syncMode
	pendingRestore  *SavedState
	overlayOpen     bool
	lastScrollState ScrollState
	lastFlingY      int
	lastFlingFrame  time.Duration
	flingFrameKnown bool

	touchMode        TouchMode
	tracking         bool
	activePointer    int
	motionX, motionY int
	motionPosition   int
	motionCorrection int
	lastY            int
	lastYValid       bool
	downTime         time.Duration
	pressed          Handle
	pendingClick     *Handle
	timers           []timer
}

// New returns a controller attached to host.
func New(host Host, opts ...Option) *Controller {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	records := NewRecords()
	c := &Controller{
		cfg:             cfg,
		host:            host,
		records:         records,
		columns:         NewColumns(records),
		recycler:        NewRecycler(),
		fling:           NewFling(cfg.friction, 1),
		layoutMode:      LayoutNormal,
		lastScrollState: ScrollIdle,
		touchMode:       TouchIdle,
		activePointer:   -1,
		motionPosition:  InvalidPosition,
		syncStableID:    InvalidID,
		pressed:         NoHandle,
	}
	if cfg.recycleListener != nil {
		c.recycler.SetListener(cfg.recycleListener)
	}
	return c
}

type dataObserver struct{ c *Controller }

func (o dataObserver) Changed()     { o.c.onChanged() }
func (o dataObserver) Invalidated() { o.c.onInvalidated() }

// SetAdapter swaps the data source. Everything derived from the previous
// source is discarded.
func (c *Controller) SetAdapter(a Adapter) error {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	c.detachAll()
	c.recycler.Clear()
	c.records.Clear()
	c.adapter = a
	c.firstPosition = 0
	c.itemCount = 0
	c.needSync = false
	c.layoutMode = LayoutForceTop
	if a != nil {
		if err := c.recycler.SetViewTypeCount(a.ViewTypeCount()); err != nil {
			return contractErr("set adapter", err)
		}
		c.itemCount = a.Count()
		c.unsub = a.Subscribe(dataObserver{c})
	}
	c.dataChanged = true
	c.RequestLayout()
	return nil
}

func (c *Controller) Adapter() Adapter { return c.adapter }

func (c *Controller) onChanged() {
	c.dataChanged = true
	c.itemCount = c.adapter.Count()
	c.rememberSyncState()
	c.RequestLayout()
}

func (c *Controller) onInvalidated() {
	c.dataChanged = true
	c.itemCount = c.adapter.Count()
	c.needSync = false
	c.layoutMode = LayoutForceTop
	c.records.Clear()
	c.recycler.Clear()
	c.RequestLayout()
}

// rememberSyncState anchors the next SYNC pass on the first visible item.
func (c *Controller) rememberSyncState() {
	if len(c.children) == 0 {
		return
	}
	first := c.children[0]
	c.needSync = true
	c.syncPosition = c.firstPosition
	c.specificTop = c.gridTop(first)
	c.syncStableID = first.StableID
	if c.layoutMode != LayoutSync || c.syncMode != syncReconstruct {
		c.syncMode = syncRelayout
	}
}

// Measure returns the size the container wants under the given constraints.
func (c *Controller) Measure(widthSpec, heightSpec MeasureSpec) (int, int) {
	p := c.cfg.padding
	return widthSpec.resolve(p.Left + p.Right), heightSpec.resolve(p.Top + p.Bottom)
}

// Layout positions the container and runs a layout pass. A size change picks
// a lane count for the new size and rebuilds the lanes when it differs.
func (c *Controller) Layout(l, t, r, b int) error {
	c.left, c.top = l, t
	w, h := r-l, b-t
	if w != c.width || h != c.height || !c.columns.Ready() {
		c.width, c.height = w, h
		if err := c.setupColumns(c.desiredColumns()); err != nil {
			return err
		}
	}
	return c.layoutChildren()
}

func (c *Controller) desiredColumns() int {
	if c.pinnedColumns > 0 {
		return c.pinnedColumns
	}
	return c.cfg.columnsFor(c.width, c.height)
}

func (c *Controller) setupColumns(n int) error {
	if n < 1 {
		return errors.Wrapf(ErrInvalidColumnCount, "%d", n)
	}
	if c.width <= 0 {
		return nil
	}
	first := !c.columns.Ready()
	changed := n != c.columns.Count()
	if changed && !first {
		c.rememberSyncState()
	}
	p := c.cfg.padding
	if err := c.columns.Setup(n, c.width, p.Left, p.Right, c.cfg.margin); err != nil {
		return err
	}
	if first {
		c.columns.ResetEdges(c.listTop())
		return nil
	}
	if changed {
		c.layoutMode = LayoutSync
		c.syncMode = syncReconstruct
		if len(c.children) == 0 {
			c.syncPosition = c.firstPosition
			c.specificTop = c.listTop()
		}
		c.needSync = false
		c.RequestLayout()
	}
	return nil
}

// SetColumnCount pins the lane count, overriding the size based choice.
func (c *Controller) SetColumnCount(n int) error {
	if n < 1 {
		return errors.Wrapf(ErrInvalidColumnCount, "%d", n)
	}
	c.pinnedColumns = n
	if !c.columns.Ready() || n == c.columns.Count() {
		return nil
	}
	return c.setupColumns(n)
}

func (c *Controller) ColumnCount() int { return c.columns.Count() }
func (c *Controller) ColumnWidth() int { return c.columns.Width() }

// ColumnEdges returns copies of the lane tops and bottoms.
func (c *Controller) ColumnEdges() (tops, bottoms []int) {
	return c.columns.Tops(), c.columns.Bottoms()
}

// State snapshots the viewport.
func (c *Controller) State() ViewportState {
	return ViewportState{
		FirstPosition:   c.firstPosition,
		ChildCount:      len(c.children),
		ScrollOffsetY:   c.scrollOffsetY,
		TouchMode:       c.touchMode,
		ActivePointerID: c.activePointer,
		LayoutMode:      c.layoutMode,
	}
}

// Children returns the attached items in position order.
func (c *Controller) Children() []*Item {
	return append([]*Item(nil), c.children...)
}

// Resolve returns the attached item h refers to, or nil when that binding is
// gone.
func (c *Controller) Resolve(h Handle) *Item {
	it := c.childAt(h.Position)
	if it == nil || it.generation != h.Generation {
		return nil
	}
	return it
}

func (c *Controller) childAt(pos int) *Item {
	i := pos - c.firstPosition
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

// PointToPosition returns the position under (x, y) or InvalidPosition.
func (c *Controller) PointToPosition(x, y int) int {
	for i := len(c.children) - 1; i >= 0; i-- {
		if c.children[i].Bounds.Contains(x, y) {
			return c.children[i].Position
		}
	}
	return InvalidPosition
}

// Record returns what the layout recorded for pos.
func (c *Controller) Record(pos int) (Record, error) {
	if pos < 0 || pos >= c.itemCount {
		return Record{}, errors.Wrapf(ErrPositionOutOfRange, "record %d of %d", pos, c.itemCount)
	}
	rec, ok := c.records.Get(pos)
	if !ok {
		return Record{Column: -1}, nil
	}
	return rec, nil
}

// SetSelection puts pos at the top of the list on the next pass.
func (c *Controller) SetSelection(pos int) error {
	if pos < 0 || pos >= c.itemCount {
		return errors.Wrapf(ErrPositionOutOfRange, "select %d of %d", pos, c.itemCount)
	}
	c.stopFling()
	c.layoutMode = LayoutSync
	c.syncPosition = pos
	c.specificTop = c.listTop()
	c.syncMode = syncReset
	c.syncStableID = InvalidID
	c.needSync = false
	c.RequestLayout()
	return nil
}

// ScrollBy moves the content by distance, positive toward later positions.
// It reports whether an end of the data was hit.
func (c *Controller) ScrollBy(distance int) (bool, error) {
	step := c.listHeight() - 1
	if step < 1 {
		step = 1
	}
	for distance != 0 {
		d := distance
		if d > step {
			d = step
		} else if d < -step {
			d = -step
		}
		atEdge, err := c.moveChildren(-d)
		if err != nil {
			return atEdge, err
		}
		if atEdge {
			return true, nil
		}
		distance -= d
	}
	return false, nil
}

// Fling starts a fling with velocity in units per second, positive toward
// later positions.
func (c *Controller) Fling(velocity float64) {
	if len(c.children) == 0 {
		return
	}
	c.startFling(velocity, 0, false)
}

// StopFling ends a running fling.
func (c *Controller) StopFling() {
	if c.touchMode == TouchFlinging {
		c.endFling()
	}
}

func (c *Controller) stopFling() {
	c.fling.Cancel()
	if c.touchMode == TouchFlinging {
		c.touchMode = TouchIdle
	}
}

// RequestLayout schedules a layout pass. Requests made during a pass are
// deferred to the next frame.
func (c *Controller) RequestLayout() {
	c.layoutRequested = true
	if !c.inLayout && c.host != nil {
		c.host.RequestFrame()
	}
}

// NeedsFrame reports whether OnFrame has pending work.
func (c *Controller) NeedsFrame() bool {
	return c.layoutRequested || c.touchMode == TouchFlinging || len(c.timers) > 0
}

// SetOverlayOpen halves the touch slop while an overlay such as a menu is
// shown.
func (c *Controller) SetOverlayOpen(open bool) { c.overlayOpen = open }

// Pressed returns the handle of the item drawn as pressed.
func (c *Controller) Pressed() Handle { return c.pressed }

func (c *Controller) RecyclerStats() RecyclerStats { return c.recycler.Stats() }

func (c *Controller) listTop() int    { return c.cfg.padding.Top }
func (c *Controller) listBottom() int { return c.height - c.cfg.padding.Bottom }
func (c *Controller) listHeight() int { return c.listBottom() - c.listTop() }

func (c *Controller) isHeaderPosition(pos int) bool {
	if c.adapter != nil && pos >= 0 && pos < c.itemCount {
		return c.adapter.ViewType(pos) == ViewTypeHeaderOrFooter
	}
	rec, ok := c.records.Get(pos)
	return ok && rec.IsHeaderOrFooter
}

func (c *Controller) notifyScroll() {
	if l := c.cfg.scrollListener; l != nil {
		l.OnScroll(c.firstPosition, len(c.children), c.itemCount)
	}
}

func (c *Controller) reportScrollState(s ScrollState) {
	if s == c.lastScrollState {
		return
	}
	c.lastScrollState = s
	if l := c.cfg.scrollListener; l != nil {
		l.OnScrollStateChanged(s)
	}
}

func (c *Controller) detachAll() {
	for _, it := range c.children {
		c.host.DetachItem(it)
	}
	c.children = c.children[:0]
}
