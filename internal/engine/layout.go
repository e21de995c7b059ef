package engine

import "github.com/pkg/errors"

// layoutChildren reconciles the attached items with the current data, scroll
// and lane state.
func (c *Controller) layoutChildren() error {
	if c.inLayout {
		c.layoutRequested = true
		return nil
	}
	c.inLayout = true
	c.layoutRequested = false
	defer func() {
		c.inLayout = false
		if c.layoutRequested && c.host != nil {
			c.host.RequestFrame()
		}
	}()

	if c.adapter == nil {
		c.detachAll()
		return nil
	}
	if !c.columns.Ready() || c.listHeight() <= 0 {
		return nil
	}
	if n := c.adapter.Count(); n != c.itemCount {
		return contractErr("layout", errors.Wrapf(ErrCountChangedWithoutNotify, "had %d, now %d", c.itemCount, n))
	}
	if c.pendingRestore != nil && c.itemCount > 0 {
		c.applyRestore()
	}
	if c.dataChanged {
		c.handleDataChanged()
	}
	if c.itemCount == 0 {
		c.detachAll()
		c.recycler.Clear()
		c.firstPosition = 0
		c.columns.ResetEdges(c.listTop())
		c.finishLayout()
		return nil
	}

	previous := len(c.children)
	if c.dataChanged {
		for _, it := range c.children {
			if err := c.recycler.Deposit(it, it.Position, true); err != nil {
				return contractErr("layout", err)
			}
		}
		c.recycler.ResetActive(previous)
	} else {
		c.recycler.SnapshotActive(c.children, c.firstPosition)
	}
	c.detachAll()
	c.recycler.RemoveSkipped()

	var err error
	switch c.layoutMode {
	case LayoutForceTop:
		c.columns.ResetEdges(c.listTop())
		err = c.fillFromTop()
	case LayoutSync:
		c.prepareSync()
		err = c.fillSpecific(c.syncPosition)
	default:
		switch {
		case previous == 0:
			c.columns.ResetEdges(c.listTop())
			err = c.fillFromTop()
		case c.firstPosition < c.itemCount:
			c.columns.PrepareRelayout()
			err = c.fillSpecific(c.firstPosition)
		default:
			c.columns.PrepareRelayout()
			err = c.fillSpecific(c.itemCount - 1)
		}
	}
	if err != nil {
		return err
	}
	if err := c.recycler.ScrapActive(c.dataChanged); err != nil {
		return contractErr("layout", err)
	}
	c.recycler.RemoveSkipped()
	c.finishLayout()
	return nil
}

func (c *Controller) finishLayout() {
	c.layoutMode = LayoutNormal
	c.dataChanged = false
	c.needSync = false
	c.notifyScroll()
}

func (c *Controller) handleDataChanged() {
	count := c.itemCount
	if count > 0 && c.needSync {
		c.needSync = false
		c.layoutMode = LayoutSync
		pos := c.syncPosition
		if c.adapter.HasStableIDs() && c.syncStableID != InvalidID {
			if found := c.findSyncPosition(pos, c.syncStableID); found >= 0 {
				pos = found
			}
		}
		c.syncPosition = clamp(pos, 0, count-1)
		return
	}
	if c.layoutMode == LayoutSync {
		c.syncPosition = clamp(c.syncPosition, 0, count-1)
		return
	}
	c.layoutMode = LayoutForceTop
	c.needSync = false
}

// findSyncPosition searches outward from near for the item with id.
const syncSearchLimit = 256

func (c *Controller) findSyncPosition(near int, id int64) int {
	if c.itemCount == 0 {
		return InvalidPosition
	}
	near = clamp(near, 0, c.itemCount-1)
	for d := 0; d < syncSearchLimit; d++ {
		if p := near - d; p >= 0 && c.adapter.StableID(p) == id {
			return p
		}
		if p := near + d; d > 0 && p < c.itemCount && c.adapter.StableID(p) == id {
			return p
		}
		if near-d < 0 && near+d >= c.itemCount {
			break
		}
	}
	return InvalidPosition
}

func (c *Controller) prepareSync() {
	switch c.syncMode {
	case syncReconstruct:
		c.columns.Sync(c.syncPosition, c.specificTop, c.isHeaderPosition)
	case syncReset:
		c.columns.ResetEdges(c.specificTop)
	default:
		c.columns.PrepareRelayout()
	}
	c.syncMode = syncRelayout
}

func (c *Controller) fillFromTop() error {
	c.firstPosition = 0
	return c.fillDown(0)
}

// fillSpecific lays out pos first, then fills around it and pulls the result
// back inside the data bounds.
func (c *Controller) fillSpecific(pos int) error {
	c.firstPosition = pos
	if err := c.makeAndAddView(pos, true); err != nil {
		return err
	}
	if err := c.fillDown(pos + 1); err != nil {
		return err
	}
	if err := c.fillUp(pos - 1); err != nil {
		return err
	}
	c.adjustViewsUpOrDown()
	if err := c.fillDown(c.firstPosition + len(c.children)); err != nil {
		return err
	}
	return c.correctTooHigh()
}

// fillDown adds positions from pos while any lane still ends above the list
// bottom.
func (c *Controller) fillDown(pos int) error {
	end := c.listBottom()
	for pos < c.itemCount && c.columns.HighestBottom() < end {
		if err := c.makeAndAddView(pos, true); err != nil {
			return err
		}
		pos++
	}
	return nil
}

// fillUp adds positions from pos downward while any lane still starts below
// the list top.
func (c *Controller) fillUp(pos int) error {
	start := c.listTop()
	for pos >= 0 && c.columns.LowestTop() > start {
		if err := c.makeAndAddView(pos, false); err != nil {
			return err
		}
		pos--
	}
	c.firstPosition = pos + 1
	return nil
}

func (c *Controller) makeAndAddView(pos int, flowDown bool) error {
	if pos < 0 || pos >= c.itemCount {
		return errors.Wrapf(ErrPositionOutOfRange, "layout %d of %d", pos, c.itemCount)
	}
	var it *Item
	fresh := false
	if !c.dataChanged {
		it = c.recycler.TakeActive(pos)
	}
	if it == nil {
		var err error
		if it, err = c.obtain(pos); err != nil {
			return err
		}
		fresh = true
	}

	header := it.IsHeaderOrFooter()
	width := c.columns.Width()
	if header {
		width = c.width - c.cfg.padding.Left - c.cfg.padding.Right
	}
	if fresh || it.measuredWidth != width {
		it.measure(width)
	}

	top, bottom, col := c.columns.Place(pos, it.MeasuredHeight, flowDown, header)
	left := c.cfg.padding.Left
	if !header {
		left = c.columns.Left(col)
	}
	it.Column = col
	it.Bounds = Rect{Left: left, Top: top, Right: left + width, Bottom: bottom}

	if flowDown {
		c.children = append(c.children, it)
	} else {
		c.children = append(c.children, nil)
		copy(c.children[1:], c.children)
		c.children[0] = it
	}
	c.host.AttachItem(it)
	return nil
}

// obtain binds pos, offering the adapter a recycled item when one fits.
func (c *Controller) obtain(pos int) (*Item, error) {
	viewType := c.adapter.ViewType(pos)
	if viewType >= c.adapter.ViewTypeCount() || viewType < ViewTypeHeaderOrFooter {
		return nil, contractErr("bind", errors.Wrapf(ErrInvalidViewType, "position %d type %d", pos, viewType))
	}
	recycled := c.recycler.TakeTransient(pos)
	if recycled == nil {
		var err error
		if recycled, err = c.recycler.TakeScrap(pos, viewType); err != nil {
			return nil, contractErr("bind", err)
		}
	}
	it := c.adapter.Bind(pos, recycled)
	if it == nil {
		return nil, contractErr("bind", errors.Wrapf(ErrNilItem, "position %d", pos))
	}
	if recycled != nil && it != recycled {
		if err := c.recycler.Deposit(recycled, pos, c.dataChanged); err != nil {
			return nil, contractErr("bind", err)
		}
	}
	c.generation++
	it.Position = pos
	it.ViewType = viewType
	it.StableID = InvalidID
	if c.adapter.HasStableIDs() {
		it.StableID = c.adapter.StableID(pos)
	}
	it.generation = c.generation
	it.measuredWidth = -1
	return it, nil
}

// gridTop is where an item's lane slot starts, margin included.
func (c *Controller) gridTop(it *Item) int {
	if it.IsHeaderOrFooter() {
		return it.Bounds.Top
	}
	return it.Bounds.Top - c.columns.Margin()
}

// extents returns the topmost slot top and the lowest bottom of the
// attached items.
func (c *Controller) extents() (top, bottom int) {
	for i, it := range c.children {
		t := c.gridTop(it)
		if i == 0 || t < top {
			top = t
		}
		if i == 0 || it.Bounds.Bottom > bottom {
			bottom = it.Bounds.Bottom
		}
	}
	return top, bottom
}

func (c *Controller) offsetAll(dy int) {
	if dy == 0 {
		return
	}
	for _, it := range c.children {
		it.Bounds = it.Bounds.offset(dy)
	}
	c.columns.Offset(dy)
}

// adjustViewsUpOrDown closes a gap left above the first item.
func (c *Controller) adjustViewsUpOrDown() {
	if len(c.children) == 0 {
		return
	}
	top, _ := c.extents()
	if delta := top - c.listTop(); delta > 0 {
		c.offsetAll(-delta)
	}
}

// correctTooHigh pulls the content down when the last position is shown
// with space below it.
func (c *Controller) correctTooHigh() error {
	if len(c.children) == 0 {
		return nil
	}
	last := c.firstPosition + len(c.children) - 1
	if last != c.itemCount-1 {
		return nil
	}
	top, bottom := c.extents()
	offset := c.listBottom() - bottom
	if offset <= 0 || (c.firstPosition == 0 && top >= c.listTop()) {
		return nil
	}
	if c.firstPosition == 0 {
		offset = min(offset, c.listTop()-top)
	}
	c.offsetAll(offset)
	if c.firstPosition > 0 {
		if err := c.fillUp(c.firstPosition - 1); err != nil {
			return err
		}
		c.adjustViewsUpOrDown()
	}
	return nil
}

// correctTooLow pushes the content up when the first position is shown with
// space above it.
func (c *Controller) correctTooLow() error {
	if c.firstPosition != 0 || len(c.children) == 0 {
		return nil
	}
	top, bottom := c.extents()
	offset := top - c.listTop()
	if offset <= 0 {
		return nil
	}
	last := c.firstPosition + len(c.children) - 1
	if last < c.itemCount-1 || bottom > c.listBottom() {
		if last == c.itemCount-1 {
			offset = min(offset, bottom-c.listBottom())
		}
		c.offsetAll(-offset)
		if last < c.itemCount-1 {
			if err := c.fillDown(last + 1); err != nil {
				return err
			}
			c.adjustViewsUpOrDown()
		}
		return nil
	}
	c.adjustViewsUpOrDown()
	return nil
}

// alignTops levels the lanes once everything above the first item is a
// header or footer. Every lane is moved up to the topmost one and the space
// that opens below is filled.
func (c *Controller) alignTops() error {
	if len(c.children) == 0 {
		return nil
	}
	for p := 0; p < c.firstPosition; p++ {
		if !c.isHeaderPosition(p) {
			return nil
		}
	}
	n := c.columns.Count()
	tops := make([]int, n)
	seen := make([]bool, n)
	for _, it := range c.children {
		if it.IsHeaderOrFooter() || it.Column < 0 || it.Column >= n {
			continue
		}
		t := c.gridTop(it)
		if !seen[it.Column] || t < tops[it.Column] {
			tops[it.Column], seen[it.Column] = t, true
		}
	}
	highest, found := 0, false
	for col := 0; col < n; col++ {
		if seen[col] && (!found || tops[col] < highest) {
			highest, found = tops[col], true
		}
	}
	if !found {
		return nil
	}
	moved := false
	for col := 0; col < n; col++ {
		if !seen[col] || tops[col] == highest {
			continue
		}
		d := highest - tops[col]
		for _, it := range c.children {
			if it.Column == col && !it.IsHeaderOrFooter() {
				it.Bounds = it.Bounds.offset(d)
			}
		}
		c.columns.OffsetColumn(col, d)
		moved = true
	}
	if !moved {
		return nil
	}
	return c.fillDown(c.firstPosition + len(c.children))
}

// moveChildren shifts the content by delta (negative moves it up, toward
// later positions), recycles what leaves and fills what opens. It reports
// whether an end of the data blocked the move.
func (c *Controller) moveChildren(delta int) (bool, error) {
	if len(c.children) == 0 {
		return true, nil
	}
	if c.adapter == nil {
		return true, nil
	}
	if n := c.adapter.Count(); n != c.itemCount {
		return false, contractErr("scroll", errors.Wrapf(ErrCountChangedWithoutNotify, "had %d, now %d", c.itemCount, n))
	}
	height := c.listHeight()
	if limit := height - 1; limit > 0 {
		delta = clamp(delta, -limit, limit)
	}
	listTop, listBottom := c.listTop(), c.listBottom()
	top, bottom := c.extents()
	last := c.firstPosition + len(c.children) - 1
	cannotScrollDown := last == c.itemCount-1 && bottom <= listBottom && delta <= 0
	cannotScrollUp := c.firstPosition == 0 && top >= listTop && delta >= 0
	if cannotScrollDown || cannotScrollUp {
		return delta != 0, nil
	}

	spaceAbove := listTop - top
	spaceBelow := bottom - listBottom
	absDelta := delta
	if absDelta < 0 {
		absDelta = -absDelta
	}

	down := delta < 0
	start, count := 0, 0
	if down {
		for _, it := range c.children {
			if it.Bounds.Bottom+delta > listTop {
				break
			}
			count++
		}
	} else {
		for i := len(c.children) - 1; i >= 0; i-- {
			if c.children[i].Bounds.Top+delta < listBottom {
				break
			}
			start = i
			count++
		}
	}
	if count > 0 {
		for _, it := range c.children[start : start+count] {
			if err := c.recycler.Deposit(it, it.Position, false); err != nil {
				return false, contractErr("scroll", err)
			}
			c.host.DetachItem(it)
		}
		c.recycler.RemoveSkipped()
		if down {
			c.children = append(c.children[:0], c.children[count:]...)
			c.firstPosition += count
		} else {
			c.children = c.children[:start]
		}
		c.columns.Repair(c.children, down)
	}

	c.offsetAll(delta)
	c.scrollOffsetY -= delta
	if spaceAbove < absDelta || spaceBelow < absDelta {
		if err := c.fillGap(down); err != nil {
			return false, err
		}
	}
	c.notifyScroll()
	return false, nil
}

func (c *Controller) fillGap(down bool) error {
	if down {
		if err := c.fillDown(c.firstPosition + len(c.children)); err != nil {
			return err
		}
		return c.correctTooHigh()
	}
	if err := c.fillUp(c.firstPosition - 1); err != nil {
		return err
	}
	if err := c.alignTops(); err != nil {
		return err
	}
	return c.correctTooLow()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
