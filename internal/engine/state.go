package engine

// SavedState is what the controller needs to come back to the same place
// after a restart or a size change. ViewTop and ColumnTops are relative to
// the list top.
type SavedState struct {
	FirstPosition int
	ViewTop       int
	FirstStableID int64
	ColumnCount   int
	ColumnTops    []int
	Records       map[int]Record
}

// Save captures the current viewport. It never returns nil.
func (c *Controller) Save() *SavedState {
	s := &SavedState{
		FirstStableID: InvalidID,
		ColumnCount:   c.columns.Count(),
		Records:       c.records.Snapshot(),
	}
	if len(c.children) == 0 {
		return s
	}
	first := c.children[0]
	s.FirstPosition = c.firstPosition
	s.ViewTop = c.gridTop(first) - c.listTop()
	s.FirstStableID = first.StableID
	tops := c.columns.Tops()
	for i := range tops {
		tops[i] -= c.listTop()
	}
	s.ColumnTops = tops
	return s
}

// Restore schedules s to be applied on the next layout pass that has both a
// size and data. A nil state is ignored. Records that cannot be trusted are
// dropped, and lane edges saved for a different lane count are rebuilt from
// the remaining records.
func (c *Controller) Restore(s *SavedState) error {
	if s == nil {
		return nil
	}
	if dropped := c.records.Load(s.Records); dropped > 0 {
		c.cfg.logger.Printf("engine: dropped %d corrupt position records on restore", dropped)
	}
	cp := *s
	cp.ColumnTops = append([]int(nil), s.ColumnTops...)
	c.pendingRestore = &cp
	c.RequestLayout()
	return nil
}

func (c *Controller) applyRestore() {
	s := c.pendingRestore
	c.pendingRestore = nil

	pos := s.FirstPosition
	if c.adapter.HasStableIDs() && s.FirstStableID != InvalidID {
		if found := c.findSyncPosition(pos, s.FirstStableID); found >= 0 {
			pos = found
		}
	}
	c.syncPosition = clamp(pos, 0, c.itemCount-1)
	c.specificTop = c.listTop() + s.ViewTop
	c.layoutMode = LayoutSync
	c.needSync = false

	n := c.columns.Count()
	if s.ColumnCount == n && len(s.ColumnTops) == n && c.syncPosition == s.FirstPosition {
		tops := make([]int, n)
		for i, t := range s.ColumnTops {
			tops[i] = c.listTop() + t
		}
		c.columns.SetTops(tops)
		c.syncMode = syncRelayout
		return
	}
	if s.ColumnCount != n {
		c.cfg.logger.Printf("engine: restoring %d columns into %d, rebuilding from records", s.ColumnCount, n)
	}
	c.syncMode = syncReconstruct
}
