package engine

import "github.com/pkg/errors"

// Recycler pools detached items by view type and keeps the previous frame's
// items by position so an unchanged position can be reattached without a
// rebind.
type Recycler struct {
	viewTypeCount int
	active        []*Item
	firstActive   int
	scrap         [][]*Item
	skipped       []*Item
	transient     map[int]*Item
	listener      func(*Item)
}

// RecyclerStats is a point in time view of the pools.
type RecyclerStats struct {
	ActiveSlots int
	Pooled      []int
	Skipped     int
	Transient   int
}

func NewRecycler() *Recycler {
	return &Recycler{
		viewTypeCount: 1,
		scrap:         make([][]*Item, 1),
		transient:     make(map[int]*Item),
	}
}

// SetListener registers fn to observe every item moved into a pool.
func (r *Recycler) SetListener(fn func(*Item)) { r.listener = fn }

// SetViewTypeCount resizes the pool table. Existing scrap is dropped.
func (r *Recycler) SetViewTypeCount(n int) error {
	if n < 1 {
		return errors.Wrapf(ErrInvalidViewType, "view type count %d", n)
	}
	r.viewTypeCount = n
	r.scrap = make([][]*Item, n)
	return nil
}

func (r *Recycler) validType(viewType int) bool {
	return viewType >= 0 && viewType < r.viewTypeCount
}

// SnapshotActive records the on-screen items so they can be reclaimed by
// position. Headers and footers are left out.
func (r *Recycler) SnapshotActive(children []*Item, firstPosition int) {
	r.active = make([]*Item, len(children))
	r.firstActive = firstPosition
	for i, it := range children {
		if it.IsHeaderOrFooter() {
			continue
		}
		r.active[i] = it
	}
}

// ResetActive sizes the active table without filling it. Used when every
// on-screen item must be rebound.
func (r *Recycler) ResetActive(n int) {
	r.active = make([]*Item, n)
	r.firstActive = 0
}

// TakeActive returns the item shown at pos in the previous frame, if any.
func (r *Recycler) TakeActive(pos int) *Item {
	i := pos - r.firstActive
	if i < 0 || i >= len(r.active) {
		return nil
	}
	it := r.active[i]
	r.active[i] = nil
	return it
}

// TakeTransient returns an item held back for pos because it had transient
// state when it was detached.
func (r *Recycler) TakeTransient(pos int) *Item {
	it, ok := r.transient[pos]
	if !ok {
		return nil
	}
	delete(r.transient, pos)
	return it
}

// TakeScrap returns a pooled item of viewType, preferring the one that was
// last shown at pos. Special view types are never pooled and yield nil.
func (r *Recycler) TakeScrap(pos, viewType int) (*Item, error) {
	if viewType < 0 {
		return nil, nil
	}
	if !r.validType(viewType) {
		return nil, errors.Wrapf(ErrInvalidViewType, "take scrap: type %d of %d", viewType, r.viewTypeCount)
	}
	bucket := r.scrap[viewType]
	if len(bucket) == 0 {
		return nil, nil
	}
	idx := len(bucket) - 1
	for i := len(bucket) - 1; i >= 0; i-- {
		if bucket[i].scrappedFrom == pos {
			idx = i
			break
		}
	}
	it := bucket[idx]
	copy(bucket[idx:], bucket[idx+1:])
	bucket[len(bucket)-1] = nil
	r.scrap[viewType] = bucket[:len(bucket)-1]
	return it, nil
}

// Deposit hands a detached item back. Items with transient state are kept
// out of the pools; when the data did not change they are also held by
// position for one more pass.
func (r *Recycler) Deposit(it *Item, pos int, dataChanged bool) error {
	it.scrappedFrom = pos
	if it.ViewType < 0 {
		return nil
	}
	if !r.validType(it.ViewType) {
		return errors.Wrapf(ErrInvalidViewType, "deposit: type %d of %d", it.ViewType, r.viewTypeCount)
	}
	if it.hasTransientState() {
		r.skipped = append(r.skipped, it)
		if !dataChanged {
			r.transient[pos] = it
		}
		return nil
	}
	r.scrap[it.ViewType] = append(r.scrap[it.ViewType], it)
	if r.listener != nil {
		r.listener(it)
	}
	return nil
}

// RemoveSkipped forgets items that were refused by Deposit.
func (r *Recycler) RemoveSkipped() {
	for i := range r.skipped {
		r.skipped[i] = nil
	}
	r.skipped = r.skipped[:0]
}

// ScrapActive moves every unclaimed active item into the pools and prunes.
func (r *Recycler) ScrapActive(dataChanged bool) error {
	for i, it := range r.active {
		if it == nil {
			continue
		}
		r.active[i] = nil
		if err := r.Deposit(it, r.firstActive+i, dataChanged); err != nil {
			return err
		}
	}
	r.Prune()
	return nil
}

// Prune bounds every pool by the number of active slots, dropping the oldest
// entries first. Held transient items whose state has cleared are released.
func (r *Recycler) Prune() {
	limit := len(r.active)
	for t, bucket := range r.scrap {
		extra := len(bucket) - limit
		if extra <= 0 {
			continue
		}
		for i := 0; i < extra; i++ {
			bucket[i] = nil
		}
		r.scrap[t] = append(bucket[:0], bucket[extra:]...)
	}
	for pos, it := range r.transient {
		if !it.hasTransientState() {
			delete(r.transient, pos)
		}
	}
}

// ClearTransient drops every item held by position.
func (r *Recycler) ClearTransient() {
	r.transient = make(map[int]*Item)
}

// Clear empties every pool.
func (r *Recycler) Clear() {
	r.scrap = make([][]*Item, r.viewTypeCount)
	r.active = nil
	r.firstActive = 0
	r.RemoveSkipped()
	r.ClearTransient()
}

func (r *Recycler) Stats() RecyclerStats {
	st := RecyclerStats{
		ActiveSlots: len(r.active),
		Pooled:      make([]int, len(r.scrap)),
		Skipped:     len(r.skipped),
		Transient:   len(r.transient),
	}
	for t, bucket := range r.scrap {
		st.Pooled[t] = len(bucket)
	}
	return st
}
