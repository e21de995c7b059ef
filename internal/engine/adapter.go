package engine

// Adapter is the data source the controller reads from. Every mutation must be
// announced through the subscribed Observer before the next layout pass.
type Adapter interface {
	Count() int
	ViewType(position int) int
	ViewTypeCount() int
	HasStableIDs() bool
	StableID(position int) int64
	IsEnabled(position int) bool
	// Bind returns an item for position. recycled is nil or a pooled item of
	// the same view type that may be reused.
	Bind(position int, recycled *Item) *Item
	Subscribe(o Observer) (unsubscribe func())
}

// Observer receives data source change notifications.
type Observer interface {
	// Changed reports an incremental update; the viewport keeps its anchor.
	Changed()
	// Invalidated reports that nothing previously observed is valid.
	Invalidated()
}

// Host is the container the controller lives in.
type Host interface {
	AttachItem(it *Item)
	DetachItem(it *Item)
	// RequestFrame asks for OnFrame to be called on the next tick.
	RequestFrame()
}

// ScrollListener observes scroll progress.
type ScrollListener interface {
	OnScroll(firstPosition, visibleCount, totalCount int)
	OnScrollStateChanged(state ScrollState)
}

// MeasureSpec mirrors the constraint a parent hands to a child.
type MeasureSpec struct {
	Mode MeasureMode
	Size int
}

func Exactly(size int) MeasureSpec { return MeasureSpec{Mode: MeasureExactly, Size: size} }
func AtMost(size int) MeasureSpec  { return MeasureSpec{Mode: MeasureAtMost, Size: size} }
func Unspecified() MeasureSpec     { return MeasureSpec{Mode: MeasureUnspecified} }

// resolve returns the size a list takes under s. A list always fills the
// space it is offered.
func (s MeasureSpec) resolve(fallback int) int {
	if s.Mode == MeasureUnspecified {
		return fallback
	}
	return s.Size
}
