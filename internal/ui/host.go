package ui

import "github.com/DaanHessen/stagger-tui/internal/engine"

// gridHost is the container side of the grid: it tracks which items are
// attached and whether the grid asked for a frame.
type gridHost struct {
	attached map[*engine.Item]struct{}
	pending  bool
}

func newGridHost() *gridHost {
	return &gridHost{attached: map[*engine.Item]struct{}{}}
}

func (h *gridHost) AttachItem(it *engine.Item) { h.attached[it] = struct{}{} }
func (h *gridHost) DetachItem(it *engine.Item) { delete(h.attached, it) }
func (h *gridHost) RequestFrame()              { h.pending = true }

// takeFrame reports and clears a pending frame request.
func (h *gridHost) takeFrame() bool {
	p := h.pending
	h.pending = false
	return p
}
