package engine

import (
	"math"
	"time"
)

// Pointer is one contact in a multi-pointer event.
type Pointer struct {
	ID   int
	X, Y int
}

// TouchEvent is a raw input event in container coordinates. Time is measured
// on the same clock the host passes to OnFrame.
type TouchEvent struct {
	Action    TouchAction
	X, Y      int
	PointerID int
	Time      time.Duration
	// Pointers lists every contact still down, if the host tracks more than
	// one. For ActionPointerUp it includes the one lifting.
	Pointers []Pointer
}

type timerKind int

const (
	timerTap timerKind = iota
	timerLongPress
	timerClick
)

type timer struct {
	at   time.Duration
	kind timerKind
}

func (c *Controller) post(kind timerKind, at time.Duration) {
	c.removeTimer(kind)
	c.timers = append(c.timers, timer{at: at, kind: kind})
	if c.host != nil {
		c.host.RequestFrame()
	}
}

func (c *Controller) removeTimer(kind timerKind) {
	out := c.timers[:0]
	for _, t := range c.timers {
		if t.kind != kind {
			out = append(out, t)
		}
	}
	c.timers = out
}

// runTimers fires every timer due at now, earliest first.
func (c *Controller) runTimers(now time.Duration) {
	for {
		idx := -1
		for i, t := range c.timers {
			if t.at <= now && (idx < 0 || t.at < c.timers[idx].at) {
				idx = i
			}
		}
		if idx < 0 {
			return
		}
		t := c.timers[idx]
		c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
		c.fire(t.kind)
	}
}

func (c *Controller) fire(kind timerKind) {
	switch kind {
	case timerTap:
		c.checkForTap()
	case timerLongPress:
		c.checkForLongPress()
	case timerClick:
		c.performPendingClick()
	}
}

func (c *Controller) checkForTap() {
	if c.touchMode != TouchDown {
		return
	}
	c.touchMode = TouchTap
	if it := c.childAt(c.motionPosition); it != nil {
		c.pressed = it.Handle()
	}
	if c.cfg.onLongClick != nil {
		c.post(timerLongPress, c.downTime+c.cfg.longPressTimeout)
	}
}

func (c *Controller) checkForLongPress() {
	if c.touchMode != TouchTap || c.dataChanged {
		return
	}
	it := c.childAt(c.motionPosition)
	if it == nil {
		return
	}
	if c.cfg.onLongClick(it.Position, it.StableID) {
		c.touchMode = TouchDoneWaiting
		c.pressed = NoHandle
	}
}

func (c *Controller) performPendingClick() {
	h := c.pendingClick
	c.pendingClick = nil
	c.touchMode = TouchIdle
	c.pressed = NoHandle
	if h == nil || c.dataChanged {
		return
	}
	it := c.Resolve(*h)
	if it == nil || c.adapter == nil || !c.adapter.IsEnabled(it.Position) {
		return
	}
	if c.cfg.onClick != nil {
		c.cfg.onClick(it.Position, it.StableID)
	}
}

// OnTouch feeds one input event through the gesture state machine.
func (c *Controller) OnTouch(ev TouchEvent) (bool, error) {
	c.runTimers(ev.Time)
	switch ev.Action {
	case ActionDown:
		return c.onTouchDown(ev)
	case ActionMove:
		return c.onTouchMove(ev)
	case ActionUp:
		return c.onTouchUp(ev)
	case ActionCancel:
		c.onTouchCancel()
		return true, nil
	case ActionPointerUp:
		c.onSecondaryPointerUp(ev)
		return true, nil
	}
	return false, nil
}

func (c *Controller) onTouchDown(ev TouchEvent) (bool, error) {
	if c.pendingClick != nil {
		c.removeTimer(timerClick)
		c.performPendingClick()
	}
	c.velocity.Clear()
	c.velocity.Add(ev.Time, ev.Y)
	c.activePointer = ev.PointerID
	c.motionX, c.motionY = ev.X, ev.Y
	c.lastYValid = false
	c.motionCorrection = 0
	c.downTime = ev.Time
	c.tracking = true

	if c.touchMode == TouchFlinging {
		c.fling.Cancel()
		c.touchMode = TouchScrolling
		c.motionPosition = c.PointToPosition(ev.X, ev.Y)
		c.reportScrollState(ScrollTouch)
		return true, nil
	}

	// A gesture whose up never arrived ends here.
	c.removeTimer(timerTap)
	c.removeTimer(timerLongPress)
	c.touchMode = TouchIdle
	c.pressed = NoHandle
	c.reportScrollState(ScrollIdle)

	pos := c.PointToPosition(ev.X, ev.Y)
	c.motionPosition = pos
	if !c.dataChanged && pos != InvalidPosition && c.adapter != nil && c.adapter.IsEnabled(pos) {
		c.touchMode = TouchDown
		c.post(timerTap, ev.Time+c.cfg.tapTimeout)
	}
	return true, nil
}

// pointerY finds the active pointer in ev. A missing pointer is logged and
// replaced by the first one reported.
func (c *Controller) pointerY(ev TouchEvent) int {
	if len(ev.Pointers) == 0 {
		if ev.PointerID != c.activePointer {
			c.cfg.logger.Printf("engine: pointer %d not in event, continuing with %d", c.activePointer, ev.PointerID)
			c.activePointer = ev.PointerID
		}
		return ev.Y
	}
	for _, p := range ev.Pointers {
		if p.ID == c.activePointer {
			return p.Y
		}
	}
	c.cfg.logger.Printf("engine: pointer %d not in event, falling back to index 0", c.activePointer)
	c.activePointer = ev.Pointers[0].ID
	return ev.Pointers[0].Y
}

func (c *Controller) onTouchMove(ev TouchEvent) (bool, error) {
	y := c.pointerY(ev)
	c.velocity.Add(ev.Time, y)
	switch c.touchMode {
	case TouchDown, TouchTap, TouchDoneWaiting:
		return true, c.startScrollIfNeeded(y)
	case TouchIdle:
		if c.tracking {
			return true, c.startScrollIfNeeded(y)
		}
	case TouchScrolling:
		return true, c.scrollIfNeeded(y)
	}
	return false, nil
}

func (c *Controller) touchSlop() int {
	if c.overlayOpen {
		return c.cfg.touchSlop / 2
	}
	return c.cfg.touchSlop
}

func (c *Controller) startScrollIfNeeded(y int) error {
	deltaY := y - c.motionY
	slop := c.touchSlop()
	if abs(deltaY) <= slop {
		return nil
	}
	c.touchMode = TouchScrolling
	if deltaY > 0 {
		c.motionCorrection = slop
	} else {
		c.motionCorrection = -slop
	}
	c.removeTimer(timerTap)
	c.removeTimer(timerLongPress)
	c.pressed = NoHandle
	c.reportScrollState(ScrollTouch)
	return c.scrollIfNeeded(y)
}

func (c *Controller) scrollIfNeeded(y int) error {
	incremental := y - c.motionY - c.motionCorrection
	if c.lastYValid {
		incremental = y - c.lastY
	}
	c.lastY, c.lastYValid = y, true
	if incremental == 0 {
		return nil
	}
	_, err := c.moveChildren(incremental)
	return err
}

func (c *Controller) onTouchUp(ev TouchEvent) (bool, error) {
	defer func() {
		c.tracking = false
		c.activePointer = -1
	}()
	switch c.touchMode {
	case TouchDown, TouchTap:
		it := c.childAt(c.motionPosition)
		c.removeTimer(timerTap)
		c.removeTimer(timerLongPress)
		if it == nil || c.dataChanged || !c.adapter.IsEnabled(it.Position) {
			c.touchMode = TouchIdle
			c.pressed = NoHandle
			return true, nil
		}
		h := it.Handle()
		c.touchMode = TouchTap
		c.pressed = h
		c.pendingClick = &h
		c.post(timerClick, ev.Time+c.cfg.pressedDuration)
	case TouchDoneWaiting:
		c.touchMode = TouchIdle
		c.pressed = NoHandle
	case TouchScrolling:
		c.velocity.Add(ev.Time, c.pointerY(ev))
		v := c.velocity.Velocity(c.cfg.maxFling)
		if len(c.children) > 0 && math.Abs(v) > c.cfg.minFling && !c.atEdge(-v) {
			c.startFling(-v, ev.Time, true)
			return true, nil
		}
		c.touchMode = TouchIdle
		c.reportScrollState(ScrollIdle)
	}
	return true, nil
}

// atEdge reports whether content cannot move any further in the direction
// of velocity, positive meaning toward later positions.
func (c *Controller) atEdge(velocity float64) bool {
	if len(c.children) == 0 {
		return true
	}
	top, bottom := c.extents()
	if velocity > 0 {
		last := c.firstPosition + len(c.children) - 1
		return last == c.itemCount-1 && bottom <= c.listBottom()
	}
	return c.firstPosition == 0 && top >= c.listTop()
}

func (c *Controller) onTouchCancel() {
	was := c.touchMode
	c.touchMode = TouchIdle
	c.tracking = false
	c.activePointer = -1
	c.pressed = NoHandle
	c.removeTimer(timerTap)
	c.removeTimer(timerLongPress)
	c.fling.Cancel()
	if was == TouchScrolling || was == TouchFlinging {
		c.reportScrollState(ScrollIdle)
	}
}

// onSecondaryPointerUp hands the gesture to another pointer when the active
// one lifts.
func (c *Controller) onSecondaryPointerUp(ev TouchEvent) {
	if ev.PointerID != c.activePointer {
		return
	}
	for _, p := range ev.Pointers {
		if p.ID == ev.PointerID {
			continue
		}
		c.activePointer = p.ID
		c.motionX, c.motionY = p.X, p.Y
		c.lastY, c.lastYValid = p.Y, true
		c.motionCorrection = 0
		c.velocity.Clear()
		c.velocity.Add(ev.Time, p.Y)
		return
	}
}

func (c *Controller) startFling(velocity float64, now time.Duration, timeKnown bool) {
	c.fling.Start(0, velocity, math.MinInt32, math.MaxInt32)
	if c.fling.Finished() {
		c.touchMode = TouchIdle
		c.reportScrollState(ScrollIdle)
		return
	}
	c.lastFlingY = 0
	c.lastFlingFrame = now
	c.flingFrameKnown = timeKnown
	c.touchMode = TouchFlinging
	c.reportScrollState(ScrollFling)
	if c.host != nil {
		c.host.RequestFrame()
	}
}

func (c *Controller) endFling() {
	c.fling.Cancel()
	c.touchMode = TouchIdle
	c.reportScrollState(ScrollIdle)
}

// OnFrame advances timers, deferred layout and any running fling to now.
func (c *Controller) OnFrame(now time.Duration) error {
	c.runTimers(now)
	if c.layoutRequested && !c.inLayout {
		if err := c.layoutChildren(); err != nil {
			return err
		}
	}
	if c.touchMode == TouchFlinging {
		return c.stepFling(now)
	}
	return nil
}

func (c *Controller) stepFling(now time.Duration) error {
	if c.itemCount == 0 || len(c.children) == 0 {
		c.endFling()
		return nil
	}
	dt := c.cfg.frameInterval
	if c.flingFrameKnown && now > c.lastFlingFrame {
		dt = now - c.lastFlingFrame
	}
	c.lastFlingFrame, c.flingFrameKnown = now, true

	more := c.fling.Step(dt)
	y := c.fling.CurrY()
	delta := c.lastFlingY - y
	if limit := c.listHeight() - 1; limit > 0 {
		delta = clamp(delta, -limit, limit)
	}
	atEdge, err := c.moveChildren(delta)
	if err != nil {
		c.endFling()
		return err
	}
	if c.touchMode != TouchFlinging {
		return nil
	}
	if more && !atEdge {
		c.lastFlingY = y
		return nil
	}
	c.endFling()
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
