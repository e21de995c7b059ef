package engine

// String backed enums so viewport state can be logged and persisted verbatim.

type TouchMode string
type LayoutMode string
type ScrollState string
type TouchAction string
type MeasureMode string

const (
	TouchIdle        TouchMode = "idle"
	TouchDown        TouchMode = "down"
	TouchTap         TouchMode = "tap"
	TouchScrolling   TouchMode = "scrolling"
	TouchFlinging    TouchMode = "flinging"
	TouchDoneWaiting TouchMode = "done_waiting"
)

var AllTouchModes = []TouchMode{TouchIdle, TouchDown, TouchTap, TouchScrolling, TouchFlinging, TouchDoneWaiting}

const (
	LayoutNormal   LayoutMode = "normal"
	LayoutForceTop LayoutMode = "force_top"
	LayoutSync     LayoutMode = "sync"
)

var AllLayoutModes = []LayoutMode{LayoutNormal, LayoutForceTop, LayoutSync}

const (
	ScrollIdle  ScrollState = "idle"
	ScrollTouch ScrollState = "touch_scroll"
	ScrollFling ScrollState = "fling"
)

var AllScrollStates = []ScrollState{ScrollIdle, ScrollTouch, ScrollFling}

const (
	ActionDown      TouchAction = "down"
	ActionMove      TouchAction = "move"
	ActionUp        TouchAction = "up"
	ActionCancel    TouchAction = "cancel"
	ActionPointerUp TouchAction = "pointer_up"
)

var AllTouchActions = []TouchAction{ActionDown, ActionMove, ActionUp, ActionCancel, ActionPointerUp}

const (
	MeasureUnspecified MeasureMode = "unspecified"
	MeasureExactly     MeasureMode = "exactly"
	MeasureAtMost      MeasureMode = "at_most"
)

// Reserved view types. Neither is ever pooled.
const (
	ViewTypeIgnore         = -1
	ViewTypeHeaderOrFooter = -2
)

const (
	InvalidPosition       = -1
	InvalidID       int64 = -1
)
