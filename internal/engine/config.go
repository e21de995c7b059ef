package engine

import (
	"io"
	"log"
	"time"
)

const (
	DefaultTouchSlop            = 8
	DefaultMinFlingVelocity     = 50.0
	DefaultMaxFlingVelocity     = 8000.0
	DefaultFriction             = 4.0
	DefaultTapTimeout           = 100 * time.Millisecond
	DefaultLongPressTimeout     = 500 * time.Millisecond
	DefaultPressedStateDuration = 64 * time.Millisecond
	DefaultFrameInterval        = 16 * time.Millisecond
)

// Padding is the space between the container edge and the lanes.
type Padding struct {
	Left, Top, Right, Bottom int
}

type config struct {
	padding          Padding
	margin           int
	portraitColumns  int
	landscapeColumns int
	columnFunc       func(width, height int) int

	touchSlop        int
	minFling         float64
	maxFling         float64
	friction         float64
	tapTimeout       time.Duration
	longPressTimeout time.Duration
	pressedDuration  time.Duration
	frameInterval    time.Duration

	logger          *log.Logger
	onClick         func(pos int, id int64)
	onLongClick     func(pos int, id int64) bool
	scrollListener  ScrollListener
	recycleListener func(*Item)
}

func defaultConfig() config {
	return config{
		portraitColumns:  2,
		landscapeColumns: 3,
		touchSlop:        DefaultTouchSlop,
		minFling:         DefaultMinFlingVelocity,
		maxFling:         DefaultMaxFlingVelocity,
		friction:         DefaultFriction,
		tapTimeout:       DefaultTapTimeout,
		longPressTimeout: DefaultLongPressTimeout,
		pressedDuration:  DefaultPressedStateDuration,
		frameInterval:    DefaultFrameInterval,
		logger:           log.New(io.Discard, "", 0),
	}
}

// columnsFor picks the lane count for a container size. Landscape means
// wider than tall.
func (c config) columnsFor(width, height int) int {
	if c.columnFunc != nil {
		return c.columnFunc(width, height)
	}
	if width > height {
		return c.landscapeColumns
	}
	return c.portraitColumns
}

// Option configures a Controller.
type Option func(*config)

func WithPadding(p Padding) Option { return func(c *config) { c.padding = p } }

// WithItemMargin sets the gap above every item and between lanes.
func WithItemMargin(m int) Option {
	return func(c *config) {
		if m >= 0 {
			c.margin = m
		}
	}
}

// WithColumnCounts sets the lane count used in portrait and landscape.
func WithColumnCounts(portrait, landscape int) Option {
	return func(c *config) {
		if portrait > 0 {
			c.portraitColumns = portrait
		}
		if landscape > 0 {
			c.landscapeColumns = landscape
		}
	}
}

// WithColumnCountFunc derives the lane count from the container size.
func WithColumnCountFunc(fn func(width, height int) int) Option {
	return func(c *config) { c.columnFunc = fn }
}

func WithTouchSlop(slop int) Option {
	return func(c *config) {
		if slop >= 0 {
			c.touchSlop = slop
		}
	}
}

// WithFlingVelocity sets the release speed needed to fling and the cap on
// fling speed, both in units per second.
func WithFlingVelocity(minimum, maximum float64) Option {
	return func(c *config) {
		c.minFling = minimum
		c.maxFling = maximum
	}
}

func WithFriction(f float64) Option { return func(c *config) { c.friction = f } }

func WithTimeouts(tap, longPress, pressed time.Duration) Option {
	return func(c *config) {
		c.tapTimeout = tap
		c.longPressTimeout = longPress
		c.pressedDuration = pressed
	}
}

func WithFrameInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.frameInterval = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithItemClick(fn func(pos int, id int64)) Option {
	return func(c *config) { c.onClick = fn }
}

// WithItemLongClick registers a long press handler. Returning true consumes
// the gesture.
func WithItemLongClick(fn func(pos int, id int64) bool) Option {
	return func(c *config) { c.onLongClick = fn }
}

func WithScrollListener(l ScrollListener) Option {
	return func(c *config) { c.scrollListener = l }
}

// WithRecycleListener observes every item moved into a pool.
func WithRecycleListener(fn func(*Item)) Option {
	return func(c *config) { c.recycleListener = fn }
}
