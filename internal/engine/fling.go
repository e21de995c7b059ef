package engine

import (
	"math"
	"time"
)

// Fling integrates an exponentially decaying velocity. Each Step advances by
// round(v*dt) and then decays v, so at a fixed tick the per-step distance
// never grows.
type Fling struct {
	friction  float64
	tolerance float64

	velocity   float64
	curr       int
	minY, maxY int
	finished   bool
}

// NewFling returns an idle fling. friction is the decay rate per second and
// tolerance the speed below which the fling stops.
func NewFling(friction, tolerance float64) *Fling {
	if friction <= 0 {
		friction = DefaultFriction
	}
	if tolerance <= 0 {
		tolerance = 1
	}
	return &Fling{friction: friction, tolerance: tolerance, finished: true}
}

// Start begins a fling at startY with velocity in units per second, bounded
// to [minY, maxY].
func (f *Fling) Start(startY int, velocity float64, minY, maxY int) {
	f.curr = startY
	f.velocity = velocity
	f.minY, f.maxY = minY, maxY
	f.finished = math.Abs(velocity) < f.tolerance
}

// Step advances the simulation by dt and reports whether it is still running.
func (f *Fling) Step(dt time.Duration) bool {
	if f.finished {
		return false
	}
	secs := dt.Seconds()
	delta := int(math.Round(f.velocity * secs))
	f.velocity *= math.Exp(-f.friction * secs)
	next := f.curr + delta
	switch {
	case next <= f.minY:
		next = f.minY
		f.finished = true
	case next >= f.maxY:
		next = f.maxY
		f.finished = true
	}
	f.curr = next
	if delta == 0 || math.Abs(f.velocity) < f.tolerance {
		f.finished = true
	}
	return !f.finished
}

func (f *Fling) CurrY() int        { return f.curr }
func (f *Fling) Velocity() float64 { return f.velocity }
func (f *Fling) Finished() bool    { return f.finished }

// Cancel stops the fling immediately. Safe to call on an idle fling.
func (f *Fling) Cancel() {
	f.velocity = 0
	f.finished = true
}
