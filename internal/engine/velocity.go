package engine

import "time"

const velocityHorizon = 100 * time.Millisecond

type velocitySample struct {
	at time.Duration
	y  float64
}

// VelocityTracker estimates pointer speed from the samples of the last
// velocityHorizon.
type VelocityTracker struct {
	samples []velocitySample
}

func (v *VelocityTracker) Clear() { v.samples = v.samples[:0] }

func (v *VelocityTracker) Add(at time.Duration, y int) {
	v.samples = append(v.samples, velocitySample{at: at, y: float64(y)})
	cut := 0
	for cut < len(v.samples)-1 && at-v.samples[cut].at > velocityHorizon {
		cut++
	}
	if cut > 0 {
		v.samples = append(v.samples[:0], v.samples[cut:]...)
	}
}

// Velocity returns units per second, clamped to [-limit, limit].
func (v *VelocityTracker) Velocity(limit float64) float64 {
	if len(v.samples) < 2 {
		return 0
	}
	first, last := v.samples[0], v.samples[len(v.samples)-1]
	dt := (last.at - first.at).Seconds()
	if dt <= 0 {
		return 0
	}
	vel := (last.y - first.y) / dt
	if vel > limit {
		return limit
	}
	if vel < -limit {
		return -limit
	}
	return vel
}
