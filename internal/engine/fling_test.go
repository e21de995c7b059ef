package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlingDecaysMonotonically(t *testing.T) {
	for _, v0 := range []float64{120, 900, -2500} {
		f := NewFling(DefaultFriction, 1)
		f.Start(0, v0, math.MinInt32, math.MaxInt32)
		require.False(t, f.Finished())

		last := f.CurrY()
		prev := math.MaxInt
		ticks := 0
		for f.Step(ms(16)) {
			d := abs(f.CurrY() - last)
			last = f.CurrY()
			assert.LessOrEqual(t, d, prev, "v0=%v tick %d", v0, ticks)
			prev = d
			ticks++
			require.Less(t, ticks, 10000, "fling never finished")
		}
		assert.True(t, f.Finished())
		if v0 > 0 {
			assert.Greater(t, f.CurrY(), 0)
		} else {
			assert.Less(t, f.CurrY(), 0)
		}
	}
}

func TestFlingStopsAtBounds(t *testing.T) {
	f := NewFling(DefaultFriction, 1)
	f.Start(0, 1000, -10, 10)
	assert.False(t, f.Step(ms(16)))
	assert.Equal(t, 10, f.CurrY())
	assert.True(t, f.Finished())
}

func TestFlingBelowToleranceNeverStarts(t *testing.T) {
	f := NewFling(DefaultFriction, 5)
	f.Start(0, 3, math.MinInt32, math.MaxInt32)
	assert.True(t, f.Finished())
	assert.False(t, f.Step(ms(16)))
	assert.Equal(t, 0, f.CurrY())
}

func TestFlingCancelIsIdempotent(t *testing.T) {
	f := NewFling(DefaultFriction, 1)
	f.Cancel()
	assert.True(t, f.Finished())

	f.Start(0, 500, math.MinInt32, math.MaxInt32)
	f.Step(ms(16))
	y := f.CurrY()
	f.Cancel()
	f.Cancel()
	assert.True(t, f.Finished())
	assert.Equal(t, 0.0, f.Velocity())
	assert.False(t, f.Step(ms(16)))
	assert.Equal(t, y, f.CurrY())
}

func TestVelocityTracker(t *testing.T) {
	var v VelocityTracker
	assert.Equal(t, 0.0, v.Velocity(1000))

	v.Add(0, 100)
	v.Add(ms(10), 90)
	v.Add(ms(20), 80)
	assert.InDelta(t, -1000, v.Velocity(5000), 1e-6)
	assert.InDelta(t, -500, v.Velocity(500), 1e-6)

	v.Clear()
	v.Add(0, 0)
	v.Add(ms(500), 10)
	assert.Equal(t, 0.0, v.Velocity(1000), "samples older than the horizon are ignored")
}
