package engine

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stableAdapter(n int) *fakeAdapter {
	a := newFakeAdapter(uniform(n, 5)...)
	a.stableIDs = true
	return a
}

func TestSaveEmptyController(t *testing.T) {
	c := New(newFakeHost())
	s := c.Save()
	require.NotNil(t, s)
	assert.Equal(t, InvalidID, s.FirstStableID)
	assert.Empty(t, s.ColumnTops)
}

func TestRestoreSameGeometry(t *testing.T) {
	c, _ := newTestController(t, stableAdapter(30), 30, 20, WithColumnCounts(3, 3))
	_, err := c.ScrollBy(7)
	require.NoError(t, err)
	s := c.Save()
	assert.Equal(t, 3, s.FirstPosition)
	assert.Equal(t, -2, s.ViewTop)
	assert.Equal(t, int64(1003), s.FirstStableID)
	assert.Equal(t, []int{-2, -2, -2}, s.ColumnTops)

	c2 := New(newFakeHost(), WithColumnCounts(3, 3))
	require.NoError(t, c2.SetAdapter(stableAdapter(30)))
	require.NoError(t, c2.Restore(s))
	require.NoError(t, c2.Layout(0, 0, 30, 20))

	assert.Equal(t, positions(c.Children()), positions(c2.Children()))
	assert.Equal(t, -2, c2.Children()[0].Bounds.Top)
	tops1, bottoms1 := c.ColumnEdges()
	tops2, bottoms2 := c2.ColumnEdges()
	assert.Equal(t, tops1, tops2)
	assert.Equal(t, bottoms1, bottoms2)
	requireConsistent(t, c2)
}

func TestRestoreIntoFewerColumnsRebuilds(t *testing.T) {
	c, _ := newTestController(t, stableAdapter(30), 30, 20, WithColumnCounts(3, 3))
	_, err := c.ScrollBy(7)
	require.NoError(t, err)
	s := c.Save()

	var buf bytes.Buffer
	c2 := New(newFakeHost(), WithColumnCounts(2, 2), WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, c2.SetAdapter(stableAdapter(30)))
	require.NoError(t, c2.Restore(s))
	require.NoError(t, c2.Layout(0, 0, 30, 20))

	assert.Equal(t, 2, c2.ColumnCount())
	it := c2.childAt(3)
	require.NotNil(t, it)
	assert.Equal(t, -2, it.Bounds.Top)
	assert.Contains(t, buf.String(), "rebuilding")
	requireConsistent(t, c2)
}

func TestRestoreFollowsStableID(t *testing.T) {
	c, _ := newTestController(t, stableAdapter(30), 30, 20, WithColumnCounts(3, 3))
	_, err := c.ScrollBy(7)
	require.NoError(t, err)
	s := c.Save()

	a := stableAdapter(31)
	a.ids[0] = 1
	for i := 1; i < 31; i++ {
		a.ids[i] = int64(1000 + i - 1)
	}
	c2 := New(newFakeHost(), WithColumnCounts(3, 3))
	require.NoError(t, c2.SetAdapter(a))
	require.NoError(t, c2.Restore(s))
	require.NoError(t, c2.Layout(0, 0, 30, 20))

	it := c2.childAt(4)
	require.NotNil(t, it)
	assert.Equal(t, int64(1003), it.StableID)
	assert.Equal(t, -2, it.Bounds.Top)
	requireConsistent(t, c2)
}

func TestRestoreNilIsNoop(t *testing.T) {
	c, _ := newTestController(t, stableAdapter(30), 30, 20)
	require.NoError(t, c.Restore(nil))
	assert.False(t, c.NeedsFrame())
}

func TestRestoreDropsCorruptRecords(t *testing.T) {
	var buf bytes.Buffer
	c := New(newFakeHost(), WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, c.SetAdapter(stableAdapter(30)))
	s := &SavedState{
		FirstStableID: InvalidID,
		ColumnCount:   3,
		Records: map[int]Record{
			-3: {Column: 0, HeightRatio: 0.5},
			1:  {Column: 1, HeightRatio: math.NaN()},
			2:  {Column: 2, HeightRatio: 0.5},
		},
	}
	require.NoError(t, c.Restore(s))
	assert.Contains(t, buf.String(), "dropped 2")

	rec, err := c.Record(2)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Column)
	rec, err = c.Record(1)
	require.NoError(t, err)
	assert.Equal(t, -1, rec.Column)

	require.NoError(t, c.Layout(0, 0, 30, 20))
	assert.Equal(t, 0, c.State().FirstPosition)
	requireConsistent(t, c)
}
