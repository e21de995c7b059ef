package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noHeaders(int) bool { return false }

func newColumns(t *testing.T, count, width, margin int) (*Columns, *Records) {
	t.Helper()
	rec := NewRecords()
	cols := NewColumns(rec)
	require.NoError(t, cols.Setup(count, width, 0, 0, margin))
	cols.ResetEdges(0)
	return cols, rec
}

func TestColumnsSetupGeometry(t *testing.T) {
	cols := NewColumns(NewRecords())
	require.NoError(t, cols.Setup(2, 23, 1, 0, 2))
	assert.Equal(t, 8, cols.Width())
	assert.Equal(t, 3, cols.Left(0))
	assert.Equal(t, 13, cols.Left(1))

	assert.Error(t, cols.Setup(0, 20, 0, 0, 0))

	require.NoError(t, cols.Setup(4, 3, 0, 0, 0))
	assert.Equal(t, 1, cols.Width(), "lanes never collapse below one cell")
}

func TestColumnsGreedyShortestLane(t *testing.T) {
	cols, rec := newColumns(t, 3, 30, 0)
	for pos, h := range []int{5, 8, 3, 4, 2} {
		cols.Place(pos, h, true, false)
	}
	cols2 := []int{rec.Column(0), rec.Column(1), rec.Column(2), rec.Column(3), rec.Column(4)}
	assert.Equal(t, []int{0, 1, 2, 2, 0}, cols2)
	assert.Equal(t, []int{7, 8, 7}, cols.Bottoms())
	assert.Equal(t, 0, cols.HighestBottomColumn(), "ties go to the lowest index")

	ratio, ok := rec.HeightRatio(1)
	require.True(t, ok)
	assert.InDelta(t, 0.8, ratio, 1e-9)
}

func TestColumnsRecordedLaneIsReused(t *testing.T) {
	cols, rec := newColumns(t, 3, 30, 0)
	rec.SetColumn(0, 2)
	top, bottom, col := cols.Place(0, 6, true, false)
	assert.Equal(t, 2, col)
	assert.Equal(t, 0, top)
	assert.Equal(t, 6, bottom)

	rec.SetColumn(1, 7)
	_, _, col = cols.Place(1, 6, true, false)
	assert.Equal(t, 0, col, "a lane index past the count is ignored")
}

func TestColumnsMarginSitsAboveItems(t *testing.T) {
	cols, _ := newColumns(t, 2, 30, 1)
	top, bottom, col := cols.Place(0, 4, true, false)
	assert.Equal(t, 0, col)
	assert.Equal(t, 1, top)
	assert.Equal(t, 5, bottom)
	assert.Equal(t, []int{0, 0}, cols.Tops())

	top, _, _ = cols.Place(1, 4, true, false)
	assert.Equal(t, 1, top)
	top, _, _ = cols.Place(2, 4, true, false)
	assert.Equal(t, 6, top)
}

func TestColumnsHeaderSynchronisesEdges(t *testing.T) {
	cols, rec := newColumns(t, 2, 20, 0)
	cols.Place(0, 5, true, false)
	cols.Place(1, 9, true, false)
	top, bottom, col := cols.Place(2, 3, true, true)
	assert.Equal(t, -1, col)
	assert.Equal(t, 9, top)
	assert.Equal(t, 12, bottom)
	assert.Equal(t, []int{12, 12}, cols.Bottoms())

	r, ok := rec.Get(2)
	require.True(t, ok)
	assert.True(t, r.IsHeaderOrFooter)
	assert.Equal(t, -1, r.Column)

	_, _, col = cols.Place(3, 4, true, false)
	assert.Equal(t, 0, col)
}

func TestColumnsFillUp(t *testing.T) {
	cols, rec := newColumns(t, 2, 20, 0)
	cols.ResetEdges(100)
	top, bottom, col := cols.Place(9, 10, false, false)
	assert.Equal(t, []int{90, 100, 0}, []int{top, bottom, col})
	_, _, col = cols.Place(8, 5, false, false)
	assert.Equal(t, 1, col, "flowing up picks the lane with the most room above")

	top, bottom, _ = cols.Place(7, 4, false, true)
	assert.Equal(t, 86, top)
	assert.Equal(t, 90, bottom)
	assert.Equal(t, []int{86, 86}, cols.Tops())
	assert.True(t, func() bool { r, _ := rec.Get(7); return r.IsHeaderOrFooter }())
}

func TestColumnsRepairCollapsesEmptyLanes(t *testing.T) {
	cols, _ := newColumns(t, 2, 20, 0)
	a := &Item{Position: 0, Column: 0, Bounds: Rect{Top: 0, Bottom: 5}}
	b := &Item{Position: 1, Column: 1, Bounds: Rect{Top: 0, Bottom: 8}}
	c := &Item{Position: 2, Column: 0, Bounds: Rect{Top: 5, Bottom: 12}}
	cols.SetTops([]int{0, 0})
	for _, it := range []*Item{a, b, c} {
		cols.Place(it.Position, it.Bounds.Height(), true, false)
	}

	cols.Repair([]*Item{c}, true)
	assert.Equal(t, []int{5, 8}, cols.Tops())
	assert.Equal(t, []int{12, 8}, cols.Bottoms())

	cols.SetTops([]int{0, 0})
	for _, it := range []*Item{a, b, c} {
		cols.Place(it.Position, it.Bounds.Height(), true, false)
	}
	cols.Repair([]*Item{a}, false)
	assert.Equal(t, []int{0, 0}, cols.Tops())
	assert.Equal(t, []int{5, 0}, cols.Bottoms())
}

func TestColumnsSyncRebuildsForNewCount(t *testing.T) {
	cols, rec := newColumns(t, 2, 20, 0)
	for pos, h := range []int{5, 10, 5, 5} {
		cols.Place(pos, h, true, false)
	}
	require.NoError(t, cols.Setup(3, 30, 0, 0, 0))
	cols.Sync(4, 100, noHeaders)

	assert.Equal(t, []int{0, 1, 2, 0}, []int{rec.Column(0), rec.Column(1), rec.Column(2), rec.Column(3)})
	assert.Equal(t, 2, rec.Column(4), "the anchor goes to the shortest lane")
	assert.Equal(t, []int{105, 105, 100}, cols.Bottoms())
	assert.Equal(t, cols.Bottoms(), cols.Tops())
}

func TestColumnsSyncIsIdempotent(t *testing.T) {
	cols, rec := newColumns(t, 2, 20, 1)
	for pos := 0; pos < 8; pos++ {
		cols.Place(pos, 3+(pos*7)%5, true, pos == 4)
	}
	require.NoError(t, cols.Setup(3, 31, 0, 0, 1))
	isHeader := func(pos int) bool { return pos == 4 }

	cols.Sync(8, 2, isHeader)
	tops, bottoms := cols.Tops(), cols.Bottoms()
	cols.Sync(8, 2, isHeader)
	assert.Equal(t, tops, cols.Tops())
	assert.Equal(t, bottoms, cols.Bottoms())

	for pos := 0; pos < 8; pos++ {
		assert.Less(t, rec.Column(pos), 3)
	}
}

func TestColumnsSyncFallsBackForMissingRecords(t *testing.T) {
	cols, rec := newColumns(t, 2, 20, 0)
	rec.SetHeightRatio(0, 0.5)
	rec.SetHeightRatio(2, 1.5)
	cols.Sync(4, 0, noHeaders)

	for pos := 0; pos < 4; pos++ {
		_, ok := rec.HeightRatio(pos)
		assert.True(t, ok, "position %d", pos)
	}
	r, _ := rec.HeightRatio(1)
	assert.InDelta(t, 1.0, r, 1e-9)
}
