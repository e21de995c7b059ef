package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/stagger-tui/internal/engine"
)

func TestTopsEncoding(t *testing.T) {
	b, err := encodeTops(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	b, err = encodeTops([]int{-2, 0, 7})
	require.NoError(t, err)
	tops, err := decodeTops(b)
	require.NoError(t, err)
	assert.Equal(t, []int{-2, 0, 7}, tops)

	tops, err = decodeTops(nil)
	require.NoError(t, err)
	assert.Nil(t, tops)

	_, err = decodeTops([]byte("{"))
	assert.Error(t, err)
}

func TestRecordRowsAreOrdered(t *testing.T) {
	id := uuid.New()
	rows := recordRows(id, map[int]engine.Record{
		9: {Column: 1, HeightRatio: 0.5},
		0: {Column: -1, HeightRatio: 0.2, IsHeaderOrFooter: true},
		4: {Column: 2, HeightRatio: 1.25},
	})
	require.Len(t, rows, 3)
	assert.Equal(t, []int{0, 4, 9}, []int{rows[0].Position, rows[1].Position, rows[2].Position})
	for _, r := range rows {
		assert.Equal(t, id, r.StateID)
	}
	assert.True(t, rows[0].IsHeaderFooter)
}

func TestViewportRowState(t *testing.T) {
	row := viewportRow{
		ID:            uuid.New(),
		FirstPosition: 12,
		ViewTop:       -3,
		FirstStableID: 1012,
		ColumnCount:   3,
		ColumnTops:    []byte("[-3,-1,-4]"),
	}
	s, err := row.state([]PositionRecord{
		{Position: 12, ColumnIndex: 0, HeightRatio: 0.75},
		{Position: 13, ColumnIndex: 1, HeightRatio: 1.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, s.FirstPosition)
	assert.Equal(t, -3, s.ViewTop)
	assert.Equal(t, int64(1012), s.FirstStableID)
	assert.Equal(t, []int{-3, -1, -4}, s.ColumnTops)
	assert.Equal(t, engine.Record{Column: 1, HeightRatio: 1.5}, s.Records[13])

	row.ColumnTops = []byte("nope")
	_, err = row.state(nil)
	assert.Error(t, err)
}

func TestPositionRecordTable(t *testing.T) {
	assert.Equal(t, "position_records", PositionRecord{}.TableName())
}
