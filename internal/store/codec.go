package store

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/DaanHessen/stagger-tui/internal/engine"
)

// PositionRecord is one row of position_records.
type PositionRecord struct {
	StateID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position       int       `gorm:"primaryKey"`
	ColumnIndex    int
	HeightRatio    float64
	IsHeaderFooter bool
}

func (PositionRecord) TableName() string { return "position_records" }

// viewportRow mirrors viewport_states without the feed key and timestamp.
type viewportRow struct {
	ID            uuid.UUID
	FirstPosition int
	ViewTop       int
	FirstStableID int64
	ColumnCount   int
	ColumnTops    []byte
}

func encodeTops(tops []int) ([]byte, error) {
	if tops == nil {
		tops = []int{}
	}
	b, err := json.Marshal(tops)
	return b, wrap(err, "encode column tops")
}

func decodeTops(b []byte) ([]int, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var tops []int
	if err := json.Unmarshal(b, &tops); err != nil {
		return nil, wrap(err, "decode column tops")
	}
	return tops, nil
}

// recordRows flattens records in position order.
func recordRows(stateID uuid.UUID, records map[int]engine.Record) []PositionRecord {
	rows := make([]PositionRecord, 0, len(records))
	for pos, rec := range records {
		rows = append(rows, PositionRecord{
			StateID:        stateID,
			Position:       pos,
			ColumnIndex:    rec.Column,
			HeightRatio:    rec.HeightRatio,
			IsHeaderFooter: rec.IsHeaderOrFooter,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	return rows
}

func recordsFromRows(rows []PositionRecord) map[int]engine.Record {
	out := make(map[int]engine.Record, len(rows))
	for _, r := range rows {
		out[r.Position] = engine.Record{
			Column:           r.ColumnIndex,
			HeightRatio:      r.HeightRatio,
			IsHeaderOrFooter: r.IsHeaderFooter,
		}
	}
	return out
}

func (r viewportRow) state(records []PositionRecord) (*engine.SavedState, error) {
	tops, err := decodeTops(r.ColumnTops)
	if err != nil {
		return nil, err
	}
	return &engine.SavedState{
		FirstPosition: r.FirstPosition,
		ViewTop:       r.ViewTop,
		FirstStableID: r.FirstStableID,
		ColumnCount:   r.ColumnCount,
		ColumnTops:    tops,
		Records:       recordsFromRows(records),
	}, nil
}
