package engine

import (
	"math"
	"sort"
)

// Record is what the layout remembers about a position once it has been laid
// out. HeightRatio is measured height over column width, so a column layout
// can be rebuilt at a different width.
type Record struct {
	Column           int
	HeightRatio      float64
	IsHeaderOrFooter bool
}

func (r Record) valid() bool {
	if math.IsNaN(r.HeightRatio) || math.IsInf(r.HeightRatio, 0) || r.HeightRatio < 0 {
		return false
	}
	return r.Column >= -1
}

// Records is a sparse position -> Record map.
type Records struct {
	m map[int]*Record
}

func NewRecords() *Records {
	return &Records{m: make(map[int]*Record)}
}

// Get returns the record for pos if one exists.
func (r *Records) Get(pos int) (Record, bool) {
	rec, ok := r.m[pos]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

func (r *Records) getOrCreate(pos int) *Record {
	rec, ok := r.m[pos]
	if !ok {
		rec = &Record{Column: -1}
		r.m[pos] = rec
	}
	return rec
}

// Column returns the recorded column for pos, or -1.
func (r *Records) Column(pos int) int {
	if rec, ok := r.m[pos]; ok {
		return rec.Column
	}
	return -1
}

func (r *Records) SetColumn(pos, column int) { r.getOrCreate(pos).Column = column }

func (r *Records) SetHeightRatio(pos int, ratio float64) { r.getOrCreate(pos).HeightRatio = ratio }

func (r *Records) SetHeaderOrFooter(pos int, v bool) { r.getOrCreate(pos).IsHeaderOrFooter = v }

// HeightRatio returns the recorded ratio for pos.
func (r *Records) HeightRatio(pos int) (float64, bool) {
	rec, ok := r.m[pos]
	if !ok {
		return 0, false
	}
	return rec.HeightRatio, true
}

func (r *Records) Len() int { return len(r.m) }

func (r *Records) Clear() { r.m = make(map[int]*Record) }

// Positions returns the recorded positions in ascending order.
func (r *Records) Positions() []int {
	out := make([]int, 0, len(r.m))
	for pos := range r.m {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}

// Snapshot copies the store.
func (r *Records) Snapshot() map[int]Record {
	out := make(map[int]Record, len(r.m))
	for pos, rec := range r.m {
		out[pos] = *rec
	}
	return out
}

// Load replaces the store with in, skipping entries that cannot be trusted.
// It returns the number of entries dropped.
func (r *Records) Load(in map[int]Record) int {
	r.m = make(map[int]*Record, len(in))
	dropped := 0
	for pos, rec := range in {
		if pos < 0 || !rec.valid() {
			dropped++
			continue
		}
		rec := rec
		if rec.IsHeaderOrFooter {
			rec.Column = -1
		}
		r.m[pos] = &rec
	}
	return dropped
}
