package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/DaanHessen/stagger-tui/internal/engine"
)

const recordBatch = 500

// StateRepo saves and loads grid viewport state per feed.
type StateRepo struct{ db *DB }

func NewStateRepo(db *DB) *StateRepo { return &StateRepo{db: db} }

// Save stores s and its position records in one transaction.
func (r *StateRepo) Save(ctx context.Context, feedKey string, s *engine.SavedState) (uuid.UUID, error) {
	if s == nil {
		return uuid.Nil, errors.New("nil state")
	}
	tops, err := encodeTops(s.ColumnTops)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	err = r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO viewport_states(id, feed_key, first_position, view_top, first_stable_id, column_count, column_tops) VALUES (?,?,?,?,?,?,?)`,
			id, feedKey, s.FirstPosition, s.ViewTop, s.FirstStableID, s.ColumnCount, tops).Error; err != nil {
			return wrap(err, "insert viewport state")
		}
		rows := recordRows(id, s.Records)
		if len(rows) == 0 {
			return nil
		}
		return wrap(tx.CreateInBatches(rows, recordBatch).Error, "insert position records")
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Latest loads the newest state saved for feedKey. It returns ErrNotFound when
// there is none.
func (r *StateRepo) Latest(ctx context.Context, feedKey string) (*engine.SavedState, uuid.UUID, error) {
	var (
		out *engine.SavedState
		id  uuid.UUID
	)
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		var row viewportRow
		err := tx.Raw(`SELECT id, first_position, view_top, first_stable_id, column_count, column_tops FROM viewport_states WHERE feed_key = ? ORDER BY created_at DESC LIMIT 1`, feedKey).
			Row().Scan(&row.ID, &row.FirstPosition, &row.ViewTop, &row.FirstStableID, &row.ColumnCount, &row.ColumnTops)
		if errors.Is(err, sql.ErrNoRows) {
			return errors.Wrapf(ErrNotFound, "feed %q", feedKey)
		}
		if err != nil {
			return wrap(err, "load viewport state")
		}
		var records []PositionRecord
		if err := tx.Where("state_id = ?", row.ID).Order("position").Find(&records).Error; err != nil {
			return wrap(err, "load position records")
		}
		s, err := row.state(records)
		if err != nil {
			return err
		}
		out, id = s, row.ID
		return nil
	})
	if err != nil {
		return nil, uuid.Nil, err
	}
	return out, id, nil
}

// Prune keeps the newest keep states for feedKey and deletes the rest. It
// returns how many states were removed.
func (r *StateRepo) Prune(ctx context.Context, feedKey string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res := r.db.gorm.WithContext(ctx).Exec(`DELETE FROM viewport_states WHERE feed_key = ? AND id NOT IN (
		SELECT id FROM viewport_states WHERE feed_key = ? ORDER BY created_at DESC LIMIT ?)`, feedKey, feedKey, keep)
	if res.Error != nil {
		return 0, wrap(res.Error, "prune viewport states")
	}
	return res.RowsAffected, nil
}
