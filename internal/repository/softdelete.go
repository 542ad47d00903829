package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SoftDeleteStore is the unversioned sibling of VersionedStore, used by
// tables that carry `deleted_at` but no `version` column (countries,
// members, songs). Updates and deletes are still guarded by
// `deleted_at IS NULL` inside a single statement, so a delete can never
// land twice and a write can never resurrect a deleted row; what these
// tables give up is only the stale-version detection for plain updates.
type SoftDeleteStore struct {
	db    *sql.DB
	table string
}

// NewSoftDeleteStore binds a store to a table.
func NewSoftDeleteStore(db *sql.DB, table string) *SoftDeleteStore {
	return &SoftDeleteStore{db: db, table: table}
}

// Probe reports the delete marker of a row, including soft-deleted
// ones. Returns ErrNotFound when the row does not exist at all.
func (s *SoftDeleteStore) Probe(ctx context.Context, id uint64) (*time.Time, error) {
	var deletedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		"SELECT deleted_at FROM "+s.table+" WHERE id = ? LIMIT 1", id).Scan(&deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		return &t, nil
	}
	return nil, nil
}

// Update applies the patch to a live row and returns the affected
// count. The pool connects with clientFoundRows, so the count is rows
// matched rather than rows changed; zero therefore means the row
// vanished or was deleted since the caller looked at it, never that
// the patch happened to rewrite identical values.
func (s *SoftDeleteStore) Update(ctx context.Context, id uint64, patch Patch) (int64, error) {
	if patch.Empty() {
		return 0, ErrEmptyPatch
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(s.table)
	b.WriteString(" SET ")
	for i, col := range patch.cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col)
		b.WriteString(" = ?")
	}
	b.WriteString(", updated_at = NOW() WHERE id = ? AND deleted_at IS NULL")

	args := make([]interface{}, 0, len(patch.args)+1)
	args = append(args, patch.args...)
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, fmt.Errorf("%w: duplicate value", ErrConflict)
		}
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete marks a live row deleted. The `deleted_at IS NULL` guard
// makes the write land at most once no matter how many callers race.
func (s *SoftDeleteStore) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE "+s.table+" SET deleted_at = NOW(), updated_at = NOW() WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
