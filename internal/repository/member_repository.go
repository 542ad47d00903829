package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/band-catalog/internal/model"
)

const memberColumns = "id, band_id, name, instrument, join_date, leave_date, is_active, biography, created_at, updated_at, deleted_at"

// MemberRepo provides persistence for the `members` table.
type MemberRepo struct {
	*SoftDeleteStore
	db *sql.DB
}

// NewMemberRepo constructs a MemberRepo bound to the given database.
func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{SoftDeleteStore: NewSoftDeleteStore(db, "members"), db: db}
}

// Create inserts a member and reloads the stored row.
func (r *MemberRepo) Create(ctx context.Context, m *model.Member) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO members (band_id, name, instrument, join_date, leave_date, is_active, biography) VALUES (?,?,?,?,?,?,?)",
		m.BandID, m.Name, m.Instrument, m.JoinDate, m.LeaveDate, m.IsActive, m.Biography)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// GetByID fetches a live member by id.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ? AND deleted_at IS NULL LIMIT 1", id)
	return scanMember(row)
}

// List returns live members ordered by id with LIMIT/OFFSET paging.
func (r *MemberRepo) List(ctx context.Context, limit, offset int) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE deleted_at IS NULL ORDER BY id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

// ListByBand returns the live members of one band.
func (r *MemberRepo) ListByBand(ctx context.Context, bandID uint64) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE deleted_at IS NULL AND band_id = ? ORDER BY id",
		bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

func scanMember(row rowScanner) (model.Member, error) {
	var m model.Member
	var joinDate, leaveDate, deletedAt sql.NullTime
	var biography sql.NullString
	err := row.Scan(&m.ID, &m.BandID, &m.Name, &m.Instrument, &joinDate,
		&leaveDate, &m.IsActive, &biography, &m.CreatedAt, &m.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, ErrNotFound
		}
		return model.Member{}, err
	}
	if joinDate.Valid {
		t := joinDate.Time
		m.JoinDate = &t
	}
	if leaveDate.Valid {
		t := leaveDate.Time
		m.LeaveDate = &t
	}
	if biography.Valid {
		v := biography.String
		m.Biography = &v
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		m.DeletedAt = &t
	}
	return m, nil
}

func collectMembers(rows *sql.Rows) ([]model.Member, error) {
	var out []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
