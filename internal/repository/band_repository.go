package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/band-catalog/internal/model"
)

// bandColumns is the projection used by every band query.
const bandColumns = "id, version, name, genre, year_formed, country_id, active, website, created_at, updated_at, deleted_at"

// BandRepo provides persistence for the `bands` table. Conditional
// writes are inherited from the embedded VersionedStore; everything
// else is plain reads and inserts.
type BandRepo struct {
	*VersionedStore
	db *sql.DB
}

// NewBandRepo constructs a BandRepo bound to the given database.
func NewBandRepo(db *sql.DB) *BandRepo {
	return &BandRepo{VersionedStore: NewVersionedStore(db, "bands"), db: db}
}

// Create inserts a band and reloads the stored row so defaults
// (version=1, timestamps) are populated on the returned value.
func (r *BandRepo) Create(ctx context.Context, b *model.Band) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bands (name, genre, year_formed, country_id, active, website) VALUES (?,?,?,?,?,?)",
		b.Name, b.Genre, b.YearFormed, b.CountryID, b.Active, b.Website)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: duplicate band", ErrConflict)
		}
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
	*b = stored
	return nil
}

// GetByID fetches a live band by id. Soft-deleted rows are absent.
func (r *BandRepo) GetByID(ctx context.Context, id uint64) (model.Band, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+bandColumns+" FROM bands WHERE id = ? AND deleted_at IS NULL LIMIT 1", id)
	return scanBand(row)
}

// List returns live bands ordered by id with LIMIT/OFFSET paging.
func (r *BandRepo) List(ctx context.Context, limit, offset int) ([]model.Band, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bandColumns+" FROM bands WHERE deleted_at IS NULL ORDER BY id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBands(rows)
}

// SearchByNamePattern finds live bands whose name contains the pattern,
// case-insensitively.
func (r *BandRepo) SearchByNamePattern(ctx context.Context, pattern string) ([]model.Band, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bandColumns+" FROM bands WHERE deleted_at IS NULL AND LOWER(name) LIKE LOWER(?) ORDER BY name",
		"%"+pattern+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBands(rows)
}

// SearchByFirstLetter finds live bands whose name starts with the
// given letter, ordered alphabetically.
func (r *BandRepo) SearchByFirstLetter(ctx context.Context, letter string) ([]model.Band, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bandColumns+" FROM bands WHERE deleted_at IS NULL AND name LIKE ? ORDER BY name",
		letter+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBands(rows)
}

// FindByGenre returns live bands with the given genre.
func (r *BandRepo) FindByGenre(ctx context.Context, genre string) ([]model.Band, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bandColumns+" FROM bands WHERE deleted_at IS NULL AND genre = ? ORDER BY id", genre)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBands(rows)
}

// FindByYear returns live bands formed in the given year.
func (r *BandRepo) FindByYear(ctx context.Context, year int) ([]model.Band, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bandColumns+" FROM bands WHERE deleted_at IS NULL AND year_formed = ? ORDER BY id", year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBands(rows)
}

// FindByCountry returns live bands whose country matches the given
// country name.
func (r *BandRepo) FindByCountry(ctx context.Context, countryName string) ([]model.Band, error) {
	const q = `SELECT b.id, b.version, b.name, b.genre, b.year_formed, b.country_id, b.active, b.website, b.created_at, b.updated_at, b.deleted_at
	           FROM bands b
	           JOIN countries c ON c.id = b.country_id
	           WHERE b.deleted_at IS NULL AND c.deleted_at IS NULL AND c.name = ?
	           ORDER BY b.id`
	rows, err := r.db.QueryContext(ctx, q, countryName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBands(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBand(row rowScanner) (model.Band, error) {
	var b model.Band
	var countryID sql.NullInt64
	var website sql.NullString
	var deletedAt sql.NullTime
	err := row.Scan(&b.ID, &b.Version, &b.Name, &b.Genre, &b.YearFormed,
		&countryID, &b.Active, &website, &b.CreatedAt, &b.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Band{}, ErrNotFound
		}
		return model.Band{}, err
	}
	if countryID.Valid {
		id := uint64(countryID.Int64)
		b.CountryID = &id
	}
	if website.Valid {
		w := website.String
		b.Website = &w
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		b.DeletedAt = &t
	}
	return b, nil
}

func collectBands(rows *sql.Rows) ([]model.Band, error) {
	var out []model.Band
	for rows.Next() {
		b, err := scanBand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
