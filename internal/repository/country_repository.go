package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/band-catalog/internal/model"
)

const countryColumns = "id, name, code, alpha2_code, numeric_code, region, subregion, is_active, created_at, updated_at, deleted_at"

// CountryRepo provides persistence for the `countries` table. Name and
// both ISO codes are unique; duplicate inserts surface as ErrConflict.
type CountryRepo struct {
	*SoftDeleteStore
	db *sql.DB
}

// NewCountryRepo constructs a CountryRepo bound to the given database.
func NewCountryRepo(db *sql.DB) *CountryRepo {
	return &CountryRepo{SoftDeleteStore: NewSoftDeleteStore(db, "countries"), db: db}
}

// Create inserts a country and reloads the stored row.
func (r *CountryRepo) Create(ctx context.Context, c *model.Country) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO countries (name, code, alpha2_code, numeric_code, region, subregion, is_active) VALUES (?,?,?,?,?,?,?)",
		c.Name, c.Code, c.Alpha2Code, c.NumericCode, c.Region, c.Subregion, c.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: duplicate country", ErrConflict)
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
	*c = stored
	return nil
}

// GetByID fetches a live country by id.
func (r *CountryRepo) GetByID(ctx context.Context, id uint64) (model.Country, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+countryColumns+" FROM countries WHERE id = ? AND deleted_at IS NULL LIMIT 1", id)
	return scanCountry(row)
}

// List returns live countries ordered by name with LIMIT/OFFSET paging.
func (r *CountryRepo) List(ctx context.Context, limit, offset int) ([]model.Country, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+countryColumns+" FROM countries WHERE deleted_at IS NULL ORDER BY name LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCountry(row rowScanner) (model.Country, error) {
	var c model.Country
	var numericCode sql.NullInt64
	var region, subregion sql.NullString
	var deletedAt sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Alpha2Code, &numericCode,
		&region, &subregion, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Country{}, ErrNotFound
		}
		return model.Country{}, err
	}
	if numericCode.Valid {
		n := int(numericCode.Int64)
		c.NumericCode = &n
	}
	if region.Valid {
		v := region.String
		c.Region = &v
	}
	if subregion.Valid {
		v := subregion.String
		c.Subregion = &v
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		c.DeletedAt = &t
	}
	return c, nil
}
