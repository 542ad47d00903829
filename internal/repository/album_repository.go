package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/band-catalog/internal/model"
)

const albumColumns = "id, version, band_id, name, release_date, genre, label, producer, description, total_tracks, created_at, updated_at, deleted_at"

// AlbumRepo provides persistence for the `albums` table. Albums share
// the conditional write protocol with bands via VersionedStore.
type AlbumRepo struct {
	*VersionedStore
	db *sql.DB
}

// NewAlbumRepo constructs an AlbumRepo bound to the given database.
func NewAlbumRepo(db *sql.DB) *AlbumRepo {
	return &AlbumRepo{VersionedStore: NewVersionedStore(db, "albums"), db: db}
}

// Create inserts an album and reloads the stored row.
func (r *AlbumRepo) Create(ctx context.Context, a *model.Album) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO albums (band_id, name, release_date, genre, label, producer, description, total_tracks) VALUES (?,?,?,?,?,?,?,?)",
		a.BandID, a.Name, a.ReleaseDate, a.Genre, a.Label, a.Producer, a.Description, a.TotalTracks)
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
	*a = stored
	return nil
}

// GetByID fetches a live album by id.
func (r *AlbumRepo) GetByID(ctx context.Context, id uint64) (model.Album, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+albumColumns+" FROM albums WHERE id = ? AND deleted_at IS NULL LIMIT 1", id)
	return scanAlbum(row)
}

// List returns live albums ordered by id with LIMIT/OFFSET paging.
func (r *AlbumRepo) List(ctx context.Context, limit, offset int) ([]model.Album, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+albumColumns+" FROM albums WHERE deleted_at IS NULL ORDER BY id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlbums(rows)
}

// ListByBand returns the live albums of one band.
func (r *AlbumRepo) ListByBand(ctx context.Context, bandID uint64) ([]model.Album, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+albumColumns+" FROM albums WHERE deleted_at IS NULL AND band_id = ? ORDER BY release_date, id",
		bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlbums(rows)
}

func scanAlbum(row rowScanner) (model.Album, error) {
	var a model.Album
	var releaseDate, deletedAt sql.NullTime
	var genre, label, producer, description sql.NullString
	var totalTracks sql.NullInt64
	err := row.Scan(&a.ID, &a.Version, &a.BandID, &a.Name, &releaseDate,
		&genre, &label, &producer, &description, &totalTracks,
		&a.CreatedAt, &a.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Album{}, ErrNotFound
		}
		return model.Album{}, err
	}
	if releaseDate.Valid {
		t := releaseDate.Time
		a.ReleaseDate = &t
	}
	if genre.Valid {
		v := genre.String
		a.Genre = &v
	}
	if label.Valid {
		v := label.String
		a.Label = &v
	}
	if producer.Valid {
		v := producer.String
		a.Producer = &v
	}
	if description.Valid {
		v := description.String
		a.Description = &v
	}
	if totalTracks.Valid {
		n := int(totalTracks.Int64)
		a.TotalTracks = &n
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		a.DeletedAt = &t
	}
	return a, nil
}

func collectAlbums(rows *sql.Rows) ([]model.Album, error) {
	var out []model.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
