package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/band-catalog/internal/model"
)

const songColumns = "id, band_id, title, duration_secs, track_number, lyrics, video_url, created_at, updated_at, deleted_at"

// SongRepo provides persistence for the `songs` table.
type SongRepo struct {
	*SoftDeleteStore
	db *sql.DB
}

// NewSongRepo constructs a SongRepo bound to the given database.
func NewSongRepo(db *sql.DB) *SongRepo {
	return &SongRepo{SoftDeleteStore: NewSoftDeleteStore(db, "songs"), db: db}
}

// Create inserts a song and reloads the stored row.
func (r *SongRepo) Create(ctx context.Context, s *model.Song) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO songs (band_id, title, duration_secs, track_number, lyrics, video_url) VALUES (?,?,?,?,?,?)",
		s.BandID, s.Title, s.DurationSecs, s.TrackNumber, s.Lyrics, s.VideoURL)
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
	*s = stored
	return nil
}

// GetByID fetches a live song by id.
func (r *SongRepo) GetByID(ctx context.Context, id uint64) (model.Song, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE id = ? AND deleted_at IS NULL LIMIT 1", id)
	return scanSong(row)
}

// List returns live songs ordered by id with LIMIT/OFFSET paging.
func (r *SongRepo) List(ctx context.Context, limit, offset int) ([]model.Song, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE deleted_at IS NULL ORDER BY id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSongs(rows)
}

// ListByBand returns the live songs of one band in track order.
func (r *SongRepo) ListByBand(ctx context.Context, bandID uint64) ([]model.Song, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE deleted_at IS NULL AND band_id = ? ORDER BY track_number, id",
		bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSongs(rows)
}

func scanSong(row rowScanner) (model.Song, error) {
	var s model.Song
	var durationSecs, trackNumber sql.NullInt64
	var lyrics, videoURL sql.NullString
	var deletedAt sql.NullTime
	err := row.Scan(&s.ID, &s.BandID, &s.Title, &durationSecs, &trackNumber,
		&lyrics, &videoURL, &s.CreatedAt, &s.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Song{}, ErrNotFound
		}
		return model.Song{}, err
	}
	if durationSecs.Valid {
		n := int(durationSecs.Int64)
		s.DurationSecs = &n
	}
	if trackNumber.Valid {
		n := int(trackNumber.Int64)
		s.TrackNumber = &n
	}
	if lyrics.Valid {
		v := lyrics.String
		s.Lyrics = &v
	}
	if videoURL.Valid {
		v := videoURL.String
		s.VideoURL = &v
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		s.DeletedAt = &t
	}
	return s, nil
}

func collectSongs(rows *sql.Rows) ([]model.Song, error) {
	var out []model.Song
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
