package service

import (
	"context"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
)

// SongStore is everything SongService needs from the persistence
// layer. *repository.SongRepo satisfies it.
type SongStore interface {
	softDeleteStore
	Create(ctx context.Context, s *model.Song) error
	GetByID(ctx context.Context, id uint64) (model.Song, error)
	List(ctx context.Context, limit, offset int) ([]model.Song, error)
	ListByBand(ctx context.Context, bandID uint64) ([]model.Song, error)
}

// SongService implements catalog operations for songs.
type SongService struct {
	songs SongStore
}

// NewSongService constructs a SongService over the given store.
func NewSongService(songs SongStore) *SongService {
	return &SongService{songs: songs}
}

// SongCreate carries the fields accepted when creating a song.
type SongCreate struct {
	BandID       uint64
	Title        string
	DurationSecs *int
	TrackNumber  *int
	Lyrics       *string
	VideoURL     *string
}

// SongUpdate carries the optional fields of a song update.
type SongUpdate struct {
	Title        *string
	DurationSecs *int
	TrackNumber  *int
	Lyrics       *string
	VideoURL     *string
}

func (u SongUpdate) patch() repository.Patch {
	var p repository.Patch
	if u.Title != nil {
		p.Set("title", *u.Title)
	}
	if u.DurationSecs != nil {
		p.Set("duration_secs", *u.DurationSecs)
	}
	if u.TrackNumber != nil {
		p.Set("track_number", *u.TrackNumber)
	}
	if u.Lyrics != nil {
		p.Set("lyrics", *u.Lyrics)
	}
	if u.VideoURL != nil {
		p.Set("video_url", *u.VideoURL)
	}
	return p
}

// Create stores a new song.
func (s *SongService) Create(ctx context.Context, in SongCreate) (model.Song, error) {
	song := model.Song{
		BandID:       in.BandID,
		Title:        in.Title,
		DurationSecs: in.DurationSecs,
		TrackNumber:  in.TrackNumber,
		Lyrics:       in.Lyrics,
		VideoURL:     in.VideoURL,
	}
	if err := s.songs.Create(ctx, &song); err != nil {
		return model.Song{}, err
	}
	return song, nil
}

// Get returns a live song or repository.ErrNotFound.
func (s *SongService) Get(ctx context.Context, id uint64) (model.Song, error) {
	return s.songs.GetByID(ctx, id)
}

// List returns one page of live songs.
func (s *SongService) List(ctx context.Context, page, limit int) ([]model.Song, error) {
	limit, offset := pageParams(page, limit)
	return s.songs.List(ctx, limit, offset)
}

// ListByBand returns the live songs of one band.
func (s *SongService) ListByBand(ctx context.Context, bandID uint64) ([]model.Song, error) {
	return s.songs.ListByBand(ctx, bandID)
}

// Update applies a guarded plain update and returns the fresh record.
func (s *SongService) Update(ctx context.Context, id uint64, upd SongUpdate) (model.Song, error) {
	if err := applyPlainPatch(ctx, s.songs, id, upd.patch()); err != nil {
		return model.Song{}, err
	}
	return s.songs.GetByID(ctx, id)
}

// Remove soft-deletes a song, idempotently.
func (s *SongService) Remove(ctx context.Context, id uint64) error {
	return plainSoftDelete(ctx, s.songs, id)
}
