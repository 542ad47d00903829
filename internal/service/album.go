package service

import (
	"context"
	"time"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
)

// AlbumStore is everything AlbumService needs from the persistence
// layer. *repository.AlbumRepo satisfies it.
type AlbumStore interface {
	versionedStore
	Create(ctx context.Context, a *model.Album) error
	GetByID(ctx context.Context, id uint64) (model.Album, error)
	List(ctx context.Context, limit, offset int) ([]model.Album, error)
	ListByBand(ctx context.Context, bandID uint64) ([]model.Album, error)
}

// AlbumService implements catalog operations for albums.
type AlbumService struct {
	albums AlbumStore
}

// NewAlbumService constructs an AlbumService over the given store.
func NewAlbumService(albums AlbumStore) *AlbumService {
	return &AlbumService{albums: albums}
}

// AlbumCreate carries the fields accepted when creating an album.
type AlbumCreate struct {
	BandID      uint64
	Name        string
	ReleaseDate *time.Time
	Genre       *string
	Label       *string
	Producer    *string
	Description *string
	TotalTracks *int
}

// AlbumUpdate carries the optional fields of an album update.
type AlbumUpdate struct {
	Name        *string
	ReleaseDate *time.Time
	Genre       *string
	Label       *string
	Producer    *string
	Description *string
	TotalTracks *int
}

func (u AlbumUpdate) patch() repository.Patch {
	var p repository.Patch
	if u.Name != nil {
		p.Set("name", *u.Name)
	}
	if u.ReleaseDate != nil {
		p.Set("release_date", *u.ReleaseDate)
	}
	if u.Genre != nil {
		p.Set("genre", *u.Genre)
	}
	if u.Label != nil {
		p.Set("label", *u.Label)
	}
	if u.Producer != nil {
		p.Set("producer", *u.Producer)
	}
	if u.Description != nil {
		p.Set("description", *u.Description)
	}
	if u.TotalTracks != nil {
		p.Set("total_tracks", *u.TotalTracks)
	}
	return p
}

// Create stores a new album.
func (s *AlbumService) Create(ctx context.Context, in AlbumCreate) (model.Album, error) {
	a := model.Album{
		BandID:      in.BandID,
		Name:        in.Name,
		ReleaseDate: in.ReleaseDate,
		Genre:       in.Genre,
		Label:       in.Label,
		Producer:    in.Producer,
		Description: in.Description,
		TotalTracks: in.TotalTracks,
	}
	if err := s.albums.Create(ctx, &a); err != nil {
		return model.Album{}, err
	}
	return a, nil
}

// Get returns a live album or repository.ErrNotFound.
func (s *AlbumService) Get(ctx context.Context, id uint64) (model.Album, error) {
	return s.albums.GetByID(ctx, id)
}

// List returns one page of live albums.
func (s *AlbumService) List(ctx context.Context, page, limit int) ([]model.Album, error) {
	limit, offset := pageParams(page, limit)
	return s.albums.List(ctx, limit, offset)
}

// ListByBand returns the live albums of one band.
func (s *AlbumService) ListByBand(ctx context.Context, bandID uint64) ([]model.Album, error) {
	return s.albums.ListByBand(ctx, bandID)
}

// Update applies the optimistic update protocol and returns the fresh
// record.
func (s *AlbumService) Update(ctx context.Context, id uint64, upd AlbumUpdate) (model.Album, error) {
	if err := applyPatch(ctx, s.albums, id, upd.patch()); err != nil {
		return model.Album{}, err
	}
	return s.albums.GetByID(ctx, id)
}

// Remove soft-deletes an album, idempotently.
func (s *AlbumService) Remove(ctx context.Context, id uint64) error {
	return softDelete(ctx, s.albums, id)
}
