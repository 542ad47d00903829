package service

import (
	"context"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
)

// BandStore is everything BandService needs from the persistence
// layer. *repository.BandRepo satisfies it.
type BandStore interface {
	versionedStore
	Create(ctx context.Context, b *model.Band) error
	GetByID(ctx context.Context, id uint64) (model.Band, error)
	List(ctx context.Context, limit, offset int) ([]model.Band, error)
	SearchByNamePattern(ctx context.Context, pattern string) ([]model.Band, error)
	SearchByFirstLetter(ctx context.Context, letter string) ([]model.Band, error)
	FindByGenre(ctx context.Context, genre string) ([]model.Band, error)
	FindByYear(ctx context.Context, year int) ([]model.Band, error)
	FindByCountry(ctx context.Context, countryName string) ([]model.Band, error)
}

// BandService implements catalog operations for bands, including the
// optimistic update and idempotent delete protocols.
type BandService struct {
	bands BandStore
}

// NewBandService constructs a BandService over the given store.
func NewBandService(bands BandStore) *BandService {
	return &BandService{bands: bands}
}

// BandCreate carries the fields accepted when creating a band.
type BandCreate struct {
	Name       string
	Genre      string
	YearFormed int
	CountryID  *uint64
	Active     bool
	Website    *string
}

// BandUpdate carries the optional fields of a band update. Nil fields
// are left untouched. Version and deletedAt are never caller-set.
type BandUpdate struct {
	Name       *string
	Genre      *string
	YearFormed *int
	CountryID  *uint64
	Active     *bool
	Website    *string
}

func (u BandUpdate) patch() repository.Patch {
	var p repository.Patch
	if u.Name != nil {
		p.Set("name", *u.Name)
	}
	if u.Genre != nil {
		p.Set("genre", *u.Genre)
	}
	if u.YearFormed != nil {
		p.Set("year_formed", *u.YearFormed)
	}
	if u.CountryID != nil {
		p.Set("country_id", *u.CountryID)
	}
	if u.Active != nil {
		p.Set("active", *u.Active)
	}
	if u.Website != nil {
		p.Set("website", *u.Website)
	}
	return p
}

// Create stores a new band. The stored row comes back with version=1.
func (s *BandService) Create(ctx context.Context, in BandCreate) (model.Band, error) {
	b := model.Band{
		Name:       in.Name,
		Genre:      in.Genre,
		YearFormed: in.YearFormed,
		CountryID:  in.CountryID,
		Active:     in.Active,
		Website:    in.Website,
	}
	if err := s.bands.Create(ctx, &b); err != nil {
		return model.Band{}, err
	}
	return b, nil
}

// Get returns a live band or repository.ErrNotFound.
func (s *BandService) Get(ctx context.Context, id uint64) (model.Band, error) {
	return s.bands.GetByID(ctx, id)
}

// List returns one page of live bands.
func (s *BandService) List(ctx context.Context, page, limit int) ([]model.Band, error) {
	limit, offset := pageParams(page, limit)
	return s.bands.List(ctx, limit, offset)
}

// Update applies the optimistic update protocol and returns the fresh
// record with its incremented version. A concurrent writer that got
// there first surfaces as repository.ErrConflict.
func (s *BandService) Update(ctx context.Context, id uint64, upd BandUpdate) (model.Band, error) {
	if err := applyPatch(ctx, s.bands, id, upd.patch()); err != nil {
		return model.Band{}, err
	}
	return s.bands.GetByID(ctx, id)
}

// Remove soft-deletes a band. Removing an already-deleted band is a
// success no-op.
func (s *BandService) Remove(ctx context.Context, id uint64) error {
	return softDelete(ctx, s.bands, id)
}

// SearchByName finds bands whose name contains the pattern.
func (s *BandService) SearchByName(ctx context.Context, pattern string) ([]model.Band, error) {
	return s.bands.SearchByNamePattern(ctx, pattern)
}

// SearchByFirstLetter finds bands alphabetically by leading letter.
func (s *BandService) SearchByFirstLetter(ctx context.Context, letter string) ([]model.Band, error) {
	return s.bands.SearchByFirstLetter(ctx, letter)
}

// FindByGenre finds bands by genre.
func (s *BandService) FindByGenre(ctx context.Context, genre string) ([]model.Band, error) {
	return s.bands.FindByGenre(ctx, genre)
}

// FindByYear finds bands by formation year.
func (s *BandService) FindByYear(ctx context.Context, year int) ([]model.Band, error) {
	return s.bands.FindByYear(ctx, year)
}

// FindByCountry finds bands by country name.
func (s *BandService) FindByCountry(ctx context.Context, countryName string) ([]model.Band, error) {
	return s.bands.FindByCountry(ctx, countryName)
}

// pageParams converts 1-based page/limit query values into
// LIMIT/OFFSET, applying defaults and a cap.
func pageParams(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return limit, (page - 1) * limit
}
