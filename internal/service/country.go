package service

import (
	"context"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
)

// CountryStore is everything CountryService needs from the persistence
// layer. *repository.CountryRepo satisfies it.
type CountryStore interface {
	softDeleteStore
	Create(ctx context.Context, c *model.Country) error
	GetByID(ctx context.Context, id uint64) (model.Country, error)
	List(ctx context.Context, limit, offset int) ([]model.Country, error)
}

// CountryService implements catalog operations for countries.
type CountryService struct {
	countries CountryStore
}

// NewCountryService constructs a CountryService over the given store.
func NewCountryService(countries CountryStore) *CountryService {
	return &CountryService{countries: countries}
}

// CountryCreate carries the fields accepted when creating a country.
type CountryCreate struct {
	Name        string
	Code        string
	Alpha2Code  string
	NumericCode *int
	Region      *string
	Subregion   *string
	IsActive    bool
}

// CountryUpdate carries the optional fields of a country update.
type CountryUpdate struct {
	Name        *string
	Code        *string
	Alpha2Code  *string
	NumericCode *int
	Region      *string
	Subregion   *string
	IsActive    *bool
}

func (u CountryUpdate) patch() repository.Patch {
	var p repository.Patch
	if u.Name != nil {
		p.Set("name", *u.Name)
	}
	if u.Code != nil {
		p.Set("code", *u.Code)
	}
	if u.Alpha2Code != nil {
		p.Set("alpha2_code", *u.Alpha2Code)
	}
	if u.NumericCode != nil {
		p.Set("numeric_code", *u.NumericCode)
	}
	if u.Region != nil {
		p.Set("region", *u.Region)
	}
	if u.Subregion != nil {
		p.Set("subregion", *u.Subregion)
	}
	if u.IsActive != nil {
		p.Set("is_active", *u.IsActive)
	}
	return p
}

// Create stores a new country. Duplicate names or ISO codes surface as
// repository.ErrConflict.
func (s *CountryService) Create(ctx context.Context, in CountryCreate) (model.Country, error) {
	c := model.Country{
		Name:        in.Name,
		Code:        in.Code,
		Alpha2Code:  in.Alpha2Code,
		NumericCode: in.NumericCode,
		Region:      in.Region,
		Subregion:   in.Subregion,
		IsActive:    in.IsActive,
	}
	if err := s.countries.Create(ctx, &c); err != nil {
		return model.Country{}, err
	}
	return c, nil
}

// Get returns a live country or repository.ErrNotFound.
func (s *CountryService) Get(ctx context.Context, id uint64) (model.Country, error) {
	return s.countries.GetByID(ctx, id)
}

// List returns one page of live countries.
func (s *CountryService) List(ctx context.Context, page, limit int) ([]model.Country, error) {
	limit, offset := pageParams(page, limit)
	return s.countries.List(ctx, limit, offset)
}

// Update applies a guarded plain update and returns the fresh record.
func (s *CountryService) Update(ctx context.Context, id uint64, upd CountryUpdate) (model.Country, error) {
	if err := applyPlainPatch(ctx, s.countries, id, upd.patch()); err != nil {
		return model.Country{}, err
	}
	return s.countries.GetByID(ctx, id)
}

// Remove soft-deletes a country, idempotently.
func (s *CountryService) Remove(ctx context.Context, id uint64) error {
	return plainSoftDelete(ctx, s.countries, id)
}
