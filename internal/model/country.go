package model

import "time"

// Country represents a row in the `countries` table. Name and both ISO
// codes are unique. Countries are soft deletable but unversioned.
type Country struct {
	ID          uint64     // countries.id
	Name        string     // countries.name
	Code        string     // countries.code (ISO 3166-1 alpha-3)
	Alpha2Code  string     // countries.alpha2_code (ISO 3166-1 alpha-2)
	NumericCode *int       // countries.numeric_code (ISO 3166-1 numeric)
	Region      *string    // countries.region
	Subregion   *string    // countries.subregion
	IsActive    bool       // countries.is_active
	CreatedAt   time.Time  // countries.created_at
	UpdatedAt   time.Time  // countries.updated_at
	DeletedAt   *time.Time // countries.deleted_at
}
