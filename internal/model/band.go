package model

import "time"

// Band represents a row in the `bands` table. Bands carry a version
// column used for optimistic locking: every successful mutation bumps
// the counter by one and concurrent writers presenting a stale value
// are rejected by the repository layer.
//
// Fields:
//
//	ID         – primary key identifier.
//	Version    – optimistic locking counter, starts at 1.
//	Name       – band name.
//	Genre      – primary genre.
//	YearFormed – year the band was formed.
//	CountryID  – foreign key into the countries table (nullable).
//	Active     – whether the band is still active.
//	Website    – official website URL (nullable).
//	CreatedAt  – creation timestamp.
//	UpdatedAt  – last update timestamp.
//	DeletedAt  – soft delete marker; nil means the row is live.
type Band struct {
	ID         uint64     // bands.id
	Version    uint32     // bands.version
	Name       string     // bands.name
	Genre      string     // bands.genre
	YearFormed int        // bands.year_formed
	CountryID  *uint64    // bands.country_id
	Active     bool       // bands.active
	Website    *string    // bands.website
	CreatedAt  time.Time  // bands.created_at
	UpdatedAt  time.Time  // bands.updated_at
	DeletedAt  *time.Time // bands.deleted_at
}
