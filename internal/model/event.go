package model

import "time"

// Event represents a row in the `events` table (concerts, festivals,
// recordings and similar). Events are versioned like bands and albums;
// see Band for the optimistic locking contract.
//
// EventType is one of: Concert, Festival, Tour, Recording, Interview, Other.
type Event struct {
	ID               uint64     // events.id
	Version          uint32     // events.version
	BandID           uint64     // events.band_id
	CountryID        *uint64    // events.country_id
	Title            string     // events.title
	Description      string     // events.description
	Date             time.Time  // events.date
	EventType        string     // events.event_type
	Venue            *string    // events.venue
	City             *string    // events.city
	TicketPriceCents *uint32    // events.ticket_price_cents
	TicketURL        *string    // events.ticket_url
	IsActive         bool       // events.is_active
	CreatedAt        time.Time  // events.created_at
	UpdatedAt        time.Time  // events.updated_at
	DeletedAt        *time.Time // events.deleted_at
}
