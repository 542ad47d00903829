package service

import (
	"context"
	"time"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
)

// EventStore is everything EventService needs from the persistence
// layer. *repository.EventRepo satisfies it.
type EventStore interface {
	versionedStore
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	List(ctx context.Context, limit, offset int) ([]model.Event, error)
	ListByBand(ctx context.Context, bandID uint64) ([]model.Event, error)
}

// EventService implements catalog operations for events.
type EventService struct {
	events EventStore
}

// NewEventService constructs an EventService over the given store.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// EventCreate carries the fields accepted when creating an event.
type EventCreate struct {
	BandID           uint64
	CountryID        *uint64
	Title            string
	Description      string
	Date             time.Time
	EventType        string
	Venue            *string
	City             *string
	TicketPriceCents *uint32
	TicketURL        *string
	IsActive         bool
}

// EventUpdate carries the optional fields of an event update.
type EventUpdate struct {
	CountryID        *uint64
	Title            *string
	Description      *string
	Date             *time.Time
	EventType        *string
	Venue            *string
	City             *string
	TicketPriceCents *uint32
	TicketURL        *string
	IsActive         *bool
}

func (u EventUpdate) patch() repository.Patch {
	var p repository.Patch
	if u.CountryID != nil {
		p.Set("country_id", *u.CountryID)
	}
	if u.Title != nil {
		p.Set("title", *u.Title)
	}
	if u.Description != nil {
		p.Set("description", *u.Description)
	}
	if u.Date != nil {
		p.Set("date", *u.Date)
	}
	if u.EventType != nil {
		p.Set("event_type", *u.EventType)
	}
	if u.Venue != nil {
		p.Set("venue", *u.Venue)
	}
	if u.City != nil {
		p.Set("city", *u.City)
	}
	if u.TicketPriceCents != nil {
		p.Set("ticket_price_cents", *u.TicketPriceCents)
	}
	if u.TicketURL != nil {
		p.Set("ticket_url", *u.TicketURL)
	}
	if u.IsActive != nil {
		p.Set("is_active", *u.IsActive)
	}
	return p
}

// Create stores a new event.
func (s *EventService) Create(ctx context.Context, in EventCreate) (model.Event, error) {
	e := model.Event{
		BandID:           in.BandID,
		CountryID:        in.CountryID,
		Title:            in.Title,
		Description:      in.Description,
		Date:             in.Date,
		EventType:        in.EventType,
		Venue:            in.Venue,
		City:             in.City,
		TicketPriceCents: in.TicketPriceCents,
		TicketURL:        in.TicketURL,
		IsActive:         in.IsActive,
	}
	if err := s.events.Create(ctx, &e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// Get returns a live event or repository.ErrNotFound.
func (s *EventService) Get(ctx context.Context, id uint64) (model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// List returns one page of live events.
func (s *EventService) List(ctx context.Context, page, limit int) ([]model.Event, error) {
	limit, offset := pageParams(page, limit)
	return s.events.List(ctx, limit, offset)
}

// ListByBand returns the live events of one band.
func (s *EventService) ListByBand(ctx context.Context, bandID uint64) ([]model.Event, error) {
	return s.events.ListByBand(ctx, bandID)
}

// Update applies the optimistic update protocol and returns the fresh
// record.
func (s *EventService) Update(ctx context.Context, id uint64, upd EventUpdate) (model.Event, error) {
	if err := applyPatch(ctx, s.events, id, upd.patch()); err != nil {
		return model.Event{}, err
	}
	return s.events.GetByID(ctx, id)
}

// Remove soft-deletes an event, idempotently.
func (s *EventService) Remove(ctx context.Context, id uint64) error {
	return softDelete(ctx, s.events, id)
}
