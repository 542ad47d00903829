package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/queue"
	"github.com/iliyamo/band-catalog/internal/service"
)

// EventHandler exposes event CRUD endpoints.
type EventHandler struct {
	Events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{Events: events}
}

type eventResp struct {
	ID               uint64    `json:"id"`
	Version          uint32    `json:"version"`
	BandID           uint64    `json:"band_id"`
	CountryID        *uint64   `json:"country_id,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	EventType        string    `json:"event_type"`
	Venue            *string   `json:"venue,omitempty"`
	City             *string   `json:"city,omitempty"`
	TicketPriceCents *uint32   `json:"ticket_price_cents,omitempty"`
	TicketURL        *string   `json:"ticket_url,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newEventResp(e model.Event) eventResp {
	return eventResp{
		ID: e.ID, Version: e.Version, BandID: e.BandID, CountryID: e.CountryID,
		Title: e.Title, Description: e.Description, Date: e.Date,
		EventType: e.EventType, Venue: e.Venue, City: e.City,
		TicketPriceCents: e.TicketPriceCents, TicketURL: e.TicketURL,
		IsActive: e.IsActive, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func eventListResp(items []model.Event) []eventResp {
	out := make([]eventResp, 0, len(items))
	for _, e := range items {
		out = append(out, newEventResp(e))
	}
	return out
}

type eventCreateReq struct {
	BandID           uint64    `json:"band_id"`
	CountryID        *uint64   `json:"country_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	EventType        string    `json:"event_type"`
	Venue            *string   `json:"venue"`
	City             *string   `json:"city"`
	TicketPriceCents *uint32   `json:"ticket_price_cents"`
	TicketURL        *string   `json:"ticket_url"`
	IsActive         bool      `json:"is_active"`
}

type eventUpdateReq struct {
	CountryID        *uint64    `json:"country_id"`
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Date             *time.Time `json:"date"`
	EventType        *string    `json:"event_type"`
	Venue            *string    `json:"venue"`
	City             *string    `json:"city"`
	TicketPriceCents *uint32    `json:"ticket_price_cents"`
	TicketURL        *string    `json:"ticket_url"`
	IsActive         *bool      `json:"is_active"`
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	var req eventCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.BandID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "band_id and title are required"})
	}
	e, err := h.Events.Create(c.Request().Context(), service.EventCreate{
		BandID: req.BandID, CountryID: req.CountryID, Title: req.Title,
		Description: req.Description, Date: req.Date, EventType: req.EventType,
		Venue: req.Venue, City: req.City, TicketPriceCents: req.TicketPriceCents,
		TicketURL: req.TicketURL, IsActive: req.IsActive,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "event", e.ID, queue.ActionCreated, e.Version)
	return c.JSON(http.StatusCreated, newEventResp(e))
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	e, err := h.Events.Get(c.Request().Context(), id)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, newEventResp(e))
}

// List handles GET /v1/events; ?band_id= narrows to one band.
func (h *EventHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("band_id"); raw != "" {
		bandID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band_id"})
		}
		items, err := h.Events.ListByBand(ctx, bandID)
		if err != nil {
			return writeCatalogError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": eventListResp(items)})
	}
	page, limit := pageQuery(c)
	items, err := h.Events.List(ctx, page, limit)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": eventListResp(items)})
}

// Update handles PATCH /v1/events/:id under optimistic locking.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req eventUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	e, err := h.Events.Update(c.Request().Context(), id, service.EventUpdate{
		CountryID: req.CountryID, Title: req.Title, Description: req.Description,
		Date: req.Date, EventType: req.EventType, Venue: req.Venue, City: req.City,
		TicketPriceCents: req.TicketPriceCents, TicketURL: req.TicketURL,
		IsActive: req.IsActive,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "event", e.ID, queue.ActionUpdated, e.Version)
	return c.JSON(http.StatusOK, newEventResp(e))
}

// Delete handles DELETE /v1/events/:id, idempotently.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Events.Remove(c.Request().Context(), id); err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "event", id, queue.ActionDeleted, 0)
	return c.NoContent(http.StatusNoContent)
}
