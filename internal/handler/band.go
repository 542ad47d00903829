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

// BandHandler exposes band CRUD and search endpoints.
type BandHandler struct {
	Bands *service.BandService
}

func NewBandHandler(bands *service.BandService) *BandHandler {
	return &BandHandler{Bands: bands}
}

type bandResp struct {
	ID         uint64    `json:"id"`
	Version    uint32    `json:"version"`
	Name       string    `json:"name"`
	Genre      string    `json:"genre"`
	YearFormed int       `json:"year_formed"`
	CountryID  *uint64   `json:"country_id,omitempty"`
	Active     bool      `json:"active"`
	Website    *string   `json:"website,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newBandResp(b model.Band) bandResp {
	return bandResp{
		ID: b.ID, Version: b.Version, Name: b.Name, Genre: b.Genre,
		YearFormed: b.YearFormed, CountryID: b.CountryID, Active: b.Active,
		Website: b.Website, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

func bandList(items []model.Band) []bandResp {
	out := make([]bandResp, 0, len(items))
	for _, b := range items {
		out = append(out, newBandResp(b))
	}
	return out
}

type bandCreateReq struct {
	Name       string  `json:"name"`
	Genre      string  `json:"genre"`
	YearFormed int     `json:"year_formed"`
	CountryID  *uint64 `json:"country_id"`
	Active     bool    `json:"active"`
	Website    *string `json:"website"`
}

type bandUpdateReq struct {
	Name       *string `json:"name"`
	Genre      *string `json:"genre"`
	YearFormed *int    `json:"year_formed"`
	CountryID  *uint64 `json:"country_id"`
	Active     *bool   `json:"active"`
	Website    *string `json:"website"`
}

// Create handles POST /v1/bands.
func (h *BandHandler) Create(c echo.Context) error {
	var req bandCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	b, err := h.Bands.Create(c.Request().Context(), service.BandCreate{
		Name: req.Name, Genre: req.Genre, YearFormed: req.YearFormed,
		CountryID: req.CountryID, Active: req.Active, Website: req.Website,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "band", b.ID, queue.ActionCreated, b.Version)
	return c.JSON(http.StatusCreated, newBandResp(b))
}

// Get handles GET /v1/bands/:id.
func (h *BandHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bands.Get(c.Request().Context(), id)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, newBandResp(b))
}

// List handles GET /v1/bands with page/limit pagination.
func (h *BandHandler) List(c echo.Context) error {
	page, limit := pageQuery(c)
	items, err := h.Bands.List(c.Request().Context(), page, limit)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bandList(items)})
}

// Update handles PATCH /v1/bands/:id. Concurrent updates are resolved
// by optimistic locking; a losing writer receives 409.
func (h *BandHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bandUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Bands.Update(c.Request().Context(), id, service.BandUpdate{
		Name: req.Name, Genre: req.Genre, YearFormed: req.YearFormed,
		CountryID: req.CountryID, Active: req.Active, Website: req.Website,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "band", b.ID, queue.ActionUpdated, b.Version)
	return c.JSON(http.StatusOK, newBandResp(b))
}

// Delete handles DELETE /v1/bands/:id. Deleting an already-deleted
// band returns 204 as well.
func (h *BandHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Bands.Remove(c.Request().Context(), id); err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "band", id, queue.ActionDeleted, 0)
	return c.NoContent(http.StatusNoContent)
}

// Search handles GET /v1/bands/search. Exactly one of name, letter,
// genre, year or country selects the search mode; the first one
// present wins.
func (h *BandHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		items []model.Band
		err   error
	)
	switch {
	case c.QueryParam("name") != "":
		items, err = h.Bands.SearchByName(ctx, c.QueryParam("name"))
	case c.QueryParam("letter") != "":
		items, err = h.Bands.SearchByFirstLetter(ctx, c.QueryParam("letter"))
	case c.QueryParam("genre") != "":
		items, err = h.Bands.FindByGenre(ctx, c.QueryParam("genre"))
	case c.QueryParam("year") != "":
		year, perr := strconv.Atoi(c.QueryParam("year"))
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		items, err = h.Bands.FindByYear(ctx, year)
	case c.QueryParam("country") != "":
		items, err = h.Bands.FindByCountry(ctx, c.QueryParam("country"))
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide name, letter, genre, year or country"})
	}
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bandList(items)})
}
