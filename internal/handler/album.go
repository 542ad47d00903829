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

// AlbumHandler exposes album CRUD endpoints.
type AlbumHandler struct {
	Albums *service.AlbumService
}

func NewAlbumHandler(albums *service.AlbumService) *AlbumHandler {
	return &AlbumHandler{Albums: albums}
}

type albumResp struct {
	ID          uint64     `json:"id"`
	Version     uint32     `json:"version"`
	BandID      uint64     `json:"band_id"`
	Name        string     `json:"name"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Genre       *string    `json:"genre,omitempty"`
	Label       *string    `json:"label,omitempty"`
	Producer    *string    `json:"producer,omitempty"`
	Description *string    `json:"description,omitempty"`
	TotalTracks *int       `json:"total_tracks,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newAlbumResp(a model.Album) albumResp {
	return albumResp{
		ID: a.ID, Version: a.Version, BandID: a.BandID, Name: a.Name,
		ReleaseDate: a.ReleaseDate, Genre: a.Genre, Label: a.Label,
		Producer: a.Producer, Description: a.Description, TotalTracks: a.TotalTracks,
		CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func albumListResp(items []model.Album) []albumResp {
	out := make([]albumResp, 0, len(items))
	for _, a := range items {
		out = append(out, newAlbumResp(a))
	}
	return out
}

type albumCreateReq struct {
	BandID      uint64     `json:"band_id"`
	Name        string     `json:"name"`
	ReleaseDate *time.Time `json:"release_date"`
	Genre       *string    `json:"genre"`
	Label       *string    `json:"label"`
	Producer    *string    `json:"producer"`
	Description *string    `json:"description"`
	TotalTracks *int       `json:"total_tracks"`
}

type albumUpdateReq struct {
	Name        *string    `json:"name"`
	ReleaseDate *time.Time `json:"release_date"`
	Genre       *string    `json:"genre"`
	Label       *string    `json:"label"`
	Producer    *string    `json:"producer"`
	Description *string    `json:"description"`
	TotalTracks *int       `json:"total_tracks"`
}

// Create handles POST /v1/albums.
func (h *AlbumHandler) Create(c echo.Context) error {
	var req albumCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.BandID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "band_id and name are required"})
	}
	a, err := h.Albums.Create(c.Request().Context(), service.AlbumCreate{
		BandID: req.BandID, Name: req.Name, ReleaseDate: req.ReleaseDate,
		Genre: req.Genre, Label: req.Label, Producer: req.Producer,
		Description: req.Description, TotalTracks: req.TotalTracks,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "album", a.ID, queue.ActionCreated, a.Version)
	return c.JSON(http.StatusCreated, newAlbumResp(a))
}

// Get handles GET /v1/albums/:id.
func (h *AlbumHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Albums.Get(c.Request().Context(), id)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, newAlbumResp(a))
}

// List handles GET /v1/albums; ?band_id= narrows to one band.
func (h *AlbumHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("band_id"); raw != "" {
		bandID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band_id"})
		}
		items, err := h.Albums.ListByBand(ctx, bandID)
		if err != nil {
			return writeCatalogError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": albumListResp(items)})
	}
	page, limit := pageQuery(c)
	items, err := h.Albums.List(ctx, page, limit)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": albumListResp(items)})
}

// Update handles PATCH /v1/albums/:id under optimistic locking.
func (h *AlbumHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req albumUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a, err := h.Albums.Update(c.Request().Context(), id, service.AlbumUpdate{
		Name: req.Name, ReleaseDate: req.ReleaseDate, Genre: req.Genre,
		Label: req.Label, Producer: req.Producer, Description: req.Description,
		TotalTracks: req.TotalTracks,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "album", a.ID, queue.ActionUpdated, a.Version)
	return c.JSON(http.StatusOK, newAlbumResp(a))
}

// Delete handles DELETE /v1/albums/:id, idempotently.
func (h *AlbumHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Albums.Remove(c.Request().Context(), id); err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "album", id, queue.ActionDeleted, 0)
	return c.NoContent(http.StatusNoContent)
}
