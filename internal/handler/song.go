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

// SongHandler exposes song CRUD endpoints.
type SongHandler struct {
	Songs *service.SongService
}

func NewSongHandler(songs *service.SongService) *SongHandler {
	return &SongHandler{Songs: songs}
}

type songResp struct {
	ID           uint64    `json:"id"`
	BandID       uint64    `json:"band_id"`
	Title        string    `json:"title"`
	DurationSecs *int      `json:"duration_secs,omitempty"`
	TrackNumber  *int      `json:"track_number,omitempty"`
	Lyrics       *string   `json:"lyrics,omitempty"`
	VideoURL     *string   `json:"video_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newSongResp(s model.Song) songResp {
	return songResp{
		ID: s.ID, BandID: s.BandID, Title: s.Title,
		DurationSecs: s.DurationSecs, TrackNumber: s.TrackNumber,
		Lyrics: s.Lyrics, VideoURL: s.VideoURL,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func songListResp(items []model.Song) []songResp {
	out := make([]songResp, 0, len(items))
	for _, s := range items {
		out = append(out, newSongResp(s))
	}
	return out
}

type songCreateReq struct {
	BandID       uint64  `json:"band_id"`
	Title        string  `json:"title"`
	DurationSecs *int    `json:"duration_secs"`
	TrackNumber  *int    `json:"track_number"`
	Lyrics       *string `json:"lyrics"`
	VideoURL     *string `json:"video_url"`
}

type songUpdateReq struct {
	Title        *string `json:"title"`
	DurationSecs *int    `json:"duration_secs"`
	TrackNumber  *int    `json:"track_number"`
	Lyrics       *string `json:"lyrics"`
	VideoURL     *string `json:"video_url"`
}

// Create handles POST /v1/songs.
func (h *SongHandler) Create(c echo.Context) error {
	var req songCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.BandID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "band_id and title are required"})
	}
	s, err := h.Songs.Create(c.Request().Context(), service.SongCreate{
		BandID: req.BandID, Title: req.Title, DurationSecs: req.DurationSecs,
		TrackNumber: req.TrackNumber, Lyrics: req.Lyrics, VideoURL: req.VideoURL,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "song", s.ID, queue.ActionCreated, 0)
	return c.JSON(http.StatusCreated, newSongResp(s))
}

// Get handles GET /v1/songs/:id.
func (h *SongHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Songs.Get(c.Request().Context(), id)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, newSongResp(s))
}

// List handles GET /v1/songs; ?band_id= narrows to one band.
func (h *SongHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("band_id"); raw != "" {
		bandID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band_id"})
		}
		items, err := h.Songs.ListByBand(ctx, bandID)
		if err != nil {
			return writeCatalogError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": songListResp(items)})
	}
	page, limit := pageQuery(c)
	items, err := h.Songs.List(ctx, page, limit)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": songListResp(items)})
}

// Update handles PATCH /v1/songs/:id.
func (h *SongHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req songUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, err := h.Songs.Update(c.Request().Context(), id, service.SongUpdate{
		Title: req.Title, DurationSecs: req.DurationSecs,
		TrackNumber: req.TrackNumber, Lyrics: req.Lyrics, VideoURL: req.VideoURL,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "song", s.ID, queue.ActionUpdated, 0)
	return c.JSON(http.StatusOK, newSongResp(s))
}

// Delete handles DELETE /v1/songs/:id, idempotently.
func (h *SongHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Songs.Remove(c.Request().Context(), id); err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "song", id, queue.ActionDeleted, 0)
	return c.NoContent(http.StatusNoContent)
}
