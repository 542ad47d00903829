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

// MemberHandler exposes band member CRUD endpoints.
type MemberHandler struct {
	Members *service.MemberService
}

func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{Members: members}
}

type memberResp struct {
	ID         uint64     `json:"id"`
	BandID     uint64     `json:"band_id"`
	Name       string     `json:"name"`
	Instrument string     `json:"instrument"`
	JoinDate   *time.Time `json:"join_date,omitempty"`
	LeaveDate  *time.Time `json:"leave_date,omitempty"`
	IsActive   bool       `json:"is_active"`
	Biography  *string    `json:"biography,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func newMemberResp(m model.Member) memberResp {
	return memberResp{
		ID: m.ID, BandID: m.BandID, Name: m.Name, Instrument: m.Instrument,
		JoinDate: m.JoinDate, LeaveDate: m.LeaveDate, IsActive: m.IsActive,
		Biography: m.Biography, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func memberListResp(items []model.Member) []memberResp {
	out := make([]memberResp, 0, len(items))
	for _, m := range items {
		out = append(out, newMemberResp(m))
	}
	return out
}

type memberCreateReq struct {
	BandID     uint64     `json:"band_id"`
	Name       string     `json:"name"`
	Instrument string     `json:"instrument"`
	JoinDate   *time.Time `json:"join_date"`
	LeaveDate  *time.Time `json:"leave_date"`
	IsActive   bool       `json:"is_active"`
	Biography  *string    `json:"biography"`
}

type memberUpdateReq struct {
	Name       *string    `json:"name"`
	Instrument *string    `json:"instrument"`
	JoinDate   *time.Time `json:"join_date"`
	LeaveDate  *time.Time `json:"leave_date"`
	IsActive   *bool      `json:"is_active"`
	Biography  *string    `json:"biography"`
}

// Create handles POST /v1/members.
func (h *MemberHandler) Create(c echo.Context) error {
	var req memberCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.BandID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "band_id and name are required"})
	}
	m, err := h.Members.Create(c.Request().Context(), service.MemberCreate{
		BandID: req.BandID, Name: req.Name, Instrument: req.Instrument,
		JoinDate: req.JoinDate, LeaveDate: req.LeaveDate,
		IsActive: req.IsActive, Biography: req.Biography,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "member", m.ID, queue.ActionCreated, 0)
	return c.JSON(http.StatusCreated, newMemberResp(m))
}

// Get handles GET /v1/members/:id.
func (h *MemberHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Members.Get(c.Request().Context(), id)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, newMemberResp(m))
}

// List handles GET /v1/members; ?band_id= narrows to one band.
func (h *MemberHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("band_id"); raw != "" {
		bandID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band_id"})
		}
		items, err := h.Members.ListByBand(ctx, bandID)
		if err != nil {
			return writeCatalogError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": memberListResp(items)})
	}
	page, limit := pageQuery(c)
	items, err := h.Members.List(ctx, page, limit)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": memberListResp(items)})
}

// Update handles PATCH /v1/members/:id.
func (h *MemberHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req memberUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	m, err := h.Members.Update(c.Request().Context(), id, service.MemberUpdate{
		Name: req.Name, Instrument: req.Instrument, JoinDate: req.JoinDate,
		LeaveDate: req.LeaveDate, IsActive: req.IsActive, Biography: req.Biography,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "member", m.ID, queue.ActionUpdated, 0)
	return c.JSON(http.StatusOK, newMemberResp(m))
}

// Delete handles DELETE /v1/members/:id, idempotently.
func (h *MemberHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Members.Remove(c.Request().Context(), id); err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "member", id, queue.ActionDeleted, 0)
	return c.NoContent(http.StatusNoContent)
}
