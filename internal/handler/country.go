package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/queue"
	"github.com/iliyamo/band-catalog/internal/service"
)

// CountryHandler exposes country CRUD endpoints.
type CountryHandler struct {
	Countries *service.CountryService
}

func NewCountryHandler(countries *service.CountryService) *CountryHandler {
	return &CountryHandler{Countries: countries}
}

type countryResp struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Alpha2Code  string    `json:"alpha2_code"`
	NumericCode *int      `json:"numeric_code,omitempty"`
	Region      *string   `json:"region,omitempty"`
	Subregion   *string   `json:"subregion,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCountryResp(cn model.Country) countryResp {
	return countryResp{
		ID: cn.ID, Name: cn.Name, Code: cn.Code, Alpha2Code: cn.Alpha2Code,
		NumericCode: cn.NumericCode, Region: cn.Region, Subregion: cn.Subregion,
		IsActive: cn.IsActive, CreatedAt: cn.CreatedAt, UpdatedAt: cn.UpdatedAt,
	}
}

func countryListResp(items []model.Country) []countryResp {
	out := make([]countryResp, 0, len(items))
	for _, cn := range items {
		out = append(out, newCountryResp(cn))
	}
	return out
}

type countryCreateReq struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Alpha2Code  string  `json:"alpha2_code"`
	NumericCode *int    `json:"numeric_code"`
	Region      *string `json:"region"`
	Subregion   *string `json:"subregion"`
	IsActive    bool    `json:"is_active"`
}

type countryUpdateReq struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Alpha2Code  *string `json:"alpha2_code"`
	NumericCode *int    `json:"numeric_code"`
	Region      *string `json:"region"`
	Subregion   *string `json:"subregion"`
	IsActive    *bool   `json:"is_active"`
}

// Create handles POST /v1/countries. Name and ISO codes are unique;
// duplicates yield 409.
func (h *CountryHandler) Create(c echo.Context) error {
	var req countryCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Alpha2Code = strings.ToUpper(strings.TrimSpace(req.Alpha2Code))
	if req.Name == "" || req.Code == "" || req.Alpha2Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, code and alpha2_code are required"})
	}
	cn, err := h.Countries.Create(c.Request().Context(), service.CountryCreate{
		Name: req.Name, Code: req.Code, Alpha2Code: req.Alpha2Code,
		NumericCode: req.NumericCode, Region: req.Region, Subregion: req.Subregion,
		IsActive: req.IsActive,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "country", cn.ID, queue.ActionCreated, 0)
	return c.JSON(http.StatusCreated, newCountryResp(cn))
}

// Get handles GET /v1/countries/:id.
func (h *CountryHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cn, err := h.Countries.Get(c.Request().Context(), id)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, newCountryResp(cn))
}

// List handles GET /v1/countries with page/limit pagination.
func (h *CountryHandler) List(c echo.Context) error {
	page, limit := pageQuery(c)
	items, err := h.Countries.List(c.Request().Context(), page, limit)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": countryListResp(items)})
}

// Update handles PATCH /v1/countries/:id.
func (h *CountryHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req countryUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cn, err := h.Countries.Update(c.Request().Context(), id, service.CountryUpdate{
		Name: req.Name, Code: req.Code, Alpha2Code: req.Alpha2Code,
		NumericCode: req.NumericCode, Region: req.Region, Subregion: req.Subregion,
		IsActive: req.IsActive,
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "country", cn.ID, queue.ActionUpdated, 0)
	return c.JSON(http.StatusOK, newCountryResp(cn))
}

// Delete handles DELETE /v1/countries/:id, idempotently.
func (h *CountryHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Countries.Remove(c.Request().Context(), id); err != nil {
		return writeCatalogError(c, err)
	}
	publishChange(c, "country", id, queue.ActionDeleted, 0)
	return c.NoContent(http.StatusNoContent)
}
