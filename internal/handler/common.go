// Package handler defines the HTTP handlers of the catalog server.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/band-catalog/internal/middleware"
	"github.com/iliyamo/band-catalog/internal/queue"
	"github.com/iliyamo/band-catalog/internal/repository"
	"github.com/iliyamo/band-catalog/internal/service"
)

// parseID parses the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// pageQuery reads ?page= and ?limit= with zero defaults; the service
// layer normalizes out-of-range values.
func pageQuery(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

// writeCatalogError maps service and repository sentinels onto HTTP
// responses. Unknown errors become an opaque 500.
func writeCatalogError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, service.ErrNoFields):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// publishChange emits a catalog.changed event without blocking the
// request. Publish failures are logged inside the queue package and
// otherwise ignored; the mutation already committed.
func publishChange(c echo.Context, entity string, id uint64, action string, version uint32) {
	ev := queue.CatalogChangedEvent{
		Entity:     entity,
		EntityID:   id,
		Action:     action,
		Version:    version,
		ActorID:    middleware.CurrentUserID(c),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue.PublishCatalogChanged(ctx, ev)
	}()
}
