// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/band-catalog/internal/config"
	"github.com/iliyamo/band-catalog/internal/handler"
	"github.com/iliyamo/band-catalog/internal/middleware"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth      *handler.AuthHandler
	Bands     *handler.BandHandler
	Albums    *handler.AlbumHandler
	Events    *handler.EventHandler
	Members   *handler.MemberHandler
	Songs     *handler.SongHandler
	Countries *handler.CountryHandler
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes. Unauthenticated
// operations live under /v1/auth and sit behind the token-bucket rate
// limiter; /v1/me and /v1/auth/logout require a valid access token.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, jwtSecret string, rl echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", rl)
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	// Rotates the refresh token: the presented token is single-use.
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout, middleware.JWTAuth(jwtSecret))

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", h.Me)
}

// RegisterCatalog registers the catalog CRUD routes. Reads are public
// and cached; mutations require a valid access token.
func RegisterCatalog(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	jwt := middleware.JWTAuth(cfg.JWTSecret)

	read := e.Group("/v1", cache)
	read.GET("/bands", h.Bands.List)
	read.GET("/bands/search", h.Bands.Search)
	read.GET("/bands/:id", h.Bands.Get)
	read.GET("/albums", h.Albums.List)
	read.GET("/albums/:id", h.Albums.Get)
	read.GET("/events", h.Events.List)
	read.GET("/events/:id", h.Events.Get)
	read.GET("/members", h.Members.List)
	read.GET("/members/:id", h.Members.Get)
	read.GET("/songs", h.Songs.List)
	read.GET("/songs/:id", h.Songs.Get)
	read.GET("/countries", h.Countries.List)
	read.GET("/countries/:id", h.Countries.Get)

	write := e.Group("/v1", jwt)
	write.POST("/bands", h.Bands.Create)
	write.PATCH("/bands/:id", h.Bands.Update)
	write.DELETE("/bands/:id", h.Bands.Delete)
	write.POST("/albums", h.Albums.Create)
	write.PATCH("/albums/:id", h.Albums.Update)
	write.DELETE("/albums/:id", h.Albums.Delete)
	write.POST("/events", h.Events.Create)
	write.PATCH("/events/:id", h.Events.Update)
	write.DELETE("/events/:id", h.Events.Delete)
	write.POST("/members", h.Members.Create)
	write.PATCH("/members/:id", h.Members.Update)
	write.DELETE("/members/:id", h.Members.Delete)
	write.POST("/songs", h.Songs.Create)
	write.PATCH("/songs/:id", h.Songs.Update)
	write.DELETE("/songs/:id", h.Songs.Delete)
	write.POST("/countries", h.Countries.Create)
	write.PATCH("/countries/:id", h.Countries.Update)
	write.DELETE("/countries/:id", h.Countries.Delete)
}
