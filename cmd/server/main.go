package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/band-catalog/internal/config"
	"github.com/iliyamo/band-catalog/internal/database"
	"github.com/iliyamo/band-catalog/internal/handler"
	"github.com/iliyamo/band-catalog/internal/middleware"
	"github.com/iliyamo/band-catalog/internal/queue"
	"github.com/iliyamo/band-catalog/internal/repository"
	"github.com/iliyamo/band-catalog/internal/router"
	"github.com/iliyamo/band-catalog/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	bands := repository.NewBandRepo(db)
	albums := repository.NewAlbumRepo(db)
	events := repository.NewEventRepo(db)
	members := repository.NewMemberRepo(db)
	songs := repository.NewSongRepo(db)
	countries := repository.NewCountryRepo(db)

	auth := service.NewAuthService(users, cfg)
	h := router.Handlers{
		Auth:      handler.NewAuthHandler(auth),
		Bands:     handler.NewBandHandler(service.NewBandService(bands)),
		Albums:    handler.NewAlbumHandler(service.NewAlbumService(albums)),
		Events:    handler.NewEventHandler(service.NewEventService(events)),
		Members:   handler.NewMemberHandler(service.NewMemberService(members)),
		Songs:     handler.NewSongHandler(service.NewSongService(songs)),
		Countries: handler.NewCountryHandler(service.NewCountryService(countries)),
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, h.Auth, cfg.JWTSecret, rl)
	router.RegisterCatalog(e, h, cfg, rdb)

	// Background consumer mirrors catalog.changed events into logs/catalog.log.
	go func() {
		if err := queue.StartCatalogConsumer(); err != nil {
			log.Printf("catalog consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
