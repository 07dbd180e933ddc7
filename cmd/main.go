package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/appdotbuilder/sekolah-absenku/config"
	"github.com/appdotbuilder/sekolah-absenku/database"
	"github.com/appdotbuilder/sekolah-absenku/handlers"
	"github.com/appdotbuilder/sekolah-absenku/middlewares"
	"github.com/appdotbuilder/sekolah-absenku/routes"
)

func main() {
	cfg := config.Load()

	// reference timezone: every "today" computation uses this zone
	loc, err := time.LoadLocation(cfg.AppTimezone)
	if err != nil {
		log.Fatalf("invalid APP_TIMEZONE %q: %v", cfg.AppTimezone, err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(middlewares.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, db, cfg, loc)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
