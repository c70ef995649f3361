package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/shoplite/shoplite/internal/config"
	"github.com/shoplite/shoplite/internal/database"
	"github.com/shoplite/shoplite/internal/handler"
	"github.com/shoplite/shoplite/internal/queue"
	"github.com/shoplite/shoplite/internal/repository"
	"github.com/shoplite/shoplite/internal/router"
	"github.com/shoplite/shoplite/internal/validation"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient() // nil when unreachable; features degrade

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	tokens := repository.NewTokenRepo(db)
	products := repository.NewProductRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Validator = validation.New()

	router.Register(e, router.Deps{
		Cfg:      cfg,
		Auth:     handler.NewAuthHandler(cfg, users, roles, tokens),
		Products: handler.NewProductHandler(products),
		Admin:    handler.NewAdminHandler(users, roles),
		Users:    users,
		Roles:    roles,
		RDB:      rdb,
	})

	// audit trail for signups; reconnects on its own
	go func() {
		if err := queue.StartSignupConsumer(); err != nil {
			log.Printf("signup consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
