package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/SensibleN00B/theatre-api/internal/config"
	"github.com/SensibleN00B/theatre-api/internal/database"
	"github.com/SensibleN00B/theatre-api/internal/handler"
	"github.com/SensibleN00B/theatre-api/internal/queue"
	"github.com/SensibleN00B/theatre-api/internal/repository"
	"github.com/SensibleN00B/theatre-api/internal/router"
	"github.com/SensibleN00B/theatre-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	actors := repository.NewActorRepo(db)
	genres := repository.NewGenreRepo(db)
	halls := repository.NewHallRepo(db)
	plays := repository.NewPlayRepo(db)
	performances := repository.NewPerformanceRepo(db)
	reservations := repository.NewReservationRepo(db)

	booking := service.NewReservationService(performances, reservations,
		service.PublisherFunc(queue.PublishReservationConfirmed))

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Deps{
		Cfg:          cfg,
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Actors:       handler.NewActorHandler(actors),
		Genres:       handler.NewGenreHandler(genres),
		Halls:        handler.NewHallHandler(halls, performances),
		Plays:        handler.NewPlayHandler(cfg, plays),
		Performances: handler.NewPerformanceHandler(performances),
		Reservations: handler.NewReservationHandler(booking, reservations),
		Redis:        config.NewRedisClient(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
