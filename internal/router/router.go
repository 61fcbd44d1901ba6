// Package router wires handlers, access control and the Redis middleware
// onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/SensibleN00B/theatre-api/internal/config"
	"github.com/SensibleN00B/theatre-api/internal/handler"
	"github.com/SensibleN00B/theatre-api/internal/middleware"
)

// Deps carries everything the route tables need.
type Deps struct {
	Cfg          config.Config
	Auth         *handler.AuthHandler
	Actors       *handler.ActorHandler
	Genres       *handler.GenreHandler
	Halls        *handler.HallHandler
	Plays        *handler.PlayHandler
	Performances *handler.PerformanceHandler
	Reservations *handler.ReservationHandler
	Redis        *redis.Client // nil disables rate limiting and caching
}

// Register sets up every route of the API.
//
// Access rules:
//   - catalog and schedule groups are readable by anyone; writes need an
//     ADMIN token (403 otherwise, authenticated or not)
//   - reservations and the profile endpoints need a valid token (401)
//   - the user listing additionally needs the ADMIN role
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	adminOrRead := middleware.AdminOrReadOnly(d.Cfg.JWTSecret)

	// auth
	auth := e.Group("/v1/auth", limiter)
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	// catalog: public reads (cached), admin writes
	catalog := e.Group("/v1", limiter, adminOrRead, cache)

	catalog.GET("/actors", d.Actors.List)
	catalog.POST("/actors", d.Actors.Create)
	catalog.GET("/actors/:id", d.Actors.Get)
	catalog.PUT("/actors/:id", d.Actors.Update)
	catalog.DELETE("/actors/:id", d.Actors.Delete)

	catalog.GET("/genres", d.Genres.List)
	catalog.POST("/genres", d.Genres.Create)
	catalog.GET("/genres/:id", d.Genres.Get)
	catalog.PUT("/genres/:id", d.Genres.Update)
	catalog.DELETE("/genres/:id", d.Genres.Delete)

	catalog.GET("/theatre-halls", d.Halls.List)
	catalog.POST("/theatre-halls", d.Halls.Create)
	catalog.GET("/theatre-halls/:id", d.Halls.Get)
	catalog.PUT("/theatre-halls/:id", d.Halls.Update)
	catalog.DELETE("/theatre-halls/:id", d.Halls.Delete)

	catalog.GET("/plays", d.Plays.List)
	catalog.POST("/plays", d.Plays.Create)
	catalog.GET("/plays/:id", d.Plays.Get)
	catalog.PUT("/plays/:id", d.Plays.Update)
	catalog.DELETE("/plays/:id", d.Plays.Delete)
	catalog.POST("/plays/:id/upload-image", d.Plays.UploadImage)

	// schedule: availability is computed live, so listings are not cached
	schedule := e.Group("/v1", limiter, adminOrRead)
	schedule.GET("/performances", d.Performances.List)
	schedule.POST("/performances", d.Performances.Create)
	schedule.GET("/performances/:id", d.Performances.Get)
	schedule.PUT("/performances/:id", d.Performances.Update)
	schedule.DELETE("/performances/:id", d.Performances.Delete)

	// authenticated surface
	private := e.Group("/v1", limiter, middleware.JWTAuth(d.Cfg.JWTSecret))
	private.POST("/reservations", d.Reservations.Create)
	private.GET("/reservations", d.Reservations.List)
	// with a bearer and no refresh_token in the body this revokes
	// every session of the caller
	private.POST("/logout", d.Auth.Logout)
	private.GET("/users/me", d.Auth.Me)
	private.PUT("/users/me", d.Auth.UpdateMe)
	private.GET("/users", d.Auth.ListUsers, middleware.RequireAdmin())
}
