package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing
	"github.com/redis/go-redis/v9"

	"github.com/mkroener/hall-booking/internal/config"
	"github.com/mkroener/hall-booking/internal/handler"
	"github.com/mkroener/hall-booking/internal/middleware"
)

// RegisterRoutes registers routes that carry no dependencies beyond Echo
// itself.  Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication and user profile routes.  The login
// endpoint sits behind the Redis token bucket so credential stuffing burns
// out quickly; rdb may be nil, which turns the limiter into a pass-through.
//
// Note that only /api/me requires a token.  The remaining endpoints are
// deliberately open, mirroring the deployment this service replaces, where
// the issued role flags are consumed by the frontend alone.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.POST("/api/login", a.Login, middleware.NewTokenBucket(rlCfg, rdb))
	e.POST("/api/signup", a.Signup)
	e.POST("/api/check-email", a.CheckEmail)
	e.GET("/api/users/:id", a.GetUser)
	e.PUT("/api/users/:id", a.UpdateUser)

	me := e.Group("/api/me")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("", a.Me)
}

// RegisterReservations registers the booking endpoints.  The listing is the
// hot read path and goes through the Redis response cache; rdb may be nil.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.POST("/api/reservations", r.Create)
	e.GET("/api/reservations", r.List, middleware.NewRedisCache(cacheCfg, rdb))
	e.PUT("/api/reservations/:id/confirm", r.Confirm)
	e.DELETE("/api/reservations/:id", r.Delete)
}

// RegisterHalls registers the hall listing used by the booking form.
func RegisterHalls(e *echo.Echo, h *handler.HallHandler) {
	e.GET("/api/halls", h.List)
}
