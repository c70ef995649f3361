package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/shoplite/shoplite/internal/config"
	"github.com/shoplite/shoplite/internal/handler"
	"github.com/shoplite/shoplite/internal/middleware"
	"github.com/shoplite/shoplite/internal/repository"
)

// Deps carries everything route registration needs. Repositories appear here
// because the session guard re-resolves identity from the store on every
// request rather than trusting token claims.
type Deps struct {
	Cfg      config.Config
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Admin    *handler.AdminHandler
	Users    *repository.UserRepo
	Roles    *repository.RoleRepo
	RDB      *redis.Client // nil disables rate limiting and caching
}

// Register wires all routes onto the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated session operations, fronted by the token bucket to
	// slow down credential stuffing.
	auth := e.Group("/v1/auth", middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.RDB))
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	// Catalog CRUD. Reads go through the response cache; PUT and PATCH share
	// the same partial-apply handler.
	cache := middleware.ResponseCache(config.LoadCacheConfig(), d.RDB)
	products := e.Group("/v1/products")
	products.GET("", d.Products.List, cache)
	products.GET("/:id", d.Products.Get, cache)
	products.POST("", d.Products.Create)
	products.PUT("/:id", d.Products.Update)
	products.PATCH("/:id", d.Products.Update)
	products.DELETE("/:id", d.Products.Delete)

	guard := middleware.SessionGuard(d.Cfg.JWTSecret, d.Users, d.Roles)
	e.GET("/v1/me", handler.Me, guard)

	// Role management requires an authenticated admin; 401 and 403 stay
	// distinct signals.
	admin := e.Group("/v1/admin", guard, middleware.RequireRole("admin"))
	admin.POST("/roles/ensure", d.Admin.EnsureRole)
	admin.POST("/assign-role", d.Admin.AssignRole)
	admin.POST("/grant-permission", d.Admin.GrantPermission)
	admin.DELETE("/users/:id", d.Admin.DeleteUser)
}
