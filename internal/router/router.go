package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/seatmap-console/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication. The
// health check is meant for load balancers and reports degraded when the
// database cannot be reached.
func RegisterRoutes(e *echo.Echo, db *sql.DB, rdb *redis.Client) {
	e.GET("/healthz", handler.Health(db, rdb))
}
