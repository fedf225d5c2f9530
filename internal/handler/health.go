package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health reports liveness plus the state of the database and Redis. A nil
// Redis client is reported as "disabled", not as a failure, since the
// service runs without it.
func Health(db *sql.DB, rdb *redis.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		out := map[string]string{"status": "ok", "db": "ok", "redis": "disabled"}
		if db == nil || db.PingContext(ctx) != nil {
			status = http.StatusServiceUnavailable
			out["status"], out["db"] = "degraded", "down"
		}
		if rdb != nil {
			out["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				out["redis"] = "down"
			}
		}
		return c.JSON(status, out)
	}
}
