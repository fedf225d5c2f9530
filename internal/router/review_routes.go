package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-console/internal/handler"
	"github.com/iliyamo/seatmap-console/internal/middleware"
	"github.com/iliyamo/seatmap-console/internal/utils"
)

// RegisterReview registers the ADMIN-only review endpoints. The rendered
// seatmap is served through cache (nil disables caching); seatmap writes
// drop the entry via handler.ReviewSeatmapPath.
func RegisterReview(e *echo.Echo, rv *handler.ReviewHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/review",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)
	if cache != nil {
		g.GET("/shows/:id/seatmap.svg", rv.SeatmapSVG, cache)
	} else {
		g.GET("/shows/:id/seatmap.svg", rv.SeatmapSVG)
	}
	g.POST("/shows/:id/decision", rv.Decide)
}
