package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-console/internal/handler"
	"github.com/iliyamo/seatmap-console/internal/middleware"
	"github.com/iliyamo/seatmap-console/internal/utils"
)

// RegisterOrganizer registers the editor and show endpoints under /v1. All
// routes require a valid JWT with the ORGANIZER or ADMIN role. limit runs
// after authentication so buckets are keyed per user; pass nil to disable it.
func RegisterOrganizer(e *echo.Echo, ed *handler.EditorHandler, shows *handler.ShowHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleOrganizer, utils.RoleAdmin),
	}
	if limit != nil {
		mws = append(mws, limit)
	}
	g := e.Group("/v1", mws...)

	// ---- Catalog ----
	g.GET("/seatmap/shapes", ed.ListShapes)

	// ---- Sessions ----
	s := g.Group("/seatmap/sessions")
	s.POST("", ed.CreateSession)
	s.GET("/:id", ed.GetSession)
	s.DELETE("/:id", ed.CloseSession)

	// area dialog
	s.POST("/:id/dialog", ed.OpenDialog)
	s.PATCH("/:id/dialog", ed.UpdateDialog)
	s.POST("/:id/dialog/submit", ed.SubmitDialog)
	s.DELETE("/:id/dialog", ed.CancelDialog)

	// canvas operations act on the current selection
	s.POST("/:id/select", ed.Select)
	s.POST("/:id/drag", ed.Drag)
	s.POST("/:id/move", ed.Move)
	s.POST("/:id/scale", ed.Scale)
	s.POST("/:id/duplicate", ed.Duplicate)
	s.POST("/:id/delete", ed.Delete)
	s.POST("/:id/flip", ed.Flip)
	s.POST("/:id/center", ed.Center)
	s.POST("/:id/grid", ed.Grid)
	s.PUT("/:id/ticket-types", ed.SetTicketTypes)
	s.PUT("/:id/viewport", ed.Viewport)

	s.GET("/:id/document", ed.GetDocument)
	s.PUT("/:id/document", ed.PutDocument)
	s.GET("/:id/preview.svg", ed.PreviewSVG)
	s.POST("/:id/commit", ed.Commit)

	// ---- Shows ----
	g.POST("/shows", shows.CreateShow)
	g.GET("/shows/:id", shows.GetShow)
	g.PUT("/shows/:id/seatmap", shows.UpdateSeatmap)
}
