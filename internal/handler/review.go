package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-console/internal/model"
	"github.com/iliyamo/seatmap-console/internal/seatmap"
)

// ReviewHandler serves the read-only reviewer endpoints.
type ReviewHandler struct {
	Shows ShowStore
	// Fallback size when neither the query nor the document gives one.
	Width, Height float64
}

// SeatmapSVG handles GET /v1/review/shows/:id/seatmap.svg. A seatmap that
// fails to load renders as a blank canvas rather than an error.
func (h *ReviewHandler) SeatmapSVG(c echo.Context) error {
	show, err := h.Shows.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	v := seatmap.NewViewer(sizeQuery(c))
	_ = v.Load(show.Seatmap) // logged by the viewer

	var buf bytes.Buffer
	err = v.RenderSVG(&buf)
	if errors.Is(err, seatmap.ErrInvalidViewport) {
		buf.Reset()
		v.Resize(h.Width, h.Height)
		err = v.RenderSVG(&buf)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// Decide handles POST /v1/review/shows/:id/decision.
func (h *ReviewHandler) Decide(c echo.Context) error {
	var req struct {
		Approve *bool `json:"approve"`
	}
	if err := c.Bind(&req); err != nil || req.Approve == nil {
		return badRequest(c, "approve is required")
	}
	status := model.ShowRejected
	if *req.Approve {
		status = model.ShowApproved
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.Shows.SetStatus(ctx, id, status); err != nil {
		return fail(c, err)
	}
	show, err := h.Shows.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, show)
}
