package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-console/internal/editor"
	"github.com/iliyamo/seatmap-console/internal/model"
	"github.com/iliyamo/seatmap-console/internal/seatmap"
)

// EditorHandler serves the interactive seatmap editor. Each session is
// owned by the organizer who opened it.
type EditorHandler struct {
	Registry *editor.Registry
	Shows    *ShowHandler
}

// NewEditorHandler wires an EditorHandler.
func NewEditorHandler(reg *editor.Registry, shows *ShowHandler) *EditorHandler {
	return &EditorHandler{Registry: reg, Shows: shows}
}

// do runs fn on the session named by :id and writes the resulting state.
func (h *EditorHandler) do(c echo.Context, fn func(*editor.Session) error) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	st, err := h.Registry.Do(c.Request().Context(), c.Param("id"), uid, fn)
	if err != nil {
		return failWithState(c, st, err)
	}
	return c.JSON(http.StatusOK, st)
}

type shapeView struct {
	seatmap.ShapeTemplate
	Preview seatmap.Object `json:"preview"`
}

func shapeViews(list []seatmap.ShapeTemplate) []shapeView {
	out := make([]shapeView, 0, len(list))
	for _, tpl := range list {
		out = append(out, shapeView{
			ShapeTemplate: tpl,
			Preview:       seatmap.ObjectFromGroup(tpl.Build(), seatmap.Area{}),
		})
	}
	return out
}

// ListShapes handles GET /v1/seatmap/shapes.
func (h *EditorHandler) ListShapes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"basic":  shapeViews(seatmap.BasicShapes()),
		"custom": shapeViews(seatmap.CustomShapes()),
	})
}

// CreateSession handles POST /v1/seatmap/sessions. With show_id the session
// starts from that show's seatmap and ticket types.
func (h *EditorHandler) CreateSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req struct {
		Width       float64                   `json:"width"`
		Height      float64                   `json:"height"`
		ShowID      string                    `json:"show_id"`
		TicketTypes []seatmap.TicketTypeDraft `json:"ticket_types"`
		Seatmap     json.RawMessage           `json:"seatmap"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Width < 0 || req.Height < 0 {
		return fail(c, seatmap.ErrInvalidViewport)
	}
	text, err := seatmapText(req.Seatmap)
	if err != nil {
		return fail(c, err)
	}

	ctx := c.Request().Context()
	p := editor.CreateParams{OwnerID: uid, Width: req.Width, Height: req.Height, Seatmap: text}
	if id := strings.TrimSpace(req.ShowID); id != "" {
		show, err := h.Shows.Shows.GetByIDAndOwner(ctx, id, uid)
		if err != nil {
			return fail(c, err)
		}
		p.ShowID = show.ID
		p.TicketTypes = draftsFromTicketTypes(show.TicketTypes)
		if p.Seatmap == "" {
			p.Seatmap = show.Seatmap
		}
	} else if p.TicketTypes, err = cleanTicketTypes(req.TicketTypes); err != nil {
		return fail(c, err)
	}

	st, err := h.Registry.Create(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, st)
}

// GetSession handles GET /v1/seatmap/sessions/:id.
func (h *EditorHandler) GetSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	st, err := h.Registry.Get(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// CloseSession handles DELETE /v1/seatmap/sessions/:id.
func (h *EditorHandler) CloseSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.Registry.Close(c.Request().Context(), c.Param("id"), uid); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// OpenDialog handles POST /v1/seatmap/sessions/:id/dialog.
func (h *EditorHandler) OpenDialog(c echo.Context) error {
	var req struct {
		TemplateID string `json:"template_id"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.TemplateID) == "" {
		return badRequest(c, "template_id is required")
	}
	return h.do(c, func(s *editor.Session) error {
		return s.OpenDialog(strings.TrimSpace(req.TemplateID))
	})
}

// UpdateDialog handles PATCH /v1/seatmap/sessions/:id/dialog. Fields are
// applied in order: area type, label, ticket type, then style.
func (h *EditorHandler) UpdateDialog(c echo.Context) error {
	var req struct {
		AreaType     *string             `json:"area_type"`
		CustomLabel  *string             `json:"custom_label"`
		TicketTypeID *string             `json:"ticket_type_id"`
		Style        *seatmap.StylePatch `json:"style"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	var areaType seatmap.AreaType
	if req.AreaType != nil {
		t, err := seatmap.ParseAreaType(*req.AreaType)
		if err != nil {
			return badRequest(c, err.Error())
		}
		areaType = t
	}
	// a bad colour rejects the whole update before anything is applied
	if req.Style != nil {
		if err := req.Style.Validate(); err != nil {
			return fail(c, err)
		}
	}
	return h.do(c, func(s *editor.Session) error {
		d, err := s.ActiveDialog()
		if err != nil {
			return err
		}
		if req.AreaType != nil {
			if err := d.SelectAreaType(areaType); err != nil {
				return err
			}
		}
		if req.CustomLabel != nil {
			if err := d.SetCustomLabel(*req.CustomLabel); err != nil {
				return err
			}
		}
		if req.TicketTypeID != nil {
			if err := d.SelectTicketType(*req.TicketTypeID); err != nil {
				return err
			}
		}
		if req.Style != nil {
			return d.ApplyStyle(*req.Style)
		}
		return nil
	})
}

// SubmitDialog handles POST /v1/seatmap/sessions/:id/dialog/submit.
func (h *EditorHandler) SubmitDialog(c echo.Context) error {
	return h.do(c, func(s *editor.Session) error {
		_, err := s.SubmitDialog()
		return err
	})
}

// CancelDialog handles DELETE /v1/seatmap/sessions/:id/dialog.
func (h *EditorHandler) CancelDialog(c echo.Context) error {
	return h.do(c, func(s *editor.Session) error {
		s.CloseDialog()
		return nil
	})
}

// Select handles POST /v1/seatmap/sessions/:id/select. An empty id list
// clears the selection.
func (h *EditorHandler) Select(c echo.Context) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.do(c, func(s *editor.Session) error {
		if len(req.IDs) == 0 {
			s.Canvas().ClearSelection()
			return nil
		}
		return s.Canvas().Select(req.IDs...)
	})
}

// Drag handles POST /v1/seatmap/sessions/:id/drag.
func (h *EditorHandler) Drag(c echo.Context) error {
	var req struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.do(c, func(s *editor.Session) error {
		return s.Canvas().Drag(req.DX, req.DY)
	})
}

// Move handles POST /v1/seatmap/sessions/:id/move.
func (h *EditorHandler) Move(c echo.Context) error {
	var req struct {
		Left *float64 `json:"left"`
		Top  *float64 `json:"top"`
	}
	if err := c.Bind(&req); err != nil || req.Left == nil || req.Top == nil {
		return badRequest(c, "left and top are required")
	}
	return h.do(c, func(s *editor.Session) error {
		return s.Canvas().MoveTo(*req.Left, *req.Top)
	})
}

// Scale handles POST /v1/seatmap/sessions/:id/scale.
func (h *EditorHandler) Scale(c echo.Context) error {
	var req struct {
		ScaleX float64 `json:"scale_x"`
		ScaleY float64 `json:"scale_y"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.do(c, func(s *editor.Session) error {
		return s.Canvas().Scale(req.ScaleX, req.ScaleY)
	})
}

// Duplicate handles POST /v1/seatmap/sessions/:id/duplicate.
func (h *EditorHandler) Duplicate(c echo.Context) error {
	return h.do(c, func(s *editor.Session) error {
		_, err := s.Canvas().Duplicate()
		return err
	})
}

// Delete handles POST /v1/seatmap/sessions/:id/delete.
func (h *EditorHandler) Delete(c echo.Context) error {
	return h.do(c, func(s *editor.Session) error {
		s.Canvas().Delete()
		return nil
	})
}

// Flip handles POST /v1/seatmap/sessions/:id/flip with axis "x" or "y".
func (h *EditorHandler) Flip(c echo.Context) error {
	var req struct {
		Axis string `json:"axis"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	var flip func(*seatmap.Canvas) error
	switch strings.ToLower(req.Axis) {
	case "x", "horizontal":
		flip = (*seatmap.Canvas).FlipHorizontal
	case "y", "vertical":
		flip = (*seatmap.Canvas).FlipVertical
	default:
		return badRequest(c, "axis must be x or y")
	}
	return h.do(c, func(s *editor.Session) error {
		return flip(s.Canvas())
	})
}

// Center handles POST /v1/seatmap/sessions/:id/center.
func (h *EditorHandler) Center(c echo.Context) error {
	return h.do(c, func(s *editor.Session) error {
		return s.Canvas().Center()
	})
}

// Grid handles POST /v1/seatmap/sessions/:id/grid. Without "enabled" the
// grid is toggled.
func (h *EditorHandler) Grid(c echo.Context) error {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.do(c, func(s *editor.Session) error {
		if req.Enabled == nil {
			s.Canvas().ToggleGrid()
		} else {
			s.Canvas().SetGrid(*req.Enabled)
		}
		return nil
	})
}

// SetTicketTypes handles PUT /v1/seatmap/sessions/:id/ticket-types. Zones
// bound to ticket types that disappeared are deleted and reported in
// "pruned".
func (h *EditorHandler) SetTicketTypes(c echo.Context) error {
	var req struct {
		TicketTypes []seatmap.TicketTypeDraft `json:"ticket_types"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	list, err := cleanTicketTypes(req.TicketTypes)
	if err != nil {
		return fail(c, err)
	}
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var pruned []string
	st, err := h.Registry.Do(c.Request().Context(), c.Param("id"), uid, func(s *editor.Session) error {
		pruned = s.SetTicketTypes(list)
		return nil
	})
	if err != nil {
		return failWithState(c, st, err)
	}
	st.Pruned = pruned
	return c.JSON(http.StatusOK, st)
}

// Viewport handles PUT /v1/seatmap/sessions/:id/viewport.
func (h *EditorHandler) Viewport(c echo.Context) error {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.do(c, func(s *editor.Session) error {
		return s.Canvas().Resize(req.Width, req.Height)
	})
}

// GetDocument handles GET /v1/seatmap/sessions/:id/document.
func (h *EditorHandler) GetDocument(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	st, err := h.Registry.Get(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st.Document)
}

// PutDocument handles PUT /v1/seatmap/sessions/:id/document. The body is
// the document itself; a malformed one leaves the canvas unchanged.
func (h *EditorHandler) PutDocument(c echo.Context) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(c.Request().Body); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.do(c, func(s *editor.Session) error {
		return s.Canvas().UnmarshalDocument(buf.Bytes())
	})
}

// PreviewSVG handles GET /v1/seatmap/sessions/:id/preview.svg.
func (h *EditorHandler) PreviewSVG(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	st, err := h.Registry.Get(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return fail(c, err)
	}
	opts := seatmap.RenderOptions{Grid: st.Grid}
	opts.Width, opts.Height = sizeQuery(c)
	return writeSVG(c, st.Document, opts)
}

// Commit handles POST /v1/seatmap/sessions/:id/commit. A session opened
// from a show updates that show; otherwise event_id and name are required
// and a new show is created. The session is closed afterwards.
func (h *EditorHandler) Commit(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req struct {
		EventID string `json:"event_id"`
		Name    string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx := c.Request().Context()
	var (
		doc    *seatmap.Document
		text   string
		list   []seatmap.TicketTypeDraft
		showID string
	)
	st, err := h.Registry.Do(ctx, c.Param("id"), uid, func(s *editor.Session) error {
		showID = s.ShowID
		list = s.Canvas().TicketTypes()
		doc = s.Canvas().Document()
		bs, err := seatmap.Encode(doc)
		if err != nil {
			return err
		}
		text = string(bs)
		if showID == "" && (strings.TrimSpace(req.EventID) == "" || strings.TrimSpace(req.Name) == "") {
			return errNoShowDetails
		}
		return checkTicketZones(doc, list)
	})
	if err != nil {
		return failWithState(c, st, err)
	}

	var (
		show   *model.Show
		status = http.StatusOK
	)
	if showID != "" {
		if show, err = h.Shows.Shows.GetByIDAndOwner(ctx, showID, uid); err == nil {
			if err = checkTicketZones(doc, draftsFromTicketTypes(show.TicketTypes)); err == nil {
				show, err = h.Shows.saveSeatmap(ctx, show, uid, text)
			}
		}
	} else {
		show, err = h.Shows.createShow(ctx, uid, strings.TrimSpace(req.EventID), strings.TrimSpace(req.Name), text, list)
		status = http.StatusCreated
	}
	if err != nil {
		return fail(c, err)
	}
	h.Shows.announce(ctx, show, "session", doc)

	if err := h.Registry.Close(ctx, st.ID, uid); err != nil {
		c.Logger().Warnf("close session %s after commit: %v", st.ID, err)
	}
	return c.JSON(status, show)
}

// sizeQuery reads optional width/height query parameters. Invalid values
// count as absent; large ones are capped at seatmap.MaxDimension.
func sizeQuery(c echo.Context) (float64, float64) {
	parse := func(name string) float64 {
		v, err := strconv.ParseFloat(c.QueryParam(name), 64)
		if err != nil || !(v > 0) {
			return 0
		}
		return min(v, seatmap.MaxDimension)
	}
	return parse("width"), parse("height")
}

func writeSVG(c echo.Context, doc *seatmap.Document, opts seatmap.RenderOptions) error {
	var buf bytes.Buffer
	if err := seatmap.Render(&buf, doc, opts); err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
}
