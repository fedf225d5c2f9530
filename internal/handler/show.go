package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-console/internal/middleware"
	"github.com/iliyamo/seatmap-console/internal/model"
	"github.com/iliyamo/seatmap-console/internal/seatmap"
	"github.com/iliyamo/seatmap-console/internal/service"
)

// ShowStore is the persistence the show and review handlers need.
// *repository.ShowRepo satisfies it.
type ShowStore interface {
	Create(ctx context.Context, s *model.Show) error
	GetByID(ctx context.Context, id string) (*model.Show, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Show, error)
	UpdateSeatmap(ctx context.Context, id, ownerID, seatmap string) error
	SetStatus(ctx context.Context, id, status string) error
}

// ShowHandler serves organizer show endpoints. Every seatmap write
// publishes a seatmap event and drops the cached review rendering.
type ShowHandler struct {
	Shows      ShowStore
	Publisher  service.SeatmapPublisher
	Invalidate middleware.CacheInvalidator
	Now        func() time.Time
}

// NewShowHandler wires a ShowHandler. A nil publisher or invalidator turns
// that side effect off.
func NewShowHandler(shows ShowStore, pub service.SeatmapPublisher, inv middleware.CacheInvalidator) *ShowHandler {
	if pub == nil {
		pub = service.NopPublisher{}
	}
	if inv == nil {
		inv = func(context.Context, ...string) {}
	}
	return &ShowHandler{Shows: shows, Publisher: pub, Invalidate: inv, Now: time.Now}
}

// ReviewSeatmapPath is the request path of a show's cached review rendering.
func ReviewSeatmapPath(showID string) string {
	return "/v1/review/shows/" + showID + "/seatmap.svg"
}

// seatmapText accepts a seatmap either as a JSON object or as a string
// holding one. An empty value yields "".
func seatmapText(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", nil
	}
	if strings.HasPrefix(s, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return "", seatmap.ErrMalformedDocument
		}
		return strings.TrimSpace(inner), nil
	}
	return s, nil
}

// normaliseSeatmap decodes text (or a blank document when text is empty)
// and checks its ticket zones against list. The returned string is the
// re-encoded document.
func normaliseSeatmap(text string, list []seatmap.TicketTypeDraft) (*seatmap.Document, string, error) {
	var doc *seatmap.Document
	if text == "" {
		doc = &seatmap.Document{Version: seatmap.DocumentVersion, Objects: []seatmap.Object{}}
	} else {
		var err error
		if doc, err = seatmap.Canonical([]byte(text)); err != nil {
			return nil, "", err
		}
	}
	if err := checkTicketZones(doc, list); err != nil {
		return nil, "", err
	}
	bs, err := seatmap.Encode(doc)
	if err != nil {
		return nil, "", err
	}
	return doc, string(bs), nil
}

// announce publishes the seatmap event for show and drops its cached
// rendering. Publishing failures are logged only.
func (h *ShowHandler) announce(ctx context.Context, show *model.Show, source string, doc *seatmap.Document) {
	h.Invalidate(ctx, ReviewSeatmapPath(show.ID))
	ev := service.NewSeatmapEvent(show.ID, show.EventID, show.OwnerID, show.Name, source, doc, h.Now())
	if err := h.Publisher.PublishSeatmapSubmitted(ctx, ev); err != nil {
		log.Printf("[seatmap] publish for show %s failed: %v", show.ID, err)
	}
}

// CreateShow handles POST /v1/shows.
func (h *ShowHandler) CreateShow(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req struct {
		EventID     string                    `json:"event_id"`
		Name        string                    `json:"name"`
		TicketTypes []seatmap.TicketTypeDraft `json:"ticket_types"`
		Seatmap     json.RawMessage           `json:"seatmap"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.EventID = strings.TrimSpace(req.EventID)
	req.Name = strings.TrimSpace(req.Name)
	if req.EventID == "" || req.Name == "" {
		return badRequest(c, "event_id and name are required")
	}
	list, err := cleanTicketTypes(req.TicketTypes)
	if err != nil {
		return fail(c, err)
	}
	text, err := seatmapText(req.Seatmap)
	if err != nil {
		return fail(c, err)
	}
	doc, text, err := normaliseSeatmap(text, list)
	if err != nil {
		return fail(c, err)
	}

	ctx := c.Request().Context()
	show, err := h.createShow(ctx, uid, req.EventID, req.Name, text, list)
	if err != nil {
		return fail(c, err)
	}
	h.announce(ctx, show, "create", doc)
	return c.JSON(http.StatusCreated, show)
}

func (h *ShowHandler) createShow(ctx context.Context, ownerID, eventID, name, text string, list []seatmap.TicketTypeDraft) (*model.Show, error) {
	show := &model.Show{
		EventID:     eventID,
		OwnerID:     ownerID,
		Name:        name,
		Seatmap:     text,
		TicketTypes: ticketTypesFromDrafts(list),
	}
	if err := h.Shows.Create(ctx, show); err != nil {
		return nil, err
	}
	return show, nil
}

// GetShow handles GET /v1/shows/:id for the owner.
func (h *ShowHandler) GetShow(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	show, err := h.Shows.GetByIDAndOwner(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, show)
}

// UpdateSeatmap handles PUT /v1/shows/:id/seatmap. The seatmap may only
// reference the show's persisted ticket types.
func (h *ShowHandler) UpdateSeatmap(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req struct {
		Seatmap json.RawMessage `json:"seatmap"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx := c.Request().Context()
	show, err := h.Shows.GetByIDAndOwner(ctx, c.Param("id"), uid)
	if err != nil {
		return fail(c, err)
	}
	text, err := seatmapText(req.Seatmap)
	if err != nil {
		return fail(c, err)
	}
	doc, text, err := normaliseSeatmap(text, draftsFromTicketTypes(show.TicketTypes))
	if err != nil {
		return fail(c, err)
	}
	if show, err = h.saveSeatmap(ctx, show, uid, text); err != nil {
		return fail(c, err)
	}
	h.announce(ctx, show, "update", doc)
	return c.JSON(http.StatusOK, show)
}

func (h *ShowHandler) saveSeatmap(ctx context.Context, show *model.Show, ownerID, text string) (*model.Show, error) {
	if err := h.Shows.UpdateSeatmap(ctx, show.ID, ownerID, text); err != nil {
		return nil, err
	}
	updated, err := h.Shows.GetByID(ctx, show.ID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
