package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-console/internal/editor"
	"github.com/iliyamo/seatmap-console/internal/model"
	"github.com/iliyamo/seatmap-console/internal/repository"
	"github.com/iliyamo/seatmap-console/internal/seatmap"
)

var errUnauthorized = errors.New("unauthorized")

// getUserID extracts the user id JWTAuth stored in the context.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errUnauthorized
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

// statusFor maps domain errors to HTTP statuses. Validation and invariant
// failures are 422 so clients can show the attached toasts.
func statusFor(err error) int {
	switch {
	case errors.Is(err, seatmap.ErrAreaTypeRequired),
		errors.Is(err, seatmap.ErrTicketTypeRequired),
		errors.Is(err, seatmap.ErrUnknownTicketType),
		errors.Is(err, seatmap.ErrWrongAreaType),
		errors.Is(err, seatmap.ErrInvalidStyle),
		errors.Is(err, seatmap.ErrDuplicateTicketZone),
		errors.Is(err, seatmap.ErrTicketZoneDuplicate),
		errors.Is(err, errDanglingTicketZone):
		return http.StatusUnprocessableEntity
	case errors.Is(err, seatmap.ErrMalformedDocument),
		errors.Is(err, seatmap.ErrInvalidScale),
		errors.Is(err, seatmap.ErrInvalidViewport),
		errors.Is(err, seatmap.ErrUnknownTemplate),
		errors.Is(err, errInvalidTicketTypes),
		errors.Is(err, errNoShowDetails):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrSessionNotFound),
		errors.Is(err, seatmap.ErrObjectNotFound),
		errors.Is(err, repository.ErrShowNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrForbidden),
		errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, seatmap.ErrNoActiveObject),
		errors.Is(err, seatmap.ErrDialogClosed),
		errors.Is(err, editor.ErrNoDialog),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err with its mapped status. 5xx bodies do not leak the cause.
func fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("request failed: %v", err)
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// failWithState is fail for editor operations: the session state and the
// toasts raised by the rejected operation travel with the error.
func failWithState(c echo.Context, st editor.State, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError || st.ID == "" {
		return fail(c, err)
	}
	toasts := st.Toasts
	if toasts == nil {
		toasts = []seatmap.Toast{}
	}
	return c.JSON(status, map[string]any{
		"error":  err.Error(),
		"toasts": toasts,
		"state":  st,
	})
}

var (
	errInvalidTicketTypes = errors.New("invalid ticket types")
	errDanglingTicketZone = errors.New("ticket zone references an unknown ticket type")
	errNoShowDetails      = errors.New("event_id and name are required to create a show")
)

// cleanTicketTypes trims and validates client ticket types.
func cleanTicketTypes(in []seatmap.TicketTypeDraft) ([]seatmap.TicketTypeDraft, error) {
	seen := make(map[string]bool, len(in))
	out := make([]seatmap.TicketTypeDraft, 0, len(in))
	for i, tt := range in {
		tt.TempID = strings.TrimSpace(tt.TempID)
		tt.Name = strings.TrimSpace(tt.Name)
		tt.Description = strings.TrimSpace(tt.Description)
		switch {
		case tt.TempID == "":
			return nil, fmt.Errorf("%w: [%d] temp_id is required", errInvalidTicketTypes, i)
		case seen[tt.TempID]:
			return nil, fmt.Errorf("%w: [%d] duplicate temp_id %q", errInvalidTicketTypes, i, tt.TempID)
		case tt.Name == "":
			return nil, fmt.Errorf("%w: [%d] name is required", errInvalidTicketTypes, i)
		case tt.Price < 0 || math.IsNaN(tt.Price) || math.IsInf(tt.Price, 0):
			return nil, fmt.Errorf("%w: [%d] price must be a non-negative number", errInvalidTicketTypes, i)
		case tt.InitialStock < 0:
			return nil, fmt.Errorf("%w: [%d] initial_stock must not be negative", errInvalidTicketTypes, i)
		}
		seen[tt.TempID] = true
		out = append(out, tt)
	}
	return out, nil
}

// checkTicketZones rejects a document whose ticket zones reference ids
// outside list.
func checkTicketZones(doc *seatmap.Document, list []seatmap.TicketTypeDraft) error {
	known := make(map[string]bool, len(list))
	for _, tt := range list {
		known[tt.TempID] = true
	}
	for _, id := range doc.TicketTypeIDs() {
		if !known[id] {
			return fmt.Errorf("%w: %s", errDanglingTicketZone, id)
		}
	}
	return nil
}

// Prices are stored in cents.
func ticketTypesFromDrafts(in []seatmap.TicketTypeDraft) []model.TicketType {
	out := make([]model.TicketType, 0, len(in))
	for _, d := range in {
		out = append(out, model.TicketType{
			TempID:       d.TempID,
			Name:         d.Name,
			PriceCents:   int64(math.Round(d.Price * 100)),
			InitialStock: d.InitialStock,
			Description:  d.Description,
		})
	}
	return out
}

func draftsFromTicketTypes(in []model.TicketType) []seatmap.TicketTypeDraft {
	out := make([]seatmap.TicketTypeDraft, 0, len(in))
	for _, tt := range in {
		out = append(out, seatmap.TicketTypeDraft{
			TempID:       tt.TempID,
			Name:         tt.Name,
			Price:        float64(tt.PriceCents) / 100,
			InitialStock: tt.InitialStock,
			Description:  tt.Description,
		})
	}
	return out
}
