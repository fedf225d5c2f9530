package seatmap

import "errors"

// Validation errors. The dialog stays open and nothing is committed.
var (
	ErrAreaTypeRequired   = errors.New("select an area type")
	ErrTicketTypeRequired = errors.New("select a ticket type")
	ErrUnknownTicketType  = errors.New("unknown ticket type")
	ErrWrongAreaType      = errors.New("field does not apply to the selected area type")
	ErrDialogClosed       = errors.New("dialog is closed")
	ErrInvalidStyle       = errors.New("invalid colour or font")
)

// Invariant violations. The canvas is left untouched.
var (
	ErrDuplicateTicketZone = errors.New("zone already exists for this ticket type")
	// ErrTicketZoneDuplicate rejects duplicating a TICKET zone, since the copy
	// would bind the same ticket type twice.
	ErrTicketZoneDuplicate = errors.New("cannot duplicate a ticket-type zone")
)

// Canvas operation errors.
var (
	ErrNoActiveObject  = errors.New("no active object")
	ErrObjectNotFound  = errors.New("object not found")
	ErrInvalidViewport = errors.New("viewport dimensions out of range")
	ErrInvalidScale    = errors.New("scale factors must be positive")
	ErrUnknownTemplate = errors.New("unknown shape template")
)

// ErrMalformedDocument wraps every decode or validation failure of a
// serialised canvas.
var ErrMalformedDocument = errors.New("malformed seatmap document")
