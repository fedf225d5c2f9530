package model

// Show status values. A show is created PENDING and a reviewer moves it to
// APPROVED or REJECTED.
const (
	ShowPending  = "PENDING"
	ShowApproved = "APPROVED"
	ShowRejected = "REJECTED"
)

// Show is one performance of an event together with its seatmap. Seatmap
// holds the canvas document JSON verbatim; the API never re-encodes it.
//
// CreatedAt and UpdatedAt are DB timestamps ("2006-01-02 15:04:05", UTC).
type Show struct {
	ID          string       `json:"id"`
	EventID     string       `json:"event_id"`
	OwnerID     string       `json:"owner_id"`
	Name        string       `json:"name"`
	Status      string       `json:"status"`
	Seatmap     string       `json:"seatmap"`
	TicketTypes []TicketType `json:"ticket_types,omitempty"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// TicketType is a persisted ticket type of a show. TempID is the id the
// authoring client used; seatmap TICKET zones reference it.
type TicketType struct {
	ID           string `json:"id"`
	ShowID       string `json:"show_id"`
	TempID       string `json:"temp_id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price_cents"`
	InitialStock int    `json:"initial_stock"`
	Description  string `json:"description,omitempty"`
}
