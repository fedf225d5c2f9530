// Package queue defines the seatmap event payloads exchanged over RabbitMQ
// and the audit consumer that records them.
package queue

// SeatmapSubmittedQueue is the durable queue seatmap events are routed to.
const SeatmapSubmittedQueue = "seatmap.submitted"

// SeatmapSubmittedEvent is published whenever a show's seatmap is created
// or replaced and waits for review. It carries enough for a consumer to log
// or notify reviewers without querying the database.
type SeatmapSubmittedEvent struct {
	ShowID          string   `json:"show_id"`
	EventID         string   `json:"event_id"`
	OwnerID         string   `json:"owner_id"`
	ShowName        string   `json:"show_name"`
	ZoneCount       int      `json:"zone_count"`
	TicketZoneCount int      `json:"ticket_zone_count"`
	TicketTypeIDs   []string `json:"ticket_type_ids,omitempty"`
	Source          string   `json:"source"` // "create", "update" or "session"
	SubmittedAt     string   `json:"submitted_at"`
}
