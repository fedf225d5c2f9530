package seatmap

import "fmt"

// AreaType classifies a placed zone.
type AreaType string

const (
	AreaStage  AreaType = "STAGE"
	AreaFOH    AreaType = "FOH"
	AreaCustom AreaType = "CUSTOM"
	AreaTicket AreaType = "TICKET"
)

// ParseAreaType validates s. The empty string is rejected.
func ParseAreaType(s string) (AreaType, error) {
	switch t := AreaType(s); t {
	case AreaStage, AreaFOH, AreaCustom, AreaTicket:
		return t, nil
	}
	return "", fmt.Errorf("unknown area type %q", s)
}

// Area is the classification attached to a placed group. The fields are
// unexported so a custom label can only exist on a CUSTOM area and a ticket
// type binding only on a TICKET area. The zero value means "not classified".
type Area struct {
	kind         AreaType
	customLabel  string
	ticketTypeID string
}

// StageArea returns a STAGE classification.
func StageArea() Area { return Area{kind: AreaStage} }

// FOHArea returns a front-of-house classification.
func FOHArea() Area { return Area{kind: AreaFOH} }

// CustomArea returns a CUSTOM classification with a free-text label.
func CustomArea(label string) Area { return Area{kind: AreaCustom, customLabel: label} }

// TicketArea binds the area to a TicketTypeDraft by its temp id.
func TicketArea(ticketTypeID string) Area { return Area{kind: AreaTicket, ticketTypeID: ticketTypeID} }

// Type returns the classification, or "" for an unclassified area.
func (a Area) Type() AreaType { return a.kind }

// IsZero reports whether the area has not been classified.
func (a Area) IsZero() bool { return a.kind == "" }

// CustomLabel returns the operator label of a CUSTOM area.
func (a Area) CustomLabel() (string, bool) {
	return a.customLabel, a.kind == AreaCustom
}

// TicketTypeID returns the bound ticket type of a TICKET area.
func (a Area) TicketTypeID() (string, bool) {
	return a.ticketTypeID, a.kind == AreaTicket
}

func (a Area) bindsTicket(id string) bool {
	return a.kind == AreaTicket && a.ticketTypeID == id
}

// newArea rebuilds an Area from its serialised fields and rejects field
// combinations that the constructors cannot produce.
func newArea(kind, customLabel, ticketTypeID string) (Area, error) {
	if kind == "" {
		if customLabel != "" || ticketTypeID != "" {
			return Area{}, fmt.Errorf("unclassified area carries custom fields")
		}
		return Area{}, nil
	}
	t, err := ParseAreaType(kind)
	if err != nil {
		return Area{}, err
	}
	if t != AreaTicket && ticketTypeID != "" {
		return Area{}, fmt.Errorf("%s area carries a ticket type", t)
	}
	if t != AreaCustom && customLabel != "" {
		return Area{}, fmt.Errorf("%s area carries a custom label", t)
	}
	switch t {
	case AreaStage:
		return StageArea(), nil
	case AreaFOH:
		return FOHArea(), nil
	case AreaCustom:
		return CustomArea(customLabel), nil
	default:
		if ticketTypeID == "" {
			return Area{}, fmt.Errorf("TICKET area without ticket type")
		}
		return TicketArea(ticketTypeID), nil
	}
}

// TicketTypeDraft is an unsaved ticket type of the show being authored. The
// canvas only reads TempID and Name.
type TicketTypeDraft struct {
	TempID       string  `json:"temp_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	InitialStock int     `json:"initial_stock"`
	Description  string  `json:"description,omitempty"`
}

func findTicketType(list []TicketTypeDraft, id string) (TicketTypeDraft, bool) {
	for _, tt := range list {
		if tt.TempID == id {
			return tt, true
		}
	}
	return TicketTypeDraft{}, false
}

func copyTicketTypes(list []TicketTypeDraft) []TicketTypeDraft {
	if list == nil {
		return nil
	}
	out := make([]TicketTypeDraft, len(list))
	copy(out, list)
	return out
}
