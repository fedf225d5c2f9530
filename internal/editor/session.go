package editor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iliyamo/seatmap-console/internal/seatmap"
)

// Session is one organizer's live editor: a canvas, at most one open area
// dialog and the toasts raised since the last response. All methods must be
// called through Registry.Do, which holds the session lock.
type Session struct {
	ID      string
	OwnerID string
	ShowID  string

	mu      sync.Mutex
	canvas  *seatmap.Canvas
	dialog  *seatmap.Dialog
	toasts  *seatmap.Recorder
	closed  bool         // set by Registry.Close under mu
	touched atomic.Int64 // unix nanos
}

// newSession builds a session whose canvas accepts viewports up to lim.
func newSession(id, ownerID, showID string, width, height float64, lim limits) (*Session, error) {
	rec := &seatmap.Recorder{}
	canvas, err := seatmap.NewCanvas(width, height, rec)
	if err != nil {
		return nil, err
	}
	if err := canvas.SetMaxSize(lim.width, lim.height); err != nil {
		return nil, err
	}
	return &Session{
		ID:      id,
		OwnerID: ownerID,
		ShowID:  showID,
		canvas:  canvas,
		toasts:  rec,
	}, nil
}

func (s *Session) touch(now time.Time) { s.touched.Store(now.UnixNano()) }

func (s *Session) idleSince() time.Time { return time.Unix(0, s.touched.Load()) }

// Canvas returns the session's canvas controller.
func (s *Session) Canvas() *seatmap.Canvas { return s.canvas }

// Dialog returns the open dialog, or nil.
func (s *Session) Dialog() *seatmap.Dialog { return s.dialog }

// OpenDialog starts authoring an area from a catalog template. An already
// open dialog is cancelled first.
func (s *Session) OpenDialog(templateID string) error {
	tpl, ok := seatmap.LookupTemplate(templateID)
	if !ok {
		return fmt.Errorf("%w: %s", seatmap.ErrUnknownTemplate, templateID)
	}
	if s.dialog != nil {
		s.dialog.Cancel()
	}
	s.dialog = seatmap.OpenDialog(tpl, s.canvas.TicketTypes(), s.toasts)
	return nil
}

// ActiveDialog returns the open dialog or ErrNoDialog.
func (s *Session) ActiveDialog() (*seatmap.Dialog, error) {
	if s.dialog == nil {
		return nil, ErrNoDialog
	}
	return s.dialog, nil
}

// SubmitDialog validates the dialog and places its group on the canvas. A
// validation failure keeps the dialog open. Once submitted the dialog is
// closed even if the canvas then rejects the placement.
func (s *Session) SubmitDialog() (*seatmap.SceneGroup, error) {
	d, err := s.ActiveDialog()
	if err != nil {
		return nil, err
	}
	g, area, err := d.Submit()
	if err != nil {
		return nil, err
	}
	s.dialog = nil
	return s.canvas.Place(g, area)
}

// CloseDialog cancels the open dialog, if any.
func (s *Session) CloseDialog() {
	if s.dialog != nil {
		s.dialog.Cancel()
		s.dialog = nil
	}
}

// SetTicketTypes pushes a new upstream ticket type list to the canvas (which
// prunes orphaned zones) and to the open dialog.
func (s *Session) SetTicketTypes(list []seatmap.TicketTypeDraft) []string {
	pruned := s.canvas.SetTicketTypes(list)
	if s.dialog != nil {
		s.dialog.SetTicketTypes(list)
	}
	return pruned
}

// Notify raises a toast on behalf of the caller.
func (s *Session) Notify(sev seatmap.Severity, msg string) {
	s.toasts.Notify(sev, msg)
}

func (s *Session) draft(now time.Time) (Draft, error) {
	doc, err := s.canvas.MarshalDocument()
	if err != nil {
		return Draft{}, err
	}
	return Draft{
		SessionID:   s.ID,
		OwnerID:     s.OwnerID,
		ShowID:      s.ShowID,
		Document:    doc,
		TicketTypes: s.canvas.TicketTypes(),
		Grid:        s.canvas.GridEnabled(),
		SavedAt:     now.UTC(),
	}, nil
}

// DialogView is the client-facing state of an open dialog.
type DialogView struct {
	TemplateID   string           `json:"template_id"`
	State        string           `json:"state"`
	AreaType     seatmap.AreaType `json:"area_type,omitempty"`
	CustomLabel  string           `json:"custom_label,omitempty"`
	TicketTypeID string           `json:"ticket_type_id,omitempty"`
	Style        seatmap.Style    `json:"style"`
	Preview      seatmap.Object   `json:"preview"`
}

// State is the snapshot returned after every editor request.
type State struct {
	ID          string                    `json:"id"`
	ShowID      string                    `json:"show_id,omitempty"`
	Revision    uint64                    `json:"revision"`
	Placeholder bool                      `json:"placeholder"`
	Grid        bool                      `json:"grid"`
	Selection   []string                  `json:"selection"`
	TicketTypes []seatmap.TicketTypeDraft `json:"ticket_types"`
	Document    *seatmap.Document         `json:"document"`
	Dialog      *DialogView               `json:"dialog,omitempty"`
	Toasts      []seatmap.Toast           `json:"toasts,omitempty"`
	Pruned      []string                  `json:"pruned,omitempty"` // zones removed by a ticket type update
}

// snapshot captures the session state and drains pending toasts.
func (s *Session) snapshot() State {
	st := State{
		ID:          s.ID,
		ShowID:      s.ShowID,
		Revision:    s.canvas.Revision(),
		Placeholder: s.canvas.Placeholder(),
		Grid:        s.canvas.GridEnabled(),
		Selection:   s.canvas.Selection(),
		TicketTypes: s.canvas.TicketTypes(),
		Document:    s.canvas.Document(),
		Toasts:      s.toasts.Drain(),
	}
	if d := s.dialog; d != nil {
		p := d.Preview()
		st.Dialog = &DialogView{
			TemplateID:   d.Template().ID,
			State:        d.State().String(),
			AreaType:     d.AreaType(),
			CustomLabel:  d.CustomLabel(),
			TicketTypeID: d.TicketTypeID(),
			Style:        p.Style(),
			Preview:      seatmap.ObjectFromGroup(p, d.Area()),
		}
	}
	return st
}
