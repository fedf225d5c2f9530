package seatmap

// DialogState is the lifecycle of one authoring session.
type DialogState int

const (
	DialogOpen DialogState = iota
	DialogSubmitted
	DialogCancelled
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	case DialogSubmitted:
		return "submitted"
	case DialogCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Dialog turns one template into a configured group before it reaches the
// canvas. It owns a private preview group; nothing it does touches a canvas.
type Dialog struct {
	template     ShapeTemplate
	ticketTypes  []TicketTypeDraft
	preview      *SceneGroup
	areaType     AreaType
	customLabel  string
	ticketTypeID string
	state        DialogState
	notifier     Notifier
}

// OpenDialog builds a live preview from tpl. ticketTypes backs the TICKET
// option; it is copied.
func OpenDialog(tpl ShapeTemplate, ticketTypes []TicketTypeDraft, notifier Notifier) *Dialog {
	return &Dialog{
		template:    tpl,
		ticketTypes: copyTicketTypes(ticketTypes),
		preview:     tpl.Build(),
		state:       DialogOpen,
		notifier:    notifierOrNop(notifier),
	}
}

// Template returns the template the dialog was opened with.
func (d *Dialog) Template() ShapeTemplate { return d.template }

// State returns the dialog lifecycle state.
func (d *Dialog) State() DialogState { return d.state }

// AreaType returns the selected classification, "" until one is chosen.
func (d *Dialog) AreaType() AreaType { return d.areaType }

// CustomLabel returns the label typed for a CUSTOM area.
func (d *Dialog) CustomLabel() string { return d.customLabel }

// TicketTypeID returns the ticket type chosen for a TICKET area.
func (d *Dialog) TicketTypeID() string { return d.ticketTypeID }

// Area returns the classification the dialog would commit right now.
func (d *Dialog) Area() Area {
	switch d.areaType {
	case AreaStage:
		return StageArea()
	case AreaFOH:
		return FOHArea()
	case AreaCustom:
		return CustomArea(d.customLabel)
	case AreaTicket:
		return TicketArea(d.ticketTypeID)
	}
	return Area{}
}

// Preview returns a copy of the live preview group.
func (d *Dialog) Preview() *SceneGroup { return d.preview.Clone() }

// SelectAreaType switches the classification and resets the preview the
// way each type requires.
func (d *Dialog) SelectAreaType(t AreaType) error {
	if d.state != DialogOpen {
		return ErrDialogClosed
	}
	if _, err := ParseAreaType(string(t)); err != nil {
		return err
	}

	d.areaType = t
	d.customLabel = ""
	d.ticketTypeID = ""

	switch t {
	case AreaStage:
		d.preview.SetLabelText("STAGE")
		d.preview.SetStyle(StagePalette)
	case AreaFOH:
		d.preview.SetLabelText("FOH")
		d.preview.SetStyle(FOHPalette)
	case AreaCustom, AreaTicket:
		d.preview.SetLabelText("")
	}
	return nil
}

// SetCustomLabel updates the free-text label of a CUSTOM area.
func (d *Dialog) SetCustomLabel(label string) error {
	if d.state != DialogOpen {
		return ErrDialogClosed
	}
	if d.areaType != AreaCustom {
		return ErrWrongAreaType
	}
	d.customLabel = label
	d.preview.SetLabelText(label)
	return nil
}

// SelectTicketType binds a TICKET area to one of the drafts. The preview
// label becomes the ticket type's name.
func (d *Dialog) SelectTicketType(tempID string) error {
	if d.state != DialogOpen {
		return ErrDialogClosed
	}
	if d.areaType != AreaTicket {
		return ErrWrongAreaType
	}
	tt, ok := findTicketType(d.ticketTypes, tempID)
	if !ok {
		d.notifier.Notify(SeverityWarning, ErrUnknownTicketType.Error())
		return ErrUnknownTicketType
	}
	d.ticketTypeID = tt.TempID
	d.preview.SetLabelText(tt.Name)
	return nil
}

// ApplyStyle live-applies operator overrides to the preview. An invalid
// colour rejects the whole patch and the preview is left as it was.
func (d *Dialog) ApplyStyle(p StylePatch) error {
	if d.state != DialogOpen {
		return ErrDialogClosed
	}
	if err := p.Validate(); err != nil {
		d.notifier.Notify(SeverityWarning, err.Error())
		return err
	}
	d.preview.SetStyle(d.preview.Style().Apply(p))
	return nil
}

// SetTicketTypes refreshes the options offered for TICKET areas. A binding
// to a draft that no longer exists is dropped; a renamed draft renames the
// preview label.
func (d *Dialog) SetTicketTypes(list []TicketTypeDraft) {
	d.ticketTypes = copyTicketTypes(list)
	if d.ticketTypeID == "" {
		return
	}
	tt, ok := findTicketType(d.ticketTypes, d.ticketTypeID)
	if !ok {
		d.ticketTypeID = ""
		d.preview.SetLabelText("")
		return
	}
	d.preview.SetLabelText(tt.Name)
}

// Submit validates the dialog and hands back a deep copy of the preview
// together with its classification. On a validation failure a warning is
// emitted and the dialog stays open.
func (d *Dialog) Submit() (*SceneGroup, Area, error) {
	if d.state != DialogOpen {
		return nil, Area{}, ErrDialogClosed
	}
	if d.areaType == "" {
		d.notifier.Notify(SeverityWarning, ErrAreaTypeRequired.Error())
		return nil, Area{}, ErrAreaTypeRequired
	}
	if d.areaType == AreaTicket && d.ticketTypeID == "" {
		d.notifier.Notify(SeverityWarning, ErrTicketTypeRequired.Error())
		return nil, Area{}, ErrTicketTypeRequired
	}

	out := d.preview.Clone()
	out.TemplateID = d.template.ID
	area := d.Area()

	d.state = DialogSubmitted
	d.preview = nil
	return out, area, nil
}

// Cancel discards the preview. It is always safe.
func (d *Dialog) Cancel() {
	if d.state != DialogOpen {
		return
	}
	d.state = DialogCancelled
	d.preview = nil
}
