package seatmap

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// DocumentVersion is written into every encoded document.
const DocumentVersion = "1"

const (
	objectTypeGroup   = "group"
	objectTypeTextbox = "textbox"
)

// Document is the serialisable snapshot of a canvas: its size and every
// placed group in z-order. It is embedded verbatim as the show's seatmap
// field.
type Document struct {
	Version string   `json:"version"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Objects []Object `json:"objects"`
}

// Object is one serialised group. Objects[0] is the primitive, Objects[1]
// the label. The custom fields carry the area classification.
type Object struct {
	Type         string  `json:"type"`
	Left         float64 `json:"left"`
	Top          float64 `json:"top"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	ScaleX       float64 `json:"scaleX"`
	ScaleY       float64 `json:"scaleY"`
	Objects      []Child `json:"objects"`
	InstanceID   string  `json:"instanceId"`
	ShapeID      string  `json:"shapeId"`
	AreaType     string  `json:"areaType,omitempty"`
	TicketTypeID string  `json:"ticketTypeId,omitempty"`
	CustomLabel  string  `json:"customLabel,omitempty"`
}

// Child is a serialised primitive or label.
type Child struct {
	Type        string  `json:"type"`
	Left        float64 `json:"left"`
	Top         float64 `json:"top"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	Points      []Point `json:"points,omitempty"`
	FlipX       bool    `json:"flipX,omitempty"`
	FlipY       bool    `json:"flipY,omitempty"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
	Text        string  `json:"text,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
}

// Encode marshals doc to JSON.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("encode: nil document")
	}
	return json.Marshal(doc)
}

// Decode parses and validates a document. Every failure wraps
// ErrMalformedDocument.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if _, _, err := doc.scene(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Canonical decodes data like Decode and re-serialises it from the rebuilt
// scene, so generated instance ids and defaulted scales are written back.
func Canonical(data []byte) (*Document, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	groups, areas, err := doc.scene()
	if err != nil {
		return nil, err
	}
	out := &Document{
		Version: DocumentVersion,
		Width:   doc.Width,
		Height:  doc.Height,
		Objects: make([]Object, 0, len(groups)),
	}
	for _, g := range groups {
		out.Objects = append(out.Objects, ObjectFromGroup(g, areas[g.InstanceID]))
	}
	return out, nil
}

// ObjectFromGroup serialises one group with its classification.
func ObjectFromGroup(g *SceneGroup, area Area) Object {
	sx, sy := g.scale()
	obj := Object{
		Type:       objectTypeGroup,
		Left:       g.Left,
		Top:        g.Top,
		Width:      g.Width,
		Height:     g.Height,
		ScaleX:     sx,
		ScaleY:     sy,
		InstanceID: g.InstanceID,
		ShapeID:    g.TemplateID,
		AreaType:   string(area.Type()),
	}
	if id, ok := area.TicketTypeID(); ok {
		obj.TicketTypeID = id
	}
	if label, ok := area.CustomLabel(); ok {
		obj.CustomLabel = label
	}

	p := g.Primitive
	var points []Point
	if p.Points != nil {
		points = make([]Point, len(p.Points))
		copy(points, p.Points)
	}
	l := g.Label
	obj.Objects = []Child{
		{
			Type:        string(p.Kind),
			Left:        p.Left,
			Top:         p.Top,
			Width:       p.Width,
			Height:      p.Height,
			Radius:      p.Radius,
			Points:      points,
			FlipX:       p.FlipX,
			FlipY:       p.FlipY,
			Fill:        p.Fill,
			Stroke:      p.Stroke,
			StrokeWidth: p.StrokeWidth,
		},
		{
			Type:       objectTypeTextbox,
			Left:       l.Left,
			Top:        l.Top,
			Width:      l.Width,
			Height:     l.Height,
			Fill:       l.Fill,
			Text:       l.Text,
			FontSize:   l.FontSize,
			FontFamily: l.FontFamily,
		},
	}
	return obj
}

// group rebuilds a SceneGroup and its classification from obj.
func (obj Object) group() (*SceneGroup, Area, error) {
	if obj.Type != objectTypeGroup {
		return nil, Area{}, fmt.Errorf("object type %q is not a group", obj.Type)
	}
	if len(obj.Objects) != 2 {
		return nil, Area{}, fmt.Errorf("group has %d children, want 2", len(obj.Objects))
	}
	area, err := newArea(obj.AreaType, obj.CustomLabel, obj.TicketTypeID)
	if err != nil {
		return nil, Area{}, err
	}

	pc, lc := obj.Objects[0], obj.Objects[1]
	switch PrimitiveKind(pc.Type) {
	case KindRect, KindTriangle, KindCircle:
	case KindPolygon:
		if len(pc.Points) < 3 {
			return nil, Area{}, fmt.Errorf("polygon has %d points", len(pc.Points))
		}
	default:
		return nil, Area{}, fmt.Errorf("unknown primitive %q", pc.Type)
	}
	if lc.Type != objectTypeTextbox {
		return nil, Area{}, fmt.Errorf("label child has type %q", lc.Type)
	}
	if obj.InstanceID != "" && !instanceID.MatchString(obj.InstanceID) {
		return nil, Area{}, fmt.Errorf("instance id %q", obj.InstanceID)
	}
	for _, c := range []struct{ field, v string }{
		{"fill", pc.Fill}, {"stroke", pc.Stroke}, {"label fill", lc.Fill},
	} {
		if err := checkColour(c.field, c.v); err != nil {
			return nil, Area{}, err
		}
	}
	if !ValidFontFamily(lc.FontFamily) {
		return nil, Area{}, fmt.Errorf("%w: font family %q", ErrInvalidStyle, lc.FontFamily)
	}

	var points []Point
	if pc.Points != nil {
		points = make([]Point, len(pc.Points))
		copy(points, pc.Points)
	}
	g := &SceneGroup{
		InstanceID: obj.InstanceID,
		TemplateID: obj.ShapeID,
		Left:       obj.Left,
		Top:        obj.Top,
		Width:      obj.Width,
		Height:     obj.Height,
		ScaleX:     obj.ScaleX,
		ScaleY:     obj.ScaleY,
		Primitive: Primitive{
			Kind:        PrimitiveKind(pc.Type),
			Left:        pc.Left,
			Top:         pc.Top,
			Width:       pc.Width,
			Height:      pc.Height,
			Radius:      pc.Radius,
			Points:      points,
			FlipX:       pc.FlipX,
			FlipY:       pc.FlipY,
			Fill:        pc.Fill,
			Stroke:      pc.Stroke,
			StrokeWidth: pc.StrokeWidth,
		},
		Label: Label{
			Text:       lc.Text,
			Left:       lc.Left,
			Top:        lc.Top,
			Width:      lc.Width,
			Height:     lc.Height,
			FontSize:   lc.FontSize,
			FontFamily: lc.FontFamily,
			Fill:       lc.Fill,
		},
	}
	if g.ScaleX == 0 {
		g.ScaleX = 1
	}
	if g.ScaleY == 0 {
		g.ScaleY = 1
	}
	if g.InstanceID == "" {
		g.InstanceID = uuid.NewString()
	}
	return g, area, nil
}

// scene validates the whole document and rebuilds its groups. Duplicate
// instance ids and two zones bound to one ticket type are rejected.
func (doc *Document) scene() ([]*SceneGroup, map[string]Area, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("%w: nil document", ErrMalformedDocument)
	}
	if doc.Width < 0 || doc.Height < 0 {
		return nil, nil, fmt.Errorf("%w: negative dimensions", ErrMalformedDocument)
	}
	if doc.Width > MaxDimension || doc.Height > MaxDimension {
		return nil, nil, fmt.Errorf("%w: dimensions above %s", ErrMalformedDocument, num(MaxDimension))
	}

	groups := make([]*SceneGroup, 0, len(doc.Objects))
	areas := make(map[string]Area, len(doc.Objects))
	tickets := make(map[string]bool)

	for i, obj := range doc.Objects {
		g, area, err := obj.group()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: object %d: %v", ErrMalformedDocument, i, err)
		}
		if _, dup := areas[g.InstanceID]; dup {
			return nil, nil, fmt.Errorf("%w: object %d: duplicate instance id %s", ErrMalformedDocument, i, g.InstanceID)
		}
		if id, ok := area.TicketTypeID(); ok {
			if tickets[id] {
				return nil, nil, fmt.Errorf("%w: object %d: %v", ErrMalformedDocument, i, ErrDuplicateTicketZone)
			}
			tickets[id] = true
		}
		groups = append(groups, g)
		areas[g.InstanceID] = area
	}
	return groups, areas, nil
}

// TicketTypeIDs lists the ticket types bound by TICKET zones, in z-order.
func (doc *Document) TicketTypeIDs() []string {
	var out []string
	for _, obj := range doc.Objects {
		if obj.AreaType == string(AreaTicket) && obj.TicketTypeID != "" {
			out = append(out, obj.TicketTypeID)
		}
	}
	return out
}
