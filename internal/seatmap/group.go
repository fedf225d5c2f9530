package seatmap

import "github.com/google/uuid"

// PrimitiveKind names the geometric shape of a group's primitive child.
type PrimitiveKind string

const (
	KindRect     PrimitiveKind = "rect"
	KindTriangle PrimitiveKind = "triangle"
	KindCircle   PrimitiveKind = "circle"
	KindPolygon  PrimitiveKind = "polygon"
)

const (
	labelLineHeight = 1.16
	labelFont       = "Arial"
	duplicateOffset = 20.0
)

// Primitive is the filled/stroked shape of a group. Left/Top/Width/Height
// describe its box relative to the group centre.
type Primitive struct {
	Kind        PrimitiveKind
	Left        float64
	Top         float64
	Width       float64
	Height      float64
	Radius      float64 // circles only
	Points      []Point // polygons only, relative to the box's top-left
	FlipX       bool
	FlipY       bool
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Box returns the primitive's box in group-centre coordinates.
func (p Primitive) Box() Rect {
	return Rect{Left: p.Left, Top: p.Top, Width: p.Width, Height: p.Height}
}

// Label is the editable text box of a group, positioned relative to the
// group centre.
type Label struct {
	Text       string
	Left       float64
	Top        float64
	Width      float64
	Height     float64
	FontSize   float64
	FontFamily string
	Fill       string
}

// Box returns the label's box in group-centre coordinates.
func (l Label) Box() Rect {
	return Rect{Left: l.Left, Top: l.Top, Width: l.Width, Height: l.Height}
}

// SceneGroup is a placed (or about to be placed) area: one primitive and one
// label. Left and Top are the absolute top-left of the group on the canvas.
type SceneGroup struct {
	InstanceID string
	TemplateID string
	Left       float64
	Top        float64
	Width      float64
	Height     float64
	ScaleX     float64
	ScaleY     float64
	Primitive  Primitive
	Label      Label
}

// newGroup wraps a primitive into a fresh group with a centred label and a
// newly generated instance id.
func newGroup(templateID string, prim Primitive, style Style) *SceneGroup {
	prim.Left = -prim.Width / 2
	prim.Top = -prim.Height / 2

	labelHeight := style.TextSize * labelLineHeight
	g := &SceneGroup{
		InstanceID: uuid.NewString(),
		TemplateID: templateID,
		ScaleX:     1,
		ScaleY:     1,
		Primitive:  prim,
		Label: Label{
			Left:       -prim.Width / 2,
			Top:        -labelHeight / 2,
			Width:      prim.Width,
			Height:     labelHeight,
			FontSize:   style.TextSize,
			FontFamily: labelFont,
		},
	}
	g.SetStyle(style)
	return g
}

// fitChildren sizes the group to the union of its children and shifts them
// so the union is centred on the group origin again. A group that already
// has a size keeps its children where they were on the canvas.
func (g *SceneGroup) fitChildren() {
	box := g.Primitive.Box().Union(g.Label.Box())
	c := box.Center()
	if g.Width > 0 || g.Height > 0 {
		sx, sy := g.scale()
		cx := g.Left + g.Width*sx/2 + c.X*sx
		cy := g.Top + g.Height*sy/2 + c.Y*sy
		g.Left = cx - box.Width*sx/2
		g.Top = cy - box.Height*sy/2
	}
	g.Primitive.Left -= c.X
	g.Primitive.Top -= c.Y
	g.Label.Left -= c.X
	g.Label.Top -= c.Y
	g.Width = box.Width
	g.Height = box.Height
}

func (g *SceneGroup) scale() (float64, float64) {
	sx, sy := g.ScaleX, g.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// Bounds returns the group's bounding rect on the canvas, scale included.
func (g *SceneGroup) Bounds() Rect {
	sx, sy := g.scale()
	return Rect{Left: g.Left, Top: g.Top, Width: g.Width * sx, Height: g.Height * sy}
}

// Clone returns a deep copy. The instance id is kept; callers that need a
// distinct object assign a new one.
func (g *SceneGroup) Clone() *SceneGroup {
	if g == nil {
		return nil
	}
	c := *g
	if g.Primitive.Points != nil {
		c.Primitive.Points = make([]Point, len(g.Primitive.Points))
		copy(c.Primitive.Points, g.Primitive.Points)
	}
	return &c
}

// Style reads the styling back out of the children.
func (g *SceneGroup) Style() Style {
	return Style{
		BorderEnabled:   g.Primitive.Stroke != "" && g.Primitive.StrokeWidth > 0,
		BorderColor:     g.Primitive.Stroke,
		BorderThickness: g.Primitive.StrokeWidth,
		FillColor:       g.Primitive.Fill,
		TextColor:       g.Label.Fill,
		TextSize:        g.Label.FontSize,
	}
}

// SetStyle folds s into the primitive and label and refits the group box
// around them. A disabled border clears the stroke; re-enabling it without a
// colour or thickness falls back to DefaultStyle.
func (g *SceneGroup) SetStyle(s Style) {
	if s.BorderEnabled {
		if s.BorderColor == "" {
			s.BorderColor = DefaultStyle.BorderColor
		}
		if s.BorderThickness <= 0 {
			s.BorderThickness = DefaultStyle.BorderThickness
		}
		g.Primitive.Stroke = s.BorderColor
		g.Primitive.StrokeWidth = s.BorderThickness
	} else {
		g.Primitive.Stroke = ""
		g.Primitive.StrokeWidth = 0
	}
	g.Primitive.Fill = s.FillColor
	g.Label.Fill = s.TextColor

	if s.TextSize > 0 && s.TextSize != g.Label.FontSize {
		// keep the label vertically centred on its previous midline
		mid := g.Label.Top + g.Label.Height/2
		g.Label.FontSize = s.TextSize
		g.Label.Height = s.TextSize * labelLineHeight
		g.Label.Top = mid - g.Label.Height/2
	}
	g.fitChildren()
}

// SetLabelText replaces the label text.
func (g *SceneGroup) SetLabelText(text string) {
	g.Label.Text = text
}

// flipHorizontal mirrors the primitive around the group's vertical axis and
// moves the label to the mirrored position so it stays attached.
func (g *SceneGroup) flipHorizontal() {
	g.Primitive.FlipX = !g.Primitive.FlipX
	g.Primitive.Left = -g.Primitive.Left - g.Primitive.Width
	g.Label.Left = -g.Label.Left - g.Label.Width
}

// flipVertical is the horizontal-axis counterpart of flipHorizontal.
func (g *SceneGroup) flipVertical() {
	g.Primitive.FlipY = !g.Primitive.FlipY
	g.Primitive.Top = -g.Primitive.Top - g.Primitive.Height
	g.Label.Top = -g.Label.Top - g.Label.Height
}

func cloneGroups(in []*SceneGroup) []*SceneGroup {
	out := make([]*SceneGroup, 0, len(in))
	for _, g := range in {
		out = append(out, g.Clone())
	}
	return out
}
