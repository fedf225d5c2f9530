package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T, n Notifier) *Canvas {
	t.Helper()
	c, err := NewCanvas(700, 500, n)
	require.NoError(t, err)
	return c
}

func submitted(t *testing.T, templateID string, area Area, drafts []TicketTypeDraft) (*SceneGroup, Area) {
	t.Helper()
	tpl, ok := LookupTemplate(templateID)
	require.True(t, ok)
	d := OpenDialog(tpl, drafts, nil)
	require.NoError(t, d.SelectAreaType(area.Type()))
	if label, ok := area.CustomLabel(); ok {
		require.NoError(t, d.SetCustomLabel(label))
	}
	if id, ok := area.TicketTypeID(); ok {
		require.NoError(t, d.SelectTicketType(id))
	}
	g, a, err := d.Submit()
	require.NoError(t, err)
	return g, a
}

var testDrafts = []TicketTypeDraft{
	{TempID: "t1", Name: "VIP", Price: 100, InitialStock: 20},
	{TempID: "t2", Name: "Standard", Price: 40, InitialStock: 200},
}

func TestNewCanvasRejectsBadViewport(t *testing.T) {
	_, err := NewCanvas(0, 100, nil)
	assert.ErrorIs(t, err, ErrInvalidViewport)

	_, err = NewCanvas(MaxDimension+1, 100, nil)
	assert.ErrorIs(t, err, ErrInvalidViewport)

	c, err := NewCanvas(MaxDimension, MaxDimension, nil)
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, c.Width())
}

func TestResizeLimits(t *testing.T) {
	c := newTestCanvas(t, nil)
	require.NoError(t, c.Resize(MaxDimension, MaxDimension))
	assert.ErrorIs(t, c.Resize(MaxDimension+1, 500), ErrInvalidViewport)
	assert.ErrorIs(t, c.Resize(700, 1e12), ErrInvalidViewport)
	assert.Equal(t, MaxDimension, c.Width())

	require.NoError(t, c.Resize(700, 500))
	require.NoError(t, c.SetMaxSize(1000, 800))
	w, h := c.MaxSize()
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, 800.0, h)
	require.NoError(t, c.Resize(1000, 800))
	assert.ErrorIs(t, c.Resize(1001, 800), ErrInvalidViewport)

	err := c.UnmarshalDocument([]byte(`{"version":"1","width":2000,"height":800,"objects":[]}`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Equal(t, 1000.0, c.Width())

	assert.ErrorIs(t, c.SetMaxSize(900, 900), ErrInvalidViewport)
	w, _ = c.MaxSize()
	assert.Equal(t, 1000.0, w)

	require.NoError(t, c.SetMaxSize(0, 0))
	w, h = c.MaxSize()
	assert.Equal(t, MaxDimension, w)
	assert.Equal(t, MaxDimension, h)
}

func TestPlaceThenDuplicateStage(t *testing.T) {
	c := newTestCanvas(t, nil)
	assert.True(t, c.Placeholder())

	g, area := submitted(t, "rectangle", StageArea(), nil)
	placed, err := c.Place(g, area)
	require.NoError(t, err)
	assert.Equal(t, 300.0, placed.Left)
	assert.Equal(t, 225.0, placed.Top)
	assert.False(t, c.Placeholder())
	assert.Equal(t, []string{placed.InstanceID}, c.Selection())

	dup, err := c.Duplicate()
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 320.0, dup.Left)
	assert.Equal(t, 245.0, dup.Top)
	assert.NotEqual(t, placed.InstanceID, dup.InstanceID)
	assert.Equal(t, placed.TemplateID, dup.TemplateID)
	assert.Equal(t, []string{dup.InstanceID}, c.Selection())

	a, ok := c.Area(dup.InstanceID)
	require.True(t, ok)
	assert.Equal(t, AreaStage, a.Type())
}

func TestPlaceRejectsDuplicateTicketZone(t *testing.T) {
	rec := &Recorder{}
	c := newTestCanvas(t, rec)
	c.SetTicketTypes(testDrafts)

	g, area := submitted(t, "rectangle", TicketArea("t1"), testDrafts)
	_, err := c.Place(g, area)
	require.NoError(t, err)
	before := c.Revision()

	g2, area2 := submitted(t, "circle", TicketArea("t1"), testDrafts)
	_, err = c.Place(g2, area2)
	assert.ErrorIs(t, err, ErrDuplicateTicketZone)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, before, c.Revision())

	toasts := rec.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, SeverityError, toasts[0].Severity)
	assert.Equal(t, "zone already exists for this ticket type", toasts[0].Message)

	// a different ticket type is fine
	g3, area3 := submitted(t, "square", TicketArea("t2"), testDrafts)
	_, err = c.Place(g3, area3)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestDuplicateTicketZoneRejected(t *testing.T) {
	rec := &Recorder{}
	c := newTestCanvas(t, rec)
	c.SetTicketTypes(testDrafts)

	g, area := submitted(t, "rectangle", TicketArea("t1"), testDrafts)
	placed, err := c.Place(g, area)
	require.NoError(t, err)

	_, err = c.Duplicate()
	assert.ErrorIs(t, err, ErrTicketZoneDuplicate)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{placed.InstanceID}, c.Selection())
	assert.Equal(t, 1, rec.Len())
}

func TestTicketZonesStayUnique(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.SetTicketTypes(testDrafts)

	for _, id := range []string{"t1", "t2", "t1", "t2", "t1"} {
		g, area := submitted(t, "rectangle", TicketArea(id), testDrafts)
		_, _ = c.Place(g, area)
		_, _ = c.Duplicate()
	}

	seen := map[string]int{}
	for _, id := range c.Document().TicketTypeIDs() {
		seen[id]++
	}
	assert.Equal(t, map[string]int{"t1": 1, "t2": 1}, seen)
}

func TestPlaceRegeneratesCollidingID(t *testing.T) {
	c := newTestCanvas(t, nil)
	g, area := submitted(t, "rectangle", StageArea(), nil)

	first, err := c.Place(g, area)
	require.NoError(t, err)
	second, err := c.Place(g, area)
	require.NoError(t, err)
	assert.NotEqual(t, first.InstanceID, second.InstanceID)
}

func TestDragClampsToViewport(t *testing.T) {
	c := newTestCanvas(t, nil)
	g, area := submitted(t, "rectangle", FOHArea(), nil)
	placed, err := c.Place(g, area)
	require.NoError(t, err)

	cases := []struct{ dx, dy float64 }{
		{-1000, 0}, {1000, 0}, {0, -1000}, {0, 1000}, {5000, -5000}, {12.5, 7.25},
	}
	for _, tc := range cases {
		require.NoError(t, c.Drag(tc.dx, tc.dy))
		obj, ok := c.Object(placed.InstanceID)
		require.True(t, ok)
		assert.True(t, obj.Bounds().Within(c.Width(), c.Height()), "after drag %v: %+v", tc, obj.Bounds())
	}

	require.NoError(t, c.Drag(-1000, -1000))
	obj, _ := c.Object(placed.InstanceID)
	assert.Equal(t, 0.0, obj.Left)
	assert.Equal(t, 0.0, obj.Top)
}

func TestLargeLabelStaysInsideViewport(t *testing.T) {
	c := newTestCanvas(t, nil)
	tpl, ok := LookupTemplate("rectangle")
	require.True(t, ok)
	d := OpenDialog(tpl, nil, nil)
	require.NoError(t, d.SelectAreaType(AreaStage))
	size := 60.0
	require.NoError(t, d.ApplyStyle(StylePatch{TextSize: &size}))
	g, area, err := d.Submit()
	require.NoError(t, err)

	placed, err := c.Place(g, area)
	require.NoError(t, err)
	require.NoError(t, c.Select(placed.InstanceID))

	for _, dy := range []float64{10000, -10000} {
		require.NoError(t, c.Drag(0, dy))
		obj, _ := c.Object(placed.InstanceID)
		b := obj.Bounds()
		assert.True(t, b.Within(700, 500), "%+v", b)

		_, sy := obj.scale()
		mid := obj.Top + obj.Height*sy/2
		labelTop := mid + obj.Label.Top*sy
		labelBottom := mid + (obj.Label.Top+obj.Label.Height)*sy
		assert.GreaterOrEqual(t, labelTop, 0.0)
		assert.LessOrEqual(t, labelBottom, 500.0)
	}
}

func TestDragMultiSelectionKeepsSpacing(t *testing.T) {
	c := newTestCanvas(t, nil)
	g, area := submitted(t, "rectangle", StageArea(), nil)
	a, err := c.Place(g, area)
	require.NoError(t, err)
	b, err := c.Duplicate()
	require.NoError(t, err)

	require.NoError(t, c.Select(a.InstanceID, b.InstanceID))
	require.NoError(t, c.Drag(1000, 1000))

	oa, _ := c.Object(a.InstanceID)
	ob, _ := c.Object(b.InstanceID)
	assert.Equal(t, 20.0, ob.Left-oa.Left)
	assert.Equal(t, 20.0, ob.Top-oa.Top)
	assert.True(t, oa.Bounds().Union(ob.Bounds()).Within(700, 500))
	assert.Equal(t, 700.0, ob.Bounds().Right())
}

func TestDragWithoutSelection(t *testing.T) {
	c := newTestCanvas(t, nil)
	assert.ErrorIs(t, c.Drag(1, 1), ErrNoActiveObject)
}

func TestOversizedObjectPinsTopLeft(t *testing.T) {
	c := newTestCanvas(t, nil)
	g, area := submitted(t, "rectangle", StageArea(), nil)
	_, err := c.Place(g, area)
	require.NoError(t, err)

	require.NoError(t, c.Scale(10, 20))
	obj, _ := c.Active()
	assert.Equal(t, 0.0, obj.Left)
	assert.Equal(t, 0.0, obj.Top)

	assert.ErrorIs(t, c.Scale(0, 1), ErrInvalidScale)
}

func TestSelectUnknownKeepsSelection(t *testing.T) {
	c := newTestCanvas(t, nil)
	g, area := submitted(t, "rectangle", StageArea(), nil)
	placed, err := c.Place(g, area)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Select("nope"), ErrObjectNotFound)
	assert.Equal(t, []string{placed.InstanceID}, c.Selection())
}

func TestDeleteSelection(t *testing.T) {
	c := newTestCanvas(t, nil)
	assert.Equal(t, 0, c.Delete())

	g, area := submitted(t, "rectangle", StageArea(), nil)
	a, _ := c.Place(g, area)
	b, _ := c.Duplicate()
	_, _ = c.Duplicate()

	require.NoError(t, c.Select(a.InstanceID, b.InstanceID))
	assert.Equal(t, 2, c.Delete())
	assert.Equal(t, 1, c.Len())
	assert.Empty(t, c.Selection())
	_, ok := c.Area(a.InstanceID)
	assert.False(t, ok)
}

func TestSetTicketTypesPrunesOrphans(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.SetTicketTypes(testDrafts)

	g1, a1 := submitted(t, "rectangle", TicketArea("t1"), testDrafts)
	z1, _ := c.Place(g1, a1)
	g2, a2 := submitted(t, "rectangle", TicketArea("t2"), testDrafts)
	z2, _ := c.Place(g2, a2)
	g3, a3 := submitted(t, "circle", StageArea(), nil)
	stage, _ := c.Place(g3, a3)
	require.NoError(t, c.Select(z1.InstanceID, stage.InstanceID))

	pruned := c.SetTicketTypes(testDrafts[1:])
	assert.Equal(t, []string{z1.InstanceID}, pruned)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{stage.InstanceID}, c.Selection())

	_, ok := c.Object(z2.InstanceID)
	assert.True(t, ok)
	_, ok = c.Object(stage.InstanceID)
	assert.True(t, ok)

	assert.Nil(t, c.SetTicketTypes(testDrafts[1:]))
}

func TestFlipHorizontalKeepsLabelAttached(t *testing.T) {
	g := &SceneGroup{
		InstanceID: "g1",
		Width:      120,
		Height:     60,
		Primitive:  Primitive{Kind: KindRect, Left: -60, Top: -30, Width: 120, Height: 60},
		Label:      Label{Text: "A", Left: 10, Top: -5, Width: 100, Height: 10},
	}
	c := newTestCanvas(t, nil)
	placed, err := c.Place(g, StageArea())
	require.NoError(t, err)

	require.NoError(t, c.FlipHorizontal())
	obj, _ := c.Object(placed.InstanceID)
	assert.Equal(t, -110.0, obj.Label.Left)
	assert.Equal(t, -60.0, obj.Primitive.Left)
	assert.True(t, obj.Primitive.FlipX)

	require.NoError(t, c.FlipVertical())
	obj, _ = c.Object(placed.InstanceID)
	assert.Equal(t, -5.0, obj.Label.Top)
	assert.True(t, obj.Primitive.FlipY)
}

func TestCenterAndMoveTo(t *testing.T) {
	c := newTestCanvas(t, nil)
	g, area := submitted(t, "rectangle", StageArea(), nil)
	_, err := c.Place(g, area)
	require.NoError(t, err)

	require.NoError(t, c.MoveTo(650, 10))
	obj, _ := c.Active()
	assert.Equal(t, 600.0, obj.Left)
	assert.Equal(t, 10.0, obj.Top)

	require.NoError(t, c.Center())
	obj, _ = c.Active()
	assert.Equal(t, 300.0, obj.Left)
	assert.Equal(t, 225.0, obj.Top)
}

func TestToggleGridLeavesDocument(t *testing.T) {
	c := newTestCanvas(t, nil)
	g, area := submitted(t, "rectangle", StageArea(), nil)
	_, _ = c.Place(g, area)

	before, err := c.MarshalDocument()
	require.NoError(t, err)
	rev := c.Revision()

	assert.True(t, c.ToggleGrid())
	after, err := c.MarshalDocument()
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.Equal(t, rev+1, c.Revision())
	assert.False(t, c.ToggleGrid())
	assert.Equal(t, rev+2, c.Revision())

	c.SetGrid(true)
	assert.Equal(t, rev+3, c.Revision())
	c.SetGrid(true)
	assert.Equal(t, rev+3, c.Revision(), "unchanged grid needs no re-render")
	assert.True(t, c.GridEnabled())
}

func TestResizeKeepsCoordinates(t *testing.T) {
	c := newTestCanvas(t, nil)
	g, area := submitted(t, "rectangle", StageArea(), nil)
	placed, _ := c.Place(g, area)

	require.NoError(t, c.Resize(1400, 1000))
	obj, _ := c.Object(placed.InstanceID)
	assert.Equal(t, placed.Left, obj.Left)
	assert.Equal(t, placed.Top, obj.Top)
	assert.ErrorIs(t, c.Resize(-1, 10), ErrInvalidViewport)
}
