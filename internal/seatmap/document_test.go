package seatmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScene(t *testing.T) *Canvas {
	t.Helper()
	c := newTestCanvas(t, nil)
	c.SetTicketTypes(testDrafts)

	g, a := submitted(t, "rectangle", StageArea(), nil)
	_, err := c.Place(g, a)
	require.NoError(t, err)
	require.NoError(t, c.Drag(-100, -50))
	_, err = c.Duplicate()
	require.NoError(t, err)
	require.NoError(t, c.FlipHorizontal())

	g, a = submitted(t, "customShape3", CustomArea("Bar"), nil)
	_, err = c.Place(g, a)
	require.NoError(t, err)
	require.NoError(t, c.Scale(1.5, 2))

	g, a = submitted(t, "triangle", TicketArea("t2"), testDrafts)
	_, err = c.Place(g, a)
	require.NoError(t, err)
	require.NoError(t, c.MoveTo(10, 400))
	return c
}

func TestDocumentRoundTrip(t *testing.T) {
	src := buildScene(t)
	data, err := src.MarshalDocument()
	require.NoError(t, err)

	dst, err := NewCanvas(100, 100, nil)
	require.NoError(t, err)
	require.NoError(t, dst.UnmarshalDocument(data))

	assert.Equal(t, src.Width(), dst.Width())
	assert.Equal(t, src.Height(), dst.Height())
	assert.Equal(t, src.Objects(), dst.Objects())
	assert.Equal(t, src.Document(), dst.Document())

	for _, g := range src.Objects() {
		want, _ := src.Area(g.InstanceID)
		got, ok := dst.Area(g.InstanceID)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Empty(t, dst.Selection())
	assert.False(t, dst.Placeholder())

	again, err := dst.MarshalDocument()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestDocumentWireFormat(t *testing.T) {
	c := buildScene(t)
	data, err := c.MarshalDocument()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, DocumentVersion, raw["version"])

	objects := raw["objects"].([]any)
	require.Len(t, objects, 4)
	ticket := objects[3].(map[string]any)
	assert.Equal(t, "group", ticket["type"])
	assert.Equal(t, "triangle", ticket["shapeId"])
	assert.Equal(t, "TICKET", ticket["areaType"])
	assert.Equal(t, "t2", ticket["ticketTypeId"])
	assert.NotContains(t, ticket, "customLabel")

	custom := objects[2].(map[string]any)
	assert.Equal(t, "Bar", custom["customLabel"])
	assert.NotContains(t, custom, "ticketTypeId")

	children := ticket["objects"].([]any)
	require.Len(t, children, 2)
	assert.Equal(t, "triangle", children[0].(map[string]any)["type"])
	assert.Equal(t, "textbox", children[1].(map[string]any)["type"])
}

func TestDecodeMalformed(t *testing.T) {
	base, err := buildScene(t).MarshalDocument()
	require.NoError(t, err)

	cases := map[string]func(d *Document){
		"not a group":        func(d *Document) { d.Objects[0].Type = "rect" },
		"missing label":      func(d *Document) { d.Objects[0].Objects = d.Objects[0].Objects[:1] },
		"unknown primitive":  func(d *Document) { d.Objects[0].Objects[0].Type = "star" },
		"bad area type":      func(d *Document) { d.Objects[0].AreaType = "BALCONY" },
		"ticket without id":  func(d *Document) { d.Objects[3].TicketTypeID = "" },
		"label on stage":     func(d *Document) { d.Objects[0].CustomLabel = "x" },
		"short polygon":      func(d *Document) { d.Objects[2].Objects[0].Points = d.Objects[2].Objects[0].Points[:2] },
		"negative width":     func(d *Document) { d.Width = -1 },
		"oversized height":   func(d *Document) { d.Height = MaxDimension + 1 },
		"duplicate instance": func(d *Document) { d.Objects[1].InstanceID = d.Objects[0].InstanceID },
		"markup in fill": func(d *Document) {
			d.Objects[0].Objects[0].Fill = `red"/><script>alert(2)</script><rect x="`
		},
		"extra style in stroke": func(d *Document) { d.Objects[0].Objects[0].Stroke = "#000;filter:url(#x)" },
		"label fill url":        func(d *Document) { d.Objects[0].Objects[1].Fill = "url(javascript:x)" },
		"markup in font": func(d *Document) {
			d.Objects[0].Objects[1].FontFamily = `Arial"/><script>alert(1)</script>`
		},
		"markup in instance id": func(d *Document) { d.Objects[0].InstanceID = `a"><script>` },
		"duplicate ticket zone": func(d *Document) {
			d.Objects[2].AreaType = "TICKET"
			d.Objects[2].CustomLabel = ""
			d.Objects[2].TicketTypeID = "t2"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			var doc Document
			require.NoError(t, json.Unmarshal(base, &doc))
			mutate(&doc)
			data, err := json.Marshal(doc)
			require.NoError(t, err)

			_, err = Decode(data)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}

	_, err = Decode([]byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestLoadDocumentFailureLeavesCanvas(t *testing.T) {
	c := buildScene(t)
	before := c.Document()

	err := c.UnmarshalDocument([]byte(`{"width":10,"height":10,"objects":[{"type":"circle"}]}`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Equal(t, before, c.Document())
}

func TestDecodeFillsMissingInstanceID(t *testing.T) {
	c := buildScene(t)
	doc := c.Document()
	doc.Objects[0].InstanceID = ""
	doc.Objects[0].ScaleX = 0

	dst := newTestCanvas(t, nil)
	require.NoError(t, dst.LoadDocument(doc))
	objs := dst.Objects()
	assert.NotEmpty(t, objs[0].InstanceID)
	assert.Equal(t, 1.0, objs[0].ScaleX)
}

func TestEmptyDocumentShowsPlaceholder(t *testing.T) {
	c := newTestCanvas(t, nil)
	require.NoError(t, c.UnmarshalDocument([]byte(`{"version":"1","width":800,"height":600,"objects":[]}`)))
	assert.True(t, c.Placeholder())
	assert.Equal(t, 800.0, c.Width())
	assert.Equal(t, 0, c.Len())
}

func TestCanonicalWritesBackDefaults(t *testing.T) {
	doc := buildScene(t).Document()
	doc.Objects[1].InstanceID = ""
	doc.Objects[1].ScaleY = 0
	raw, err := Encode(doc)
	require.NoError(t, err)

	out, err := Canonical(raw)
	require.NoError(t, err)
	require.Len(t, out.Objects, 4)
	assert.NotEmpty(t, out.Objects[1].InstanceID)
	assert.Equal(t, 1.0, out.Objects[1].ScaleY)
	assert.Equal(t, doc.Objects[0], out.Objects[0])

	_, err = Canonical([]byte(`{"objects":[{"type":"group"}]}`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
