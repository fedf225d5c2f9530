package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRect(t *testing.T, drafts []TicketTypeDraft, n Notifier) *Dialog {
	t.Helper()
	tpl, ok := LookupTemplate("rectangle")
	require.True(t, ok)
	return OpenDialog(tpl, drafts, n)
}

func TestDialogStagePalette(t *testing.T) {
	d := openRect(t, nil, nil)
	require.NoError(t, d.SelectAreaType(AreaStage))

	p := d.Preview()
	assert.Equal(t, "STAGE", p.Label.Text)
	assert.Equal(t, StagePalette, p.Style())

	g, area, err := d.Submit()
	require.NoError(t, err)
	assert.Equal(t, AreaStage, area.Type())
	assert.Equal(t, "rectangle", g.TemplateID)
	assert.Equal(t, p.InstanceID, g.InstanceID)
	assert.Equal(t, DialogSubmitted, d.State())
}

func TestDialogFOHPalette(t *testing.T) {
	d := openRect(t, nil, nil)
	require.NoError(t, d.SelectAreaType(AreaFOH))
	assert.Equal(t, "FOH", d.Preview().Label.Text)
	assert.Equal(t, FOHPalette, d.Preview().Style())

	// switching away clears the label but keeps the palette
	require.NoError(t, d.SelectAreaType(AreaCustom))
	assert.Equal(t, "", d.Preview().Label.Text)
	assert.Equal(t, FOHPalette.FillColor, d.Preview().Style().FillColor)
}

func TestDialogCustomLabel(t *testing.T) {
	d := openRect(t, nil, nil)
	assert.ErrorIs(t, d.SetCustomLabel("Bar"), ErrWrongAreaType)

	require.NoError(t, d.SelectAreaType(AreaCustom))
	require.NoError(t, d.SetCustomLabel("Bar"))
	assert.Equal(t, "Bar", d.Preview().Label.Text)

	_, area, err := d.Submit()
	require.NoError(t, err)
	label, ok := area.CustomLabel()
	assert.True(t, ok)
	assert.Equal(t, "Bar", label)
}

func TestDialogSubmitRequiresAreaType(t *testing.T) {
	rec := &Recorder{}
	d := openRect(t, nil, rec)

	_, _, err := d.Submit()
	assert.ErrorIs(t, err, ErrAreaTypeRequired)
	assert.Equal(t, DialogOpen, d.State())
	toasts := rec.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, SeverityWarning, toasts[0].Severity)
}

func TestDialogTicketRequiresTicketType(t *testing.T) {
	rec := &Recorder{}
	drafts := []TicketTypeDraft{{TempID: "t1", Name: "VIP", Price: 50, InitialStock: 10}}
	d := openRect(t, drafts, rec)
	require.NoError(t, d.SelectAreaType(AreaTicket))

	_, _, err := d.Submit()
	assert.ErrorIs(t, err, ErrTicketTypeRequired)
	assert.Equal(t, DialogOpen, d.State())
	assert.Equal(t, 1, rec.Len())

	assert.ErrorIs(t, d.SelectTicketType("missing"), ErrUnknownTicketType)
	require.NoError(t, d.SelectTicketType("t1"))
	assert.Equal(t, "VIP", d.Preview().Label.Text)

	_, area, err := d.Submit()
	require.NoError(t, err)
	id, ok := area.TicketTypeID()
	assert.True(t, ok)
	assert.Equal(t, "t1", id)
}

func TestDialogTicketTypesRefresh(t *testing.T) {
	d := openRect(t, []TicketTypeDraft{{TempID: "t1", Name: "VIP"}}, nil)
	require.NoError(t, d.SelectAreaType(AreaTicket))
	require.NoError(t, d.SelectTicketType("t1"))

	d.SetTicketTypes([]TicketTypeDraft{{TempID: "t1", Name: "Gold"}})
	assert.Equal(t, "Gold", d.Preview().Label.Text)

	d.SetTicketTypes(nil)
	assert.Equal(t, "", d.TicketTypeID())
	_, _, err := d.Submit()
	assert.ErrorIs(t, err, ErrTicketTypeRequired)
}

func TestDialogApplyStyle(t *testing.T) {
	d := openRect(t, nil, nil)
	off := false
	fill := "#FF0000"
	size := 24.0
	require.NoError(t, d.ApplyStyle(StylePatch{BorderEnabled: &off, FillColor: &fill, TextSize: &size}))

	p := d.Preview()
	assert.Equal(t, "", p.Primitive.Stroke)
	assert.Equal(t, 0.0, p.Primitive.StrokeWidth)
	assert.Equal(t, "#FF0000", p.Primitive.Fill)
	assert.Equal(t, 24.0, p.Label.FontSize)
	assert.InDelta(t, 0, p.Label.Top+p.Label.Height/2, 1e-9)

	on := true
	require.NoError(t, d.ApplyStyle(StylePatch{BorderEnabled: &on}))
	assert.Equal(t, DefaultStyle.BorderColor, d.Preview().Primitive.Stroke)
	assert.Equal(t, DefaultStyle.BorderThickness, d.Preview().Primitive.StrokeWidth)
}

func TestDialogRejectsInvalidColour(t *testing.T) {
	rec := &Recorder{}
	d := openRect(t, nil, rec)
	before := d.Preview()

	bad := `red"/><script>alert(2)</script>`
	good := "#00FF00"
	err := d.ApplyStyle(StylePatch{FillColor: &good, TextColor: &bad})
	assert.ErrorIs(t, err, ErrInvalidStyle)
	assert.Equal(t, before, d.Preview())
	assert.Equal(t, 1, rec.Len())

	for _, c := range []string{"#abc", "#A1B2C3", "none", "Red", ""} {
		require.NoError(t, d.ApplyStyle(StylePatch{BorderColor: &c}), c)
	}
	for _, c := range []string{"#abcd", "red;stroke:blue", "rgb(0,0,0)", "#GGGGGG"} {
		assert.ErrorIs(t, d.ApplyStyle(StylePatch{FillColor: &c}), ErrInvalidStyle, c)
	}
}

func TestDialogTextSizeRefitsPreview(t *testing.T) {
	d := openRect(t, nil, nil)
	size := 60.0
	require.NoError(t, d.ApplyStyle(StylePatch{TextSize: &size}))

	p := d.Preview()
	assert.InDelta(t, 60*labelLineHeight, p.Height, 1e-9)
	assert.Equal(t, 100.0, p.Width)
	assert.InDelta(t, -p.Height/2, p.Label.Top, 1e-9)
	assert.Equal(t, -25.0, p.Primitive.Top)
}

func TestDialogCancel(t *testing.T) {
	d := openRect(t, nil, nil)
	d.Cancel()
	assert.Equal(t, DialogCancelled, d.State())
	assert.Nil(t, d.Preview())
	assert.ErrorIs(t, d.SelectAreaType(AreaStage), ErrDialogClosed)
	_, _, err := d.Submit()
	assert.ErrorIs(t, err, ErrDialogClosed)

	d.Cancel()
	assert.Equal(t, DialogCancelled, d.State())
}
