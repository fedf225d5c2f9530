package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seatmap-console/internal/seatmap"
)

func TestNewSeatmapEventCountsZones(t *testing.T) {
	doc, err := seatmap.Decode([]byte(`{"version":"1","width":700,"height":500,"objects":[
		{"type":"group","left":10,"top":10,"width":100,"height":50,"scaleX":1,"scaleY":1,"instanceId":"a","shapeId":"rectangle","areaType":"STAGE",
		 "objects":[{"type":"rect","left":-50,"top":-25,"width":100,"height":50,"fill":"#BDBDBD","strokeWidth":2},{"type":"textbox","left":-50,"top":-10,"width":100,"height":20,"fill":"#212121","strokeWidth":0,"text":"STAGE"}]},
		{"type":"group","left":200,"top":10,"width":100,"height":50,"scaleX":1,"scaleY":1,"instanceId":"b","shapeId":"rectangle","areaType":"TICKET","ticketTypeId":"t1",
		 "objects":[{"type":"rect","left":-50,"top":-25,"width":100,"height":50,"fill":"#FFFFFF","strokeWidth":1},{"type":"textbox","left":-50,"top":-10,"width":100,"height":20,"fill":"#000000","strokeWidth":0,"text":"VIP"}]}
	]}`))
	require.NoError(t, err)

	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.FixedZone("x", 3600))
	ev := NewSeatmapEvent("s1", "e1", "u1", "Gala", "create", doc, at)
	assert.Equal(t, 2, ev.ZoneCount)
	assert.Equal(t, 1, ev.TicketZoneCount)
	assert.Equal(t, []string{"t1"}, ev.TicketTypeIDs)
	assert.Equal(t, "2026-05-01 07:30:00", ev.SubmittedAt)
}

func TestNopPublisher(t *testing.T) {
	var p SeatmapPublisher = NopPublisher{}
	assert.NoError(t, p.PublishSeatmapSubmitted(context.Background(), NewSeatmapEvent("s", "e", "u", "n", "update", nil, time.Now())))
}
