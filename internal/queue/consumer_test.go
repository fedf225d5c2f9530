package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSeatmapMessageAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	ev := SeatmapSubmittedEvent{
		ShowID:          "s1",
		EventID:         "e1",
		OwnerID:         "u1",
		ShowName:        "Gala",
		ZoneCount:       3,
		TicketZoneCount: 2,
		TicketTypeIDs:   []string{"t1", "t2"},
		Source:          "session",
		SubmittedAt:     "2026-01-01 10:00:00",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, HandleSeatmapMessage(dir, body))
	require.NoError(t, HandleSeatmapMessage(dir, body))

	data, err := os.ReadFile(filepath.Join(dir, "seatmap.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `show_id="s1"`)
	assert.Contains(t, lines[0], `show="Gala"`)
	assert.Contains(t, lines[0], "ticket_zones=2")
	assert.Contains(t, lines[0], `ticket_types=["t1","t2"]`)
}

func TestHandleSeatmapMessageRejectsBadPayload(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, HandleSeatmapMessage(dir, []byte("not json")))
	assert.Error(t, HandleSeatmapMessage(dir, []byte(`{"event_id":"e1"}`)))

	_, err := os.Stat(filepath.Join(dir, "seatmap.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestFormatSeatmapLineKeepsOneLine(t *testing.T) {
	line := FormatSeatmapLine(SeatmapSubmittedEvent{
		ShowID:        "s1",
		EventID:       "e1\n[2026-01-01 00:00:00] Seatmap submitted | show_id=forged",
		OwnerID:       "u1\r\nx",
		TicketTypeIDs: []string{"t1\nt2"},
		SubmittedAt:   "2026-01-01 10:00:00\n",
	})
	assert.Equal(t, 1, strings.Count(line, "\n"))
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, `event_id="e1\n[2026-01-01`)
	assert.Contains(t, line, `owner_id="u1\r\nx"`)
	assert.Contains(t, line, `ticket_types=["t1\nt2"]`)
}
