package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartSeatmapConsumer connects to RabbitMQ, declares the seatmap.submitted
// queue and appends one line per event to <logDir>/seatmap.log. It
// reconnects with backoff until ctx is cancelled. A message that cannot be
// handled is rejected without requeue so a bad payload cannot loop.
func StartSeatmapConsumer(ctx context.Context, url, logDir string) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("[rabbitmq] seatmap-consumer: dial failed: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logDir)
		_ = conn.Close()
		if err == nil || ctx.Err() != nil {
			return
		}
		log.Printf("[rabbitmq] seatmap-consumer: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// consumeLoop returns nil only when ctx is cancelled.
func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("[rabbitmq] seatmap-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(SeatmapSubmittedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(SeatmapSubmittedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleSeatmapMessage(logDir, d.Body); err != nil {
				log.Printf("[rabbitmq] seatmap-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleSeatmapMessage decodes one event and appends it to the audit log.
func HandleSeatmapMessage(logDir string, body []byte) error {
	var ev SeatmapSubmittedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.ShowID == "" {
		return errors.New("event without show_id")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, "seatmap.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatSeatmapLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatSeatmapLine renders the single-line audit entry for ev. Every
// client-supplied value is quoted so an embedded newline cannot start a
// line of its own.
func FormatSeatmapLine(ev SeatmapSubmittedEvent) string {
	quoted := make([]string, len(ev.TicketTypeIDs))
	for i, id := range ev.TicketTypeIDs {
		quoted[i] = strconv.Quote(id)
	}
	at := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, ev.SubmittedAt)
	return fmt.Sprintf("[%s] Seatmap submitted | show_id=%q | event_id=%q | owner_id=%q | show=%q | source=%q | zones=%d | ticket_zones=%d | ticket_types=[%s]\n",
		at, ev.ShowID, ev.EventID, ev.OwnerID, ev.ShowName, ev.Source, ev.ZoneCount, ev.TicketZoneCount, strings.Join(quoted, ","))
}
