// Package repository contains data access logic for shows and their ticket
// types. The seatmap column holds the canvas document JSON as an opaque
// string.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/seatmap-console/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// dbTime is the layout timestamps are written in. It is accepted by MySQL
// DATETIME columns and sorts correctly as SQLite text.
const dbTime = "2006-01-02 15:04:05"

// timestamp scans a DATETIME column into dbTime text. Drivers disagree on
// what they return (time.Time from MySQL with parseTime, time.Time or text
// from SQLite), so every form is accepted.
type timestamp struct{ dst *string }

func (t timestamp) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		*t.dst = ""
	case time.Time:
		*t.dst = x.UTC().Format(dbTime)
	case string:
		*t.dst = normaliseTime(x)
	case []byte:
		*t.dst = normaliseTime(string(x))
	default:
		return fmt.Errorf("timestamp: unsupported column type %T", v)
	}
	return nil
}

func normaliseTime(s string) string {
	for _, layout := range []string{dbTime, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm.UTC().Format(dbTime)
		}
	}
	return s
}

// The DDL is kept to the subset MySQL and SQLite both accept.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS shows (
		id         VARCHAR(36)  NOT NULL PRIMARY KEY,
		event_id   VARCHAR(64)  NOT NULL,
		owner_id   VARCHAR(64)  NOT NULL,
		name       VARCHAR(255) NOT NULL,
		status     VARCHAR(16)  NOT NULL DEFAULT 'PENDING',
		seatmap    MEDIUMTEXT   NOT NULL,
		created_at DATETIME     NOT NULL,
		updated_at DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_types (
		id            VARCHAR(36)  NOT NULL PRIMARY KEY,
		show_id       VARCHAR(36)  NOT NULL,
		position      INT          NOT NULL,
		temp_id       VARCHAR(64)  NOT NULL,
		name          VARCHAR(255) NOT NULL,
		price_cents   BIGINT       NOT NULL,
		initial_stock INT          NOT NULL,
		description   TEXT         NOT NULL,
		UNIQUE (show_id, temp_id),
		FOREIGN KEY (show_id) REFERENCES shows(id) ON DELETE CASCADE
	)`,
}

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db, now: time.Now}
}

// Migrate creates the tables when they do not exist yet.
func (r *ShowRepo) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (r *ShowRepo) stamp() string {
	return r.now().UTC().Format(dbTime)
}

// Create inserts a show and its ticket types in one transaction. ID,
// status, timestamps and the ticket type ids are filled in on s.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	s.ID = uuid.NewString()
	s.Status = model.ShowPending
	s.CreatedAt = r.stamp()
	s.UpdatedAt = s.CreatedAt

	const q = `INSERT INTO shows (id, event_id, owner_id, name, status, seatmap, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, s.ID, s.EventID, s.OwnerID, s.Name, s.Status, s.Seatmap, s.CreatedAt, s.UpdatedAt); err != nil {
		return err
	}

	const qt = `INSERT INTO ticket_types (id, show_id, position, temp_id, name, price_cents, initial_stock, description)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range s.TicketTypes {
		tt := &s.TicketTypes[i]
		tt.ID = uuid.NewString()
		tt.ShowID = s.ID
		if _, err := tx.ExecContext(ctx, qt, tt.ID, tt.ShowID, i, tt.TempID, tt.Name, tt.PriceCents, tt.InitialStock, tt.Description); err != nil {
			return fmt.Errorf("ticket type %q: %w", tt.TempID, err)
		}
	}
	return tx.Commit()
}

// GetByID retrieves a show with its ticket types. It returns
// ErrShowNotFound if there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id string) (*model.Show, error) {
	const q = `SELECT id, event_id, owner_id, name, status, seatmap, created_at, updated_at FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.EventID, &s.OwnerID, &s.Name, &s.Status, &s.Seatmap,
		timestamp{&s.CreatedAt}, timestamp{&s.UpdatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	s.TicketTypes, err = r.ListTicketTypes(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByIDAndOwner is GetByID restricted to the owner. A show owned by
// someone else yields ErrForbidden.
func (r *ShowRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Show, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return s, nil
}

// ListTicketTypes returns the ticket types of a show in creation order.
func (r *ShowRepo) ListTicketTypes(ctx context.Context, showID string) ([]model.TicketType, error) {
	const q = `SELECT id, show_id, temp_id, name, price_cents, initial_stock, description
               FROM ticket_types WHERE show_id = ? ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TicketType
	for rows.Next() {
		var tt model.TicketType
		if err := rows.Scan(&tt.ID, &tt.ShowID, &tt.TempID, &tt.Name, &tt.PriceCents, &tt.InitialStock, &tt.Description); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

// UpdateSeatmap replaces the seatmap of a show owned by ownerID. A changed
// seatmap has to be reviewed again, so the status returns to PENDING.
func (r *ShowRepo) UpdateSeatmap(ctx context.Context, id, ownerID, seatmap string) error {
	const q = `UPDATE shows SET seatmap = ?, status = ?, updated_at = ? WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, seatmap, model.ShowPending, r.stamp(), id, ownerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n > 0 {
		return nil
	}
	// nothing updated: tell a missing show from someone else's
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	return nil
}

// SetStatus records a review decision. Only PENDING shows can be decided;
// anything else is ErrConflict.
func (r *ShowRepo) SetStatus(ctx context.Context, id, status string) error {
	if status != model.ShowApproved && status != model.ShowRejected {
		return fmt.Errorf("invalid status %q", status)
	}
	const q = `UPDATE shows SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, status, r.stamp(), id, model.ShowPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}
