package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/photo-marketplace/internal/model"
)

// TicketRepo encapsulates all database queries related to support tickets.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

const ticketColumns = `id, ticket_ref, raised_by, raised_by_id, user_type, category, priority, status,
	assigned_to, subject, description, created_at, updated_at`

func scanTicket(s rowScanner) (model.Ticket, error) {
	var (
		t        model.Ticket
		assigned sql.NullString
	)
	err := s.Scan(&t.ID, &t.TicketID, &t.RaisedBy, &t.RaisedByID, &t.UserType, &t.Category, &t.Priority,
		&t.Status, &assigned, &t.Subject, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	if assigned.Valid {
		v := assigned.String
		t.AssignedTo = &v
	}
	return t, nil
}

// TicketUpdate carries the fields an admin may change.  Nil fields are
// left untouched; an empty AssignedTo unassigns the ticket.
type TicketUpdate struct {
	Status     *string
	AssignedTo *string
}

// Create inserts t with a fresh TKT reference and status open.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	t.TicketID = newRef("TKT")
	if t.Status == "" {
		t.Status = model.TicketOpen
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (ticket_ref, raised_by, raised_by_id, user_type, category, priority, status,
		subject, description) VALUES (?,?,?,?,?,?,?,?,?)`,
		t.TicketID, t.RaisedBy, t.RaisedByID, t.UserType, t.Category, t.Priority, t.Status,
		t.Subject, t.Description)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns every ticket for the admin dashboard, newest first.
func (r *TicketRepo) List(ctx context.Context) ([]model.Ticket, error) {
	return r.list(ctx, "")
}

// ListByRaiser returns the tickets a user submitted.
func (r *TicketRepo) ListByRaiser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return r.list(ctx, "raised_by_id = ?", userID)
}

func (r *TicketRepo) list(ctx context.Context, where string, args ...any) ([]model.Ticket, error) {
	q := "SELECT " + ticketColumns + " FROM tickets"
	if where != "" {
		q += " WHERE " + where
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY created_at DESC, id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update applies upd to a ticket and returns the stored row.
func (r *TicketRepo) Update(ctx context.Context, id uint64, upd TicketUpdate) (*model.Ticket, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	sets := []string{}
	args := []any{}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.AssignedTo != nil {
		sets = append(sets, "assigned_to = ?")
		if a := strings.TrimSpace(*upd.AssignedTo); a != "" {
			args = append(args, a)
		} else {
			args = append(args, nil)
		}
	}
	if len(sets) > 0 {
		args = append(args, id)
		q := "UPDATE tickets SET " + strings.Join(sets, ", ") + ", updated_at = CURRENT_TIMESTAMP WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}
