package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/photo-marketplace/internal/model"
)

// TeamRepo manages a seller's team members.  Every mutating call is scoped
// to the calling seller and refuses to remove or deactivate the owner row.
type TeamRepo struct {
	db *sql.DB
}

func NewTeamRepo(db *sql.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

const teamColumns = `id, seller_id, name, email, phone, designation, category, availability, is_active,
	is_owner, created_at, updated_at`

func scanMember(s rowScanner) (model.TeamMember, error) {
	var (
		m           model.TeamMember
		designation string
	)
	err := s.Scan(&m.ID, &m.SellerID, &m.Name, &m.Email, &m.Phone, &designation, &m.Category,
		&m.Availability, &m.IsActive, &m.IsOwner, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	m.Designation = model.ParseStringList(designation)
	return m, nil
}

// ListBySeller returns the team of sellerID with the owner first.
func (r *TeamRepo) ListBySeller(ctx context.Context, sellerID uint64) ([]model.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+teamColumns+" FROM team_members WHERE seller_id = ? ORDER BY is_owner DESC, created_at ASC, id ASC",
		sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TeamMember, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID returns a member of sellerID.  Members of other sellers yield
// ErrForbidden.
func (r *TeamRepo) GetByID(ctx context.Context, id, sellerID uint64) (*model.TeamMember, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM team_members WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if m.SellerID != sellerID {
		return nil, ErrForbidden
	}
	return &m, nil
}

// Create inserts m for m.SellerID.
func (r *TeamRepo) Create(ctx context.Context, m *model.TeamMember) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO team_members (seller_id, name, email, phone, designation, category, availability,
		is_active, is_owner) VALUES (?,?,?,?,?,?,?,?,?)`,
		m.SellerID, m.Name, m.Email, m.Phone, model.EncodeStringList(m.Designation), m.Category,
		m.Availability, m.IsActive, m.IsOwner)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id), m.SellerID)
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// Update overwrites the editable fields of m.  The owner flag is immutable
// and an owner cannot be deactivated.
func (r *TeamRepo) Update(ctx context.Context, m *model.TeamMember) error {
	cur, err := r.GetByID(ctx, m.ID, m.SellerID)
	if err != nil {
		return err
	}
	if cur.IsOwner && !m.IsActive {
		return ErrOwnerProtected
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE team_members SET name = ?, email = ?, phone = ?, designation = ?, category = ?,
		availability = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND seller_id = ?`,
		m.Name, m.Email, m.Phone, model.EncodeStringList(m.Designation), m.Category, m.Availability,
		m.IsActive, m.ID, m.SellerID)
	if err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, m.ID, m.SellerID)
	if err != nil {
		return err
	}
	*m = *updated
	return nil
}

// Delete removes a non-owner member of sellerID.
func (r *TeamRepo) Delete(ctx context.Context, id, sellerID uint64) error {
	cur, err := r.GetByID(ctx, id, sellerID)
	if err != nil {
		return err
	}
	if cur.IsOwner {
		return ErrOwnerProtected
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM team_members WHERE id = ? AND seller_id = ?", id, sellerID)
	return err
}
