package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/photo-marketplace/internal/model"
)

// GiftRepo encapsulates all database queries related to gift cards.
type GiftRepo struct {
	db *sql.DB
}

// NewGiftRepo constructs a GiftRepo with the provided DB handle.
func NewGiftRepo(db *sql.DB) *GiftRepo {
	return &GiftRepo{db: db}
}

const giftColumns = "id, name, gift_code, description, image_url, start_date, end_date, is_active, created_at, updated_at"

func scanGift(s rowScanner) (model.Gift, error) {
	var g model.Gift
	err := s.Scan(&g.ID, &g.Name, &g.GiftCode, &g.Description, &g.ImageURL, &g.StartDate, &g.EndDate,
		&g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

// Create inserts g.  A duplicate gift code yields ErrDuplicate.
func (r *GiftRepo) Create(ctx context.Context, g *model.Gift) error {
	g.GiftCode = NormalizeCode(g.GiftCode)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO gifts (name, gift_code, description, image_url, start_date, end_date, is_active)
		VALUES (?,?,?,?,?,?,?)`,
		g.Name, g.GiftCode, g.Description, g.ImageURL, g.StartDate, g.EndDate, g.IsActive)
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
	*g = *created
	return nil
}

// GetByID returns ErrNotFound when the gift does not exist.
func (r *GiftRepo) GetByID(ctx context.Context, id uint64) (*model.Gift, error) {
	g, err := scanGift(r.db.QueryRowContext(ctx, "SELECT "+giftColumns+" FROM gifts WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns every gift, newest first.
func (r *GiftRepo) List(ctx context.Context) ([]model.Gift, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+giftColumns+" FROM gifts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Gift, 0)
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Update overwrites every editable column of g.
func (r *GiftRepo) Update(ctx context.Context, g *model.Gift) error {
	g.GiftCode = NormalizeCode(g.GiftCode)
	if _, err := r.GetByID(ctx, g.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE gifts SET name = ?, gift_code = ?, description = ?, image_url = ?, start_date = ?,
		end_date = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		g.Name, g.GiftCode, g.Description, g.ImageURL, g.StartDate, g.EndDate, g.IsActive, g.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	updated, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = *updated
	return nil
}

// Delete removes a gift.
func (r *GiftRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "gifts", id)
}
