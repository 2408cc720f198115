package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/photo-marketplace/internal/model"
)

// AdvertisementRepo encapsulates all database queries related to ad
// placements.
type AdvertisementRepo struct {
	db *sql.DB
}

func NewAdvertisementRepo(db *sql.DB) *AdvertisementRepo {
	return &AdvertisementRepo{db: db}
}

const adColumns = "id, title, description, image_url, link, position, start_date, end_date, is_active, created_at, updated_at"

func scanAd(s rowScanner) (model.Advertisement, error) {
	var a model.Advertisement
	err := s.Scan(&a.ID, &a.Title, &a.Description, &a.ImageURL, &a.Link, &a.Position, &a.StartDate,
		&a.EndDate, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *AdvertisementRepo) Create(ctx context.Context, a *model.Advertisement) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO advertisements (title, description, image_url, link, position, start_date, end_date, is_active)
		VALUES (?,?,?,?,?,?,?,?)`,
		a.Title, a.Description, a.ImageURL, a.Link, a.Position, a.StartDate, a.EndDate, a.IsActive)
	if err != nil {
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
	*a = *created
	return nil
}

func (r *AdvertisementRepo) GetByID(ctx context.Context, id uint64) (*model.Advertisement, error) {
	a, err := scanAd(r.db.QueryRowContext(ctx, "SELECT "+adColumns+" FROM advertisements WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns every placement, newest first.  Position filtering happens
// in the dashboard so the status counts cover the same rows.
func (r *AdvertisementRepo) List(ctx context.Context) ([]model.Advertisement, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+adColumns+" FROM advertisements ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Advertisement, 0)
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AdvertisementRepo) Update(ctx context.Context, a *model.Advertisement) error {
	if _, err := r.GetByID(ctx, a.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE advertisements SET title = ?, description = ?, image_url = ?, link = ?, position = ?,
		start_date = ?, end_date = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		a.Title, a.Description, a.ImageURL, a.Link, a.Position, a.StartDate, a.EndDate, a.IsActive, a.ID)
	if err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *updated
	return nil
}

func (r *AdvertisementRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "advertisements", id)
}
