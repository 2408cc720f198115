package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/photo-marketplace/internal/model"
)

// ProfileRepo stores one vendor profile per seller account.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Get returns the profile of userID or ErrNotFound.
func (r *ProfileRepo) Get(ctx context.Context, userID uint64) (*model.SellerProfile, error) {
	var (
		p          model.SellerProfile
		bio        sql.NullString
		categories sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, business_name, owner_name, phone, city, bio, website, categories, updated_at
		FROM seller_profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.BusinessName, &p.OwnerName, &p.Phone, &p.City, &bio, &p.Website, &categories, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Bio = bio.String
	p.Categories = model.ParseStringList(categories.String)
	return &p, nil
}

// Upsert creates or replaces the profile of p.UserID.
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.SellerProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO seller_profiles (user_id, business_name, owner_name, phone, city, bio, website, categories)
		VALUES (?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE business_name = VALUES(business_name), owner_name = VALUES(owner_name),
		phone = VALUES(phone), city = VALUES(city), bio = VALUES(bio), website = VALUES(website),
		categories = VALUES(categories), updated_at = CURRENT_TIMESTAMP`,
		p.UserID, p.BusinessName, p.OwnerName, p.Phone, p.City, p.Bio, p.Website, model.EncodeStringList(p.Categories))
	if err != nil {
		return err
	}
	saved, err := r.Get(ctx, p.UserID)
	if err != nil {
		return err
	}
	*p = *saved
	return nil
}
