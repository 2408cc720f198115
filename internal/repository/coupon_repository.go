package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/photo-marketplace/internal/model"
)

// CouponRepo encapsulates all database queries related to coupons.  The
// derived status is never stored; used_count is the only counter and it
// only moves through Redeem.
type CouponRepo struct {
	db *sql.DB
}

// NewCouponRepo constructs a CouponRepo with the provided DB handle.
func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

const couponColumns = `id, code, description, discount_type, discount_value, max_discount, min_order_amount,
	usage_limit, used_count, start_date, end_date, is_active, created_at, updated_at`

func scanCoupon(s rowScanner) (model.Coupon, error) {
	var (
		c        model.Coupon
		maxDisc  sql.NullFloat64
		usageLim sql.NullInt64
	)
	err := s.Scan(&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue, &maxDisc,
		&c.MinOrderAmount, &usageLim, &c.UsedCount, &c.StartDate, &c.EndDate, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if maxDisc.Valid {
		v := maxDisc.Float64
		c.MaxDiscount = &v
	}
	if usageLim.Valid {
		v := int(usageLim.Int64)
		c.UsageLimit = &v
	}
	return c, nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

// NormalizeCode upper-cases and trims a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create inserts c.  A code already in use yields ErrDuplicate.
func (r *CouponRepo) Create(ctx context.Context, c *model.Coupon) error {
	c.Code = NormalizeCode(c.Code)
	const q = `INSERT INTO coupons (code, description, discount_type, discount_value, max_discount,
		min_order_amount, usage_limit, start_date, end_date, is_active) VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, c.Code, c.Description, c.DiscountType, c.DiscountValue,
		nullFloat(c.MaxDiscount), c.MinOrderAmount, nullInt(c.UsageLimit), c.StartDate, c.EndDate, c.IsActive)
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
	*c = *created
	return nil
}

// GetByID returns ErrNotFound when the coupon does not exist.
func (r *CouponRepo) GetByID(ctx context.Context, id uint64) (*model.Coupon, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByCode looks a coupon up by its normalized code.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return r.getOne(ctx, "code = ?", NormalizeCode(code))
}

func (r *CouponRepo) getOne(ctx context.Context, where string, arg any) (*model.Coupon, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+couponColumns+" FROM coupons WHERE "+where, arg)
	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all coupons, newest first.
func (r *CouponRepo) List(ctx context.Context) ([]model.Coupon, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+couponColumns+" FROM coupons ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable fields of c.  used_count is left alone.
func (r *CouponRepo) Update(ctx context.Context, c *model.Coupon) error {
	c.Code = NormalizeCode(c.Code)
	const q = `UPDATE coupons SET code = ?, description = ?, discount_type = ?, discount_value = ?,
		max_discount = ?, min_order_amount = ?, usage_limit = ?, start_date = ?, end_date = ?, is_active = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Code, c.Description, c.DiscountType, c.DiscountValue,
		nullFloat(c.MaxDiscount), c.MinOrderAmount, nullInt(c.UsageLimit), c.StartDate, c.EndDate,
		c.IsActive, c.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 affected rows for a no-op update too; check existence.
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	updated, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

// Delete removes a coupon.  It returns ErrNotFound when nothing was deleted.
func (r *CouponRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "coupons", id)
}

// Redeem atomically increments used_count when the usage limit allows it.
// ErrConflict means the limit was reached between the caller's status check
// and the update.
func (r *CouponRepo) Redeem(ctx context.Context, id uint64) (*model.Coupon, error) {
	const q = `UPDATE coupons SET used_count = used_count + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND (usage_limit IS NULL OR used_count < usage_limit)`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return r.GetByID(ctx, id)
}

// deleteByID is shared by the admin-managed tables.
func deleteByID(ctx context.Context, db *sql.DB, table string, id uint64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
