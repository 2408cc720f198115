package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/photo-marketplace/internal/model"
)

// BookingRepo encapsulates all database queries related to bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, booking_ref, seller_id, customer_id, customer_name, customer_email, customer_phone,
	photographer_name, category, subcategory, package_type, package_name, event_date, event_time, duration,
	total_amount, advance_amount, remaining_amount, payment_status, booking_status, service_status,
	delivery_status, COALESCE(notes, ''), created_at, updated_at`

func scanBooking(s rowScanner) (model.Booking, error) {
	var b model.Booking
	err := s.Scan(&b.ID, &b.BookingID, &b.SellerID, &b.CustomerID, &b.CustomerName, &b.CustomerEmail,
		&b.CustomerPhone, &b.PhotographerName, &b.Category, &b.Subcategory, &b.PackageType, &b.PackageName,
		&b.EventDate, &b.EventTime, &b.Duration, &b.TotalAmount, &b.AdvanceAmount, &b.RemainingAmount,
		&b.PaymentStatus, &b.BookingStatus, &b.ServiceStatus, &b.DeliveryStatus, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *BookingRepo) list(ctx context.Context, where string, args ...any) ([]model.Booking, error) {
	q := "SELECT " + bookingColumns + " FROM bookings"
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts b and fills in ID, BookingID and the timestamps.  The
// remaining amount is always derived from total and advance.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if b.BookingID == "" {
		b.BookingID = newRef("BK")
	}
	b.RemainingAmount = b.TotalAmount - b.AdvanceAmount
	if b.PaymentStatus == "" {
		b.PaymentStatus = model.PaymentPending
	}
	if b.BookingStatus == "" {
		b.BookingStatus = model.BookingPending
	}
	if b.ServiceStatus == "" {
		b.ServiceStatus = model.ServiceNotStarted
	}
	if b.DeliveryStatus == "" {
		b.DeliveryStatus = model.DeliveryPending
	}
	const qInsert = `INSERT INTO bookings (booking_ref, seller_id, customer_id, customer_name, customer_email,
		customer_phone, photographer_name, category, subcategory, package_type, package_name, event_date,
		event_time, duration, total_amount, advance_amount, remaining_amount, payment_status, booking_status,
		service_status, delivery_status, notes)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, qInsert, b.BookingID, b.SellerID, b.CustomerID, b.CustomerName,
		b.CustomerEmail, b.CustomerPhone, b.PhotographerName, b.Category, b.Subcategory, b.PackageType,
		b.PackageName, b.EventDate, b.EventTime, b.Duration, b.TotalAmount, b.AdvanceAmount,
		b.RemainingAmount, b.PaymentStatus, b.BookingStatus, b.ServiceStatus, b.DeliveryStatus, b.Notes)
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
	*b = *created
	return nil
}

// GetByID fetches a booking regardless of seller.  It returns ErrNotFound
// if no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListBySeller returns every booking of a seller, newest first.
func (r *BookingRepo) ListBySeller(ctx context.Context, sellerID uint64) ([]model.Booking, error) {
	return r.list(ctx, "seller_id = ?", sellerID)
}

// ListByCustomer returns every booking a customer placed, newest first.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error) {
	return r.list(ctx, "customer_id = ?", customerID)
}

// ListAll returns every booking on the platform for the admin dashboard.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "")
}

// UpdateStatus applies the non-nil fields of upd to a booking owned by
// sellerID.  A missing booking yields ErrNotFound and a booking of another
// seller yields ErrForbidden.  The status fields are written as given; they
// are not reconciled with each other.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, sellerID uint64, upd model.BookingStatusUpdate) (*model.Booking, error) {
	var owner uint64
	if err := r.db.QueryRowContext(ctx, "SELECT seller_id FROM bookings WHERE id = ?", id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if owner != sellerID {
		return nil, ErrForbidden
	}
	if !upd.Empty() {
		sets := []string{}
		args := []any{}
		add := func(col string, v *string) {
			if v != nil {
				sets = append(sets, col+" = ?")
				args = append(args, *v)
			}
		}
		add("payment_status", upd.PaymentStatus)
		add("booking_status", upd.BookingStatus)
		add("service_status", upd.ServiceStatus)
		add("delivery_status", upd.DeliveryStatus)
		args = append(args, id)
		q := "UPDATE bookings SET " + strings.Join(sets, ", ") + ", updated_at = CURRENT_TIMESTAMP WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}
