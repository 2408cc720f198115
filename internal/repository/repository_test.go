package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/photo-marketplace/internal/model"
)

var stamp = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func memberRows(id, sellerID uint64, designation string, owner bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seller_id", "name", "email", "phone", "designation", "category",
		"availability", "is_active", "is_owner", "created_at", "updated_at"}).
		AddRow(id, sellerID, "Asha", "asha@example.com", "9876543210", designation, "full_time",
			"available", true, owner, stamp, stamp)
}

func TestTeamDeleteOwnerIsRefused(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM team_members WHERE id").
		WithArgs(uint64(1)).
		WillReturnRows(memberRows(1, 42, `["Owner"]`, true))

	err := NewTeamRepo(db).Delete(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrOwnerProtected)
}

func TestTeamDeactivateOwnerIsRefused(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM team_members WHERE id").
		WithArgs(uint64(1)).
		WillReturnRows(memberRows(1, 42, `["Owner"]`, true))

	m := &model.TeamMember{ID: 1, SellerID: 42, Name: "Asha", IsActive: false}
	assert.ErrorIs(t, NewTeamRepo(db).Update(context.Background(), m), ErrOwnerProtected)
}

func TestTeamOtherSellerIsForbidden(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM team_members WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(memberRows(5, 7, `["Editor"]`, false))

	err := NewTeamRepo(db).Delete(context.Background(), 5, 42)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTeamDeleteMember(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM team_members WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(memberRows(5, 42, `["Editor"]`, false))
	mock.ExpectExec("DELETE FROM team_members").
		WithArgs(uint64(5), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewTeamRepo(db).Delete(context.Background(), 5, 42))
}

func TestTeamListParsesDesignation(t *testing.T) {
	db, mock := newMock(t)
	rows := memberRows(1, 42, `["Lead Photographer","Editor"]`, true).
		AddRow(2, 42, "Ravi", "", "", "Videographer", "freelance", "busy", true, false, stamp, stamp)
	mock.ExpectQuery("SELECT (.+) FROM team_members WHERE seller_id").
		WithArgs(uint64(42)).
		WillReturnRows(rows)

	team, err := NewTeamRepo(db).ListBySeller(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.Equal(t, []string{"Lead Photographer", "Editor"}, team[0].Designation)
	assert.Equal(t, []string{"Videographer"}, team[1].Designation)
}

func couponRows(id uint64, used int, limit any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "description", "discount_type", "discount_value", "max_discount",
		"min_order_amount", "usage_limit", "used_count", "start_date", "end_date", "is_active", "created_at", "updated_at"}).
		AddRow(id, "WELCOME10", "first booking", "percentage", 10.0, nil, 0.0, limit, used, "", "2026-12-31",
			true, stamp, stamp)
}

func TestCouponRedeemLimitReached(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE coupons SET used_count = used_count \\+ 1").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM coupons WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(couponRows(3, 5, 5))

	_, err := NewCouponRepo(db).Redeem(context.Background(), 3)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCouponRedeemIncrements(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE coupons SET used_count = used_count \\+ 1").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM coupons WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(couponRows(3, 1, nil))

	c, err := NewCouponRepo(db).Redeem(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsedCount)
	assert.Nil(t, c.UsageLimit)
	assert.Nil(t, c.MaxDiscount)
}

func TestCouponCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO coupons").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	c := &model.Coupon{Code: " welcome10 ", DiscountType: model.DiscountFixed, DiscountValue: 100}
	assert.ErrorIs(t, NewCouponRepo(db).Create(context.Background(), c), ErrDuplicate)
	assert.Equal(t, "WELCOME10", c.Code)
}

func TestCouponDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM coupons").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewCouponRepo(db).Delete(context.Background(), 9), ErrNotFound)
}

func TestBookingUpdateStatusScopedToSeller(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT seller_id FROM bookings").
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id"}).AddRow(7))

	paid := model.PaymentPaid
	_, err := NewBookingRepo(db).UpdateStatus(context.Background(), 10, 42, model.BookingStatusUpdate{PaymentStatus: &paid})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBookingUpdateStatusMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT seller_id FROM bookings").
		WithArgs(uint64(10)).
		WillReturnError(sql.ErrNoRows)

	_, err := NewBookingRepo(db).UpdateStatus(context.Background(), 10, 42, model.BookingStatusUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenValidateRejectsExpiredAndRevoked(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)
	repo.now = func() time.Time { return stamp }

	cols := []string{"user_id", "expires_at", "revoked_at"}
	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WithArgs("live").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, stamp.Add(time.Hour), nil))
	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WithArgs("expired").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, stamp.Add(-time.Hour), nil))
	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WithArgs("revoked").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, stamp.Add(time.Hour), stamp))

	uid, err := repo.Validate(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), uid)

	_, err = repo.Validate(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Validate(context.Background(), "revoked")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("asha@example.com", "Asha", "hash", model.RoleSeller).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	_, err := NewUserRepo(db).Create(context.Background(), &model.User{
		Email: " Asha@Example.com ", Name: "Asha", PasswordHash: "hash", Role: model.RoleSeller,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1045}))
	assert.False(t, isDuplicate(errors.New("1062")))
}

func TestNewRef(t *testing.T) {
	ref := newRef("BK")
	assert.Regexp(t, `^BK-[0-9A-F]{10}$`, ref)
	assert.NotEqual(t, ref, newRef("BK"))
}
