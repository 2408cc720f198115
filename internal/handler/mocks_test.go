package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/queue"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/validation"
)

var (
	testNow   = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	testClock = func() time.Time { return testNow }
	nopLog    = zap.NewNop()
)

// call builds an Echo context for method/path with body, authenticated as
// uid/role when uid is non-zero.  params are name, value pairs.
func call(method, target, body string, uid uint64, role string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		c.Set(middleware.CtxUserID, uid)
		c.Set(middleware.CtxRole, role)
	}
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, u *model.User) (uint64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Store(ctx context.Context, userID uint64, hash string, exp time.Time) error {
	return m.Called(ctx, userID, hash, exp).Error(0)
}

func (m *mockTokens) Validate(ctx context.Context, hash string) (uint64, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTokens) Revoke(ctx context.Context, hash string) error {
	return m.Called(ctx, hash).Error(0)
}

func (m *mockTokens) RevokeAll(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Create(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookings) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) ListBySeller(ctx context.Context, sellerID uint64) ([]model.Booking, error) {
	args := m.Called(ctx, sellerID)
	list, _ := args.Get(0).([]model.Booking)
	return list, args.Error(1)
}

func (m *mockBookings) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]model.Booking)
	return list, args.Error(1)
}

func (m *mockBookings) ListAll(ctx context.Context) ([]model.Booking, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Booking)
	return list, args.Error(1)
}

func (m *mockBookings) UpdateStatus(ctx context.Context, id, sellerID uint64, upd model.BookingStatusUpdate) (*model.Booking, error) {
	args := m.Called(ctx, id, sellerID, upd)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

type mockCoupons struct{ mock.Mock }

func (m *mockCoupons) Create(ctx context.Context, c *model.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCoupons) GetByID(ctx context.Context, id uint64) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Coupon)
	return c, args.Error(1)
}

func (m *mockCoupons) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*model.Coupon)
	return c, args.Error(1)
}

func (m *mockCoupons) List(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Coupon)
	return list, args.Error(1)
}

func (m *mockCoupons) Update(ctx context.Context, c *model.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCoupons) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCoupons) Redeem(ctx context.Context, id uint64) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Coupon)
	return c, args.Error(1)
}

type mockTickets struct{ mock.Mock }

func (m *mockTickets) Create(ctx context.Context, t *model.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTickets) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Ticket)
	return t, args.Error(1)
}

func (m *mockTickets) List(ctx context.Context) ([]model.Ticket, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Ticket)
	return list, args.Error(1)
}

func (m *mockTickets) ListByRaiser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Ticket)
	return list, args.Error(1)
}

func (m *mockTickets) Update(ctx context.Context, id uint64, upd repository.TicketUpdate) (*model.Ticket, error) {
	args := m.Called(ctx, id, upd)
	t, _ := args.Get(0).(*model.Ticket)
	return t, args.Error(1)
}

type mockTeam struct{ mock.Mock }

func (m *mockTeam) ListBySeller(ctx context.Context, sellerID uint64) ([]model.TeamMember, error) {
	args := m.Called(ctx, sellerID)
	list, _ := args.Get(0).([]model.TeamMember)
	return list, args.Error(1)
}

func (m *mockTeam) GetByID(ctx context.Context, id, sellerID uint64) (*model.TeamMember, error) {
	args := m.Called(ctx, id, sellerID)
	tm, _ := args.Get(0).(*model.TeamMember)
	return tm, args.Error(1)
}

func (m *mockTeam) Create(ctx context.Context, tm *model.TeamMember) error {
	return m.Called(ctx, tm).Error(0)
}

func (m *mockTeam) Update(ctx context.Context, tm *model.TeamMember) error {
	return m.Called(ctx, tm).Error(0)
}

func (m *mockTeam) Delete(ctx context.Context, id, sellerID uint64) error {
	return m.Called(ctx, id, sellerID).Error(0)
}

// recordingPublisher collects events published from handler goroutines.
type recordingPublisher struct{ events chan queue.Event }

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan queue.Event, 8)}
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.Event) error {
	p.events <- ev
	return nil
}

func (p *recordingPublisher) next(timeout time.Duration) (queue.Event, bool) {
	select {
	case ev := <-p.events:
		return ev, true
	case <-time.After(timeout):
		return queue.Event{}, false
	}
}

type mockGifts struct{ mock.Mock }

func (m *mockGifts) Create(ctx context.Context, g *model.Gift) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockGifts) GetByID(ctx context.Context, id uint64) (*model.Gift, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*model.Gift)
	return g, args.Error(1)
}

func (m *mockGifts) List(ctx context.Context) ([]model.Gift, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Gift)
	return list, args.Error(1)
}

func (m *mockGifts) Update(ctx context.Context, g *model.Gift) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockGifts) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockAds struct{ mock.Mock }

func (m *mockAds) Create(ctx context.Context, a *model.Advertisement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAds) GetByID(ctx context.Context, id uint64) (*model.Advertisement, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Advertisement)
	return a, args.Error(1)
}

func (m *mockAds) List(ctx context.Context) ([]model.Advertisement, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Advertisement)
	return list, args.Error(1)
}

func (m *mockAds) Update(ctx context.Context, a *model.Advertisement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAds) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockPurger struct{ mock.Mock }

func (m *mockPurger) Purge(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) Get(ctx context.Context, userID uint64) (*model.SellerProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*model.SellerProfile)
	return p, args.Error(1)
}

func (m *mockProfiles) Upsert(ctx context.Context, p *model.SellerProfile) error {
	return m.Called(ctx, p).Error(0)
}
