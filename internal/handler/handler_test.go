package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/photo-marketplace/internal/config"
	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/queue"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/utils"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func ptr(s string) *string { return &s }

func TestSellerListOnlyLoadsCallerBookings(t *testing.T) {
	store := new(mockBookings)
	store.On("ListBySeller", mock.Anything, uint64(7)).Return([]model.Booking{
		{ID: 1, BookingID: "BK-1", SellerID: 7, EventDate: "2026-10-18", BookingStatus: model.BookingConfirmed},
		{ID: 2, BookingID: "BK-2", SellerID: 7, EventDate: "2026-10-19", BookingStatus: model.BookingConfirmed},
	}, nil)
	h := NewBookingHandler(store, new(mockUsers), nil, testClock, nopLog)

	c, rec := call(http.MethodGet, "/v1/seller/bookings?tab=today", "", 7, model.RoleSeller)
	require.NoError(t, h.SellerList(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Tab   string         `json:"tab"`
		Count int            `json:"count"`
		Tabs  map[string]int `json:"tabs"`
	}
	env := decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, "today", page.Tab)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 1, page.Tabs["followup"])
	store.AssertNotCalled(t, "ListAll", mock.Anything)
	store.AssertExpectations(t)
}

func TestSellerGetOtherSellersBooking(t *testing.T) {
	store := new(mockBookings)
	store.On("GetByID", mock.Anything, uint64(3)).Return(&model.Booking{ID: 3, SellerID: 99}, nil)
	h := NewBookingHandler(store, new(mockUsers), nil, testClock, nopLog)

	c, rec := call(http.MethodGet, "/v1/seller/bookings/3", "", 7, model.RoleSeller, "id", "3")
	require.NoError(t, h.SellerGet(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateStatusForbidden(t *testing.T) {
	store := new(mockBookings)
	store.On("UpdateStatus", mock.Anything, uint64(3), uint64(7), mock.Anything).Return(nil, repository.ErrForbidden)
	h := NewBookingHandler(store, new(mockUsers), nil, testClock, nopLog)

	c, rec := call(http.MethodPatch, "/v1/seller/bookings/3/status", `{"bookingStatus":"confirmed"}`, 7, model.RoleSeller, "id", "3")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestUpdateStatusPublishesChange(t *testing.T) {
	store := new(mockBookings)
	upd := model.BookingStatusUpdate{PaymentStatus: ptr(model.PaymentPaid)}
	store.On("UpdateStatus", mock.Anything, uint64(3), uint64(7), upd).
		Return(&model.Booking{ID: 3, BookingID: "BK-3", SellerID: 7, PaymentStatus: model.PaymentPaid}, nil)
	pub := newRecordingPublisher()
	h := NewBookingHandler(store, new(mockUsers), pub, testClock, nopLog)

	c, rec := call(http.MethodPatch, "/v1/seller/bookings/3/status", `{"paymentStatus":"paid"}`, 7, model.RoleSeller, "id", "3")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	ev, ok := pub.next(time.Second)
	require.True(t, ok, "event not published")
	assert.Equal(t, queue.BookingStatusChanged, ev.Type)
	assert.Equal(t, "BK-3", ev.Ref)
	assert.Equal(t, model.PaymentPaid, ev.Changes["paymentStatus"])
}

func TestUpdateStatusRejectsEmptyAndUnknownValues(t *testing.T) {
	h := NewBookingHandler(new(mockBookings), new(mockUsers), nil, testClock, nopLog)

	c, rec := call(http.MethodPatch, "/", `{}`, 7, model.RoleSeller, "id", "3")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = call(http.MethodPatch, "/", `{"bookingStatus":"shipped"}`, 7, model.RoleSeller, "id", "3")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingValidatesDate(t *testing.T) {
	h := NewBookingHandler(new(mockBookings), new(mockUsers), nil, testClock, nopLog)
	body := `{"sellerId":2,"category":"wedding","packageName":"Gold","eventDate":"18/10/2026","totalAmount":100}`
	c, rec := call(http.MethodPost, "/v1/bookings", body, 5, model.RoleCustomer)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "eventDate")
}

func TestCreateBookingDefaultsFromAccounts(t *testing.T) {
	users := new(mockUsers)
	users.On("GetByID", mock.Anything, uint64(2)).Return(&model.User{ID: 2, Name: "Studio Nine", Role: model.RoleSeller, IsActive: true}, nil)
	users.On("GetByID", mock.Anything, uint64(5)).Return(&model.User{ID: 5, Name: "Asha", Email: "asha@example.com", Role: model.RoleCustomer, IsActive: true}, nil)
	store := new(mockBookings)
	store.On("Create", mock.Anything, mock.MatchedBy(func(b *model.Booking) bool {
		return b.CustomerName == "Asha" && b.CustomerEmail == "asha@example.com" &&
			b.PhotographerName == "Studio Nine" && b.SellerID == 2 && b.CustomerID == 5
	})).Run(func(args mock.Arguments) {
		b := args.Get(1).(*model.Booking)
		b.ID = 11
		b.BookingID = "BK-00000000AB"
	}).Return(nil)
	pub := newRecordingPublisher()
	h := NewBookingHandler(store, users, pub, testClock, nopLog)

	body := `{"sellerId":2,"category":"wedding","packageName":"Gold","eventDate":"2026-11-02","eventTime":"10:30","totalAmount":1000,"advanceAmount":250}`
	c, rec := call(http.MethodPost, "/v1/bookings", body, 5, model.RoleCustomer)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	store.AssertExpectations(t)

	ev, ok := pub.next(time.Second)
	require.True(t, ok)
	assert.Equal(t, queue.BookingCreated, ev.Type)
	assert.Equal(t, uint64(2), ev.SellerID)
}

func TestCreateBookingUnknownSeller(t *testing.T) {
	users := new(mockUsers)
	users.On("GetByID", mock.Anything, uint64(5)).Return(&model.User{ID: 5, Role: model.RoleCustomer, IsActive: true}, nil)
	h := NewBookingHandler(new(mockBookings), users, nil, testClock, nopLog)

	body := `{"sellerId":5,"category":"wedding","packageName":"Gold","eventDate":"2026-11-02"}`
	c, rec := call(http.MethodPost, "/v1/bookings", body, 5, model.RoleCustomer)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingSellerLookup(t *testing.T) {
	users := new(mockUsers)
	users.On("GetByID", mock.Anything, uint64(8)).Return(nil, repository.ErrNotFound)
	users.On("GetByID", mock.Anything, uint64(9)).Return(nil, errors.New("connection reset"))
	bookings := new(mockBookings)
	h := NewBookingHandler(bookings, users, nil, testClock, nopLog)

	body := `{"sellerId":8,"category":"wedding","packageName":"Gold","eventDate":"2026-11-02"}`
	c, rec := call(http.MethodPost, "/v1/bookings", body, 5, model.RoleCustomer)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = `{"sellerId":9,"category":"wedding","packageName":"Gold","eventDate":"2026-11-02"}`
	c, rec = call(http.MethodPost, "/v1/bookings", body, 5, model.RoleCustomer)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTeamDeleteOwnerRefused(t *testing.T) {
	team := new(mockTeam)
	team.On("Delete", mock.Anything, uint64(1), uint64(7)).Return(repository.ErrOwnerProtected)
	h := NewTeamHandler(team, nopLog)

	c, rec := call(http.MethodDelete, "/v1/team-members/1", "", 7, model.RoleSeller, "id", "1")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, repository.ErrOwnerProtected.Error(), decode(t, rec).Message)
}

func TestTeamListOtherSellerRefused(t *testing.T) {
	team := new(mockTeam)
	h := NewTeamHandler(team, nopLog)

	c, rec := call(http.MethodGet, "/v1/team-members?sellerId=8", "", 7, model.RoleSeller)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	team.AssertNotCalled(t, "ListBySeller", mock.Anything, mock.Anything)
}

func TestTeamCreateDefaults(t *testing.T) {
	team := new(mockTeam)
	team.On("Create", mock.Anything, mock.MatchedBy(func(m *model.TeamMember) bool {
		return m.SellerID == 7 && !m.IsOwner && m.IsActive &&
			m.Category == "full_time" && m.Availability == "available" && len(m.Designation) == 2
	})).Return(nil)
	h := NewTeamHandler(team, nopLog)

	c, rec := call(http.MethodPost, "/v1/team-members", `{"name":"Ravi","designation":["editor","drone"]}`, 7, model.RoleSeller)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	team.AssertExpectations(t)
}

func TestTicketUserTypeFollowsRole(t *testing.T) {
	users := new(mockUsers)
	users.On("GetByID", mock.Anything, uint64(7)).Return(&model.User{ID: 7, Name: "Studio Nine"}, nil)
	tickets := new(mockTickets)
	tickets.On("Create", mock.Anything, mock.MatchedBy(func(tk *model.Ticket) bool {
		return tk.UserType == model.UserTypePhotographer && tk.RaisedBy == "Studio Nine" &&
			tk.Priority == "medium" && tk.Status == model.TicketOpen
	})).Return(nil)
	pub := newRecordingPublisher()
	h := NewTicketHandler(tickets, users, pub, testClock, nopLog)

	body := `{"category":"payment","subject":"Payout delayed","description":"October payout missing"}`
	c, rec := call(http.MethodPost, "/v1/tickets", body, 7, model.RoleSeller)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	tickets.AssertExpectations(t)

	ev, ok := pub.next(time.Second)
	require.True(t, ok)
	assert.Equal(t, queue.TicketRaised, ev.Type)
}

func TestTicketAdminUpdateNothing(t *testing.T) {
	h := NewTicketHandler(new(mockTickets), new(mockUsers), nil, testClock, nopLog)
	c, rec := call(http.MethodPatch, "/", `{}`, 1, model.RoleAdmin, "id", "4")
	require.NoError(t, h.AdminUpdate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketAdminListDefaultsToClientOpen(t *testing.T) {
	tickets := new(mockTickets)
	tickets.On("List", mock.Anything).Return([]model.Ticket{
		{TicketID: "TKT-1", UserType: model.UserTypeClient, Status: model.TicketOpen},
		{TicketID: "TKT-2", UserType: model.UserTypePhotographer, Status: model.TicketOpen},
	}, nil)
	h := NewTicketHandler(tickets, new(mockUsers), nil, testClock, nopLog)

	c, rec := call(http.MethodGet, "/v1/admin/tickets", "", 1, model.RoleAdmin)
	require.NoError(t, h.AdminList(c))
	var page struct {
		Tab   string `json:"tab"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	assert.Equal(t, "client/open", page.Tab)
	assert.Equal(t, 1, page.Count)
}

func TestCouponValidateExpired(t *testing.T) {
	coupons := new(mockCoupons)
	coupons.On("GetByCode", mock.Anything, "OLD10").Return(&model.Coupon{
		ID: 1, Code: "OLD10", DiscountType: model.DiscountFixed, DiscountValue: 10,
		IsActive: true, EndDate: "2026-10-01",
	}, nil)
	h := NewCouponHandler(coupons, testClock, nopLog)

	c, rec := call(http.MethodPost, "/v1/coupons/validate", `{"code":"OLD10","orderAmount":500}`, 5, model.RoleCustomer)
	require.NoError(t, h.Validate(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "coupon is expired", decode(t, rec).Message)
}

func TestCouponValidateQuote(t *testing.T) {
	maxD := 150.0
	coupons := new(mockCoupons)
	coupons.On("GetByCode", mock.Anything, "WEDDING20").Return(&model.Coupon{
		ID: 2, Code: "WEDDING20", DiscountType: model.DiscountPercentage, DiscountValue: 20,
		MaxDiscount: &maxD, IsActive: true, EndDate: "2026-12-31",
	}, nil)
	h := NewCouponHandler(coupons, testClock, nopLog)

	c, rec := call(http.MethodPost, "/v1/coupons/validate", `{"code":"WEDDING20","orderAmount":1000}`, 5, model.RoleCustomer)
	require.NoError(t, h.Validate(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var q Quote
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &q))
	assert.Equal(t, 150.0, q.Discount)
	assert.Equal(t, 850.0, q.Payable)
	coupons.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything)
}

func TestCouponRedeemLosesRace(t *testing.T) {
	one := 1
	coupons := new(mockCoupons)
	coupons.On("GetByCode", mock.Anything, "LAST").Return(&model.Coupon{
		ID: 3, Code: "LAST", DiscountType: model.DiscountFixed, DiscountValue: 50,
		UsageLimit: &one, IsActive: true,
	}, nil)
	coupons.On("Redeem", mock.Anything, uint64(3)).Return(nil, repository.ErrConflict)
	h := NewCouponHandler(coupons, testClock, nopLog)

	c, rec := call(http.MethodPost, "/v1/coupons/redeem", `{"code":"LAST","orderAmount":200}`, 5, model.RoleCustomer)
	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "coupon is limit_reached", decode(t, rec).Message)
}

func TestCouponCreateRejectsPercentOver100(t *testing.T) {
	coupons := new(mockCoupons)
	h := NewCouponHandler(coupons, testClock, nopLog)
	c, rec := call(http.MethodPost, "/v1/admin/coupons", `{"code":"X","discountType":"percentage","discountValue":120}`, 1, model.RoleAdmin)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	coupons.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func testAuthConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
}

func TestRegisterIssuesTokens(t *testing.T) {
	users := new(mockUsers)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleSeller && u.PasswordHash != "" && u.PasswordHash != "s3cretpass"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 42
	}).Return(uint64(42), nil)
	tokens := new(mockTokens)
	tokens.On("Store", mock.Anything, uint64(42), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
	team := new(mockTeam)
	team.On("Create", mock.Anything, mock.MatchedBy(func(m *model.TeamMember) bool {
		return m.SellerID == 42 && m.IsOwner && m.IsActive && m.Name == "Studio" &&
			m.Email == "studio@example.com" && assert.ObjectsAreEqual([]string{"Owner"}, m.Designation)
	})).Return(nil)
	h := NewAuthHandler(testAuthConfig(), users, tokens, team, nopLog)

	body := `{"email":"studio@example.com","password":"s3cretpass","name":"Studio","role":"seller"}`
	c, rec := call(http.MethodPost, "/v1/auth/register", body, 0, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResp
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &resp))
	assert.Equal(t, uint64(42), resp.User.ID)
	assert.NotEmpty(t, resp.Refresh.Token)

	claims, err := utils.ParseAccessToken("test-secret", resp.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, claims.Role)
	tokens.AssertExpectations(t)
	team.AssertExpectations(t)
}

func TestRegisterCustomerHasNoTeam(t *testing.T) {
	users := new(mockUsers)
	users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 43
	}).Return(uint64(43), nil)
	tokens := new(mockTokens)
	tokens.On("Store", mock.Anything, uint64(43), mock.Anything, mock.Anything).Return(nil)
	team := new(mockTeam)
	h := NewAuthHandler(testAuthConfig(), users, tokens, team, nopLog)

	body := `{"email":"client@example.com","password":"s3cretpass","name":"Client"}`
	c, rec := call(http.MethodPost, "/v1/auth/register", body, 0, "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	team.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterSellerOwnerSeedFails(t *testing.T) {
	users := new(mockUsers)
	users.On("Create", mock.Anything, mock.Anything).Return(uint64(44), nil)
	team := new(mockTeam)
	team.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	tokens := new(mockTokens)
	h := NewAuthHandler(testAuthConfig(), users, tokens, team, nopLog)

	body := `{"email":"s@example.com","password":"s3cretpass","name":"S","role":"SELLER"}`
	c, rec := call(http.MethodPost, "/v1/auth/register", body, 0, "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	tokens.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterAdminRoleDowngraded(t *testing.T) {
	users := new(mockUsers)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleCustomer
	})).Return(uint64(0), repository.ErrDuplicate)
	h := NewAuthHandler(testAuthConfig(), users, new(mockTokens), nil, nopLog)

	body := `{"email":"a@example.com","password":"s3cretpass","name":"A","role":"ADMIN"}`
	c, rec := call(http.MethodPost, "/v1/auth/register", body, 0, "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	users.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := utils.HashPassword("right-password", 4)
	require.NoError(t, err)
	users := new(mockUsers)
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 3, PasswordHash: hash, IsActive: true}, nil)
	tokens := new(mockTokens)
	h := NewAuthHandler(testAuthConfig(), users, tokens, nil, nopLog)

	c, rec := call(http.MethodPost, "/v1/auth/login", `{"email":"a@example.com","password":"wrong"}`, 0, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	tokens.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogoutNeedsCredential(t *testing.T) {
	h := NewAuthHandler(testAuthConfig(), new(mockUsers), new(mockTokens), nil, nopLog)
	c, rec := call(http.MethodPost, "/v1/auth/logout", "", 0, "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
