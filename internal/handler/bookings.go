package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/dashboard"
	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/queue"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/response"
)

// BookingHandler serves the customer, seller and admin booking endpoints.
type BookingHandler struct {
	Bookings BookingStore
	Users    UserStore
	Events   EventPublisher
	Now      Clock
	Log      *zap.Logger
}

func NewBookingHandler(b BookingStore, u UserStore, ev EventPublisher, now Clock, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Bookings: b, Users: u, Events: ev, Now: now, Log: log}
}

type createBookingReq struct {
	SellerID         uint64  `json:"sellerId" validate:"required"`
	CustomerName     string  `json:"customerName" validate:"max=191"`
	CustomerEmail    string  `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone    string  `json:"customerPhone" validate:"phone"`
	PhotographerName string  `json:"photographerName" validate:"max=191"`
	Category         string  `json:"category" validate:"required,max=64"`
	Subcategory      string  `json:"subcategory" validate:"max=64"`
	PackageType      string  `json:"packageType" validate:"max=64"`
	PackageName      string  `json:"packageName" validate:"required,max=191"`
	EventDate        string  `json:"eventDate" validate:"required,date"`
	EventTime        string  `json:"eventTime" validate:"clock"`
	Duration         string  `json:"duration" validate:"max=32"`
	TotalAmount      float64 `json:"totalAmount" validate:"gte=0"`
	AdvanceAmount    float64 `json:"advanceAmount" validate:"gte=0,ltefield=TotalAmount"`
	Notes            string  `json:"notes"`
}

type bookingStatusReq struct {
	PaymentStatus  *string `json:"paymentStatus" validate:"omitempty,oneof=pending partial paid refunded"`
	BookingStatus  *string `json:"bookingStatus" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	ServiceStatus  *string `json:"serviceStatus" validate:"omitempty,oneof=not_started in_progress completed"`
	DeliveryStatus *string `json:"deliveryStatus" validate:"omitempty,oneof=pending in_progress delivered"`
}

// bookingQuery reads ?tab=&q=&payment=&status=.
func bookingQuery(c echo.Context) dashboard.BookingQuery {
	return dashboard.BookingQuery{
		Tab:           c.QueryParam("tab"),
		Search:        c.QueryParam("q"),
		PaymentStatus: c.QueryParam("payment"),
		BookingStatus: c.QueryParam("status"),
	}
}

// Create handles POST /v1/bookings.  Customer name and email default to
// the caller's account.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	var req createBookingReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	seller, err := h.Users.GetByID(ctx, req.SellerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError(c, h.Log, err, "user")
	}
	if err != nil || seller.Role != model.RoleSeller || !seller.IsActive {
		return response.BadRequest(c, "unknown seller")
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		me, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			return storeError(c, h.Log, err, "user")
		}
		if req.CustomerName == "" {
			req.CustomerName = me.Name
		}
		if req.CustomerEmail == "" {
			req.CustomerEmail = me.Email
		}
	}
	if req.PhotographerName == "" {
		req.PhotographerName = seller.Name
	}

	b := &model.Booking{
		SellerID:         req.SellerID,
		CustomerID:       uid,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		PhotographerName: req.PhotographerName,
		Category:         req.Category,
		Subcategory:      req.Subcategory,
		PackageType:      req.PackageType,
		PackageName:      req.PackageName,
		EventDate:        req.EventDate,
		EventTime:        req.EventTime,
		Duration:         req.Duration,
		TotalAmount:      req.TotalAmount,
		AdvanceAmount:    req.AdvanceAmount,
		Notes:            req.Notes,
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		return storeError(c, h.Log, err, "booking")
	}
	emit(h.Events, queue.NewBookingCreated(*b, h.Now()))
	return response.Created(c, b)
}

// Mine handles GET /v1/my-bookings with the same tab query as the seller
// dashboard.
func (h *BookingHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Bookings.ListByCustomer(ctx, uid)
	if err != nil {
		return storeError(c, h.Log, err, "booking")
	}
	return response.OK(c, dashboard.Bookings(list, bookingQuery(c), h.Now()))
}

// SellerList handles GET /v1/seller/bookings.  Only the caller's bookings
// are ever loaded.
func (h *BookingHandler) SellerList(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Bookings.ListBySeller(ctx, uid)
	if err != nil {
		return storeError(c, h.Log, err, "booking")
	}
	return response.OK(c, dashboard.Bookings(list, bookingQuery(c), h.Now()))
}

// SellerGet handles GET /v1/seller/bookings/:id.
func (h *BookingHandler) SellerGet(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return storeError(c, h.Log, err, "booking")
	}
	if b.SellerID != uid {
		return response.Forbidden(c, "forbidden")
	}
	return response.OK(c, b)
}

// UpdateStatus handles PATCH /v1/seller/bookings/:id/status.  The four
// status fields are applied independently.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	var req bookingStatusReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	upd := model.BookingStatusUpdate{
		PaymentStatus:  req.PaymentStatus,
		BookingStatus:  req.BookingStatus,
		ServiceStatus:  req.ServiceStatus,
		DeliveryStatus: req.DeliveryStatus,
	}
	if upd.Empty() {
		return response.BadRequest(c, "no status field to update")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	b, err := h.Bookings.UpdateStatus(ctx, id, uid, upd)
	if err != nil {
		return storeError(c, h.Log, err, "booking")
	}
	emit(h.Events, queue.NewBookingStatusChanged(*b, upd, uid, h.Now()))
	return response.OK(c, b)
}

// AdminList handles GET /v1/admin/bookings across every seller.
func (h *BookingHandler) AdminList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return storeError(c, h.Log, err, "booking")
	}
	return response.OK(c, dashboard.Bookings(list, bookingQuery(c), h.Now()))
}
