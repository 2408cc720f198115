package handler

import (
	"context"
	"errors"
	"math"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/classify"
	"github.com/iliyamo/photo-marketplace/internal/dashboard"
	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/response"
)

// CouponHandler serves admin coupon management and customer redemption.
type CouponHandler struct {
	Coupons CouponStore
	Now     Clock
	Log     *zap.Logger
}

func NewCouponHandler(s CouponStore, now Clock, log *zap.Logger) *CouponHandler {
	return &CouponHandler{Coupons: s, Now: now, Log: log}
}

type couponReq struct {
	Code           string   `json:"code" validate:"required,max=64"`
	Description    string   `json:"description" validate:"max=255"`
	DiscountType   string   `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue  float64  `json:"discountValue" validate:"gt=0"`
	MaxDiscount    *float64 `json:"maxDiscount" validate:"omitempty,gt=0"`
	MinOrderAmount float64  `json:"minOrderAmount" validate:"gte=0"`
	UsageLimit     *int     `json:"usageLimit" validate:"omitempty,gte=1"`
	StartDate      string   `json:"startDate" validate:"date"`
	EndDate        string   `json:"endDate" validate:"date"`
	IsActive       *bool    `json:"isActive"`
}

func (r couponReq) toModel() model.Coupon {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Coupon{
		Code:           r.Code,
		Description:    r.Description,
		DiscountType:   r.DiscountType,
		DiscountValue:  r.DiscountValue,
		MaxDiscount:    r.MaxDiscount,
		MinOrderAmount: r.MinOrderAmount,
		UsageLimit:     r.UsageLimit,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		IsActive:       active,
	}
}

func (h *CouponHandler) bind(c echo.Context) (*model.Coupon, bool, error) {
	var req couponReq
	if ok, err := bindValid(c, &req); !ok {
		return nil, false, err
	}
	if req.DiscountType == model.DiscountPercentage && req.DiscountValue > 100 {
		return nil, false, response.BadRequest(c, "percentage discount cannot exceed 100")
	}
	if ok, err := validWindow(c, req.StartDate, req.EndDate); !ok {
		return nil, false, err
	}
	m := req.toModel()
	return &m, true, nil
}

// List handles GET /v1/admin/coupons?status=&q=.
func (h *CouponHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Coupons.List(ctx)
	if err != nil {
		return storeError(c, h.Log, err, "coupon")
	}
	q := dashboard.ListQuery{Status: c.QueryParam("status"), Search: c.QueryParam("q")}
	return response.OK(c, dashboard.Coupons(list, q, h.Now()))
}

// Get handles GET /v1/admin/coupons/:id.
func (h *CouponHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	cp, err := h.Coupons.GetByID(ctx, id)
	if err != nil {
		return storeError(c, h.Log, err, "coupon")
	}
	return response.OK(c, dashboard.CouponView{Coupon: *cp, Status: dashboard.CouponStatus(*cp, h.Now())})
}

// Create handles POST /v1/admin/coupons.
func (h *CouponHandler) Create(c echo.Context) error {
	cp, ok, err := h.bind(c)
	if !ok {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Coupons.Create(ctx, cp); err != nil {
		return storeError(c, h.Log, err, "coupon")
	}
	return response.Created(c, dashboard.CouponView{Coupon: *cp, Status: dashboard.CouponStatus(*cp, h.Now())})
}

// Update handles PUT /v1/admin/coupons/:id.
func (h *CouponHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	cp, ok, err := h.bind(c)
	if !ok {
		return err
	}
	cp.ID = id
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Coupons.Update(ctx, cp); err != nil {
		return storeError(c, h.Log, err, "coupon")
	}
	return response.OK(c, dashboard.CouponView{Coupon: *cp, Status: dashboard.CouponStatus(*cp, h.Now())})
}

// Delete handles DELETE /v1/admin/coupons/:id.
func (h *CouponHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Coupons.Delete(ctx, id); err != nil {
		return storeError(c, h.Log, err, "coupon")
	}
	return response.OK(c, echo.Map{"id": id})
}

type applyCouponReq struct {
	Code        string  `json:"code" validate:"required"`
	OrderAmount float64 `json:"orderAmount" validate:"gt=0"`
}

// Quote is the outcome of applying a coupon to an order.
type Quote struct {
	Code        string          `json:"code"`
	Status      classify.Status `json:"status"`
	OrderAmount float64         `json:"orderAmount"`
	Discount    float64         `json:"discount"`
	Payable     float64         `json:"payable"`
}

// usable loads the coupon named in the body and checks that it can be
// applied now.  On failure the response has been written and cp is nil.
func (h *CouponHandler) usable(ctx context.Context, c echo.Context) (cp *model.Coupon, req applyCouponReq, err error) {
	if ok, err := bindValid(c, &req); !ok {
		return nil, req, err
	}
	cp, err = h.Coupons.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, req, response.NotFound(c, "coupon not found")
		}
		return nil, req, storeError(c, h.Log, err, "coupon")
	}
	now := h.Now()
	if st := dashboard.CouponStatus(*cp, now); st != classify.StatusActive {
		return nil, req, response.Conflict(c, "coupon is "+string(st))
	}
	if !dashboard.HasStarted(cp.StartDate, now) {
		return nil, req, response.Conflict(c, "coupon is not yet valid")
	}
	if req.OrderAmount < cp.MinOrderAmount {
		return nil, req, response.BadRequest(c, "order amount below coupon minimum")
	}
	return cp, req, nil
}

func quote(cp model.Coupon, status classify.Status, amount float64) Quote {
	d := cp.Discount(amount)
	return Quote{
		Code:        cp.Code,
		Status:      status,
		OrderAmount: amount,
		Discount:    d,
		Payable:     math.Round((amount-d)*100) / 100,
	}
}

// Validate handles POST /v1/coupons/validate.  It prices the order without
// consuming a use.
func (h *CouponHandler) Validate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	cp, req, err := h.usable(ctx, c)
	if cp == nil {
		return err
	}
	return response.OK(c, quote(*cp, classify.StatusActive, req.OrderAmount))
}

// Redeem handles POST /v1/coupons/redeem.  The usage counter is
// incremented atomically; losing a race for the last use yields 409.
func (h *CouponHandler) Redeem(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	cp, req, err := h.usable(ctx, c)
	if cp == nil {
		return err
	}
	redeemed, err := h.Coupons.Redeem(ctx, cp.ID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return response.Conflict(c, "coupon is "+string(classify.StatusLimitReached))
		}
		return storeError(c, h.Log, err, "coupon")
	}
	return response.OK(c, quote(*redeemed, dashboard.CouponStatus(*redeemed, h.Now()), req.OrderAmount))
}
