package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/classify"
	"github.com/iliyamo/photo-marketplace/internal/dashboard"
	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/response"
)

// PromotionHandler serves gift cards and advertisements: admin CRUD plus
// the cached public listings.
type PromotionHandler struct {
	Gifts GiftStore
	Ads   AdvertisementStore
	Cache CachePurger
	Now   Clock
	Log   *zap.Logger
}

func NewPromotionHandler(g GiftStore, a AdvertisementStore, cache CachePurger, now Clock, log *zap.Logger) *PromotionHandler {
	return &PromotionHandler{Gifts: g, Ads: a, Cache: cache, Now: now, Log: log}
}

func listQuery(c echo.Context) dashboard.ListQuery {
	return dashboard.ListQuery{
		Status:   c.QueryParam("status"),
		Search:   c.QueryParam("q"),
		Position: c.QueryParam("position"),
	}
}

// validWindow writes a 400 when both dates are set and end precedes start.
func validWindow(c echo.Context, start, end string) (bool, error) {
	if start != "" && end != "" && end < start {
		return false, response.BadRequest(c, "endDate is before startDate")
	}
	return true, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// ----- gifts -----

type giftReq struct {
	Name        string `json:"name" validate:"required,max=191"`
	GiftCode    string `json:"giftCode" validate:"required,max=64"`
	Description string `json:"description" validate:"max=255"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	StartDate   string `json:"startDate" validate:"date"`
	EndDate     string `json:"endDate" validate:"date"`
	IsActive    *bool  `json:"isActive"`
}

func (r giftReq) toModel() model.Gift {
	return model.Gift{
		Name:        r.Name,
		GiftCode:    r.GiftCode,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		IsActive:    boolOr(r.IsActive, true),
	}
}

func (h *PromotionHandler) giftView(g model.Gift) dashboard.GiftView {
	return dashboard.GiftView{Gift: g, Status: dashboard.GiftStatus(g, h.Now())}
}

// ListGifts handles GET /v1/admin/gifts?status=&q=.
func (h *PromotionHandler) ListGifts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Gifts.List(ctx)
	if err != nil {
		return storeError(c, h.Log, err, "gift")
	}
	return response.OK(c, dashboard.Gifts(list, listQuery(c), h.Now()))
}

// PublicGifts handles GET /v1/gifts: active and started gifts only.
func (h *PromotionHandler) PublicGifts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Gifts.List(ctx)
	if err != nil {
		return storeError(c, h.Log, err, "gift")
	}
	now := h.Now()
	started := classify.Filter(list, func(g model.Gift) bool { return dashboard.HasStarted(g.StartDate, now) })
	page := dashboard.Gifts(started, dashboard.ListQuery{Status: string(classify.StatusActive), Search: c.QueryParam("q")}, now)
	return response.OK(c, page.Items)
}

func (h *PromotionHandler) CreateGift(c echo.Context) error {
	var req giftReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if ok, err := validWindow(c, req.StartDate, req.EndDate); !ok {
		return err
	}
	g := req.toModel()
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Gifts.Create(ctx, &g); err != nil {
		return storeError(c, h.Log, err, "gift")
	}
	purge(ctx, h.Cache, h.Log)
	return response.Created(c, h.giftView(g))
}

func (h *PromotionHandler) GetGift(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	g, err := h.Gifts.GetByID(ctx, id)
	if err != nil {
		return storeError(c, h.Log, err, "gift")
	}
	return response.OK(c, h.giftView(*g))
}

func (h *PromotionHandler) UpdateGift(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	var req giftReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if ok, err := validWindow(c, req.StartDate, req.EndDate); !ok {
		return err
	}
	g := req.toModel()
	g.ID = id
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Gifts.Update(ctx, &g); err != nil {
		return storeError(c, h.Log, err, "gift")
	}
	purge(ctx, h.Cache, h.Log)
	return response.OK(c, h.giftView(g))
}

func (h *PromotionHandler) DeleteGift(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Gifts.Delete(ctx, id); err != nil {
		return storeError(c, h.Log, err, "gift")
	}
	purge(ctx, h.Cache, h.Log)
	return response.OK(c, echo.Map{"id": id})
}

// ----- advertisements -----

type advertisementReq struct {
	Title       string `json:"title" validate:"required,max=191"`
	Description string `json:"description" validate:"max=512"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Link        string `json:"link" validate:"omitempty,url"`
	Position    string `json:"position" validate:"required,oneof=banner sidebar homepage"`
	StartDate   string `json:"startDate" validate:"date"`
	EndDate     string `json:"endDate" validate:"date"`
	IsActive    *bool  `json:"isActive"`
}

func (r advertisementReq) toModel() model.Advertisement {
	return model.Advertisement{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Link:        r.Link,
		Position:    r.Position,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		IsActive:    boolOr(r.IsActive, true),
	}
}

func (h *PromotionHandler) adView(a model.Advertisement) dashboard.AdvertisementView {
	return dashboard.AdvertisementView{Advertisement: a, Status: dashboard.AdvertisementStatus(a, h.Now())}
}

// ListAdvertisements handles GET /v1/admin/advertisements?status=&position=&q=.
func (h *PromotionHandler) ListAdvertisements(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Ads.List(ctx)
	if err != nil {
		return storeError(c, h.Log, err, "advertisement")
	}
	return response.OK(c, dashboard.Advertisements(list, listQuery(c), h.Now()))
}

// PublicAdvertisements handles GET /v1/advertisements?position=: active and
// started placements only.
func (h *PromotionHandler) PublicAdvertisements(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Ads.List(ctx)
	if err != nil {
		return storeError(c, h.Log, err, "advertisement")
	}
	now := h.Now()
	started := classify.Filter(list, func(a model.Advertisement) bool { return dashboard.HasStarted(a.StartDate, now) })
	q := dashboard.ListQuery{Status: string(classify.StatusActive), Position: c.QueryParam("position")}
	return response.OK(c, dashboard.Advertisements(started, q, now).Items)
}

func (h *PromotionHandler) CreateAdvertisement(c echo.Context) error {
	var req advertisementReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if ok, err := validWindow(c, req.StartDate, req.EndDate); !ok {
		return err
	}
	a := req.toModel()
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Ads.Create(ctx, &a); err != nil {
		return storeError(c, h.Log, err, "advertisement")
	}
	purge(ctx, h.Cache, h.Log)
	return response.Created(c, h.adView(a))
}

func (h *PromotionHandler) GetAdvertisement(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	a, err := h.Ads.GetByID(ctx, id)
	if err != nil {
		return storeError(c, h.Log, err, "advertisement")
	}
	return response.OK(c, h.adView(*a))
}

func (h *PromotionHandler) UpdateAdvertisement(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	var req advertisementReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if ok, err := validWindow(c, req.StartDate, req.EndDate); !ok {
		return err
	}
	a := req.toModel()
	a.ID = id
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Ads.Update(ctx, &a); err != nil {
		return storeError(c, h.Log, err, "advertisement")
	}
	purge(ctx, h.Cache, h.Log)
	return response.OK(c, h.adView(a))
}

func (h *PromotionHandler) DeleteAdvertisement(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Ads.Delete(ctx, id); err != nil {
		return storeError(c, h.Log, err, "advertisement")
	}
	purge(ctx, h.Cache, h.Log)
	return response.OK(c, echo.Map{"id": id})
}
