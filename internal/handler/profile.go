package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/response"
)

// ProfileHandler serves the caller's vendor profile.
type ProfileHandler struct {
	Profiles ProfileStore
	Log      *zap.Logger
}

func NewProfileHandler(p ProfileStore, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{Profiles: p, Log: log}
}

type profileReq struct {
	BusinessName string   `json:"businessName" validate:"required,max=191"`
	OwnerName    string   `json:"ownerName" validate:"max=191"`
	Phone        string   `json:"phone" validate:"phone"`
	City         string   `json:"city" validate:"max=96"`
	Bio          string   `json:"bio"`
	Website      string   `json:"website" validate:"omitempty,url"`
	Categories   []string `json:"categories" validate:"dive,required,max=64"`
}

// Get handles GET /v1/seller/profile.  A seller without a saved profile
// gets an empty one.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	p, err := h.Profiles.Get(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return response.OK(c, model.SellerProfile{UserID: uid, Categories: []string{}})
	}
	if err != nil {
		return storeError(c, h.Log, err, "profile")
	}
	return response.OK(c, p)
}

// Put handles PUT /v1/seller/profile.
func (h *ProfileHandler) Put(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	var req profileReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p := &model.SellerProfile{
		UserID:       uid,
		BusinessName: req.BusinessName,
		OwnerName:    req.OwnerName,
		Phone:        req.Phone,
		City:         req.City,
		Bio:          req.Bio,
		Website:      req.Website,
		Categories:   req.Categories,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Profiles.Upsert(ctx, p); err != nil {
		return storeError(c, h.Log, err, "profile")
	}
	return response.OK(c, p)
}
