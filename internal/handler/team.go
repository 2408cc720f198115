package handler

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/response"
)

// TeamHandler serves a seller's team members.  Every call is scoped to the
// authenticated seller.
type TeamHandler struct {
	Team TeamStore
	Log  *zap.Logger
}

func NewTeamHandler(t TeamStore, log *zap.Logger) *TeamHandler {
	return &TeamHandler{Team: t, Log: log}
}

type teamMemberReq struct {
	Name         string   `json:"name" validate:"required,max=191"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone" validate:"phone"`
	Designation  []string `json:"designation" validate:"dive,required,max=64"`
	Category     string   `json:"category" validate:"omitempty,oneof=full_time part_time freelance"`
	Availability string   `json:"availability" validate:"omitempty,oneof=available busy on_leave"`
	IsActive     *bool    `json:"isActive"`
}

func (r teamMemberReq) toModel(sellerID uint64) model.TeamMember {
	m := model.TeamMember{
		SellerID:     sellerID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Designation:  r.Designation,
		Category:     r.Category,
		Availability: r.Availability,
		IsActive:     boolOr(r.IsActive, true),
	}
	if m.Designation == nil {
		m.Designation = []string{}
	}
	if m.Category == "" {
		m.Category = "full_time"
	}
	if m.Availability == "" {
		m.Availability = "available"
	}
	return m
}

// List handles GET /v1/team-members?sellerId=.  A sellerId other than the
// caller's is refused.
func (h *TeamHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	if s := c.QueryParam("sellerId"); s != "" {
		sellerID, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return response.BadRequest(c, "invalid sellerId")
		}
		if sellerID != uid {
			return response.Forbidden(c, "forbidden")
		}
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	team, err := h.Team.ListBySeller(ctx, uid)
	if err != nil {
		return storeError(c, h.Log, err, "team member")
	}
	return response.OK(c, team)
}

// Create handles POST /v1/team-members.  New members are never owners.
func (h *TeamHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	var req teamMemberReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	m := req.toModel(uid)
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Team.Create(ctx, &m); err != nil {
		return storeError(c, h.Log, err, "team member")
	}
	return response.Created(c, m)
}

// Update handles PUT /v1/team-members/:id.
func (h *TeamHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	var req teamMemberReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	m := req.toModel(uid)
	m.ID = id
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Team.Update(ctx, &m); err != nil {
		return storeError(c, h.Log, err, "team member")
	}
	return response.OK(c, m)
}

// Delete handles DELETE /v1/team-members/:id.
func (h *TeamHandler) Delete(c echo.Context) error {
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
	if err := h.Team.Delete(ctx, id, uid); err != nil {
		return storeError(c, h.Log, err, "team member")
	}
	return response.OK(c, echo.Map{"id": id})
}
