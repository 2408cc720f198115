package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/dashboard"
	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/queue"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/response"
)

// TicketHandler serves support tickets for every role.
type TicketHandler struct {
	Tickets TicketStore
	Users   UserStore
	Events  EventPublisher
	Now     Clock
	Log     *zap.Logger
}

func NewTicketHandler(t TicketStore, u UserStore, ev EventPublisher, now Clock, log *zap.Logger) *TicketHandler {
	return &TicketHandler{Tickets: t, Users: u, Events: ev, Now: now, Log: log}
}

type createTicketReq struct {
	Category    string `json:"category" validate:"required,oneof=booking payment technical account other"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Subject     string `json:"subject" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

type updateTicketReq struct {
	Status     *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,max=191"`
}

// Create handles POST /v1/tickets.  The submitter type follows the caller's
// role and the display name comes from the account.
func (h *TicketHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	var req createTicketReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return storeError(c, h.Log, err, "user")
	}
	raisedBy := u.Name
	if raisedBy == "" {
		raisedBy = u.Email
	}
	t := &model.Ticket{
		RaisedBy:    raisedBy,
		RaisedByID:  uid,
		UserType:    model.UserTypeForRole(middleware.Role(c)),
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      model.TicketOpen,
		Subject:     req.Subject,
		Description: req.Description,
	}
	if err := h.Tickets.Create(ctx, t); err != nil {
		return storeError(c, h.Log, err, "ticket")
	}
	emit(h.Events, queue.NewTicketRaised(*t, h.Now()))
	return response.Created(c, t)
}

// Mine handles GET /v1/my-tickets.
func (h *TicketHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Tickets.ListByRaiser(ctx, uid)
	if err != nil {
		return storeError(c, h.Log, err, "ticket")
	}
	return response.OK(c, list)
}

// AdminList handles GET /v1/admin/tickets?tab=&q=&priority=.
func (h *TicketHandler) AdminList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	list, err := h.Tickets.List(ctx)
	if err != nil {
		return storeError(c, h.Log, err, "ticket")
	}
	q := dashboard.TicketQuery{Tab: c.QueryParam("tab"), Search: c.QueryParam("q"), Priority: c.QueryParam("priority")}
	return response.OK(c, dashboard.Tickets(list, q))
}

// AdminUpdate handles PATCH /v1/admin/tickets/:id.
func (h *TicketHandler) AdminUpdate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	var req updateTicketReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if req.Status == nil && req.AssignedTo == nil {
		return response.BadRequest(c, "nothing to update")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	t, err := h.Tickets.Update(ctx, id, repository.TicketUpdate{Status: req.Status, AssignedTo: req.AssignedTo})
	if err != nil {
		return storeError(c, h.Log, err, "ticket")
	}
	emit(h.Events, queue.NewTicketUpdated(*t, uid, h.Now()))
	return response.OK(c, t)
}
