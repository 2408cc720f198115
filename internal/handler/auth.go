package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/config"
	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/response"
	"github.com/iliyamo/photo-marketplace/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
	Team   TeamStore
	Log    *zap.Logger
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore, team TeamStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Team: team, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=191"`
	Role     string `json:"role"` // CUSTOMER | SELLER
}
type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toUserPart(u *model.User) userPart {
	return userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// issue creates an access token plus a stored refresh token for u.
func (h *AuthHandler) issue(ctx context.Context, u *model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.Store(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	}, nil
}

// Register creates a CUSTOMER or SELLER account and returns tokens
// immediately.  Admin accounts are never self-registered.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleSeller {
		role = model.RoleCustomer
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		return response.InternalError(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u := &model.User{Email: req.Email, Name: req.Name, PasswordHash: hash, Role: role}
	if _, err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return response.Conflict(c, "email already exists")
		}
		return storeError(c, h.Log, err, "user")
	}
	if role == model.RoleSeller {
		if err := h.seedOwner(ctx, u); err != nil {
			h.Log.Error("seed owner team member", zap.Uint64("user_id", u.ID), zap.Error(err))
			return response.InternalError(c)
		}
	}
	resp, err := h.issue(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens", zap.Uint64("user_id", u.ID), zap.Error(err))
		return response.InternalError(c)
	}
	return response.Created(c, resp)
}

// seedOwner creates the seller's own team member.  It is the only place an
// owner row is written; the team endpoints never set the flag.
func (h *AuthHandler) seedOwner(ctx context.Context, u *model.User) error {
	if h.Team == nil {
		return nil
	}
	return h.Team.Create(ctx, &model.TeamMember{
		SellerID:     u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Designation:  []string{"Owner"},
		Category:     "full_time",
		Availability: "available",
		IsActive:     true,
		IsOwner:      true,
	})
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Unauthorized(c, "invalid credentials")
		}
		return storeError(c, h.Log, err, "user")
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return response.Unauthorized(c, "invalid credentials")
	}
	resp, err := h.issue(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens", zap.Uint64("user_id", u.ID), zap.Error(err))
		return response.InternalError(c)
	}
	return response.OK(c, resp)
}

// validRefresh resolves the user behind a refresh token in the body.  On
// failure the response has been written and u is nil.
func (h *AuthHandler) validRefresh(ctx context.Context, c echo.Context) (u *model.User, hash string, err error) {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return nil, "", response.BadRequest(c, "refresh_token required")
	}
	hash = utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))
	userID, err := h.Tokens.Validate(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", response.Unauthorized(c, "invalid refresh token")
		}
		return nil, "", storeError(c, h.Log, err, "refresh token")
	}
	u, err = h.Users.GetByID(ctx, userID)
	if err != nil || !u.IsActive {
		return nil, "", response.Unauthorized(c, "invalid refresh token")
	}
	return u, hash, nil
}

// Refresh rotates the refresh token: the old one is revoked and a new pair
// is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, hash, err := h.validRefresh(ctx, c)
	if u == nil {
		return err
	}
	if err := h.Tokens.Revoke(ctx, hash); err != nil {
		return storeError(c, h.Log, err, "refresh token")
	}
	resp, err := h.issue(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens", zap.Uint64("user_id", u.ID), zap.Error(err))
		return response.InternalError(c)
	}
	return response.OK(c, resp)
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, _, err := h.validRefresh(ctx, c)
	if u == nil {
		return err
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.Error("issue access token", zap.Error(err))
		return response.InternalError(c)
	}
	return response.OK(c, echo.Map{"access": tokenPart{Token: access.Token, Expires: access.Exp}})
}

// Logout revokes the refresh token in the body, or every refresh token of
// the caller when only a valid bearer token is sent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.Validate(ctx, hash); err != nil {
			return response.Unauthorized(c, "invalid refresh token")
		}
		if err := h.Tokens.Revoke(ctx, hash); err != nil {
			return storeError(c, h.Log, err, "refresh token")
		}
		return c.NoContent(http.StatusNoContent)
	}

	raw, ok := middleware.BearerToken(c)
	if !ok {
		return response.BadRequest(c, "provide Authorization header or refresh_token")
	}
	claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		return response.Unauthorized(c, "invalid token")
	}
	uid, _ := claims.UserID()
	if err := h.Tokens.RevokeAll(ctx, uid); err != nil {
		return storeError(c, h.Log, err, "refresh token")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's account.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return storeError(c, h.Log, err, "user")
	}
	return response.OK(c, toUserPart(u))
}
