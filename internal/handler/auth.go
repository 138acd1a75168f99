package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/config"
	"github.com/novaschool/parent-portal/internal/metrics"
	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/repository"
	"github.com/novaschool/parent-portal/internal/utils"
)

// AuthHandler bundles dependencies for the session endpoints. The
// portal never verifies credentials itself; the identity provider
// calls back with a verified open_id and we mint session tokens.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type callbackReq struct {
	OpenID      string  `json:"open_id" validate:"required,min=1"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	LoginMethod *string `json:"login_method"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    *model.User `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// Callback: exchange a verified external identity for a session.
// Upserts the user (only supplied fields overwrite; last_signed_in
// always advances) and returns a fresh token pair.
func (h *AuthHandler) Callback(c echo.Context) error {
	var req callbackReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	req.OpenID = strings.TrimSpace(req.OpenID)
	if req.OpenID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "open_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Upsert(ctx, repository.UserUpsert{
		OpenID:      req.OpenID,
		Name:        req.Name,
		Email:       req.Email,
		LoginMethod: req.LoginMethod,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sign-in failed"})
	}

	u, err := h.Users.GetByOpenID(ctx, req.OpenID)
	if err != nil {
		// The upsert is skipped when no store is configured, so the
		// lookup miss here means degraded mode rather than a bad id.
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return repoError(c, err)
	}

	metrics.SignIns.Inc()
	return c.JSON(http.StatusOK, authResp{
		User:    u,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client once
	})
}

// Refresh: validate by hash, revoke the old token, issue a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return repoError(c, err)
	}

	return c.JSON(http.StatusOK, authResp{
		User:    u,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Me returns the caller's full user row.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, callerID(c))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Logout revokes the supplied refresh token, or every session the
// caller holds when no token is given.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw != "" {
		if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
			return repoError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, callerID(c)); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
