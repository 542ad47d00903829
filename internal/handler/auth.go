package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/band-catalog/internal/middleware"
	"github.com/iliyamo/band-catalog/internal/repository"
	"github.com/iliyamo/band-catalog/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func newAuthResp(pair service.TokenPair) authResp {
	return authResp{
		User:    userPart{ID: pair.User.ID, Username: pair.User.Username, Email: pair.User.Email},
		Access:  tokenPart{Token: pair.Access.Token, Expires: pair.Access.Exp},
		Refresh: tokenPart{Token: pair.Refresh.Token, Expires: pair.Refresh.Exp},
	}
}

// Register creates a user and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.Register(ctx, service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, newAuthResp(pair))
}

// Login verifies credentials and returns a new pair. Unknown usernames
// and wrong passwords produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	pair, err := h.Auth.IssueTokens(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, newAuthResp(pair))
}

// Refresh validates a refresh token and rotates it for a new pair. The
// presented token is single-use: after a successful call only the
// returned refresh token is accepted.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.RefreshTokens(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		// Every rejection means "log in again"; the reason is surfaced
		// so clients can tell a stale session from a broken request.
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token expired"})
		case errors.Is(err, service.ErrTokenRevoked):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token revoked"})
		case errors.Is(err, service.ErrTokenMalformed):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token malformed"})
		case errors.Is(err, service.ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return c.JSON(http.StatusOK, newAuthResp(pair))
}

// Logout clears the stored refresh credentials for the current user
// (protected route).
func (h *AuthHandler) Logout(c echo.Context) error {
	uid := middleware.CurrentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Logout(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me is a simple protected endpoint returning the token identity.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  middleware.CurrentUserID(c),
		"username": c.Get("username"),
		"email":    c.Get("email"),
	})
}
