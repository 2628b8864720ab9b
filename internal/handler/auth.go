package handler

import (
	"context"  // context with cancellation for DB calls
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes and primitives
	"strconv"  // parsing path parameters
	"strings"  // string normalization
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/mkroener/hall-booking/internal/config"
	"github.com/mkroener/hall-booking/internal/model"
	"github.com/mkroener/hall-booking/internal/repository"
	"github.com/mkroener/hall-booking/internal/utils"
)

// AuthHandler bundles dependencies for authentication and user profile
// endpoints.  Responses follow the {success, message} shape the booking
// frontend expects.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	TaxNr     string `json:"tax_nr"`
}

type profileReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	TaxNr     string `json:"tax_nr"`
}

type userResp struct {
	UserID    uint64  `json:"userId"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	TaxNr     *string `json:"tax_nr"`
	IsAdmin   bool    `json:"is_admin"`
}

// Login verifies credentials and issues the access token.  The token embeds
// the user id and both role flags and is valid for the configured window
// (two hours by default).  Unknown users yield 404 and a wrong password 401,
// matching what the frontend distinguishes between.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal server error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "wrong password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.IsAdmin, u.IsStaff, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "issue token failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "login successful",
		"token":   access.Token,
		"userId":  u.ID,
	})
}

// Signup registers a new user.  The password is bcrypt hashed before it is
// stored; a duplicate email is rejected with 409.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	if req.TaxNr != "" {
		u.TaxNr = &req.TaxNr
	}
	if _, err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "user registration failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "user registered successfully"})
}

// CheckEmail reports whether an email is already taken.  The signup form
// calls this while the user is typing.
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Users.EmailExists(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"exists": exists})
}

// GetUser returns the profile fields of one user.
func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to load user"})
	}
	return c.JSON(http.StatusOK, userResp{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Email:     u.Email,
		TaxNr:     u.TaxNr,
		IsAdmin:   u.IsAdmin,
	})
}

// UpdateUser replaces the editable profile fields of a user.
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid user id"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := model.User{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	if req.TaxNr != "" {
		u.TaxNr = &req.TaxNr
	}
	if err := h.Users.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "profile update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "profile updated successfully"})
}

// Me echoes the claims of the presented access token.  It is the only
// endpoint behind the JWT middleware; the booking endpoints themselves are
// deliberately left open, matching the deployment this service replaces.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  c.Get("user_id"),
		"is_admin": c.Get("is_admin"),
		"is_staff": c.Get("is_staff"),
	})
}
