package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/api/dto"
	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/ratelimit"
	"github.com/spec-kit/store-service/internal/service"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

// AuthHandler exposes login, CSRF token and password reset endpoints.
type AuthHandler struct {
	authService *service.AuthService
	csrf        *auth.CSRFGuard
	limiter     *ratelimit.Limiter
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, csrf *auth.CSRFGuard, limiter *ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{authService: authService, csrf: csrf, limiter: limiter}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, token, exp, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// CSRFToken handles GET /auth/csrf. Each call issues a fresh token; the
// new cookie supersedes any previous one for the session.
func (h *AuthHandler) CSRFToken(c *fiber.Ctx) error {
	token, err := h.csrf.Issue(c, "")
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{
		"token":   token,
		"success": true,
	})
}

// ForgotPassword handles POST /auth/password/forgot. The response is
// identical whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if !h.limiter.Allow(c.Context(), "forgot-password:"+c.IP()) {
		return fiber.NewError(http.StatusTooManyRequests, "too many requests")
	}

	meta := service.RequestMeta{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
	if err := h.authService.RequestPasswordReset(c.Context(), req.Email, meta); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": service.GenericResetMessage})
}

// ValidateResetToken handles GET /auth/password/reset?token=.
func (h *AuthHandler) ValidateResetToken(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	user, err := h.authService.ValidateResetToken(c.Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"valid": true,
		"email": user.Email,
		"name":  user.Name,
	})
}

// ResetPassword handles POST /auth/password/reset.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "token and new password required")
	}

	meta := service.RequestMeta{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
	user, err := h.authService.CompleteReset(c.Context(), req.Token, req.NewPassword, meta)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "password has been reset",
		"email":   user.Email,
	})
}

// AdminResetPassword handles POST /admin/users/:id/password.
func (h *AuthHandler) AdminResetPassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AdminResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "new password required")
	}

	meta := service.RequestMeta{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
	target, err := h.authService.AdminResetPassword(c.Context(), principal.User, c.Params("id"), req.NewPassword, req.SendEmail, meta)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "password has been reset",
		"user_id": target.ID,
		"email":   target.Email,
	})
}
