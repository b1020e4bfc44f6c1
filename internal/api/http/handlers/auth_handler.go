package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-desk/internal/api/dto"
	"github.com/spec-kit/maintenance-desk/internal/service"
)

// AuthHandler exposes the passcode login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RequestCode handles POST /auth/code/request.
func (h *AuthHandler) RequestCode(c *fiber.Ctx) error {
	var req dto.RequestCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Identifier == "" {
		return fiber.NewError(http.StatusBadRequest, "identifier required")
	}

	issue, err := h.auth.RequestCode(c.Context(), req.Identifier)
	if err != nil {
		return err
	}
	return c.JSON(dto.RequestCodeResponse{Issued: issue.Issued, Code: issue.Code})
}

// VerifyCode handles POST /auth/code/verify.
func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Identifier == "" || req.Code == "" {
		return fiber.NewError(http.StatusBadRequest, "identifier and code required")
	}

	login, err := h.auth.VerifyCode(c.Context(), req.Identifier, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(dto.VerifyCodeResponse{
		Person:    dto.NewPersonResponse(*login.Person),
		Token:     login.Token,
		ExpiresAt: login.ExpiresAt,
	})
}
