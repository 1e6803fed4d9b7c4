package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"project-tracker/domain/dto"
	"project-tracker/domain/services"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

type AuthHandler struct {
	userService services.UserService
	tokenTTL    time.Duration
}

func NewAuthHandler(userService services.UserService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokenTTL:    tokenTTL,
	}
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Registration failed", "username", req.Username, "error", err)
		return utils.HandleServiceError(c, err)
	}

	return utils.CreatedResponse(c, dto.UserToUserResponse(user))
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	token, user, err := h.userService.Login(ctx, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, &dto.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenTTL).UTC(),
		User:      *dto.UserToUserResponse(user),
	})
}

// Logout POST /api/v1/auth/logout token นี้จะใช้ไม่ได้อีก
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := utils.GetClaims(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	if err := h.userService.Logout(c.UserContext(), claims); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, &dto.MessageResponse{Message: "Logged out"})
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(actor))
}
