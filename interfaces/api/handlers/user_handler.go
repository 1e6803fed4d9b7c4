package handlers

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/domain/dto"
	"project-tracker/domain/services"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	profile, err := h.userService.GetProfile(c.UserContext(), actor)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(profile))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	updated, err := h.userService.UpdateProfile(ctx, actor, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(updated))
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := h.userService.ChangePassword(ctx, actor, &req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, &dto.MessageResponse{Message: "Password changed"})
}

// GetByUsername GET /api/v1/users/:username ดูได้เฉพาะตัวเองหรือ admin
func (h *UserHandler) GetByUsername(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	user, err := h.userService.GetProfileByUsername(c.UserContext(), actor, c.Params("username"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

// Lookup GET /api/v1/users/lookup/:username คืนแค่ id กับ username
func (h *UserHandler) Lookup(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	user, err := h.userService.LookupUser(c.UserContext(), actor, c.Params("username"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, &dto.UserLookupResponse{ID: user.ID, Username: user.Username})
}
