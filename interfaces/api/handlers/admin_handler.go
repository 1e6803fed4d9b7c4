package handlers

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/domain/dto"
	"project-tracker/domain/services"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

// AdminHandler จัดการผู้ใช้ (admin เท่านั้น service เช็คสิทธิ์ซ้ำอีกชั้น)
type AdminHandler struct {
	userService services.UserService
}

func NewAdminHandler(userService services.UserService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	page, limit, offset := utils.ParsePagination(c)
	users, total, err := h.userService.ListUsers(c.UserContext(), actor, offset, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.UsersToUserResponses(users), total, page, limit)
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	user, generated, err := h.userService.CreateUser(ctx, actor, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.CreatedResponse(c, &dto.CreatedUserResponse{
		User:              *dto.UserToUserResponse(user),
		GeneratedPassword: generated,
	})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	user, err := h.userService.AdminGetUser(c.UserContext(), actor, c.Params("username"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	user, err := h.userService.AdminUpdateUser(ctx, actor, c.Params("username"), &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	if err := h.userService.DeleteUser(c.UserContext(), actor, c.Params("username")); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.NoContentResponse(c)
}
