package middleware

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/domain/services"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

// Protected ตรวจ Bearer token แล้วโหลดผู้ใช้ใส่ locals ให้ handler ใช้เป็น actor
func Protected(userService services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := utils.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return utils.UnauthorizedResponse(c, "Missing or malformed authorization header")
		}

		user, claims, err := userService.Authenticate(c.UserContext(), token)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Authentication failed", "path", c.Path(), "error", err)
			return utils.HandleServiceError(c, err)
		}

		c.Locals(utils.LocalsUser, user)
		c.Locals(utils.LocalsClaims, claims)
		c.SetUserContext(logger.ContextWithActorID(c.UserContext(), user.ID.String()))

		return c.Next()
	}
}

// AdminOnly ต้องอยู่หลัง Protected
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := utils.GetActor(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}
		if !actor.IsAdmin {
			logger.WarnContext(c.UserContext(), "Admin route denied", "path", c.Path(), "user_id", actor.ID)
			return utils.ForbiddenResponse(c, "Admin access required")
		}
		return c.Next()
	}
}
