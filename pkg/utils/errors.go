package utils

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/pkg/apperror"
	"project-tracker/pkg/logger"
)

// HandleServiceError แปลง apperror เป็น response ตาม kind
// storage error จะถูก log และตอบ 500 โดยไม่เปิดเผยรายละเอียด
func HandleServiceError(c *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	if appErr == nil {
		return nil
	}

	switch appErr.Kind {
	case apperror.ErrValidation:
		if len(appErr.Details) > 0 {
			return ErrorResponse(c, fiber.StatusBadRequest, ErrCodeValidation, appErr.Message, appErr.Details)
		}
		return ErrorResponse(c, fiber.StatusBadRequest, ErrCodeValidation, appErr.Message, nil)
	case apperror.ErrUnauthenticated:
		return UnauthorizedResponse(c, appErr.Message)
	case apperror.ErrForbidden:
		return ForbiddenResponse(c, appErr.Message)
	case apperror.ErrNotFound:
		return NotFoundResponse(c, appErr.Message)
	case apperror.ErrConflict:
		return ConflictResponse(c, appErr.Message)
	}

	logger.ErrorContext(c.UserContext(), "Unhandled service error",
		"path", c.Path(),
		"method", c.Method(),
		"error", err,
	)
	return InternalServerErrorResponse(c)
}
