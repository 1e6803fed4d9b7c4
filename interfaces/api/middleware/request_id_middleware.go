package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"project-tracker/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	localsRequestID = "request_id"
	maxRequestIDLen = 64
)

// RequestIDMiddleware ใช้ request ID จาก client ถ้ามี ไม่งั้นสร้างใหม่ แล้วผูกกับ logger context
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDHeader, requestID)
		c.Locals(localsRequestID, requestID)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), requestID))

		return c.Next()
	}
}

func GetRequestID(c *fiber.Ctx) string {
	if requestID, ok := c.Locals(localsRequestID).(string); ok {
		return requestID
	}
	return ""
}
