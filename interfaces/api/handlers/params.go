package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"project-tracker/pkg/utils"
)

// parseID อ่าน path param ที่เป็น uuid ถ้า ok=false ตอบ 400 ไปแล้ว ให้ return err ต่อได้เลย
func parseID(c *fiber.Ctx, name string) (id uuid.UUID, ok bool, err error) {
	id, parseErr := uuid.Parse(c.Params(name))
	if parseErr != nil {
		return uuid.Nil, false, utils.BadRequestResponse(c, "Invalid "+name)
	}
	return id, true, nil
}
