package utils

import "github.com/gofiber/fiber/v2"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ParsePagination อ่าน ?page=&limit= คืน page, limit, offset
func ParsePagination(c *fiber.Ctx) (int, int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", DefaultPageLimit)
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit, (page - 1) * limit
}
