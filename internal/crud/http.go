package crud

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// Parse decodes the request body into dst.
func Parse(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("Invalid request body: %s", err.Error())
	}
	return nil
}

// Merge decodes the request body over an existing row. Fields missing from
// the body keep their stored values; the id and timestamps cannot be changed.
func Merge(c *fiber.Ctx, dst any, base *models.Base) error {
	saved := *base
	if err := Parse(c, dst); err != nil {
		return err
	}
	*base = saved
	return nil
}

// Deleted is the response body of every successful DELETE.
func Deleted(c *fiber.Ctx, entity string) error {
	return c.JSON(fiber.Map{"message": entity + " deleted successfully"})
}
