package maintenance

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// GET /api/maintenance
func ListItemsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// POST /api/maintenance
func CreateItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		item := models.NewMaintenanceItem()
		if err := crud.Parse(c, &item); err != nil {
			return err
		}
		item.Base = models.Base{}

		if err := svc.Create(c.UserContext(), &item); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /api/maintenance/:id
func UpdateItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := svc.Update(c.UserContext(), c.Params("id"), func(item *models.MaintenanceItem) error {
			return crud.Merge(c, item, &item.Base)
		})
		if err != nil {
			return err
		}
		return c.JSON(item)
	}
}

// DELETE /api/maintenance/:id
func DeleteItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return crud.Deleted(c, entity)
	}
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", ListItemsHandler(svc))
	r.Post("/", CreateItemHandler(svc))
	r.Put("/:id", UpdateItemHandler(svc))
	r.Delete("/:id", DeleteItemHandler(svc))
}
