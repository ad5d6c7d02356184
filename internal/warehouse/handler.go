package warehouse

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// GET /api/warehouse
func ListWarehousesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouses, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(warehouses)
	}
}

// POST /api/warehouse
func CreateWarehouseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w := models.NewWarehouse()
		if err := crud.Parse(c, &w); err != nil {
			return err
		}
		w.Base = models.Base{}

		if err := svc.Create(c.UserContext(), &w); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(w)
	}
}

// PUT /api/warehouse/:id
func UpdateWarehouseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := svc.Update(c.UserContext(), c.Params("id"), func(w *models.Warehouse) error {
			return crud.Merge(c, w, &w.Base)
		})
		if err != nil {
			return err
		}
		return c.JSON(w)
	}
}

// DELETE /api/warehouse/:id
func DeleteWarehouseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return crud.Deleted(c, entity)
	}
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", ListWarehousesHandler(svc))
	r.Post("/", CreateWarehouseHandler(svc))
	r.Put("/:id", UpdateWarehouseHandler(svc))
	r.Delete("/:id", DeleteWarehouseHandler(svc))
}
