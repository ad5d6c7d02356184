package inventory

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// GET /api/inventory?type=raw|finished
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := svc.List(c.UserContext(), c.Query("type"))
		if err != nil {
			return err
		}
		return c.JSON(products)
	}
}

// POST /api/inventory
func CreateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := models.NewProduct()
		if err := crud.Parse(c, &p); err != nil {
			return err
		}
		p.Base = models.Base{}

		if err := svc.Create(c.UserContext(), &p); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PUT /api/inventory/:id
func UpdateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Update(c.UserContext(), c.Params("id"), func(p *models.Product) error {
			return crud.Merge(c, p, &p.Base)
		})
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// DELETE /api/inventory/:id
func DeleteProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return crud.Deleted(c, entity)
	}
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", ListProductsHandler(svc))
	r.Post("/", CreateProductHandler(svc))
	r.Put("/:id", UpdateProductHandler(svc))
	r.Delete("/:id", DeleteProductHandler(svc))
}
