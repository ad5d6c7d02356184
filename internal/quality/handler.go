package quality

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// GET /api/quality
func ListRecordsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(records)
	}
}

// POST /api/quality
func CreateRecordHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.QualityRecord
		if err := crud.Parse(c, &r); err != nil {
			return err
		}
		r.Base = models.Base{}

		if err := svc.Create(c.UserContext(), &r); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// PUT /api/quality/:id
func UpdateRecordHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.Update(c.UserContext(), c.Params("id"), func(r *models.QualityRecord) error {
			return crud.Merge(c, r, &r.Base)
		})
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// DELETE /api/quality/:id
func DeleteRecordHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return crud.Deleted(c, entity)
	}
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", ListRecordsHandler(svc))
	r.Post("/", CreateRecordHandler(svc))
	r.Put("/:id", UpdateRecordHandler(svc))
	r.Delete("/:id", DeleteRecordHandler(svc))
}
