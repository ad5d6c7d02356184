package audit

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
)

// GET /api/audit-logs?entityType=transaction&entityId=...&action=dispatch&limit=50
func ListAuditLogsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logs, err := svc.List(Filter{
			EntityType: c.Query("entityType"),
			EntityID:   c.Query("entityId"),
			Action:     c.Query("action"),
			Limit:      c.QueryInt("limit", 100),
		})
		if err != nil {
			return apperr.Internal("could not list audit logs", err)
		}
		return c.JSON(logs)
	}
}
