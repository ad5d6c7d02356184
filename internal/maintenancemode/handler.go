package maintenancemode

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/auth"
)

// GET /api/maintenance-mode/status
func StatusHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode, err := mgr.Status(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"isActive": mode != nil,
			"data":     mode,
		})
	}
}

// POST /api/maintenance-mode/activate
func ActivateHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ActivateInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return apperr.Validation("Invalid request body")
			}
		}
		if body.CreatedBy == "" {
			body.CreatedBy = auth.Operator(c)
		}

		res, err := mgr.Activate(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":           "Maintenance mode activated successfully",
			"data":              res.Mode,
			"emailNotification": emailStatus(res.EmailSent),
			"reminderScheduled": res.Mode.EmailsSent.ReminderScheduled,
		})
	}
}

// POST /api/maintenance-mode/deactivate
func DeactivateHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := mgr.Deactivate(c.UserContext(), auth.Operator(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message":           "Maintenance mode deactivated successfully",
			"data":              res.Mode,
			"emailNotification": emailStatus(res.EmailSent),
		})
	}
}

// PUT /api/maintenance-mode/update
func UpdateHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return apperr.Validation("Invalid request body")
			}
		}

		mode, err := mgr.Update(c.UserContext(), body, auth.Operator(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message": "Maintenance mode updated successfully",
			"data":    mode,
		})
	}
}

// GET /api/maintenance-mode/history
func HistoryHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		modes, err := mgr.History(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(modes)
	}
}

// POST /api/maintenance-mode/test-email
func TestEmailHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := mgr.TestEmail(c.UserContext()); err != nil {
			return c.JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(fiber.Map{"success": true, "message": "Email configuration is valid"})
	}
}

// RegisterRoutes mounts the maintenance-mode endpoints. guard protects the
// state-changing ones.
func RegisterRoutes(r fiber.Router, mgr *Manager, guard fiber.Handler) {
	r.Get("/status", StatusHandler(mgr))
	r.Get("/history", HistoryHandler(mgr))
	r.Post("/activate", guard, ActivateHandler(mgr))
	r.Post("/deactivate", guard, DeactivateHandler(mgr))
	r.Put("/update", guard, UpdateHandler(mgr))
	r.Post("/test-email", guard, TestEmailHandler(mgr))
}

func emailStatus(sent bool) string {
	if sent {
		return "sent"
	}
	return "failed"
}
