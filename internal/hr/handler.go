package hr

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// GET /api/hr/employees
func ListEmployeesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		employees, err := svc.ListEmployees(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(employees)
	}
}

// POST /api/hr/employees
func CreateEmployeeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e := models.NewEmployee()
		if err := crud.Parse(c, &e); err != nil {
			return err
		}
		e.Base = models.Base{}

		if err := svc.CreateEmployee(c.UserContext(), &e); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

// PUT /api/hr/employees/:id
func UpdateEmployeeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := svc.UpdateEmployee(c.UserContext(), c.Params("id"), func(e *models.Employee) error {
			return crud.Merge(c, e, &e.Base)
		})
		if err != nil {
			return err
		}
		return c.JSON(e)
	}
}

// DELETE /api/hr/employees/:id
func DeleteEmployeeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteEmployee(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return crud.Deleted(c, employeeEntity)
	}
}

// GET /api/hr/attendance
func ListAttendanceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := svc.ListAttendance(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(records)
	}
}

// POST /api/hr/attendance
func RecordAttendanceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := models.NewAttendance()
		if err := crud.Parse(c, &a); err != nil {
			return err
		}
		a.Base = models.Base{}

		view, err := svc.RecordAttendance(c.UserContext(), &a)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/employees", ListEmployeesHandler(svc))
	r.Post("/employees", CreateEmployeeHandler(svc))
	r.Put("/employees/:id", UpdateEmployeeHandler(svc))
	r.Delete("/employees/:id", DeleteEmployeeHandler(svc))

	r.Get("/attendance", ListAttendanceHandler(svc))
	r.Post("/attendance", RecordAttendanceHandler(svc))
}
