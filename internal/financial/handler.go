package financial

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/auth"
	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/financial
func ListTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txns, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(txns)
	}
}

// POST /api/financial
func CreateTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := models.NewTransaction()
		if err := crud.Parse(c, &t); err != nil {
			return err
		}
		t.Base = models.Base{}

		if err := svc.Create(c.UserContext(), &t, auth.Operator(c)); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// PUT /api/financial/:id
func UpdateTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := svc.Update(c.UserContext(), c.Params("id"), func(t *models.Transaction) error {
			return crud.Merge(c, t, &t.Base)
		}, auth.Operator(c))
		if err != nil {
			return err
		}
		return c.JSON(t)
	}
}

// DELETE /api/financial/:id
func DeleteTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id"), auth.Operator(c)); err != nil {
			return err
		}
		return crud.Deleted(c, entity)
	}
}

// GET /api/financial/payroll-status
func PayrollStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.PayrollStatus(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(st)
	}
}

// POST /api/financial/process-payroll
func ProcessPayrollHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := svc.ProcessPayroll(c.UserContext(), auth.Operator(c))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

func ledgerQuery(c *fiber.Ctx) LedgerQuery {
	return LedgerQuery{
		Type:   c.Query("type"),
		Period: c.Query("period"),
		Date:   c.Query("date"),
		Entity: c.Query("entity"),
	}
}

// GET /api/financial/ledger?type&period&date&entity
func LedgerHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txns, err := svc.Ledger(c.UserContext(), ledgerQuery(c))
		if err != nil {
			return err
		}
		return c.JSON(txns)
	}
}

// GET /api/financial/ledger/export?type&period&date&entity
func LedgerExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := ledgerQuery(c)
		txns, err := svc.Ledger(c.UserContext(), q)
		if err != nil {
			return err
		}
		data, err := LedgerXLSX(txns)
		if err != nil {
			return err
		}

		period := q.Period
		if period == "" {
			period = "day"
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Attachment(fmt.Sprintf("ledger_%s_%s.xlsx", period, q.Date))
		return c.Send(data)
	}
}

// GET /api/financial/daily-report?date
func DailyReportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.DailyReport(c.UserContext(), c.Query("date"))
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// POST /api/financial/dispatch
func DispatchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in DispatchInput
		if err := crud.Parse(c, &in); err != nil {
			return err
		}
		res, err := svc.Dispatch(c.UserContext(), in, auth.Operator(c))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// POST /api/financial/payment
func PaymentHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in PaymentInput
		if err := crud.Parse(c, &in); err != nil {
			return err
		}
		res, err := svc.Payment(c.UserContext(), in, auth.Operator(c))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/payroll-status", PayrollStatusHandler(svc))
	r.Post("/process-payroll", ProcessPayrollHandler(svc))
	r.Get("/ledger", LedgerHandler(svc))
	r.Get("/ledger/export", LedgerExportHandler(svc))
	r.Get("/daily-report", DailyReportHandler(svc))
	r.Post("/dispatch", DispatchHandler(svc))
	r.Post("/payment", PaymentHandler(svc))

	r.Get("/", ListTransactionsHandler(svc))
	r.Post("/", CreateTransactionHandler(svc))
	r.Put("/:id", UpdateTransactionHandler(svc))
	r.Delete("/:id", DeleteTransactionHandler(svc))
}
