package financial

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

type PayrollStatus struct {
	IsPending   bool `json:"isPending"`
	IsProcessed bool `json:"isProcessed"`
}

// PayrollStatus reports whether this month's payroll has been booked. It is
// pending only on the first day of the month.
func (s *Service) PayrollStatus(ctx context.Context) (PayrollStatus, error) {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var n int64
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("category = ? AND date >= ? AND date < ?", models.CategoryPayroll, first, first.AddDate(0, 1, 0)).
		Count(&n).Error
	if err != nil {
		return PayrollStatus{}, apperr.FromDB(err, entity, "count")
	}
	return PayrollStatus{
		IsPending:   now.Day() == 1 && n == 0,
		IsProcessed: n > 0,
	}, nil
}

// ProcessPayroll books one expense covering every active employee's salary.
// It does not check whether the month was already processed.
func (s *Service) ProcessPayroll(ctx context.Context, actor string) (*models.Transaction, error) {
	var employees []models.Employee
	if err := s.db.WithContext(ctx).Where("status = ?", models.EmployeeActive).Find(&employees).Error; err != nil {
		return nil, apperr.FromDB(err, "Employee", "list")
	}

	total := decimal.Zero
	for _, e := range employees {
		total = total.Add(decimal.NewFromFloat(e.Salary))
	}

	now := s.now()
	t := models.Transaction{
		Type:          models.TransactionExpense,
		Category:      models.CategoryPayroll,
		Amount:        total.InexactFloat64(),
		Currency:      models.CurrencyPKR,
		Description:   fmt.Sprintf("Monthly payroll for %d employees", len(employees)),
		Date:          models.NewDateTime(now),
		Status:        models.TransactionCompleted,
		InvoiceNumber: NewInvoiceNumber(now),
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, apperr.FromDB(err, entity, "create")
	}
	s.writeAudit(nil, actor, t.ID, models.AuditActionPayroll, t.Description, nil, t)
	return &t, nil
}
