package financial

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
	"github.com/mani1234567sk/Frin-Backend/internal/validation"
)

var (
	ErrNoBatches    = apperr.Validation("No available batches for this product")
	ErrInsufficient = apperr.Validation("Insufficient inventory")
)

// UnitPrice is accepted for compatibility with existing clients; the amount
// is always computed from batch prices.
type DispatchInput struct {
	ProductID   string  `json:"productId" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	Distributor string  `json:"distributor"`
	UnitPrice   float64 `json:"unitPrice"`
}

type BatchUsage struct {
	BatchID  string  `json:"batchId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type DispatchResult struct {
	Transaction models.Transaction `json:"transaction"`
	BatchesUsed []BatchUsage       `json:"batchesUsed"`
}

type PaymentInput struct {
	DispatchID    string  `json:"dispatchId"`
	PaymentAmount float64 `json:"paymentAmount" validate:"gte=0"`
}

type PaymentResult struct {
	Payment  models.Transaction `json:"payment"`
	Dispatch models.Transaction `json:"dispatch"`
}

// Dispatch drains the oldest batches of a product first and records a
// pending income transaction for their cost. Everything happens in one
// database transaction: when stock runs out no batch is touched.
func (s *Service) Dispatch(ctx context.Context, in DispatchInput, actor string) (*DispatchResult, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Distributor = strings.TrimSpace(in.Distributor)
	if err := validation.Struct(in); err != nil {
		s.countDispatch("invalid", 0)
		return nil, err
	}

	var res DispatchResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		batches, err := fifoBatches(tx, in.ProductID)
		if err != nil {
			return err
		}
		if len(batches) == 0 {
			return ErrNoBatches
		}

		remaining := in.Quantity
		total := decimal.Zero
		ids := make([]string, 0, len(batches))
		for i := range batches {
			if remaining <= 0 {
				break
			}
			b := &batches[i]
			take := min(remaining, b.BatchQuantity)
			total = total.Add(decimal.NewFromFloat(b.BatchPrice).Mul(decimal.NewFromInt(int64(take))))
			res.BatchesUsed = append(res.BatchesUsed, BatchUsage{BatchID: b.BatchID, Quantity: take, Price: b.BatchPrice})
			ids = append(ids, b.BatchID)

			b.BatchQuantity -= take
			b.Quantity -= take
			if err := consume(tx, b); err != nil {
				return err
			}
			remaining -= take
		}
		if remaining > 0 {
			return ErrInsufficient
		}

		quantity := in.Quantity
		res.Transaction = models.Transaction{
			Type:          models.TransactionIncome,
			Category:      models.CategoryDispatchOrder,
			Amount:        total.InexactFloat64(),
			Currency:      models.CurrencyPKR,
			Description:   fmt.Sprintf("Dispatch order for %d units of %s to %s", in.Quantity, in.ProductID, in.Distributor),
			Date:          models.NewDateTime(s.now()),
			ProductID:     in.ProductID,
			Quantity:      &quantity,
			Supplier:      in.Distributor,
			Status:        models.TransactionPending,
			DispatchType:  models.DispatchTypeDispatch,
			InvoiceNumber: NewInvoiceNumber(s.now()),
			BatchID:       strings.Join(ids, ", "),
		}
		if err := tx.Create(&res.Transaction).Error; err != nil {
			return apperr.FromDB(err, entity, "create")
		}
		return s.writeAudit(tx, actor, res.Transaction.ID, models.AuditActionDispatch,
			res.Transaction.Description, nil, res)
	})
	if err != nil {
		s.countDispatch(dispatchOutcome(err), 0)
		return nil, err
	}

	s.countDispatch("ok", in.Quantity)
	return &res, nil
}

// fifoBatches loads the product's non-empty batches oldest first, locking
// them where the database supports row locks.
func fifoBatches(tx *gorm.DB, productID string) ([]models.Product, error) {
	q := tx.Where("product_id = ? AND batch_quantity > 0", productID).Order("created_at ASC, id ASC")
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var batches []models.Product
	if err := q.Find(&batches).Error; err != nil {
		return nil, apperr.FromDB(err, "Product", "list")
	}
	return batches, nil
}

// consume persists a decremented batch, deleting it once it is empty. A
// remaining batch must still pass validation, so a quantity edited below the
// batch quantity cannot go negative.
func consume(tx *gorm.DB, b *models.Product) error {
	if b.BatchQuantity == 0 {
		if err := tx.Delete(&models.Product{}, "id = ?", b.ID).Error; err != nil {
			return apperr.FromDB(err, "Product", "delete")
		}
		return nil
	}
	if err := validation.Struct(b); err != nil {
		return err
	}
	err := tx.Model(b).Updates(map[string]any{
		"batch_quantity": b.BatchQuantity,
		"quantity":       b.Quantity,
	}).Error
	if err != nil {
		return apperr.FromDB(err, "Product", "update")
	}
	return nil
}

func dispatchOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNoBatches):
		return "no_batches"
	case errors.Is(err, ErrInsufficient):
		return "insufficient"
	default:
		return "error"
	}
}

func (s *Service) countDispatch(outcome string, units int) {
	if s.metrics == nil {
		return
	}
	s.metrics.Dispatches.WithLabelValues(outcome).Inc()
	if units > 0 {
		s.metrics.DispatchedUnits.Add(float64(units))
	}
}

// Payment completes a dispatch order and books the money received for it.
// The amount is not reconciled against the order.
func (s *Service) Payment(ctx context.Context, in PaymentInput, actor string) (*PaymentResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var res PaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&res.Dispatch, "id = ?", strings.TrimSpace(in.DispatchID)).Error; err != nil {
			return apperr.FromDB(err, "Dispatch order", "load")
		}
		before := res.Dispatch

		res.Dispatch.Status = models.TransactionCompleted
		if err := tx.Model(&res.Dispatch).Update("status", models.TransactionCompleted).Error; err != nil {
			return apperr.FromDB(err, entity, "update")
		}

		res.Payment = models.Transaction{
			Type:          models.TransactionIncome,
			Category:      models.CategoryPaymentReceived,
			Amount:        in.PaymentAmount,
			Currency:      models.CurrencyPKR,
			Description:   "Payment received for dispatch order " + res.Dispatch.InvoiceNumber,
			Date:          models.NewDateTime(s.now()),
			ProductID:     res.Dispatch.ProductID,
			Supplier:      res.Dispatch.Supplier,
			Status:        models.TransactionCompleted,
			DispatchType:  models.DispatchTypePayment,
			InvoiceNumber: NewInvoiceNumber(s.now()),
		}
		if err := tx.Create(&res.Payment).Error; err != nil {
			return apperr.FromDB(err, entity, "create")
		}
		return s.writeAudit(tx, actor, res.Dispatch.ID, models.AuditActionPayment,
			res.Payment.Description, before, res)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
