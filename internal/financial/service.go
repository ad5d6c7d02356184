// Package financial owns transactions and the money flows built on them:
// dispatch orders, payments, payroll, the ledger and the daily report.
package financial

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/audit"
	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/metrics"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

const (
	entity      = "Transaction"
	auditEntity = "transaction"
)

type Service struct {
	db           *gorm.DB
	transactions crud.Resource[models.Transaction]
	audit        *audit.Service
	metrics      *metrics.Metrics
	log          logrus.FieldLogger
	now          func() time.Time
}

func NewService(db *gorm.DB, auditSvc *audit.Service, m *metrics.Metrics, log logrus.FieldLogger) *Service {
	return &Service{
		db:           db,
		transactions: crud.Resource[models.Transaction]{DB: db, Entity: entity, Order: "date DESC"},
		audit:        auditSvc,
		metrics:      m,
		log:          log,
		now:          time.Now,
	}
}

// NewInvoiceNumber returns "INV-<unix ms>-<0..999>".
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%d", now.UnixMilli(), rand.IntN(1000))
}

func (s *Service) List(ctx context.Context) ([]models.Transaction, error) {
	return s.transactions.List(ctx)
}

// Create stores a transaction under a new invoice number.
func (s *Service) Create(ctx context.Context, t *models.Transaction, actor string) error {
	t.InvoiceNumber = NewInvoiceNumber(s.now())
	if t.Currency == "" {
		t.Currency = models.CurrencyPKR
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return err
	}
	s.writeAudit(nil, actor, t.ID, models.AuditActionCreate, "Transaction created", nil, t)
	return nil
}

// Update applies a change; the invoice number is kept.
func (s *Service) Update(ctx context.Context, id string, apply func(*models.Transaction) error, actor string) (*models.Transaction, error) {
	var before models.Transaction
	t, err := s.transactions.Update(ctx, id, func(t *models.Transaction) error {
		before = *t
		if err := apply(t); err != nil {
			return err
		}
		t.InvoiceNumber = before.InvoiceNumber
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.writeAudit(nil, actor, t.ID, models.AuditActionUpdate, "Transaction updated", before, t)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string, actor string) error {
	if err := s.transactions.Delete(ctx, id); err != nil {
		return err
	}
	s.writeAudit(nil, actor, id, models.AuditActionDelete, "Transaction deleted", nil, nil)
	return nil
}

// writeAudit records a change. With a non-nil tx the entry shares the
// transaction and its error is returned; otherwise failures are only logged.
func (s *Service) writeAudit(tx *gorm.DB, actor, id string, action models.AuditAction, desc string, before, after any) error {
	if s.audit == nil {
		return nil
	}
	err := s.audit.Write(tx, audit.LogOptions{
		Actor:       actor,
		EntityType:  auditEntity,
		EntityID:    id,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	})
	if err != nil && tx == nil {
		s.log.WithError(err).Warn("could not write audit log")
		return nil
	}
	return err
}
