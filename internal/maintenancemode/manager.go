// Package maintenancemode owns the global maintenance window: its lifecycle,
// the reminder email before it ends and the request gate that blocks
// traffic while it is active.
package maintenancemode

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/audit"
	"github.com/mani1234567sk/Frin-Backend/internal/metrics"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
	"github.com/mani1234567sk/Frin-Backend/internal/notify"
	"github.com/mani1234567sk/Frin-Backend/internal/reminder"
)

const (
	DefaultReason            = "Scheduled maintenance"
	DefaultEstimatedDuration = "Unknown"
	DefaultCreatedBy         = "System Administrator"

	historyLimit  = 10
	notifyTimeout = 30 * time.Second
)

var (
	ErrAlreadyActive = apperr.Conflict("Maintenance mode is already active")
	ErrNotActive     = apperr.Validation("No active maintenance mode found")
)

type ActivateInput struct {
	Reason            string           `json:"reason"`
	EstimatedDuration string           `json:"estimatedDuration"`
	EndTime           *models.DateTime `json:"endTime"`
	CreatedBy         string           `json:"createdBy"`
}

type UpdateInput struct {
	Reason            string           `json:"reason"`
	EstimatedDuration string           `json:"estimatedDuration"`
	EndTime           *models.DateTime `json:"endTime"`
}

// Result is a state change plus whether its notification went out.
type Result struct {
	Mode      models.MaintenanceMode
	EmailSent bool
}

type Manager struct {
	db        *gorm.DB
	notifier  notify.Notifier
	scheduler *reminder.Scheduler
	audit     *audit.Service
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
}

func NewManager(db *gorm.DB, notifier notify.Notifier, scheduler *reminder.Scheduler,
	auditSvc *audit.Service, m *metrics.Metrics, log logrus.FieldLogger) *Manager {
	return &Manager{
		db:        db,
		notifier:  notifier,
		scheduler: scheduler,
		audit:     auditSvc,
		metrics:   m,
		log:       log.WithField("component", "maintenance-mode"),
	}
}

// Active returns the active window, or nil when there is none.
func (m *Manager) Active(ctx context.Context) (*models.MaintenanceMode, error) {
	var mode models.MaintenanceMode
	err := m.db.WithContext(ctx).Where("is_active = ?", true).First(&mode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mode, nil
}

func (m *Manager) Status(ctx context.Context) (*models.MaintenanceMode, error) {
	mode, err := m.Active(ctx)
	if err != nil {
		return nil, apperr.Internal("could not read maintenance mode", err)
	}
	return mode, nil
}

// History lists the most recent windows, newest first.
func (m *Manager) History(ctx context.Context) ([]models.MaintenanceMode, error) {
	var modes []models.MaintenanceMode
	if err := m.db.WithContext(ctx).Order("created_at DESC").Limit(historyLimit).Find(&modes).Error; err != nil {
		return nil, apperr.Internal("could not list maintenance history", err)
	}
	return modes, nil
}

func (m *Manager) Activate(ctx context.Context, in ActivateInput) (*Result, error) {
	existing, err := m.Active(ctx)
	if err != nil {
		return nil, apperr.Internal("could not read maintenance mode", err)
	}
	if existing != nil {
		return nil, ErrAlreadyActive
	}

	mode := models.MaintenanceMode{
		IsActive:          true,
		StartTime:         m.scheduler.Now(),
		EndTime:           in.EndTime,
		Reason:            orDefault(in.Reason, DefaultReason),
		EstimatedDuration: orDefault(in.EstimatedDuration, DefaultEstimatedDuration),
		CreatedBy:         orDefault(in.CreatedBy, DefaultCreatedBy),
	}
	if mode.EndTime != nil && mode.EndTime.IsZero() {
		mode.EndTime = nil
	}

	if err := m.db.WithContext(ctx).Create(&mode).Error; err != nil {
		// a concurrent activation won the single-active index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyActive
		}
		return nil, apperr.Internal("could not activate maintenance mode", err)
	}

	var endTime *time.Time
	if mode.EndTime != nil {
		endTime = &mode.EndTime.Time
	}
	mode.EmailsSent.StartNotification = m.sendStart(ctx, endTime)

	if endTime != nil {
		m.scheduleReminder(&mode)
	}

	if err := m.saveFlags(ctx, &mode); err != nil {
		return nil, err
	}
	m.writeAudit(mode.CreatedBy, models.AuditActionActivate, "Maintenance mode activated", nil, mode)

	m.log.WithFields(logrus.Fields{
		"id":                 mode.ID,
		"reason":             mode.Reason,
		"reminder_scheduled": mode.EmailsSent.ReminderScheduled,
	}).Info("maintenance mode activated")

	return &Result{Mode: mode, EmailSent: mode.EmailsSent.StartNotification}, nil
}

func (m *Manager) Deactivate(ctx context.Context, actor string) (*Result, error) {
	mode, err := m.Active(ctx)
	if err != nil {
		return nil, apperr.Internal("could not read maintenance mode", err)
	}
	if mode == nil {
		return nil, ErrNotActive
	}
	before := *mode

	mode.IsActive = false
	mode.EndTime = models.NewDateTimePtr(m.scheduler.Now())
	if err := m.saveColumns(ctx, mode, "is_active", "end_time"); err != nil {
		return nil, apperr.Internal("could not deactivate maintenance mode", err)
	}
	m.scheduler.Cancel(mode.ID)

	mode.EmailsSent.EndNotification = m.sendEnd(ctx)
	if err := m.saveFlags(ctx, mode); err != nil {
		return nil, err
	}
	m.writeAudit(actor, models.AuditActionDeactivate, "Maintenance mode deactivated", before, *mode)

	m.log.WithField("id", mode.ID).Info("maintenance mode deactivated")
	return &Result{Mode: *mode, EmailSent: mode.EmailsSent.EndNotification}, nil
}

// Update overwrites the provided fields of the active window. A new end time
// replaces the pending reminder.
func (m *Manager) Update(ctx context.Context, in UpdateInput, actor string) (*models.MaintenanceMode, error) {
	mode, err := m.Active(ctx)
	if err != nil {
		return nil, apperr.Internal("could not read maintenance mode", err)
	}
	if mode == nil {
		return nil, ErrNotActive
	}
	before := *mode

	columns := []string{"reason", "estimated_duration"}
	if in.Reason != "" {
		mode.Reason = in.Reason
	}
	if in.EstimatedDuration != "" {
		mode.EstimatedDuration = in.EstimatedDuration
	}
	rearm := in.EndTime != nil && !in.EndTime.IsZero()
	if rearm {
		mode.EndTime = in.EndTime
		mode.EmailsSent.ReminderScheduled = false
		mode.ScheduledJobID = ""
		mode.ReminderAt = nil
		mode.ReminderSentAt = nil
		columns = append(columns, "end_time")
	}

	// only the edited columns, a reminder may stamp reminder_sent_at meanwhile
	if err := m.saveColumns(ctx, mode, columns...); err != nil {
		return nil, apperr.Internal("could not update maintenance mode", err)
	}
	if rearm {
		m.scheduler.Cancel(mode.ID)
		m.scheduleReminder(mode)
		if err := m.saveFlags(ctx, mode); err != nil {
			return nil, err
		}
	}
	m.writeAudit(actor, models.AuditActionUpdate, "Maintenance mode updated", before, *mode)
	return mode, nil
}

// TestEmail checks the mail transport without sending anything.
func (m *Manager) TestEmail(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	return m.notifier.TestConnection(ctx)
}

// Reconcile re-arms reminders after a restart. Future reminders are
// registered again; ones that came due while the process was down fire now.
func (m *Manager) Reconcile(ctx context.Context) error {
	var modes []models.MaintenanceMode
	err := m.db.WithContext(ctx).
		Where("is_active = ? AND reminder_at IS NOT NULL AND reminder_sent_at IS NULL", true).
		Find(&modes).Error
	if err != nil {
		return apperr.Internal("could not load pending reminders", err)
	}

	for i := range modes {
		mode := modes[i]
		if mode.EndTime == nil {
			continue
		}
		m.scheduler.Restore(mode.ID, *mode.ReminderAt, m.reminderFunc(mode.ID, mode.EndTime.Time))
	}
	if len(modes) > 0 {
		m.log.WithField("count", len(modes)).Info("pending reminders restored")
	}
	return nil
}

func (m *Manager) scheduleReminder(mode *models.MaintenanceMode) {
	job, ok := m.scheduler.Schedule(mode.ID, mode.EndTime.Time, m.reminderFunc(mode.ID, mode.EndTime.Time))
	if !ok {
		return
	}
	fireAt := job.FireAt
	mode.EmailsSent.ReminderScheduled = true
	mode.ScheduledJobID = job.ID
	mode.ReminderAt = &fireAt
}

func (m *Manager) reminderFunc(id string, endTime time.Time) reminder.FireFunc {
	return func(late bool) {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		entry := m.log.WithFields(logrus.Fields{"id": id, "late": late})
		if err := m.notifier.SendReminder(ctx, endTime); err != nil {
			entry.WithError(err).Error("maintenance reminder email failed")
		} else {
			entry.Info("maintenance reminder email sent")
		}
		if m.metrics != nil {
			m.metrics.RemindersFired.WithLabelValues(boolLabel(late)).Inc()
		}

		// stamped even on failure, reminders are never retried
		now := m.scheduler.Now()
		if err := m.db.WithContext(ctx).Model(&models.MaintenanceMode{}).
			Where("id = ?", id).Update("reminder_sent_at", now).Error; err != nil {
			entry.WithError(err).Error("could not record reminder")
		}
	}
}

func (m *Manager) sendStart(ctx context.Context, endTime *time.Time) bool {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := m.notifier.SendStart(ctx, endTime); err != nil {
		m.log.WithError(err).Error("failed to send maintenance start email")
		return false
	}
	return true
}

func (m *Manager) sendEnd(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := m.notifier.SendEnd(ctx); err != nil {
		m.log.WithError(err).Error("failed to send maintenance end email")
		return false
	}
	return true
}

func (m *Manager) saveFlags(ctx context.Context, mode *models.MaintenanceMode) error {
	err := m.saveColumns(ctx, mode,
		"emails_sent_start_notification", "emails_sent_reminder_scheduled", "emails_sent_end_notification",
		"scheduled_job_id", "reminder_at", "reminder_sent_at",
	)
	if err != nil {
		return apperr.Internal("could not save maintenance mode", err)
	}
	return nil
}

func (m *Manager) saveColumns(ctx context.Context, mode *models.MaintenanceMode, columns ...string) error {
	return m.db.WithContext(ctx).Model(mode).Select(append(columns, "updated_at")).Updates(mode).Error
}

func (m *Manager) writeAudit(actor string, action models.AuditAction, desc string, before, after any) {
	if m.audit == nil {
		return
	}
	var id string
	if mode, ok := after.(models.MaintenanceMode); ok {
		id = mode.ID
	}
	if err := m.audit.Write(nil, audit.LogOptions{
		Actor:       actor,
		EntityType:  "maintenance_mode",
		EntityID:    id,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	}); err != nil {
		m.log.WithError(err).Warn("could not write audit log")
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
