package maintenancemode

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/audit"
	"github.com/mani1234567sk/Frin-Backend/internal/logger"
	"github.com/mani1234567sk/Frin-Backend/internal/metrics"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
	"github.com/mani1234567sk/Frin-Backend/internal/notify"
	"github.com/mani1234567sk/Frin-Backend/internal/reminder"
	"github.com/mani1234567sk/Frin-Backend/internal/testutil"
)

type fixture struct {
	mgr      *Manager
	db       *gorm.DB
	sched    *reminder.Scheduler
	clock    clockwork.FakeClock
	notifier *testutil.Notifier
	now      time.Time
}

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
	quiet   = 50 * time.Millisecond
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	now := time.Now().Truncate(time.Second)
	clock := clockwork.NewFakeClockAt(now)
	rec := &testutil.Notifier{}
	log := logger.Discard()
	sched := reminder.New(clock, reminder.DefaultLead, log)
	t.Cleanup(sched.Stop)

	return &fixture{
		mgr:      NewManager(db, rec, sched, audit.NewService(db), metrics.New(), log),
		db:       db,
		sched:    sched,
		clock:    clock,
		notifier: rec,
		now:      now,
	}
}

func endAt(t time.Time) *models.DateTime {
	return models.NewDateTimePtr(t)
}

// reminders waits for the reminder count to settle at want. Reminders fire
// on timer goroutines.
func (f *fixture) reminders(t *testing.T, want int) {
	t.Helper()
	count := func() int { return f.notifier.Count(notify.KindReminder) }
	if want > 0 {
		require.Eventually(t, func() bool { return count() >= want }, waitFor, tick)
	}
	assert.Never(t, func() bool { return count() > want }, quiet, tick)
}

// failUpdates makes every later UPDATE of maintenance_modes fail.
func failUpdates(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Callback().Update().Before("gorm:update").Register("test:fail_maintenance_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "maintenance_modes" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)
}

func TestActivateSchedulesReminderOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.mgr.Activate(ctx, ActivateInput{EndTime: endAt(f.now.Add(48 * time.Hour))})
	require.NoError(t, err)

	mode := res.Mode
	assert.True(t, mode.IsActive)
	assert.Equal(t, DefaultReason, mode.Reason)
	assert.Equal(t, DefaultEstimatedDuration, mode.EstimatedDuration)
	assert.Equal(t, DefaultCreatedBy, mode.CreatedBy)
	assert.True(t, res.EmailSent)
	assert.True(t, mode.EmailsSent.StartNotification)
	assert.True(t, mode.EmailsSent.ReminderScheduled)
	assert.Equal(t, reminder.JobID(mode.ID), mode.ScheduledJobID)
	require.NotNil(t, mode.ReminderAt)
	assert.True(t, mode.ReminderAt.Equal(f.now.Add(24*time.Hour)))

	f.clock.Advance(24*time.Hour - time.Second)
	f.reminders(t, 0)

	f.clock.Advance(time.Second)
	f.reminders(t, 1)

	f.clock.Advance(48 * time.Hour)
	f.reminders(t, 1)

	var stored models.MaintenanceMode
	require.Eventually(t, func() bool {
		return f.db.First(&stored, "id = ?", mode.ID).Error == nil && stored.ReminderSentAt != nil
	}, waitFor, tick)
	assert.True(t, stored.EmailsSent.ReminderScheduled)
}

func TestActivateWithoutEndTimeSchedulesNothing(t *testing.T) {
	f := newFixture(t)

	res, err := f.mgr.Activate(context.Background(), ActivateInput{Reason: "oven repair", CreatedBy: "ops"})
	require.NoError(t, err)
	assert.False(t, res.Mode.EmailsSent.ReminderScheduled)
	assert.Nil(t, res.Mode.ReminderAt)
	assert.Equal(t, "oven repair", res.Mode.Reason)
	assert.Equal(t, "ops", res.Mode.CreatedBy)
	assert.Zero(t, f.sched.Len())
}

func TestActivateTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Activate(ctx, ActivateInput{})
	require.NoError(t, err)

	_, err = f.mgr.Activate(ctx, ActivateInput{})
	require.Error(t, err)
	status, msg := apperr.Status(err)
	assert.Equal(t, 409, status)
	assert.Equal(t, "Maintenance mode is already active", msg)

	var active int64
	require.NoError(t, f.db.Model(&models.MaintenanceMode{}).Where("is_active = ?", true).Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestSingleActiveIndex(t *testing.T) {
	f := newFixture(t)

	first := models.MaintenanceMode{IsActive: true, StartTime: f.now, CreatedBy: "a"}
	require.NoError(t, f.db.Create(&first).Error)

	second := models.MaintenanceMode{IsActive: true, StartTime: f.now, CreatedBy: "b"}
	err := f.db.Create(&second).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)

	inactive := models.MaintenanceMode{IsActive: false, StartTime: f.now, CreatedBy: "c"}
	require.NoError(t, f.db.Create(&inactive).Error)
	again := models.MaintenanceMode{IsActive: false, StartTime: f.now, CreatedBy: "d"}
	require.NoError(t, f.db.Create(&again).Error)
}

func TestDeactivateWithoutActive(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.Deactivate(context.Background(), "")
	require.Error(t, err)
	status, msg := apperr.Status(err)
	assert.Equal(t, 400, status)
	assert.Equal(t, "No active maintenance mode found", msg)
}

func TestDeactivateCancelsReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Activate(ctx, ActivateInput{EndTime: endAt(f.now.Add(48 * time.Hour))})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	res, err := f.mgr.Deactivate(ctx, "ops")
	require.NoError(t, err)
	assert.False(t, res.Mode.IsActive)
	require.NotNil(t, res.Mode.EndTime)
	assert.True(t, res.Mode.EndTime.Equal(f.now.Add(time.Hour)))
	assert.True(t, res.EmailSent)
	assert.True(t, res.Mode.EmailsSent.EndNotification)

	f.clock.Advance(72 * time.Hour)
	f.reminders(t, 0)
	assert.Equal(t, 1, f.notifier.Count(notify.KindEnd))

	active, err := f.mgr.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestUpdateReschedulesReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Activate(ctx, ActivateInput{EndTime: endAt(f.now.Add(48 * time.Hour))})
	require.NoError(t, err)

	mode, err := f.mgr.Update(ctx, UpdateInput{
		EndTime:           endAt(f.now.Add(72 * time.Hour)),
		EstimatedDuration: "3 days",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "3 days", mode.EstimatedDuration)
	assert.Equal(t, DefaultReason, mode.Reason, "omitted fields are kept")
	require.NotNil(t, mode.ReminderAt)
	assert.True(t, mode.ReminderAt.Equal(f.now.Add(48*time.Hour)))

	f.clock.Advance(30 * time.Hour)
	f.reminders(t, 0)

	f.clock.Advance(18 * time.Hour)
	f.reminders(t, 1)
}

func TestUpdateFailureKeepsReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.mgr.Activate(ctx, ActivateInput{EndTime: endAt(f.now.Add(48 * time.Hour))})
	require.NoError(t, err)
	failUpdates(t, f.db)

	_, err = f.mgr.Update(ctx, UpdateInput{EndTime: endAt(f.now.Add(96 * time.Hour))}, "")
	require.Error(t, err)
	status, _ := apperr.Status(err)
	assert.Equal(t, 500, status)

	var stored models.MaintenanceMode
	require.NoError(t, f.db.First(&stored, "id = ?", res.Mode.ID).Error)
	require.NotNil(t, stored.EndTime)
	assert.True(t, stored.EndTime.Equal(f.now.Add(48*time.Hour)))

	job, ok := f.sched.Pending(res.Mode.ID)
	require.True(t, ok)
	assert.True(t, job.FireAt.Equal(f.now.Add(24*time.Hour)))

	f.clock.Advance(24 * time.Hour)
	f.reminders(t, 1)
}

func TestDeactivateFailureKeepsReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.mgr.Activate(ctx, ActivateInput{EndTime: endAt(f.now.Add(48 * time.Hour))})
	require.NoError(t, err)
	failUpdates(t, f.db)

	_, err = f.mgr.Deactivate(ctx, "")
	require.Error(t, err)

	active, err := f.mgr.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	_, ok := f.sched.Pending(res.Mode.ID)
	assert.True(t, ok)
	assert.Zero(t, f.notifier.Count(notify.KindEnd))
}

func TestUpdateKeepsReminderStamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.mgr.Activate(ctx, ActivateInput{EndTime: endAt(f.now.Add(48 * time.Hour))})
	require.NoError(t, err)

	// the reminder lands right after Update has loaded the row
	stamp := f.now.Add(24 * time.Hour)
	var once sync.Once
	err = f.db.Callback().Query().After("gorm:query").Register("test:reminder_fires", func(tx *gorm.DB) {
		if tx.Statement.Table != "maintenance_modes" {
			return
		}
		once.Do(func() {
			tx.Session(&gorm.Session{NewDB: true}).
				Exec("UPDATE maintenance_modes SET reminder_sent_at = ? WHERE id = ?", stamp, res.Mode.ID)
		})
	})
	require.NoError(t, err)

	mode, err := f.mgr.Update(ctx, UpdateInput{Reason: "new oven"}, "")
	require.NoError(t, err)
	assert.Equal(t, "new oven", mode.Reason)

	var stored models.MaintenanceMode
	require.NoError(t, f.db.First(&stored, "id = ?", res.Mode.ID).Error)
	assert.Equal(t, "new oven", stored.Reason)
	require.NotNil(t, stored.ReminderSentAt, "reminder stamp was overwritten")
	assert.True(t, stored.ReminderSentAt.Equal(stamp))
}

func TestUpdateWithoutActive(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.Update(context.Background(), UpdateInput{Reason: "x"}, "")
	status, _ := apperr.Status(err)
	assert.Equal(t, 400, status)
}

func TestNotifierFailureDoesNotAbort(t *testing.T) {
	f := newFixture(t)
	f.notifier.SetErr(errors.New("smtp down"))
	ctx := context.Background()

	res, err := f.mgr.Activate(ctx, ActivateInput{EndTime: endAt(f.now.Add(48 * time.Hour))})
	require.NoError(t, err)
	assert.False(t, res.EmailSent)
	assert.False(t, res.Mode.EmailsSent.StartNotification)
	assert.True(t, res.Mode.EmailsSent.ReminderScheduled)

	res, err = f.mgr.Deactivate(ctx, "")
	require.NoError(t, err)
	assert.False(t, res.EmailSent)
	assert.False(t, res.Mode.IsActive)
}

func TestReconcileRestoresReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	missed := f.now.Add(-time.Hour)
	mode := models.MaintenanceMode{
		IsActive:   true,
		StartTime:  f.now.Add(-48 * time.Hour),
		EndTime:    endAt(f.now.Add(23 * time.Hour)),
		CreatedBy:  "ops",
		ReminderAt: &missed,
	}
	mode.EmailsSent.ReminderScheduled = true
	require.NoError(t, f.db.Create(&mode).Error)

	require.NoError(t, f.mgr.Reconcile(ctx))
	assert.Equal(t, 1, f.notifier.Count(notify.KindReminder), "missed reminder fires late")

	var stored models.MaintenanceMode
	require.NoError(t, f.db.First(&stored, "id = ?", mode.ID).Error)
	require.NotNil(t, stored.ReminderSentAt)

	// already sent, so a second reconcile does nothing
	require.NoError(t, f.mgr.Reconcile(ctx))
	assert.Equal(t, 1, f.notifier.Count(notify.KindReminder))
}

func TestReconcileRearmsFutureReminder(t *testing.T) {
	f := newFixture(t)

	fireAt := f.now.Add(2 * time.Hour)
	mode := models.MaintenanceMode{
		IsActive:   true,
		StartTime:  f.now,
		EndTime:    endAt(f.now.Add(26 * time.Hour)),
		CreatedBy:  "ops",
		ReminderAt: &fireAt,
	}
	require.NoError(t, f.db.Create(&mode).Error)

	require.NoError(t, f.mgr.Reconcile(context.Background()))
	f.reminders(t, 0)

	f.clock.Advance(2 * time.Hour)
	f.reminders(t, 1)
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 12; i++ {
		mode := models.MaintenanceMode{StartTime: f.now, CreatedBy: "ops"}
		mode.CreatedAt = f.now.Add(time.Duration(i) * time.Minute)
		require.NoError(t, f.db.Create(&mode).Error)
	}

	modes, err := f.mgr.History(context.Background())
	require.NoError(t, err)
	require.Len(t, modes, 10)
	assert.True(t, modes[0].CreatedAt.After(modes[9].CreatedAt))
	assert.True(t, modes[0].CreatedAt.Equal(f.now.Add(11*time.Minute)))
}
