// Package notify sends the maintenance lifecycle emails.
package notify

import (
	"context"
	"time"
)

// Kinds of maintenance notification.
const (
	KindStart    = "start"
	KindReminder = "reminder"
	KindEnd      = "end"
)

// Notifier delivers maintenance notifications. Implementations must be safe
// for concurrent use; reminders are sent from timer goroutines.
type Notifier interface {
	SendStart(ctx context.Context, endTime *time.Time) error
	SendReminder(ctx context.Context, endTime time.Time) error
	SendEnd(ctx context.Context) error
	// TestConnection checks that the transport accepts our credentials.
	TestConnection(ctx context.Context) error
}
