package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/mani1234567sk/Frin-Backend/internal/notify"
)

// SentNotification is one call captured by a Notifier.
type SentNotification struct {
	Kind    string
	EndTime *time.Time
}

// Notifier is an in-memory notify.Notifier. Setting Err makes every call
// fail after being recorded.
type Notifier struct {
	mu   sync.Mutex
	sent []SentNotification
	Err  error
}

var _ notify.Notifier = (*Notifier)(nil)

func (n *Notifier) record(kind string, endTime *time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentNotification{Kind: kind, EndTime: endTime})
	return n.Err
}

func (n *Notifier) SendStart(_ context.Context, endTime *time.Time) error {
	return n.record(notify.KindStart, endTime)
}

func (n *Notifier) SendReminder(_ context.Context, endTime time.Time) error {
	return n.record(notify.KindReminder, &endTime)
}

func (n *Notifier) SendEnd(context.Context) error {
	return n.record(notify.KindEnd, nil)
}

func (n *Notifier) TestConnection(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Err
}

func (n *Notifier) SetErr(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Err = err
}

// Count returns how many notifications of kind were recorded.
func (n *Notifier) Count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, s := range n.sent {
		if s.Kind == kind {
			c++
		}
	}
	return c
}
