package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/mani1234567sk/Frin-Backend/internal/config"
	"github.com/mani1234567sk/Frin-Backend/internal/metrics"
)

var ErrNotConfigured = errors.New("smtp settings or MAINTENANCE_EMAIL_RECIPIENT missing")

// Mailer sends notifications over SMTP. A fresh connection is dialled per
// message; these emails are rare.
type Mailer struct {
	dialer     *gomail.Dialer
	from       string
	to         string
	company    string
	configured bool
	log        logrus.FieldLogger
	metrics    *metrics.Metrics
}

func NewMailer(cfg *config.Config, log logrus.FieldLogger, m *metrics.Metrics) *Mailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	// port 465 is implicit TLS, gomail switches to it by port number
	d.SSL = cfg.SMTPPort == 465

	return &Mailer{
		dialer:     d,
		from:       fmt.Sprintf("%q <%s>", cfg.MailFromName, cfg.SMTPUser),
		to:         cfg.MailRecipient,
		company:    cfg.MailFromName,
		configured: cfg.MailEnabled(),
		log:        log.WithField("component", "mailer"),
		metrics:    m,
	}
}

func (m *Mailer) SendStart(ctx context.Context, endTime *time.Time) error {
	return m.send(ctx, KindStart, subjectStart, endTime)
}

func (m *Mailer) SendReminder(ctx context.Context, endTime time.Time) error {
	return m.send(ctx, KindReminder, subjectReminder, &endTime)
}

func (m *Mailer) SendEnd(ctx context.Context) error {
	return m.send(ctx, KindEnd, subjectEnd, nil)
}

func (m *Mailer) TestConnection(ctx context.Context) error {
	if !m.configured {
		return ErrNotConfigured
	}
	return runWithContext(ctx, func() error {
		closer, err := m.dialer.Dial()
		if err != nil {
			return fmt.Errorf("dial smtp: %w", err)
		}
		return closer.Close()
	})
}

func (m *Mailer) send(ctx context.Context, kind, subject string, endTime *time.Time) error {
	err := m.deliver(ctx, kind, subject, endTime)
	if m.metrics != nil {
		m.metrics.NotificationSent(kind, err == nil)
	}
	if err != nil {
		m.log.WithError(err).WithField("kind", kind).Error("maintenance email failed")
		return err
	}
	m.log.WithField("kind", kind).Info("maintenance email sent")
	return nil
}

func (m *Mailer) deliver(ctx context.Context, kind, subject string, endTime *time.Time) error {
	if !m.configured {
		return ErrNotConfigured
	}

	body, err := render(kind, m.company, time.Now(), endTime)
	if err != nil {
		return fmt.Errorf("render %s email: %w", kind, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return runWithContext(ctx, func() error {
		return m.dialer.DialAndSend(msg)
	})
}

// runWithContext stops waiting when ctx ends. gomail has no context support,
// so the SMTP exchange itself finishes in the background.
func runWithContext(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
