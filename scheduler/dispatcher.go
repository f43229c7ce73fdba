// Package scheduler fires appointment reminders when their alert date is reached.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/jmhodges/clock"
	"github.com/sirupsen/logrus"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

var errMailDisabled = errors.New("SMTP is not configured")

type DueLister interface {
	ListDueReminders(ctx context.Context, now time.Time) ([]model.Appointment, error)
}

type UserLookup interface {
	Get(ctx context.Context, id string) (model.User, error)
}

type ReminderMarker interface {
	MarkReminderSent(ctx context.Context, id string) error
}

// Dispatcher polls for due reminders every interval. Each reminder is sent
// once: it is marked sent even when delivery failed.
type Dispatcher struct {
	due      DueLister
	users    UserLookup
	marker   ReminderMarker
	mailer   notify.Mailer
	notifier notify.Notifier
	loc      *time.Location
	interval time.Duration
	clk      clock.Clock
	log      logrus.FieldLogger
}

type Options struct {
	Due      DueLister
	Users    UserLookup
	Marker   ReminderMarker
	Mailer   notify.Mailer // nil disables e-mail delivery
	Notifier notify.Notifier
	Location *time.Location
	Interval time.Duration
	Clock    clock.Clock
	Log      logrus.FieldLogger
}

func NewDispatcher(o Options) *Dispatcher {
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Notifier == nil {
		o.Notifier = notify.Nop{}
	}
	return &Dispatcher{
		due:      o.Due,
		users:    o.Users,
		marker:   o.Marker,
		mailer:   o.Mailer,
		notifier: o.Notifier,
		loc:      o.Location,
		interval: o.Interval,
		clk:      o.Clock,
		log:      o.Log,
	}
}

// Run ticks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.WithField("interval", d.interval.String()).Info("reminder dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.log.Info("reminder dispatcher stopped")
			return
		case <-d.clk.After(d.interval):
			d.Tick(ctx)
		}
	}
}

// Tick sends every reminder due now and returns how many were processed.
func (d *Dispatcher) Tick(ctx context.Context) int {
	items, err := d.due.ListDueReminders(ctx, d.clk.Now())
	if err != nil {
		d.log.WithError(err).Error("list due reminders")
		return 0
	}

	for i := range items {
		d.send(ctx, &items[i])
	}
	return len(items)
}

func (d *Dispatcher) send(ctx context.Context, a *model.Appointment) {
	log := d.log.WithFields(logrus.Fields{"appointment": a.ID, "owner": a.Owner})
	principal := session.Principal{UserID: a.Owner}

	if a.Reminder.Email() {
		if err := d.mail(ctx, a, &principal); err != nil {
			log.WithError(err).Warn("reminder e-mail not sent")
		}
	}
	if a.Reminder.Notification() {
		d.notifier.Notify(ctx, a.Owner, notify.Toast{
			Level:   notify.LevelInfo,
			Title:   "Rappel",
			Message: model.AppointmentDescription(a, d.loc),
		})
	}

	if err := d.marker.MarkReminderSent(session.WithPrincipal(ctx, principal), a.ID); err != nil {
		log.WithError(err).Error("mark reminder sent")
		return
	}
	log.Info("reminder sent")
}

func (d *Dispatcher) mail(ctx context.Context, a *model.Appointment, p *session.Principal) error {
	if d.mailer == nil {
		return errMailDisabled
	}
	u, err := d.users.Get(ctx, a.Owner)
	if err != nil {
		return err
	}
	p.Email, p.Name, p.Role = u.Email, u.Name, u.Role
	return d.mailer.Send(ctx, u.Email, notify.ReminderSubject(a), notify.ReminderEmail(a, d.loc))
}
