package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
	"github.com/Senorsean/crm-employ-2025-sub001/store"
)

// ErrLinkedAlert rejects changes that only the owning appointment may make.
var ErrLinkedAlert = errors.New("alert is managed by its appointment")

// Coordinator is the only entry point for appointment and alert mutations.
// It keeps every appointment and its rendez-vous alert consistent. Writes to
// the two collections are not atomic; alert-side failures after a successful
// appointment write are logged and left for Reconcile to repair.
type Coordinator struct {
	appointments *store.AppointmentStore
	alerts       *store.AlertStore
	loc          *time.Location
	log          logrus.FieldLogger
}

func NewCoordinator(appointments *store.AppointmentStore, alerts *store.AlertStore, loc *time.Location, log logrus.FieldLogger) *Coordinator {
	return &Coordinator{appointments: appointments, alerts: alerts, loc: loc, log: log}
}

func (c *Coordinator) Location() *time.Location {
	return c.loc
}

func (c *Coordinator) Appointments(ctx context.Context) ([]model.Appointment, error) {
	return c.appointments.List(ctx)
}

func (c *Coordinator) Alerts(ctx context.Context) ([]model.Alert, error) {
	return c.alerts.List(ctx)
}

func (c *Coordinator) CreateAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	if a.Priority == "" {
		a.Priority = model.PriorityNormal
	}
	if a.Status == "" {
		a.Status = model.StatusPending
	}
	if !model.ValidAppointmentStatus(a.Status) {
		return model.Appointment{}, fmt.Errorf("%w: %q", model.ErrInvalidStatus, a.Status)
	}
	a.ReminderSent = false
	a.Derive(c.loc)

	created, err := c.appointments.Create(ctx, a)
	if err != nil {
		return model.Appointment{}, err
	}
	if created.RemindersEnabled() {
		c.createLinked(ctx, &created)
	}
	return created, nil
}

// UpdateAppointment applies patch to the stored appointment and carries the
// change over to the linked alert.
func (c *Coordinator) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (model.Appointment, error) {
	cur, err := c.appointments.Load(ctx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	if patch.Status != nil {
		if err := model.CheckAppointmentTransition(cur.Status, *patch.Status); err != nil {
			return model.Appointment{}, err
		}
	}

	next := cur
	patch.Apply(&next)
	next.Derive(c.loc)

	updated, err := c.appointments.Update(ctx, next)
	if err != nil {
		return model.Appointment{}, err
	}
	c.syncLinked(ctx, &updated, patch.TurnsRemindersOn())
	return updated, nil
}

// syncLinked keeps the oldest linked alert, refreshes it from a and deletes
// the others. Failures are logged only.
func (c *Coordinator) syncLinked(ctx context.Context, a *model.Appointment, createMissing bool) {
	linked, err := c.alerts.Linked(ctx, a.ID)
	if err != nil {
		c.warn(a, "load linked alerts", err)
		return
	}
	if len(linked) == 0 {
		if createMissing && a.RemindersEnabled() {
			c.createLinked(ctx, a)
		}
		return
	}

	keep := linked[0]
	if keep.SyncFrom(a, c.loc) {
		if _, err := c.alerts.Update(ctx, keep); err != nil {
			c.warn(a, "update linked alert", err)
		}
	}
	for _, dup := range linked[1:] {
		if err := c.alerts.Delete(ctx, dup.ID); err != nil {
			c.warn(a, "delete duplicate alert", err)
		}
	}
}

func (c *Coordinator) createLinked(ctx context.Context, a *model.Appointment) (model.Alert, bool) {
	al, err := c.alerts.Create(ctx, model.NewLinkedAlert(a, c.loc))
	if err != nil {
		c.warn(a, "create linked alert", err)
		return model.Alert{}, false
	}
	return al, true
}

func (c *Coordinator) warn(a *model.Appointment, op string, err error) {
	c.log.WithFields(logrus.Fields{"appointment": a.ID, "owner": a.Owner, "op": op}).WithError(err).Warn("appointment and alert out of sync")
}

// DeleteAppointment removes the appointment, then every alert linked to it.
func (c *Coordinator) DeleteAppointment(ctx context.Context, id string) error {
	if err := c.appointments.Delete(ctx, id); err != nil {
		return err
	}
	linked, err := c.alerts.Linked(ctx, id)
	if err != nil {
		return err
	}
	var errs []error
	for _, al := range linked {
		if err := c.alerts.Delete(ctx, al.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetStatus changes the appointment status and mirrors it onto its linked
// alerts. Linked alerts are brought in line even when the appointment already
// has the requested status.
func (c *Coordinator) SetStatus(ctx context.Context, id string, status model.Status) (model.Appointment, error) {
	cur, err := c.appointments.Load(ctx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	if err := model.CheckAppointmentTransition(cur.Status, status); err != nil {
		return model.Appointment{}, err
	}

	updated := cur
	if cur.Status != status {
		if updated, err = c.appointments.UpdateStatus(ctx, id, status); err != nil {
			return model.Appointment{}, err
		}
	}
	linked, err := c.alerts.Linked(ctx, id)
	if err != nil {
		c.warn(&updated, "load linked alerts", err)
		return updated, nil
	}
	for _, al := range linked {
		if al.Status == status {
			continue
		}
		if _, err := c.alerts.UpdateStatus(ctx, al.ID, status); err != nil {
			c.warn(&updated, "propagate status", err)
		}
	}
	return updated, nil
}

// MarkReminderSent flags the appointment's reminder as delivered.
func (c *Coordinator) MarkReminderSent(ctx context.Context, id string) error {
	ctx = notify.Quiet(ctx)
	a, err := c.appointments.Load(ctx, id)
	if err != nil {
		return err
	}
	if a.ReminderSent {
		return nil
	}
	a.ReminderSent = true
	_, err = c.appointments.Update(ctx, a)
	return err
}

func (c *Coordinator) CreateAlert(ctx context.Context, al model.Alert) (model.Alert, error) {
	if al.Kind == "" {
		al.Kind = model.KindRelance
	}
	if !model.ValidAlertKind(al.Kind) {
		return model.Alert{}, fmt.Errorf("unknown alert type %q", al.Kind)
	}
	if al.Step < 1 {
		al.Step = 1
	}
	al.Status = model.StatusPending
	al.AppointmentID = ""
	return c.alerts.Create(ctx, al)
}

// UpdateAlert edits an alert. Linked alerts only accept step, description and action.
func (c *Coordinator) UpdateAlert(ctx context.Context, id string, patch model.AlertPatch) (model.Alert, error) {
	cur, err := c.alerts.Load(ctx, id)
	if err != nil {
		return model.Alert{}, err
	}
	if cur.Linked() && patch.TouchesAppointmentFields() {
		return model.Alert{}, fmt.Errorf("update alert %s: %w", id, ErrLinkedAlert)
	}
	if patch.Kind != nil && !model.ValidAlertKind(*patch.Kind) {
		return model.Alert{}, fmt.Errorf("unknown alert type %q", *patch.Kind)
	}
	next := cur
	patch.Apply(&next)
	return c.alerts.Update(ctx, next)
}

// DeleteAlert removes an alert. A linked alert can only go with its appointment.
func (c *Coordinator) DeleteAlert(ctx context.Context, id string) error {
	al, err := c.alerts.Get(ctx, id)
	if err != nil {
		return err
	}
	if al.Linked() {
		if _, err := c.appointments.Get(notify.Quiet(ctx), al.AppointmentID); err == nil {
			return fmt.Errorf("delete alert %s: %w", id, ErrLinkedAlert)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	return c.alerts.Delete(ctx, id)
}

// SetAlertStatus changes an alert status. For a linked alert the change is made
// on the appointment so that both records move together.
func (c *Coordinator) SetAlertStatus(ctx context.Context, id string, status model.Status) (model.Alert, error) {
	cur, err := c.alerts.Load(ctx, id)
	if err != nil {
		return model.Alert{}, err
	}

	if cur.Linked() {
		if status == model.StatusSkipped {
			return model.Alert{}, fmt.Errorf("%w: %s cannot be skipped", ErrLinkedAlert, id)
		}
		_, err := c.appointments.Get(notify.Quiet(ctx), cur.AppointmentID)
		switch {
		case err == nil:
			if _, err := c.SetStatus(ctx, cur.AppointmentID, status); err != nil {
				return model.Alert{}, err
			}
			return c.alerts.Load(ctx, id)
		case !errors.Is(err, repository.ErrNotFound):
			return model.Alert{}, err
		}
		// orphaned alert: handled like any other
	}

	if err := model.CheckAlertTransition(cur.Status, status); err != nil {
		return model.Alert{}, err
	}
	if cur.Status == status {
		return cur, nil
	}
	return c.alerts.UpdateStatus(ctx, id, status)
}

// Calendar returns the day markers of the current user's appointments between
// from and to, both days included. Zero bounds are open.
func (c *Coordinator) Calendar(ctx context.Context, from, to time.Time) ([]DayMarker, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	items, err := c.appointments.List(notify.Quiet(ctx))
	if err != nil {
		return nil, err
	}
	markers := DayMarkers(items, c.loc)
	lo, hi := dayKey(from, c.loc), dayKey(to, c.loc)
	out := markers[:0]
	for _, m := range markers {
		if (!from.IsZero() && m.Day < lo) || (!to.IsZero() && m.Day > hi) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
