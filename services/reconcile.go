package services

import (
	"context"
	"errors"
	"sort"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

// ReconcileReport counts the repairs made by one Reconcile pass.
type ReconcileReport struct {
	Created      int `json:"created"`
	Adopted      int `json:"adopted"`
	Removed      int `json:"removed"`
	StatusSynced int `json:"statusSynced"`
}

func (r ReconcileReport) Changed() bool {
	return r.Created+r.Adopted+r.Removed+r.StatusSynced > 0
}

// Reconcile reloads the current user's appointments and alerts and repairs
// every appointment whose rendez-vous alert is missing, duplicated or carries
// another status. It never surfaces toasts. Errors on one appointment do not
// stop the pass; they are joined and returned with the partial report.
func (c *Coordinator) Reconcile(ctx context.Context) (ReconcileReport, error) {
	ctx = notify.Quiet(ctx)
	var report ReconcileReport

	appointments, err := c.appointments.List(ctx)
	if err != nil {
		return report, err
	}
	alerts, err := c.alerts.List(ctx)
	if err != nil {
		return report, err
	}

	linked := map[string][]model.Alert{}
	for _, al := range alerts {
		if al.Linked() {
			linked[al.AppointmentID] = append(linked[al.AppointmentID], al)
		}
	}
	for id := range linked {
		group := linked[id]
		sort.SliceStable(group, func(i, j int) bool { return group[i].CreatedAt.Before(group[j].CreatedAt) })
	}
	legacy := newLegacyIndex(alerts, c.loc)

	var errs []error
	for i := range appointments {
		a := &appointments[i]
		group := linked[a.ID]

		if len(group) == 0 {
			if al, ok := legacy.claim(a); ok {
				al.AppointmentID = a.ID
				adopted, err := c.alerts.Update(ctx, al)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				report.Adopted++
				group = []model.Alert{adopted}
			}
		}

		if len(group) == 0 {
			if a.RemindersEnabled() {
				if _, err := c.alerts.Create(ctx, model.NewLinkedAlert(a, c.loc)); err != nil {
					errs = append(errs, err)
					continue
				}
				report.Created++
			}
			continue
		}

		for _, dup := range group[1:] {
			if err := c.alerts.Delete(ctx, dup.ID); err != nil {
				errs = append(errs, err)
				continue
			}
			report.Removed++
		}

		if keep := group[0]; keep.Status != a.Status && model.ValidAlertStatus(a.Status) {
			if _, err := c.alerts.UpdateStatus(ctx, keep.ID, a.Status); err != nil {
				errs = append(errs, err)
				continue
			}
			report.StatusSynced++
		}
	}

	if report.Changed() {
		c.log.WithField("report", report).Info("agenda reconciled")
	}
	return report, errors.Join(errs...)
}

// AgendaView is what the agenda page shows on open.
type AgendaView struct {
	Appointments []model.Appointment
	Alerts       []model.Alert
	Report       ReconcileReport
	// Last persistence failure of each store before this load, if any.
	AppointmentsErr error
	AlertsErr       error
}

// Agenda runs a reconciliation pass and returns the current user's
// appointments and alerts as stored afterwards. Repair errors are logged
// only; a failing load is returned.
func (c *Coordinator) Agenda(ctx context.Context) (AgendaView, error) {
	if _, err := session.Require(ctx); err != nil {
		return AgendaView{}, err
	}
	view := AgendaView{
		AppointmentsErr: c.appointments.Err(ctx),
		AlertsErr:       c.alerts.Err(ctx),
	}
	report, err := c.Reconcile(ctx)
	if err != nil {
		c.log.WithError(err).Warn("agenda reconcile incomplete")
	}
	view.Report = report
	if view.Appointments, err = c.appointments.List(ctx); err != nil {
		return view, err
	}
	if view.Alerts, err = c.alerts.List(ctx); err != nil {
		return view, err
	}
	return view, nil
}
