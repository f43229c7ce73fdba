package model

import (
	"fmt"
	"time"
)

type AlertKind string

const (
	KindRelance    AlertKind = "relance"
	KindRendezVous AlertKind = "rendez-vous"
)

func ValidAlertKind(k AlertKind) bool {
	return k == KindRelance || k == KindRendezVous
}

type Alert struct {
	ID            string    `firestore:"id" json:"id"`
	Kind          AlertKind `firestore:"type" json:"type"`
	Company       string    `firestore:"company" json:"company"`
	Date          time.Time `firestore:"date" json:"date"`
	Agency        string    `firestore:"agency" json:"agency"`
	Status        Status    `firestore:"status" json:"status"`
	Step          int       `firestore:"step" json:"step"`
	Description   string    `firestore:"description" json:"description"`
	Action        string    `firestore:"action" json:"action"`
	AppointmentID string    `firestore:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	Owner         string    `firestore:"userId" json:"userId"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// LinkedTo reports whether the alert is the rendez-vous alert of appointment id.
func (al *Alert) LinkedTo(id string) bool {
	return al.Kind == KindRendezVous && al.AppointmentID != "" && al.AppointmentID == id
}

// Linked reports whether the alert carries a back-reference to an appointment.
func (al *Alert) Linked() bool {
	return al.Kind == KindRendezVous && al.AppointmentID != ""
}

// NewLinkedAlert builds the rendez-vous alert materialised for an appointment.
// It starts at step 1 with the appointment's status, pending for new ones.
func NewLinkedAlert(a *Appointment, loc *time.Location) Alert {
	al := Alert{
		Kind:          KindRendezVous,
		Step:          1,
		AppointmentID: a.ID,
		Owner:         a.Owner,
	}
	al.SyncFrom(a, loc)
	if al.Status == "" {
		al.Status = StatusPending
	}
	return al
}

// SyncFrom copies the appointment-derived fields and status onto the alert.
// It reports whether anything changed.
func (al *Alert) SyncFrom(a *Appointment, loc *time.Location) bool {
	before := *al
	al.Company = a.Title
	al.Date = a.Date
	al.Agency = a.Agency
	al.Description = AppointmentDescription(a, loc)
	al.Action = AppointmentAction(a)
	if a.Status != "" {
		al.Status = a.Status
	}
	return before.Company != al.Company ||
		!before.Date.Equal(al.Date) ||
		before.Agency != al.Agency ||
		before.Description != al.Description ||
		before.Action != al.Action ||
		before.Status != al.Status
}

func AppointmentDescription(a *Appointment, loc *time.Location) string {
	day := a.Date.In(loc).Format("02/01/2006")
	at := a.Time
	if at == "" {
		at = a.Date.In(loc).Format("15:04")
	}
	if a.Contact == "" {
		return fmt.Sprintf("Rendez-vous le %s à %s", day, at)
	}
	return fmt.Sprintf("Rendez-vous avec %s le %s à %s", a.Contact, day, at)
}

func AppointmentAction(a *Appointment) string {
	return fmt.Sprintf("Préparer le rendez-vous avec %s", a.Title)
}

// AlertPatch holds the editable alert fields. Nil fields are left untouched.
type AlertPatch struct {
	Kind        *AlertKind
	Company     *string
	Date        *time.Time
	Agency      *string
	Step        *int
	Description *string
	Action      *string
}

// TouchesAppointmentFields reports whether the patch edits fields owned by a linked appointment.
func (p AlertPatch) TouchesAppointmentFields() bool {
	return p.Kind != nil || p.Company != nil || p.Date != nil || p.Agency != nil
}

func (p AlertPatch) Apply(al *Alert) {
	if p.Kind != nil {
		al.Kind = *p.Kind
	}
	if p.Company != nil {
		al.Company = *p.Company
	}
	if p.Date != nil {
		al.Date = *p.Date
	}
	if p.Agency != nil {
		al.Agency = *p.Agency
	}
	if p.Step != nil {
		al.Step = *p.Step
	}
	if p.Description != nil {
		al.Description = *p.Description
	}
	if p.Action != nil {
		al.Action = *p.Action
	}
}
