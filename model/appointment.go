package model

import (
	"strconv"
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityNormal Priority = "normal"
)

type ReminderChannel string

const (
	ChannelEmail        ReminderChannel = "email"
	ChannelNotification ReminderChannel = "notification"
	ChannelBoth         ReminderChannel = "both"
)

// ReminderConfig is the optional reminder attached to an appointment.
type ReminderConfig struct {
	Enabled     bool            `firestore:"enabled" json:"enabled"`
	LeadMinutes string          `firestore:"leadMinutes" json:"leadMinutes"`
	Channel     ReminderChannel `firestore:"channel" json:"channel"`
}

// Lead is LeadMinutes as a duration; unparsable or negative values count as zero.
func (r ReminderConfig) Lead() time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(r.LeadMinutes))
	if err != nil || n < 0 {
		return 0
	}
	return time.Duration(n) * time.Minute
}

func (r ReminderConfig) Email() bool {
	return r.Channel == ChannelEmail || r.Channel == ChannelBoth
}

func (r ReminderConfig) Notification() bool {
	return r.Channel == ChannelNotification || r.Channel == ChannelBoth || r.Channel == ""
}

type Appointment struct {
	ID           string          `firestore:"id" json:"id"`
	Title        string          `firestore:"title" json:"title"`
	Date         time.Time       `firestore:"date" json:"date"`
	Time         string          `firestore:"time" json:"time"`
	Agency       string          `firestore:"agency" json:"agency"`
	Contact      string          `firestore:"contact" json:"contact"`
	Priority     Priority        `firestore:"priority" json:"priority"`
	Status       Status          `firestore:"status" json:"status"`
	Reminder     *ReminderConfig `firestore:"reminder,omitempty" json:"reminder,omitempty"`
	AlertDate    *time.Time      `firestore:"alertDate,omitempty" json:"alertDate,omitempty"`
	ReminderSent bool            `firestore:"reminderSent" json:"reminderSent"`
	Owner        string          `firestore:"userId" json:"userId"`
	CreatedAt    time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time       `firestore:"updatedAt" json:"updatedAt"`
}

// RemindersEnabled reports whether the appointment must have a linked alert.
func (a *Appointment) RemindersEnabled() bool {
	return a.Reminder != nil && a.Reminder.Enabled
}

// Derive aligns Date and the display time, then computes the alert date from
// Reminder. A valid "HH:MM" Time moves Date to that time of its day in loc;
// an empty Time is filled from Date. ReminderSent is cleared when the alert
// date moves.
func (a *Appointment) Derive(loc *time.Location) {
	if clock, err := time.ParseInLocation("15:04", strings.TrimSpace(a.Time), loc); err == nil && !a.Date.IsZero() {
		d := a.Date.In(loc)
		a.Date = time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	}
	if !a.Date.IsZero() {
		a.Time = a.Date.In(loc).Format("15:04")
	}

	var next *time.Time
	if a.RemindersEnabled() {
		at := a.Date.Add(-a.Reminder.Lead())
		next = &at
	}
	if !sameInstant(a.AlertDate, next) {
		a.ReminderSent = false
	}
	a.AlertDate = next
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// AppointmentPatch holds the fields an edit form may change. Nil fields are left untouched.
type AppointmentPatch struct {
	Title    *string
	Date     *time.Time
	Time     *string
	Agency   *string
	Contact  *string
	Priority *Priority
	Status   *Status
	Reminder *ReminderConfig
}

// Apply copies the set fields onto a.
func (p AppointmentPatch) Apply(a *Appointment) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Date != nil {
		a.Date = *p.Date
		if p.Time == nil {
			a.Time = ""
		}
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Agency != nil {
		a.Agency = *p.Agency
	}
	if p.Contact != nil {
		a.Contact = *p.Contact
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Reminder != nil {
		r := *p.Reminder
		a.Reminder = &r
	}
}

// TurnsRemindersOn reports whether the patch enables reminders.
func (p AppointmentPatch) TurnsRemindersOn() bool {
	return p.Reminder != nil && p.Reminder.Enabled
}
