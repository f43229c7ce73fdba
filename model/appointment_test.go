package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return loc
}

func TestReminderLead(t *testing.T) {
	assert.Equal(t, 30*time.Minute, ReminderConfig{LeadMinutes: "30"}.Lead())
	assert.Equal(t, time.Duration(0), ReminderConfig{LeadMinutes: ""}.Lead())
	assert.Equal(t, time.Duration(0), ReminderConfig{LeadMinutes: "-5"}.Lead())
	assert.Equal(t, time.Duration(0), ReminderConfig{LeadMinutes: "soon"}.Lead())
}

func TestReminderChannels(t *testing.T) {
	assert.True(t, ReminderConfig{}.Notification())
	assert.False(t, ReminderConfig{}.Email())
	assert.True(t, ReminderConfig{Channel: ChannelBoth}.Email())
	assert.True(t, ReminderConfig{Channel: ChannelBoth}.Notification())
	assert.False(t, ReminderConfig{Channel: ChannelEmail}.Notification())
}

func TestDerive(t *testing.T) {
	loc := paris(t)
	a := Appointment{
		Date:     time.Date(2024, 3, 1, 10, 0, 0, 0, loc),
		Reminder: &ReminderConfig{Enabled: true, LeadMinutes: "30"},
	}
	a.Derive(loc)
	assert.Equal(t, "10:00", a.Time)
	require.NotNil(t, a.AlertDate)
	assert.True(t, a.AlertDate.Equal(time.Date(2024, 3, 1, 9, 30, 0, 0, loc)))

	a.ReminderSent = true
	a.Derive(loc)
	assert.True(t, a.ReminderSent, "unchanged alert date keeps the sent flag")

	a.Time = "14:15"
	a.Derive(loc)
	assert.True(t, a.Date.Equal(time.Date(2024, 3, 1, 14, 15, 0, 0, loc)))
	assert.True(t, a.AlertDate.Equal(time.Date(2024, 3, 1, 13, 45, 0, 0, loc)))
	assert.False(t, a.ReminderSent)

	a.Reminder.Enabled = false
	a.Derive(loc)
	assert.Nil(t, a.AlertDate)
}

func TestAppointmentPatch(t *testing.T) {
	loc := paris(t)
	a := Appointment{Title: "Tech Solutions", Date: time.Date(2024, 3, 1, 10, 0, 0, 0, loc), Time: "10:00"}

	next := time.Date(2024, 3, 4, 16, 30, 0, 0, loc)
	title := "Tech Solutions SA"
	p := AppointmentPatch{Title: &title, Date: &next}
	p.Apply(&a)
	a.Derive(loc)

	assert.Equal(t, "Tech Solutions SA", a.Title)
	assert.Equal(t, "16:30", a.Time)
	assert.False(t, p.TurnsRemindersOn())
	assert.True(t, AppointmentPatch{Reminder: &ReminderConfig{Enabled: true}}.TurnsRemindersOn())
}

func TestNewLinkedAlert(t *testing.T) {
	loc := paris(t)
	a := Appointment{
		ID:      "appt-1",
		Title:   "Tech Solutions",
		Date:    time.Date(2024, 3, 1, 10, 0, 0, 0, loc),
		Time:    "10:00",
		Contact: "J. Dupont",
		Agency:  "Lyon",
		Owner:   "u1",
	}

	al := NewLinkedAlert(&a, loc)
	assert.Equal(t, KindRendezVous, al.Kind)
	assert.Equal(t, StatusPending, al.Status)
	assert.Equal(t, 1, al.Step)
	assert.Equal(t, "appt-1", al.AppointmentID)
	assert.Equal(t, "Tech Solutions", al.Company)
	assert.Equal(t, "Lyon", al.Agency)
	assert.Equal(t, "Rendez-vous avec J. Dupont le 01/03/2024 à 10:00", al.Description)
	assert.Equal(t, "Préparer le rendez-vous avec Tech Solutions", al.Action)
	assert.True(t, al.LinkedTo("appt-1"))

	a.Contact = ""
	assert.Equal(t, "Rendez-vous le 01/03/2024 à 10:00", AppointmentDescription(&a, loc))

	a.Status = StatusCompleted
	assert.True(t, al.SyncFrom(&a, loc))
	assert.Equal(t, StatusCompleted, al.Status)
	assert.False(t, al.SyncFrom(&a, loc))
}
