package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
)

func TestMemoryAppointmentsCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointments()
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	a, err := repo.Create(ctx, model.Appointment{Title: "Tech Solutions", Date: day, Owner: "u1", Status: model.StatusPending})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	a.Agency = "Lyon"
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", got.Agency)

	require.NoError(t, repo.UpdateStatus(ctx, a.ID, model.StatusLate, day))
	got, _ = repo.Get(ctx, a.ID)
	assert.Equal(t, model.StatusLate, got.Status)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, a), ErrNotFound)
}

func TestMemoryAppointmentsReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointments()
	a, err := repo.Create(ctx, model.Appointment{Owner: "u1", Reminder: &model.ReminderConfig{Enabled: true}})
	require.NoError(t, err)

	a.Reminder.Enabled = false
	got, _ := repo.Get(ctx, a.ID)
	assert.True(t, got.Reminder.Enabled)
}

func TestMemoryAppointmentsListByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointments()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, _ = repo.Create(ctx, model.Appointment{Title: "late", Date: base.Add(48 * time.Hour), Owner: "u1"})
	_, _ = repo.Create(ctx, model.Appointment{Title: "early", Date: base, Owner: "u1"})
	_, _ = repo.Create(ctx, model.Appointment{Title: "other", Date: base, Owner: "u2"})

	items, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "early", items[0].Title)
	assert.Equal(t, "late", items[1].Title)
}

func TestMemoryAppointmentsListDueReminders(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointments()
	now := time.Date(2024, 3, 1, 9, 45, 0, 0, time.UTC)
	past := now.Add(-15 * time.Minute)
	future := now.Add(time.Hour)
	on := &model.ReminderConfig{Enabled: true, LeadMinutes: "30"}

	due, _ := repo.Create(ctx, model.Appointment{Title: "due", Owner: "u1", Status: model.StatusPending, Reminder: on, AlertDate: &past})
	_, _ = repo.Create(ctx, model.Appointment{Title: "future", Owner: "u1", Status: model.StatusPending, Reminder: on, AlertDate: &future})
	_, _ = repo.Create(ctx, model.Appointment{Title: "sent", Owner: "u1", Status: model.StatusPending, Reminder: on, AlertDate: &past, ReminderSent: true})
	_, _ = repo.Create(ctx, model.Appointment{Title: "done", Owner: "u2", Status: model.StatusCompleted, Reminder: on, AlertDate: &past})
	_, _ = repo.Create(ctx, model.Appointment{Title: "off", Owner: "u2", Status: model.StatusPending, Reminder: &model.ReminderConfig{}, AlertDate: &past})

	items, err := repo.ListDueReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, due.ID, items[0].ID)
}

func TestMemoryAlertsListByAppointmentOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAlerts()
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	first, _ := repo.Create(ctx, model.Alert{Kind: model.KindRendezVous, AppointmentID: "a1", Owner: "u1", CreatedAt: created})
	second, _ := repo.Create(ctx, model.Alert{Kind: model.KindRendezVous, AppointmentID: "a1", Owner: "u1", CreatedAt: created})
	_, _ = repo.Create(ctx, model.Alert{Kind: model.KindRendezVous, AppointmentID: "a2", Owner: "u1", CreatedAt: created})
	_, _ = repo.Create(ctx, model.Alert{Kind: model.KindRendezVous, AppointmentID: "a1", Owner: "u2", CreatedAt: created})

	items, err := repo.ListByAppointment(ctx, "u1", "a1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUsers()

	require.NoError(t, repo.Create(ctx, model.User{UserID: "u1", Email: "Jane@Anthea-rh.fr"}))
	u, err := repo.GetByEmail(ctx, "jane@anthea-rh.fr")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)

	_, err = repo.GetByEmail(ctx, "nobody@anthea-rh.fr")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SaveRefreshToken(ctx, model.RefreshTokenRecord{UserID: "u1", RefreshToken: "hash"}))
	rec, err := repo.RefreshToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hash", rec.RefreshToken)

	assert.ErrorIs(t, repo.Update(ctx, model.User{UserID: "u2"}), ErrNotFound)
}
