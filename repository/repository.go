// Package repository persists appointments, alerts and users.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
)

var ErrNotFound = errors.New("not found")

// AppointmentRepository is the remote `appointments` collection.
type AppointmentRepository interface {
	// Create stores a and returns it with its assigned id.
	Create(ctx context.Context, a model.Appointment) (model.Appointment, error)
	// Update replaces an existing record.
	Update(ctx context.Context, a model.Appointment) error
	UpdateStatus(ctx context.Context, id string, s model.Status, at time.Time) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (model.Appointment, error)
	// ListByOwner returns the owner's appointments ordered by date.
	ListByOwner(ctx context.Context, owner string) ([]model.Appointment, error)
	// ListDueReminders returns pending appointments of every owner whose
	// enabled reminder is unsent and due at now.
	ListDueReminders(ctx context.Context, now time.Time) ([]model.Appointment, error)
}

// AlertRepository is the remote `alerts` collection.
type AlertRepository interface {
	Create(ctx context.Context, al model.Alert) (model.Alert, error)
	Update(ctx context.Context, al model.Alert) error
	UpdateStatus(ctx context.Context, id string, s model.Status, at time.Time) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (model.Alert, error)
	// ListByOwner returns the owner's alerts ordered by date.
	ListByOwner(ctx context.Context, owner string) ([]model.Alert, error)
	// ListByAppointment returns the alerts whose back-reference is appointmentID, oldest first.
	ListByAppointment(ctx context.Context, owner, appointmentID string) ([]model.Alert, error)
}

// UserRepository is the `Users` collection plus the refresh token records.
type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	Get(ctx context.Context, id string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Update(ctx context.Context, u model.User) error
	SaveRefreshToken(ctx context.Context, rec model.RefreshTokenRecord) error
	RefreshToken(ctx context.Context, userID string) (model.RefreshTokenRecord, error)
}

func due(a model.Appointment, now time.Time) bool {
	return a.RemindersEnabled() &&
		!a.ReminderSent &&
		a.Status == model.StatusPending &&
		a.AlertDate != nil &&
		!a.AlertDate.After(now)
}

func byDate[T any](items []T, date func(T) time.Time, created func(T) time.Time) func(i, j int) bool {
	return func(i, j int) bool {
		di, dj := date(items[i]), date(items[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return created(items[i]).Before(created(items[j]))
	}
}

func appointmentDate(a model.Appointment) time.Time    { return a.Date }
func appointmentCreated(a model.Appointment) time.Time { return a.CreatedAt }
func alertDate(al model.Alert) time.Time               { return al.Date }
func alertCreated(al model.Alert) time.Time            { return al.CreatedAt }
