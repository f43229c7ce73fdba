package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
)

// MemoryAppointments keeps appointments in process memory.
type MemoryAppointments struct {
	mu    sync.RWMutex
	items map[string]model.Appointment
	seq   insertion
}

func NewMemoryAppointments() *MemoryAppointments {
	return &MemoryAppointments{items: map[string]model.Appointment{}, seq: insertion{}}
}

// insertion remembers write order so equal timestamps still list deterministically.
type insertion map[string]uint64

func (s insertion) add(id string) {
	s[id] = uint64(len(s)) + 1
}

func sortByInsertion[T any](s insertion, items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return s[id(items[i])] < s[id(items[j])] })
}

func cloneAppointment(a model.Appointment) model.Appointment {
	if a.Reminder != nil {
		r := *a.Reminder
		a.Reminder = &r
	}
	if a.AlertDate != nil {
		t := *a.AlertDate
		a.AlertDate = &t
	}
	return a
}

func (r *MemoryAppointments) Create(_ context.Context, a model.Appointment) (model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New().String()
	r.items[a.ID] = cloneAppointment(a)
	r.seq.add(a.ID)
	return cloneAppointment(a), nil
}

func (r *MemoryAppointments) Update(_ context.Context, a model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return ErrNotFound
	}
	r.items[a.ID] = cloneAppointment(a)
	return nil
}

func (r *MemoryAppointments) UpdateStatus(_ context.Context, id string, s model.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = s
	a.UpdatedAt = at
	r.items[id] = a
	return nil
}

func (r *MemoryAppointments) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryAppointments) Get(_ context.Context, id string) (model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	return cloneAppointment(a), nil
}

func (r *MemoryAppointments) ListByOwner(_ context.Context, owner string) ([]model.Appointment, error) {
	return r.filter(func(a model.Appointment) bool { return a.Owner == owner }), nil
}

func (r *MemoryAppointments) ListDueReminders(_ context.Context, now time.Time) ([]model.Appointment, error) {
	return r.filter(func(a model.Appointment) bool { return due(a, now) }), nil
}

func (r *MemoryAppointments) filter(keep func(model.Appointment) bool) []model.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Appointment{}
	for _, a := range r.items {
		if keep(a) {
			out = append(out, cloneAppointment(a))
		}
	}
	sortByInsertion(r.seq, out, func(a model.Appointment) string { return a.ID })
	sort.SliceStable(out, byDate(out, appointmentDate, appointmentCreated))
	return out
}

// MemoryAlerts keeps alerts in process memory.
type MemoryAlerts struct {
	mu    sync.RWMutex
	items map[string]model.Alert
	seq   insertion
}

func NewMemoryAlerts() *MemoryAlerts {
	return &MemoryAlerts{items: map[string]model.Alert{}, seq: insertion{}}
}

func alertID(al model.Alert) string { return al.ID }

func (r *MemoryAlerts) Create(_ context.Context, al model.Alert) (model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	al.ID = uuid.New().String()
	r.items[al.ID] = al
	r.seq.add(al.ID)
	return al, nil
}

func (r *MemoryAlerts) Update(_ context.Context, al model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[al.ID]; !ok {
		return ErrNotFound
	}
	r.items[al.ID] = al
	return nil
}

func (r *MemoryAlerts) UpdateStatus(_ context.Context, id string, s model.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	al, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	al.Status = s
	al.UpdatedAt = at
	r.items[id] = al
	return nil
}

func (r *MemoryAlerts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryAlerts) Get(_ context.Context, id string) (model.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	al, ok := r.items[id]
	if !ok {
		return model.Alert{}, ErrNotFound
	}
	return al, nil
}

func (r *MemoryAlerts) ListByOwner(_ context.Context, owner string) ([]model.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Alert{}
	for _, al := range r.items {
		if al.Owner == owner {
			out = append(out, al)
		}
	}
	sortByInsertion(r.seq, out, alertID)
	sort.SliceStable(out, byDate(out, alertDate, alertCreated))
	return out, nil
}

func (r *MemoryAlerts) ListByAppointment(_ context.Context, owner, appointmentID string) ([]model.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Alert{}
	for _, al := range r.items {
		if al.Owner == owner && al.AppointmentID == appointmentID {
			out = append(out, al)
		}
	}
	sortByInsertion(r.seq, out, alertID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// MemoryUsers keeps users and refresh token records in process memory.
type MemoryUsers struct {
	mu     sync.RWMutex
	users  map[string]model.User
	tokens map[string]model.RefreshTokenRecord
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		users:  map[string]model.User{},
		tokens: map[string]model.RefreshTokenRecord{},
	}
}

func (r *MemoryUsers) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.UserID] = u
	return nil
}

func (r *MemoryUsers) Get(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (r *MemoryUsers) Update(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.UserID]; !ok {
		return ErrNotFound
	}
	r.users[u.UserID] = u
	return nil
}

func (r *MemoryUsers) SaveRefreshToken(_ context.Context, rec model.RefreshTokenRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[rec.UserID] = rec
	return nil
}

func (r *MemoryUsers) RefreshToken(_ context.Context, userID string) (model.RefreshTokenRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.tokens[userID]
	if !ok {
		return model.RefreshTokenRecord{}, ErrNotFound
	}
	return rec, nil
}

var (
	_ AppointmentRepository = (*MemoryAppointments)(nil)
	_ AlertRepository       = (*MemoryAlerts)(nil)
	_ UserRepository        = (*MemoryUsers)(nil)
	_ AppointmentRepository = (*FirestoreAppointments)(nil)
	_ AlertRepository       = (*FirestoreAlerts)(nil)
	_ UserRepository        = (*FirestoreUsers)(nil)
)
