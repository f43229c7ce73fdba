package store

import (
	"context"

	"github.com/jmhodges/clock"
	"github.com/sirupsen/logrus"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
)

// AppointmentStore is the cached view of the `appointments` collection.
type AppointmentStore struct {
	base
	repo  repository.AppointmentRepository
	cache *ownerCache[model.Appointment]
}

func NewAppointmentStore(repo repository.AppointmentRepository, notifier notify.Notifier, log logrus.FieldLogger, clk clock.Clock) *AppointmentStore {
	return &AppointmentStore{
		base: base{
			kind:     "appointment",
			title:    "Rendez-vous",
			notifier: notifier,
			log:      log,
			clk:      clk,
		},
		repo:  repo,
		cache: newOwnerCache(func(a model.Appointment) string { return a.ID }),
	}
}

// Err returns the last persistence error of the current user, if any.
func (s *AppointmentStore) Err(ctx context.Context) error {
	p, err := s.principal(ctx)
	if err != nil {
		return nil
	}
	return s.cache.err(p.UserID)
}

func (s *AppointmentStore) List(ctx context.Context) ([]model.Appointment, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, s.fail(ctx, s.cache.setErr, p.UserID, "list", "", err, "Impossible de charger les rendez-vous")
	}
	s.cache.replace(p.UserID, items)
	s.cache.setErr(p.UserID, nil)
	return items, nil
}

// Get looks in the cache first and falls back to the repository. Records of
// other users are reported as not found.
func (s *AppointmentStore) Get(ctx context.Context, id string) (model.Appointment, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	if a, ok := s.cache.get(p.UserID, id); ok {
		return a, nil
	}
	return s.Load(ctx, id)
}

// Load reads one appointment from the repository, bypassing the cache, and
// refreshes the cached copy.
func (s *AppointmentStore) Load(ctx context.Context, id string) (model.Appointment, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	a, err := s.repo.Get(ctx, id)
	if err == nil && a.Owner != p.UserID {
		err = repository.ErrNotFound
	}
	if err != nil {
		return model.Appointment{}, s.fail(ctx, s.cache.setErr, p.UserID, "get", id, err, "Rendez-vous introuvable")
	}
	s.cache.upsert(p.UserID, a)
	return a, nil
}

// Create stores a for the current user and returns it with id and timestamps set.
func (s *AppointmentStore) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	now := s.clk.Now()
	a.Owner = p.UserID
	a.CreatedAt = now
	a.UpdatedAt = now

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return model.Appointment{}, s.fail(ctx, s.cache.setErr, p.UserID, "create", "", err, "Impossible de créer le rendez-vous")
	}
	s.cache.upsert(p.UserID, created)
	s.cache.setErr(p.UserID, nil)
	s.toast(ctx, p.UserID, notify.LevelSuccess, "Rendez-vous créé")
	return created, nil
}

// Update replaces the full record and refreshes UpdatedAt.
func (s *AppointmentStore) Update(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	if a.Owner != p.UserID {
		return model.Appointment{}, s.fail(ctx, s.cache.setErr, p.UserID, "update", a.ID, repository.ErrNotFound, "Rendez-vous introuvable")
	}
	a.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, a); err != nil {
		return model.Appointment{}, s.fail(ctx, s.cache.setErr, p.UserID, "update", a.ID, err, "Impossible de modifier le rendez-vous")
	}
	s.cache.upsert(p.UserID, a)
	s.cache.setErr(p.UserID, nil)
	s.toast(ctx, p.UserID, notify.LevelSuccess, "Rendez-vous modifié")
	return a, nil
}

func (s *AppointmentStore) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	now := s.clk.Now()
	if err := s.repo.UpdateStatus(ctx, id, status, now); err != nil {
		return model.Appointment{}, s.fail(ctx, s.cache.setErr, a.Owner, "update status of", id, err, "Impossible de changer le statut du rendez-vous")
	}
	a.Status = status
	a.UpdatedAt = now
	s.cache.upsert(a.Owner, a)
	s.cache.setErr(a.Owner, nil)
	s.toast(ctx, a.Owner, notify.LevelSuccess, "Statut du rendez-vous mis à jour")
	return a, nil
}

func (s *AppointmentStore) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, s.cache.setErr, a.Owner, "delete", id, err, "Impossible de supprimer le rendez-vous")
	}
	s.cache.remove(a.Owner, id)
	s.cache.setErr(a.Owner, nil)
	s.toast(ctx, a.Owner, notify.LevelSuccess, "Rendez-vous supprimé")
	return nil
}
