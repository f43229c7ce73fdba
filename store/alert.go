package store

import (
	"context"

	"github.com/jmhodges/clock"
	"github.com/sirupsen/logrus"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
)

// AlertStore is the cached view of the `alerts` collection. It carries no
// business rules; appointment links are maintained by the caller.
type AlertStore struct {
	base
	repo  repository.AlertRepository
	cache *ownerCache[model.Alert]
}

func NewAlertStore(repo repository.AlertRepository, notifier notify.Notifier, log logrus.FieldLogger, clk clock.Clock) *AlertStore {
	return &AlertStore{
		base: base{
			kind:     "alert",
			title:    "Alerte",
			notifier: notifier,
			log:      log,
			clk:      clk,
		},
		repo:  repo,
		cache: newOwnerCache(func(al model.Alert) string { return al.ID }),
	}
}

func (s *AlertStore) Err(ctx context.Context) error {
	p, err := s.principal(ctx)
	if err != nil {
		return nil
	}
	return s.cache.err(p.UserID)
}

func (s *AlertStore) List(ctx context.Context) ([]model.Alert, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, s.fail(ctx, s.cache.setErr, p.UserID, "list", "", err, "Impossible de charger les alertes")
	}
	s.cache.replace(p.UserID, items)
	s.cache.setErr(p.UserID, nil)
	return items, nil
}

// Linked queries the alerts whose back-reference is appointmentID, oldest first.
func (s *AlertStore) Linked(ctx context.Context, appointmentID string) ([]model.Alert, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByAppointment(ctx, p.UserID, appointmentID)
	if err != nil {
		return nil, s.fail(ctx, s.cache.setErr, p.UserID, "list linked", appointmentID, err, "Impossible de charger les alertes du rendez-vous")
	}
	for _, al := range items {
		s.cache.upsert(p.UserID, al)
	}
	return items, nil
}

func (s *AlertStore) Get(ctx context.Context, id string) (model.Alert, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return model.Alert{}, err
	}
	if al, ok := s.cache.get(p.UserID, id); ok {
		return al, nil
	}
	return s.Load(ctx, id)
}

// Load always reads the repository and refreshes the cached copy.
func (s *AlertStore) Load(ctx context.Context, id string) (model.Alert, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return model.Alert{}, err
	}
	al, err := s.repo.Get(ctx, id)
	if err == nil && al.Owner != p.UserID {
		err = repository.ErrNotFound
	}
	if err != nil {
		return model.Alert{}, s.fail(ctx, s.cache.setErr, p.UserID, "get", id, err, "Alerte introuvable")
	}
	s.cache.upsert(p.UserID, al)
	return al, nil
}

func (s *AlertStore) Create(ctx context.Context, al model.Alert) (model.Alert, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return model.Alert{}, err
	}
	now := s.clk.Now()
	al.Owner = p.UserID
	al.CreatedAt = now
	al.UpdatedAt = now

	created, err := s.repo.Create(ctx, al)
	if err != nil {
		return model.Alert{}, s.fail(ctx, s.cache.setErr, p.UserID, "create", "", err, "Impossible de créer l'alerte")
	}
	s.cache.upsert(p.UserID, created)
	s.cache.setErr(p.UserID, nil)
	s.toast(ctx, p.UserID, notify.LevelSuccess, "Alerte créée")
	return created, nil
}

func (s *AlertStore) Update(ctx context.Context, al model.Alert) (model.Alert, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return model.Alert{}, err
	}
	if al.Owner != p.UserID {
		return model.Alert{}, s.fail(ctx, s.cache.setErr, p.UserID, "update", al.ID, repository.ErrNotFound, "Alerte introuvable")
	}
	al.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, al); err != nil {
		return model.Alert{}, s.fail(ctx, s.cache.setErr, p.UserID, "update", al.ID, err, "Impossible de modifier l'alerte")
	}
	s.cache.upsert(p.UserID, al)
	s.cache.setErr(p.UserID, nil)
	s.toast(ctx, p.UserID, notify.LevelSuccess, "Alerte modifiée")
	return al, nil
}

func (s *AlertStore) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Alert, error) {
	al, err := s.Get(ctx, id)
	if err != nil {
		return model.Alert{}, err
	}
	now := s.clk.Now()
	if err := s.repo.UpdateStatus(ctx, id, status, now); err != nil {
		return model.Alert{}, s.fail(ctx, s.cache.setErr, al.Owner, "update status of", id, err, "Impossible de changer le statut de l'alerte")
	}
	al.Status = status
	al.UpdatedAt = now
	s.cache.upsert(al.Owner, al)
	s.cache.setErr(al.Owner, nil)
	s.toast(ctx, al.Owner, notify.LevelSuccess, "Statut de l'alerte mis à jour")
	return al, nil
}

func (s *AlertStore) Delete(ctx context.Context, id string) error {
	al, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, s.cache.setErr, al.Owner, "delete", id, err, "Impossible de supprimer l'alerte")
	}
	s.cache.remove(al.Owner, id)
	s.cache.setErr(al.Owner, nil)
	s.toast(ctx, al.Owner, notify.LevelSuccess, "Alerte supprimée")
	return nil
}
