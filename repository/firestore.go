package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
)

const (
	AppointmentsCollection  = "appointments"
	AlertsCollection        = "alerts"
	UsersCollection         = "Users"
	RefreshTokensCollection = "refreshTokens"
)

func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef) (T, error) {
	var out T
	snap, err := ref.Get(ctx)
	if err != nil {
		return out, notFound(err)
	}
	if err := snap.DataTo(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", ref.ID, err)
	}
	return out, nil
}

func queryDocs[T any](ctx context.Context, q firestore.Query) ([]T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []T
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Ref.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// replace overwrites an existing document inside a transaction.
func replace(ctx context.Context, client *firestore.Client, ref *firestore.DocumentRef, data any) error {
	return client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return notFound(err)
		}
		return tx.Set(ref, data)
	})
}

func setStatus(ctx context.Context, ref *firestore.DocumentRef, s model.Status, at time.Time) error {
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: s},
		{Path: "updatedAt", Value: at},
	})
	return notFound(err)
}

func deleteDoc(ctx context.Context, ref *firestore.DocumentRef) error {
	_, err := ref.Delete(ctx, firestore.Exists)
	return notFound(err)
}

type FirestoreAppointments struct {
	client *firestore.Client
}

func NewFirestoreAppointments(client *firestore.Client) *FirestoreAppointments {
	return &FirestoreAppointments{client: client}
}

func (r *FirestoreAppointments) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(AppointmentsCollection).Doc(id)
}

func (r *FirestoreAppointments) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	a.ID = uuid.New().String()
	if _, err := r.doc(a.ID).Create(ctx, a); err != nil {
		return model.Appointment{}, err
	}
	return a, nil
}

func (r *FirestoreAppointments) Update(ctx context.Context, a model.Appointment) error {
	return replace(ctx, r.client, r.doc(a.ID), a)
}

func (r *FirestoreAppointments) UpdateStatus(ctx context.Context, id string, s model.Status, at time.Time) error {
	return setStatus(ctx, r.doc(id), s, at)
}

func (r *FirestoreAppointments) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.doc(id))
}

func (r *FirestoreAppointments) Get(ctx context.Context, id string) (model.Appointment, error) {
	return getDoc[model.Appointment](ctx, r.doc(id))
}

func (r *FirestoreAppointments) ListByOwner(ctx context.Context, owner string) ([]model.Appointment, error) {
	items, err := queryDocs[model.Appointment](ctx, r.client.Collection(AppointmentsCollection).Where("userId", "==", owner))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, byDate(items, appointmentDate, appointmentCreated))
	return items, nil
}

func (r *FirestoreAppointments) ListDueReminders(ctx context.Context, now time.Time) ([]model.Appointment, error) {
	q := r.client.Collection(AppointmentsCollection).
		Where("reminder.enabled", "==", true).
		Where("reminderSent", "==", false).
		Where("alertDate", "<=", now)
	items, err := queryDocs[model.Appointment](ctx, q)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, a := range items {
		if due(a, now) {
			out = append(out, a)
		}
	}
	return out, nil
}

type FirestoreAlerts struct {
	client *firestore.Client
}

func NewFirestoreAlerts(client *firestore.Client) *FirestoreAlerts {
	return &FirestoreAlerts{client: client}
}

func (r *FirestoreAlerts) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(AlertsCollection).Doc(id)
}

func (r *FirestoreAlerts) Create(ctx context.Context, al model.Alert) (model.Alert, error) {
	al.ID = uuid.New().String()
	if _, err := r.doc(al.ID).Create(ctx, al); err != nil {
		return model.Alert{}, err
	}
	return al, nil
}

func (r *FirestoreAlerts) Update(ctx context.Context, al model.Alert) error {
	return replace(ctx, r.client, r.doc(al.ID), al)
}

func (r *FirestoreAlerts) UpdateStatus(ctx context.Context, id string, s model.Status, at time.Time) error {
	return setStatus(ctx, r.doc(id), s, at)
}

func (r *FirestoreAlerts) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.doc(id))
}

func (r *FirestoreAlerts) Get(ctx context.Context, id string) (model.Alert, error) {
	return getDoc[model.Alert](ctx, r.doc(id))
}

func (r *FirestoreAlerts) ListByOwner(ctx context.Context, owner string) ([]model.Alert, error) {
	items, err := queryDocs[model.Alert](ctx, r.client.Collection(AlertsCollection).Where("userId", "==", owner))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, byDate(items, alertDate, alertCreated))
	return items, nil
}

func (r *FirestoreAlerts) ListByAppointment(ctx context.Context, owner, appointmentID string) ([]model.Alert, error) {
	q := r.client.Collection(AlertsCollection).
		Where("userId", "==", owner).
		Where("appointmentId", "==", appointmentID)
	items, err := queryDocs[model.Alert](ctx, q)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

type FirestoreUsers struct {
	client *firestore.Client
}

func NewFirestoreUsers(client *firestore.Client) *FirestoreUsers {
	return &FirestoreUsers{client: client}
}

func (r *FirestoreUsers) Create(ctx context.Context, u model.User) error {
	_, err := r.client.Collection(UsersCollection).Doc(u.UserID).Set(ctx, u)
	return err
}

func (r *FirestoreUsers) Get(ctx context.Context, id string) (model.User, error) {
	return getDoc[model.User](ctx, r.client.Collection(UsersCollection).Doc(id))
}

func (r *FirestoreUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	users, err := queryDocs[model.User](ctx, r.client.Collection(UsersCollection).Where("email", "==", email).Limit(1))
	if err != nil {
		return model.User{}, err
	}
	if len(users) == 0 {
		return model.User{}, ErrNotFound
	}
	return users[0], nil
}

func (r *FirestoreUsers) Update(ctx context.Context, u model.User) error {
	_, err := r.client.Collection(UsersCollection).Doc(u.UserID).Set(ctx, u)
	return err
}

func (r *FirestoreUsers) SaveRefreshToken(ctx context.Context, rec model.RefreshTokenRecord) error {
	_, err := r.client.Collection(RefreshTokensCollection).Doc(rec.UserID).Set(ctx, rec)
	return err
}

func (r *FirestoreUsers) RefreshToken(ctx context.Context, userID string) (model.RefreshTokenRecord, error) {
	return getDoc[model.RefreshTokenRecord](ctx, r.client.Collection(RefreshTokensCollection).Doc(userID))
}
