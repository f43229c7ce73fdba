// Package store holds the per-user working sets of appointments and alerts.
// Every mutation goes to the repository first and is mirrored in the cache
// only once it succeeded.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jmhodges/clock"
	"github.com/sirupsen/logrus"

	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

// ownerCache is the per-owner record list and last error of a store.
type ownerCache[T any] struct {
	mu    sync.RWMutex
	items map[string][]T
	errs  map[string]error
	id    func(T) string
}

func newOwnerCache[T any](id func(T) string) *ownerCache[T] {
	return &ownerCache[T]{items: map[string][]T{}, errs: map[string]error{}, id: id}
}

func (c *ownerCache[T]) replace(owner string, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[owner] = slices.Clone(items)
}

func (c *ownerCache[T]) upsert(owner string, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.items[owner]
	for i := range list {
		if c.id(list[i]) == c.id(item) {
			list[i] = item
			return
		}
	}
	c.items[owner] = append(list, item)
}

func (c *ownerCache[T]) remove(owner, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[owner] = slices.DeleteFunc(c.items[owner], func(v T) bool { return c.id(v) == id })
}

func (c *ownerCache[T]) get(owner, id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.items[owner] {
		if c.id(v) == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (c *ownerCache[T]) setErr(owner string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.errs, owner)
		return
	}
	c.errs[owner] = err
}

func (c *ownerCache[T]) err(owner string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errs[owner]
}

// base is what both stores share: clock, toasts, logging and the error policy.
type base struct {
	kind     string
	title    string
	notifier notify.Notifier
	log      logrus.FieldLogger
	clk      clock.Clock
}

func (b base) toast(ctx context.Context, owner string, level notify.Level, message string) {
	if notify.IsQuiet(ctx) {
		return
	}
	b.notifier.Notify(ctx, owner, notify.Toast{Level: level, Title: b.title, Message: message})
}

// principal returns the current user; no repository call happens without one.
func (b base) principal(ctx context.Context) (session.Principal, error) {
	p, err := session.Require(ctx)
	if err != nil {
		return p, fmt.Errorf("%s: %w", b.kind, err)
	}
	return p, nil
}

// fail applies the error policy: record, toast, log, return wrapped.
func (b base) fail(ctx context.Context, setErr func(string, error), owner, op, id string, err error, message string) error {
	wrapped := fmt.Errorf("%s %s: %w", op, b.kind, err)
	setErr(owner, wrapped)
	if !errors.Is(err, repository.ErrNotFound) {
		b.log.WithFields(logrus.Fields{"owner": owner, "id": id, "op": op, "kind": b.kind}).WithError(err).Error("persistence failed")
	}
	b.toast(ctx, owner, notify.LevelError, message)
	return wrapped
}
