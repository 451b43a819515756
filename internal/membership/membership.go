// Package membership adds and removes (owner, target) pairs for favorites,
// the shopping cart and subscriptions with one set of rules and errors.
package membership

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/metrics"
	"foodgram/internal/repository"
)

var (
	ErrAlreadyExists  = errors.New("record already exists")
	ErrNotExisting    = errors.New("record does not exist")
	ErrSelfReference  = errors.New("self reference")
	ErrTargetNotFound = errors.New("target not found")
)

// Client-facing messages.
const (
	MsgAlreadyExists = "This record already exists"
	MsgNotExisting   = "Cannot delete a non-existent record"
	MsgSelfSubscribe = "You cannot subscribe to yourself"
)

// Store is the pair set behind a toggle.
type Store interface {
	Add(ctx context.Context, owner, target int64) error
	Remove(ctx context.Context, owner, target int64) error
}

// TargetExists reports whether the target row (recipe or user) exists.
type TargetExists func(ctx context.Context, id int64) (bool, error)

type Toggle struct {
	kind       string
	store      Store
	exists     TargetExists
	forbidSelf bool
}

type Option func(*Toggle)

// ForbidSelf rejects owner == target before any other check.
func ForbidSelf() Option {
	return func(t *Toggle) { t.forbidSelf = true }
}

func New(kind string, store Store, exists TargetExists, opts ...Option) *Toggle {
	t := &Toggle{kind: kind, store: store, exists: exists}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Toggle) Kind() string {
	return t.kind
}

func (t *Toggle) Add(ctx context.Context, owner, target int64) error {
	if err := t.check(ctx, owner, target); err != nil {
		return err
	}

	if err := t.store.Add(ctx, owner, target); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("add %s: %w", t.kind, err)
	}
	metrics.MembershipChanges.WithLabelValues(t.kind, "add").Inc()
	return nil
}

func (t *Toggle) Remove(ctx context.Context, owner, target int64) error {
	if err := t.check(ctx, owner, target); err != nil {
		return err
	}

	if err := t.store.Remove(ctx, owner, target); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotExisting
		}
		return fmt.Errorf("remove %s: %w", t.kind, err)
	}
	metrics.MembershipChanges.WithLabelValues(t.kind, "remove").Inc()
	return nil
}

func (t *Toggle) check(ctx context.Context, owner, target int64) error {
	if t.forbidSelf && owner == target {
		return ErrSelfReference
	}
	ok, err := t.exists(ctx, target)
	if err != nil {
		return fmt.Errorf("check %s target: %w", t.kind, err)
	}
	if !ok {
		return ErrTargetNotFound
	}
	return nil
}
