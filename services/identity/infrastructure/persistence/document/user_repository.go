// Package document implements the identity repositories on the key/value
// document store.
package document

import (
	"context"
	"fmt"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	"github.com/ghuser/stockledger/services/identity/domain/models"
)

// UserRepository implements repositories.UserRepository against a store.Store.
type UserRepository struct {
	store store.Store
	log   logger.Logger
}

// NewUserRepository returns a UserRepository backed by s.
func NewUserRepository(s store.Store, log logger.Logger) *UserRepository {
	return &UserRepository{store: s, log: log}
}

func (r *UserRepository) load(ctx context.Context, rd store.Reader) ([]models.User, error) {
	users, err := store.Load[[]models.User](ctx, rd, store.Users, r.log)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func stageUsers(tx store.Tx, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	return store.Stage(tx, store.Users, users)
}

// List returns every user in stored order.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.load(ctx, r.store)
}

// Mutate applies fn to the stored users in one store update.
func (r *UserRepository) Mutate(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	return r.store.Update(ctx, func(ctx context.Context, tx store.Tx) error {
		users, err := r.load(ctx, tx)
		if err != nil {
			return err
		}
		next, err := fn(users)
		if err != nil {
			return err
		}
		return stageUsers(tx, next)
	})
}

// SeedIfAbsent writes users only when the users document is missing.
func (r *UserRepository) SeedIfAbsent(ctx context.Context, users []models.User) (bool, error) {
	var wrote bool
	err := r.store.Update(ctx, func(ctx context.Context, tx store.Tx) error {
		wrote = false
		ok, err := store.Exists(ctx, tx, store.Users)
		if err != nil || ok {
			return err
		}
		wrote = true
		return stageUsers(tx, users)
	})
	if err != nil {
		return false, fmt.Errorf("seed users: %w", err)
	}
	return wrote, nil
}

// Current returns the current-user handle, or nil when nobody is logged in.
func (r *UserRepository) Current(ctx context.Context) (*models.PublicUser, error) {
	ok, err := store.Exists(ctx, r.store, store.CurrentUser)
	if err != nil || !ok {
		return nil, err
	}
	u, err := store.Load[models.PublicUser](ctx, r.store, store.CurrentUser, r.log)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	if u.ID == 0 {
		return nil, nil
	}
	return &u, nil
}

// SetCurrent stores u as the current user.
func (r *UserRepository) SetCurrent(ctx context.Context, u models.PublicUser) error {
	return r.store.Update(ctx, func(_ context.Context, tx store.Tx) error {
		return store.Stage(tx, store.CurrentUser, u)
	})
}

// ClearCurrent deletes the current-user handle.
func (r *UserRepository) ClearCurrent(ctx context.Context) error {
	return r.store.Update(ctx, func(_ context.Context, tx store.Tx) error {
		tx.Delete(store.CurrentUser)
		return nil
	})
}
