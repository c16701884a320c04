package repositories

import (
	"context"

	"github.com/ghuser/stockledger/services/identity/domain/models"
)

// UserRepository defines the persistence contract for accounts and the
// current-user handle.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	// Mutate applies fn to the stored users in one atomic write.
	Mutate(ctx context.Context, fn func([]models.User) ([]models.User, error)) error
	SeedIfAbsent(ctx context.Context, users []models.User) (bool, error)

	Current(ctx context.Context) (*models.PublicUser, error)
	SetCurrent(ctx context.Context, u models.PublicUser) error
	ClearCurrent(ctx context.Context) error
}
