package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/ids"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/services/identity/domain"
	"github.com/ghuser/stockledger/services/identity/domain/models"
	"github.com/ghuser/stockledger/services/identity/domain/repositories"
)

// UserService manages accounts and sign-in.
type UserService struct {
	repo repositories.UserRepository
	ids  *ids.Generator
	log  logger.Logger
}

// NewUserService returns a UserService over repo.
func NewUserService(repo repositories.UserRepository, gen *ids.Generator, log logger.Logger) *UserService {
	return &UserService{repo: repo, ids: gen, log: log}
}

// Authenticate returns the user whose username and password both match
// exactly. It does not touch the current-user handle.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username && u.Password == password {
			pub := u.Public()
			return &pub, nil
		}
	}
	s.log.WarnContext(ctx, "login rejected", "username", username)
	return nil, domain.ErrInvalidCredentials
}

// Login authenticates and records the user as the current user.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.PublicUser, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCurrent(ctx, *u); err != nil {
		return nil, fmt.Errorf("store current user: %w", err)
	}
	s.log.InfoContext(ctx, "user logged in", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Logout clears the current user.
func (s *UserService) Logout(ctx context.Context) error {
	if err := s.repo.ClearCurrent(ctx); err != nil {
		return fmt.Errorf("clear current user: %w", err)
	}
	return nil
}

// Current returns the logged-in user, or ErrNoCurrentUser.
func (s *UserService) Current(ctx context.Context) (*models.PublicUser, error) {
	u, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNoCurrentUser
	}
	return u, nil
}

// List returns every user without passwords.
func (s *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}

// Get returns the user with id without its password.
func (s *UserService) Get(ctx context.Context, id int64) (*models.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	i := models.Find(users, id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	pub := users[i].Public()
	return &pub, nil
}

// Add creates a user. Usernames are unique.
func (s *UserService) Add(ctx context.Context, d models.Draft) (*models.PublicUser, error) {
	d.Username = strings.TrimSpace(d.Username)
	if err := d.Validate(true); err != nil {
		return nil, err
	}
	var created models.User
	err := s.repo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		if models.UsernameTaken(users, d.Username, 0) {
			return nil, domain.ErrDuplicateUsername
		}
		created = models.User{
			ID:       s.ids.Next(ids.Max(users, models.UserID)),
			Username: d.Username,
			Password: d.Password,
			Role:     d.Role,
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	s.log.InfoContext(ctx, "user added", "user_id", created.ID, "role", created.Role)
	pub := created.Public()
	return &pub, nil
}

// Update edits the user with id. An empty password keeps the stored one.
func (s *UserService) Update(ctx context.Context, id int64, d models.Draft) (*models.PublicUser, error) {
	d.Username = strings.TrimSpace(d.Username)
	if err := d.Validate(false); err != nil {
		return nil, err
	}
	var updated models.User
	err := s.repo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		i := models.Find(users, id)
		if i < 0 {
			return nil, domain.ErrUserNotFound
		}
		if models.UsernameTaken(users, d.Username, id) {
			return nil, domain.ErrDuplicateUsername
		}
		updated = users[i]
		updated.Username = d.Username
		updated.Role = d.Role
		if d.Password != "" {
			updated.Password = d.Password
		}
		users[i] = updated
		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "user updated", "user_id", id)
	pub := updated.Public()
	return &pub, nil
}

// Delete removes the user with id on behalf of actorID. Users cannot delete
// themselves and the last admin cannot be removed.
func (s *UserService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return domain.ErrCannotDeleteSelf
	}
	err := s.repo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		i := models.Find(users, id)
		if i < 0 {
			return nil, domain.ErrUserNotFound
		}
		rest := append(users[:i:i], users[i+1:]...)
		if !models.HasAdmin(rest) {
			return nil, domain.ErrLastAdmin
		}
		return rest, nil
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "user deleted", "user_id", id, "actor_id", actorID)
	return nil
}

// ResolvePrincipal implements auth.UserResolver.
func (s *UserService) ResolvePrincipal(ctx context.Context, userID int64) (auth.Principal, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return auth.Principal{}, err
	}
	return u.Principal(), nil
}

// CurrentPrincipal returns the current user as a Principal, or
// auth.ErrNotAuthenticated when nobody is logged in.
func (s *UserService) CurrentPrincipal(ctx context.Context) (auth.Principal, error) {
	u, err := s.Current(ctx)
	if errors.Is(err, domain.ErrNoCurrentUser) {
		return auth.Principal{}, auth.ErrNotAuthenticated
	}
	if err != nil {
		return auth.Principal{}, err
	}
	// Reload, since the handle may name a user deleted since login.
	return s.ResolvePrincipal(ctx, u.ID)
}

// SeedDefaults installs the default accounts when the store has none.
func (s *UserService) SeedDefaults(ctx context.Context) error {
	wrote, err := s.repo.SeedIfAbsent(ctx, models.DefaultUsers())
	if err != nil {
		return err
	}
	if wrote {
		s.log.InfoContext(ctx, "default users installed")
	}
	return nil
}
