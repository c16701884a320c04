package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/ids"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	"github.com/ghuser/stockledger/services/identity/domain"
	"github.com/ghuser/stockledger/services/identity/domain/models"
	"github.com/ghuser/stockledger/services/identity/infrastructure/persistence/document"
)

func newService(t *testing.T) *UserService {
	t.Helper()
	clock := func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	svc := NewUserService(
		document.NewUserRepository(store.NewMemory(), logger.Discard()),
		ids.NewGeneratorWithClock(clock),
		logger.Discard(),
	)
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	return svc
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.Current(ctx); !errors.Is(err, domain.ErrNoCurrentUser) {
		t.Fatalf("expected ErrNoCurrentUser, got %v", err)
	}
	if _, err := svc.Login(ctx, "admin", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "Admin", "admin123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatal("username match must be exact")
	}

	u, err := svc.Login(ctx, "sales", "sales123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != 2 || u.Role != auth.RoleSales {
		t.Fatalf("unexpected user %+v", u)
	}
	cur, err := svc.Current(ctx)
	if err != nil || cur.Username != "sales" {
		t.Fatalf("unexpected current user %+v, %v", cur, err)
	}
	p, err := svc.CurrentPrincipal(ctx)
	if err != nil || p.UserID != 2 {
		t.Fatalf("unexpected principal %+v, %v", p, err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.CurrentPrincipal(ctx); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated after logout, got %v", err)
	}
}

func TestAddAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.Add(ctx, models.Draft{Username: "sales", Password: "x", Role: auth.RoleSales}); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := svc.Add(ctx, models.Draft{Username: "carol", Role: auth.RoleSales}); !errors.Is(err, domain.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser for missing password, got %v", err)
	}

	carol, err := svc.Add(ctx, models.Draft{Username: " carol ", Password: "pw", Role: auth.RoleSales})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if carol.ID != 1_700_000_000_000 || carol.Username != "carol" {
		t.Fatalf("unexpected user %+v", carol)
	}

	if _, err := svc.Update(ctx, carol.ID, models.Draft{Username: "admin", Role: auth.RoleSales}); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := svc.Update(ctx, 999, models.Draft{Username: "x", Role: auth.RoleSales}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	// Renaming to the same name and leaving the password empty keeps it.
	if _, err := svc.Update(ctx, carol.ID, models.Draft{Username: "carol", Role: auth.RoleAdmin}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := svc.Login(ctx, "carol", "pw"); err != nil {
		t.Fatalf("old password must still work: %v", err)
	}
	if _, err := svc.Update(ctx, carol.ID, models.Draft{Username: "carol", Password: "new", Role: auth.RoleAdmin}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := svc.Login(ctx, "carol", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatal("old password must be replaced")
	}

	users, _ := svc.List(ctx)
	if len(users) != 3 || users[2].Role != auth.RoleAdmin {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if err := svc.Delete(ctx, 1, 1); !errors.Is(err, domain.ErrCannotDeleteSelf) {
		t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
	}
	if err := svc.Delete(ctx, 2, 1); !errors.Is(err, domain.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
	if err := svc.Delete(ctx, 1, 42); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 1, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.ResolvePrincipal(ctx, 2); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted user must not resolve, got %v", err)
	}
	users, _ := svc.List(ctx)
	if len(users) != 1 {
		t.Fatalf("expected one user left, got %d", len(users))
	}
}
