package auth

import (
	"context"
	"errors"
	"testing"
)

func TestWithPrincipal_PrincipalFromCtx(t *testing.T) {
	want := Principal{UserID: 1, Username: "admin", Role: RoleAdmin}
	ctx := WithPrincipal(context.Background(), want)

	got, err := PrincipalFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if !got.IsAdmin() {
		t.Fatal("expected admin")
	}
}

func TestPrincipalFromCtx_EmptyContext(t *testing.T) {
	_, err := PrincipalFromCtx(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestPrincipalFromCtx_ZeroUser(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{Role: RoleAdmin})
	if _, err := PrincipalFromCtx(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for zero user id, got %v", err)
	}
}

func TestPrincipalFromCtx_Isolation(t *testing.T) {
	ctx1 := WithPrincipal(context.Background(), Principal{UserID: 1, Role: RoleAdmin})
	ctx2 := WithPrincipal(context.Background(), Principal{UserID: 2, Role: RoleSales})

	p1, _ := PrincipalFromCtx(ctx1)
	p2, _ := PrincipalFromCtx(ctx2)
	if p1.UserID != 1 || p2.UserID != 2 || p2.IsAdmin() {
		t.Fatalf("unexpected principals: %+v %+v", p1, p2)
	}
}
