package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/services/identity/domain"
)

// User is the stored account. Passwords are kept as entered.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// PublicUser is a User without its password. It is also the shape of the
// current-user document.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Public strips the password.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}

// IsAdmin reports whether u holds the admin role.
func (u User) IsAdmin() bool { return u.Role == auth.RoleAdmin }

// Principal converts u for request contexts.
func (u PublicUser) Principal() auth.Principal {
	return auth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Draft is the editable part of a user. An empty Password on update keeps
// the stored one.
type Draft struct {
	Username string
	Password string
	Role     string
}

// ValidRole reports whether role is admin or sales.
func ValidRole(role string) bool {
	return role == auth.RoleAdmin || role == auth.RoleSales
}

// Validate checks d. requirePassword is true when creating a user.
func (d Draft) Validate(requirePassword bool) error {
	var errs []error
	if strings.TrimSpace(d.Username) == "" {
		errs = append(errs, errors.New("username: is required"))
	}
	if requirePassword && d.Password == "" {
		errs = append(errs, errors.New("password: is required"))
	}
	if !ValidRole(d.Role) {
		errs = append(errs, fmt.Errorf("role: must be %s or %s", auth.RoleAdmin, auth.RoleSales))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidUser, err)
	}
	return nil
}

// DefaultUsers are installed when no users document exists.
func DefaultUsers() []User {
	return []User{
		{ID: 1, Username: "admin", Password: "admin123", Role: auth.RoleAdmin},
		{ID: 2, Username: "sales", Password: "sales123", Role: auth.RoleSales},
	}
}

// Find returns the index of the user with id, or -1.
func Find(users []User, id int64) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// UsernameTaken reports whether a user other than exceptID has username.
func UsernameTaken(users []User, username string, exceptID int64) bool {
	for _, u := range users {
		if u.Username == username && u.ID != exceptID {
			return true
		}
	}
	return false
}

// HasAdmin reports whether any user is an admin.
func HasAdmin(users []User) bool {
	for _, u := range users {
		if u.IsAdmin() {
			return true
		}
	}
	return false
}

// UserID is the id accessor used with ids.Max.
func UserID(u User) int64 { return u.ID }
