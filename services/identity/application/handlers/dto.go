package handlers

import "github.com/ghuser/stockledger/services/identity/domain/models"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserRequest is the body of POST /users and PUT /users/{id}. Password may
// be empty on update to keep the current one.
type UserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"max=128"`
	Role     string `json:"role" validate:"required,oneof=admin sales"`
}

func (r UserRequest) draft() models.Draft {
	return models.Draft{Username: r.Username, Password: r.Password, Role: r.Role}
}

// UserResponse is a user without its password.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
} // @name User

func toResponse(u models.PublicUser) UserResponse {
	return UserResponse(u)
}

func toResponses(users []models.PublicUser) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toResponse(u)
	}
	return out
}
