package http

import (
	"github.com/nekogravitycat/shareit/internal/user"
)

// CreateUserRequest is the payload of POST /users.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest is the payload of PATCH /users/:id.
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserTag is a brief representation of a user.
type UserTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
