package user

import (
	"github.com/nekogravitycat/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed = apperror.Conflict("email already used")
	ErrNameRequired     = apperror.BadRequest("name is required")
	ErrEmailRequired    = apperror.BadRequest("email is required")
	ErrInvalidEmail     = apperror.BadRequest("email is invalid")
)

// User represents a user in the system.
type User struct {
	ID    int64
	Name  string
	Email string
}

// CreateRequest holds the fields needed to register a user.
type CreateRequest struct {
	Name  string
	Email string
}

// UpdateRequest holds a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	Name  *string
	Email *string
}
