package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit/internal/item"
	"github.com/nekogravitycat/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("request not found")
	ErrUserNotFound        = apperror.NotFound("user not found")
	ErrDescriptionRequired = apperror.BadRequest("description is required")
)

// Request is a user's public ask for an item nobody has listed yet.
type Request struct {
	ID          int64
	Description string
	RequestorID int64
	Created     time.Time
}

// WithItems is a request together with the items listed in answer to it.
type WithItems struct {
	*Request
	Items []*item.Item
}
