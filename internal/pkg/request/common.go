package request

import (
	"github.com/nekogravitycat/shareit/internal/pkg/apperror"
)

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Page is the zero-based offset window shared by list endpoints.
type Page struct {
	From int `form:"from,default=0"`
	Size int `form:"size,default=10"`
}

var (
	ErrNegativeFrom = apperror.BadRequest("from must not be negative")
	ErrInvalidSize  = apperror.BadRequest("size must be positive")
)

// Validate rejects windows that cannot be turned into OFFSET/LIMIT.
func (p Page) Validate() error {
	if p.From < 0 {
		return ErrNegativeFrom
	}
	if p.Size < 1 {
		return ErrInvalidSize
	}
	return nil
}

func (p Page) Offset() uint64 {
	return uint64(p.From)
}

func (p Page) Limit() uint64 {
	return uint64(p.Size)
}
