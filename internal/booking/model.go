package booking

import (
	"time"

	"github.com/nekogravitycat/shareit/internal/pkg/apperror"
)

// Access failures are reported as not found so callers cannot test for
// bookings or items that belong to someone else.
var (
	ErrNotFound     = apperror.NotFound("booking not found")
	ErrItemNotFound = apperror.NotFound("item not found")
	ErrUserNotFound = apperror.NotFound("user not found")
	ErrOwnItem      = apperror.NotFound("cannot book own item")

	ErrInvalidTimeRange = apperror.BadRequest("start must be before end")
	ErrStartInPast      = apperror.BadRequest("start must not be in the past")
	ErrItemUnavailable  = apperror.BadRequest("item not available")
	ErrStatusFrozen     = apperror.BadRequest("status cannot be changed")
	ErrUnknownState     = apperror.BadRequest("Unknown state: UNSUPPORTED_STATUS")
)

// Booking is a request by a booker to use an item over [Start, End).
// ItemName and BookerName are resolved for views and are not persisted.
type Booking struct {
	ID       int64
	ItemID   int64
	BookerID int64
	Start    time.Time
	End      time.Time
	Status   Status

	ItemName   string
	BookerName string
}

type CreateRequest struct {
	BookerID int64
	ItemID   int64
	Start    time.Time
	End      time.Time
}
