package item

import (
	"time"

	"github.com/nekogravitycat/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item not found")
	ErrUserNotFound        = apperror.NotFound("user not found")
	ErrRequestNotFound     = apperror.NotFound("request not found")
	ErrNameRequired        = apperror.BadRequest("name is required")
	ErrDescriptionRequired = apperror.BadRequest("description is required")
	ErrAvailableRequired   = apperror.BadRequest("available is required")
	ErrTextRequired        = apperror.BadRequest("text is required")
	ErrNotBooked           = apperror.BadRequest("user has no finished booking of this item")
)

// Item is a thing a user offers for sharing.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64 // request this item was listed in answer to
}

// Comment is feedback left by a past booker.
type Comment struct {
	ID         int64
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Text       string
	Created    time.Time
}

// BookingBrief is the slice of a booking shown on an item card.
type BookingBrief struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// Details is an item together with its comments and, for the owner, its neighbouring bookings.
type Details struct {
	Item        *Item
	LastBooking *BookingBrief
	NextBooking *BookingBrief
	Comments    []*Comment
}

type CreateRequest struct {
	OwnerID     int64
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}
