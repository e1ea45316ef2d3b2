package http

import (
	"time"

	"github.com/nekogravitycat/shareit/internal/booking"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit/internal/user/http"
)

type CreateBookingBody struct {
	ItemID int64     `json:"itemId" binding:"required,min=1"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// Validate applies the time rules checked at the edge before a request is forwarded.
func (b *CreateBookingBody) Validate(now time.Time, requireFutureStart bool) error {
	if !b.Start.Before(b.End) {
		return booking.ErrInvalidTimeRange
	}
	if requireFutureStart && b.Start.Before(now) {
		return booking.ErrStartInPast
	}
	return nil
}

type DecideQuery struct {
	Approved *bool `form:"approved" binding:"required"`
}

type ListBookingsQuery struct {
	request.Page
	State string `form:"state"`
}

// Validate rejects unknown states and bad windows.
func (q *ListBookingsQuery) Validate() error {
	if _, err := booking.ParseState(q.State); err != nil {
		return err
	}
	return q.Page.Validate()
}

type ItemTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64            `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status string           `json:"status"`
	Item   ItemTag          `json:"item"`
	Booker userHttp.UserTag `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status.String(),
		Item:   ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker: userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
	}
}

func newList(list []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(list))
	for i, b := range list {
		out[i] = NewBookingResponse(b)
	}
	return out
}
