package booking

import (
	"context"

	"github.com/nekogravitycat/shareit/internal/pkg/request"
)

// ListForBooker returns one page of the bookings made by bookerID in the given state.
func (s *service) ListForBooker(ctx context.Context, bookerID int64, state string, page request.Page) ([]*Booking, error) {
	return s.list(ctx, bookerID, state, page, false)
}

// ListForOwner returns one page of the bookings placed on ownerID's items in the given state.
func (s *service) ListForOwner(ctx context.Context, ownerID int64, state string, page request.Page) ([]*Booking, error) {
	return s.list(ctx, ownerID, state, page, true)
}

func (s *service) list(ctx context.Context, userID int64, rawState string, page request.Page, byOwner bool) ([]*Booking, error) {
	st, err := ParseState(rawState)
	if err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var known bool
	if byOwner {
		known, err = s.items.ExistsAnyOwnedBy(ctx, userID)
	} else {
		known, err = s.users.Exists(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, ErrUserNotFound
	}

	// One clock reading per call so CURRENT, PAST and FUTURE agree.
	scope := st.Scope(s.now())

	var bookings []*Booking
	if byOwner {
		bookings, err = s.repo.ListByOwner(ctx, userID, scope, page)
	} else {
		bookings, err = s.repo.ListByBooker(ctx, userID, scope, page)
	}
	if err != nil {
		return nil, err
	}

	names := s.newNameCache()
	for _, b := range bookings {
		if err := names.fill(ctx, b); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}
