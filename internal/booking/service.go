package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit/internal/db"
	"github.com/nekogravitycat/shareit/internal/item"
	"github.com/nekogravitycat/shareit/internal/metrics"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
	"github.com/nekogravitycat/shareit/internal/user"
)

// ItemDirectory resolves the items bookings refer to.
type ItemDirectory interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
	ExistsAnyOwnedBy(ctx context.Context, ownerID int64) (bool, error)
}

// UserDirectory resolves bookers and owners.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Policy holds the configurable creation rules.
type Policy struct {
	// RequireFutureStart rejects bookings whose start is already in the past.
	RequireFutureStart bool
}

func DefaultPolicy() Policy {
	return Policy{RequireFutureStart: true}
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// Decide approves or rejects a waiting booking. Only the item owner may decide.
	Decide(ctx context.Context, requesterID, bookingID int64, approve bool) (*Booking, error)
	// Get returns a booking visible to its booker and to the item owner.
	Get(ctx context.Context, requesterID, bookingID int64) (*Booking, error)

	ListForBooker(ctx context.Context, bookerID int64, state string, page request.Page) ([]*Booking, error)
	ListForOwner(ctx context.Context, ownerID int64, state string, page request.Page) ([]*Booking, error)
}

type service struct {
	repo   Repository
	items  ItemDirectory
	users  UserDirectory
	tx     db.TxManager
	policy Policy
	now    func() time.Time
}

func NewService(repo Repository, items ItemDirectory, users UserDirectory, tx db.TxManager, policy Policy) Service {
	return newService(repo, items, users, tx, policy, time.Now)
}

func newService(repo Repository, items ItemDirectory, users UserDirectory, tx db.TxManager, policy Policy, now func() time.Time) *service {
	return &service{
		repo:   repo,
		items:  items,
		users:  users,
		tx:     tx,
		policy: policy,
		now:    now,
	}
}

func (s *service) item(ctx context.Context, id int64) (*item.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if errors.Is(err, item.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	return it, err
}

func (s *service) user(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Create checks, in order: the item exists, the window is ordered, the start
// is not past (when the policy asks), the item is available, the booker
// exists and does not own the item. The first failure wins.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	var b *Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		it, err := s.item(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if !req.Start.Before(req.End) {
			return ErrInvalidTimeRange
		}
		if s.policy.RequireFutureStart && req.Start.Before(s.now()) {
			return ErrStartInPast
		}
		if !it.Available {
			return ErrItemUnavailable
		}

		booker, err := s.user(ctx, req.BookerID)
		if err != nil {
			return err
		}
		if booker.ID == it.OwnerID {
			return ErrOwnItem
		}

		b = &Booking{
			ItemID:     it.ID,
			BookerID:   booker.ID,
			Start:      req.Start,
			End:        req.End,
			Status:     StatusWaiting,
			ItemName:   it.Name,
			BookerName: booker.Name,
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingEvent("created")
	return b, nil
}

func (s *service) Decide(ctx context.Context, requesterID, bookingID int64, approve bool) (*Booking, error) {
	var b *Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		it, err := s.item(ctx, cur.ItemID)
		if err != nil {
			return err
		}
		if it.OwnerID != requesterID {
			return ErrNotFound
		}

		if cur.Status.IsTerminal() {
			return ErrStatusFrozen
		}
		next := decision(approve)
		if !cur.Status.CanTransitionTo(next) {
			return ErrStatusFrozen
		}
		if err := s.repo.UpdateStatus(ctx, cur.ID, cur.Status, next); err != nil {
			return err
		}
		cur.Status = next
		cur.ItemName = it.Name

		booker, err := s.user(ctx, cur.BookerID)
		if err != nil {
			return err
		}
		cur.BookerName = booker.Name
		b = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingEvent(strings.ToLower(b.Status.String()))
	return b, nil
}

func (s *service) Get(ctx context.Context, requesterID, bookingID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	it, err := s.item(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	if b.BookerID != requesterID && it.OwnerID != requesterID {
		return nil, ErrNotFound
	}

	b.ItemName = it.Name
	booker, err := s.user(ctx, b.BookerID)
	if err != nil {
		return nil, err
	}
	b.BookerName = booker.Name
	return b, nil
}

// nameCache fills view names for a batch of bookings, looking each id up once.
type nameCache struct {
	s     *service
	items map[int64]string
	users map[int64]string
}

func (s *service) newNameCache() *nameCache {
	return &nameCache{s: s, items: map[int64]string{}, users: map[int64]string{}}
}

func (c *nameCache) fill(ctx context.Context, b *Booking) error {
	name, ok := c.items[b.ItemID]
	if !ok {
		it, err := c.s.item(ctx, b.ItemID)
		if err != nil {
			return err
		}
		name = it.Name
		c.items[b.ItemID] = name
	}
	b.ItemName = name

	name, ok = c.users[b.BookerID]
	if !ok {
		u, err := c.s.user(ctx, b.BookerID)
		if err != nil {
			return err
		}
		name = u.Name
		c.users[b.BookerID] = name
	}
	b.BookerName = name
	return nil
}
