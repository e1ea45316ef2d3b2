package item

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit/internal/pkg/request"
	"github.com/nekogravitycat/shareit/internal/user"
)

// UserDirectory resolves users referenced by items and comments.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// RequestDirectory checks that an item request exists.
type RequestDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// BookingLookup exposes the booking reads an item view needs.
// Each method returns nil, nil when no booking matches.
type BookingLookup interface {
	LastFinished(ctx context.Context, itemID, bookerID int64, now time.Time) (*BookingBrief, error)
	LastBefore(ctx context.Context, itemID int64, now time.Time) (*BookingBrief, error)
	NextAfter(ctx context.Context, itemID int64, now time.Time) (*BookingBrief, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	Update(ctx context.Context, requesterID, id int64, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	GetDetails(ctx context.Context, requesterID, id int64) (*Details, error)
	ListByOwner(ctx context.Context, ownerID int64, page request.Page) ([]*Details, error)
	Search(ctx context.Context, text string, page request.Page) ([]*Item, error)
	ExistsAnyOwnedBy(ctx context.Context, ownerID int64) (bool, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]*Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*Comment, error)
}

type service struct {
	repo     Repository
	users    UserDirectory
	requests RequestDirectory
	bookings BookingLookup
	now      func() time.Time
}

func NewService(repo Repository, users UserDirectory, requests RequestDirectory, bookings BookingLookup) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
		bookings: bookings,
		now:      time.Now,
	}
}

func (s *service) requireUser(ctx context.Context, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if err := s.requireUser(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		Name:        name,
		Description: description,
		Available:   *req.Available,
		OwnerID:     req.OwnerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Update applies a partial update. Callers other than the owner see ErrNotFound.
func (s *service) Update(ctx context.Context, requesterID, id int64, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != requesterID {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		it.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		it.Description = description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetDetails(ctx context.Context, requesterID, id int64) (*Details, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	d := &Details{Item: it, Comments: comments}
	if it.OwnerID == requesterID {
		if err := s.attachBookings(ctx, d, s.now()); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *service) attachBookings(ctx context.Context, d *Details, now time.Time) error {
	last, err := s.bookings.LastBefore(ctx, d.Item.ID, now)
	if err != nil {
		return err
	}
	next, err := s.bookings.NextAfter(ctx, d.Item.ID, now)
	if err != nil {
		return err
	}
	d.LastBooking, d.NextBooking = last, next
	return nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page request.Page) ([]*Details, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	comments, err := s.repo.ListComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int64][]*Comment, len(items))
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], c)
	}

	now := s.now()
	out := make([]*Details, len(items))
	for i, it := range items {
		d := &Details{Item: it, Comments: byItem[it.ID]}
		if d.Comments == nil {
			d.Comments = []*Comment{}
		}
		if err := s.attachBookings(ctx, d, now); err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// Search returns available items matching text. Blank text matches nothing.
func (s *service) Search(ctx context.Context, text string, page request.Page) ([]*Item, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, page)
}

func (s *service) ExistsAnyOwnedBy(ctx context.Context, ownerID int64) (bool, error) {
	return s.repo.ExistsAnyOwnedBy(ctx, ownerID)
}

// ListByRequestIDs groups items by the request they answer.
func (s *service) ListByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]*Item, error) {
	items, err := s.repo.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]*Item, len(requestIDs))
	for _, it := range items {
		if it.RequestID != nil {
			out[*it.RequestID] = append(out[*it.RequestID], it)
		}
	}
	return out, nil
}

// AddComment stores a comment. Only users with a finished approved booking of the item may comment.
func (s *service) AddComment(ctx context.Context, authorID, itemID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.now()
	last, err := s.bookings.LastFinished(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, ErrNotBooked
	}

	c := &Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
