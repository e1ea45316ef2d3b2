package itemrequest

import (
	"context"
	"strings"

	"github.com/nekogravitycat/shareit/internal/item"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
)

type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ItemCatalog interface {
	ListByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, requestorID int64, description string) (*Request, error)
	ListOwn(ctx context.Context, requestorID int64) ([]*WithItems, error)
	ListOthers(ctx context.Context, userID int64, page request.Page) ([]*WithItems, error)
	GetByID(ctx context.Context, userID, id int64) (*WithItems, error)
}

type service struct {
	repo  Repository
	users UserDirectory
	items ItemCatalog
}

func NewService(repo Repository, users UserDirectory, items ItemCatalog) Service {
	return &service{repo: repo, users: users, items: items}
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

func (s *service) Create(ctx context.Context, requestorID int64, description string) (*Request, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}

	r := &Request{Description: description, RequestorID: requestorID}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) attachItems(ctx context.Context, list []*Request) ([]*WithItems, error) {
	ids := make([]int64, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}
	byRequest, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*WithItems, len(list))
	for i, r := range list {
		items := byRequest[r.ID]
		if items == nil {
			items = []*item.Item{}
		}
		out[i] = &WithItems{Request: r, Items: items}
	}
	return out, nil
}

// ListOwn returns the caller's requests, newest first.
func (s *service) ListOwn(ctx context.Context, requestorID int64) ([]*WithItems, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, list)
}

// ListOthers returns requests made by everyone except the caller, newest first.
func (s *service) ListOthers(ctx context.Context, userID int64, page request.Page) ([]*WithItems, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, list)
}

func (s *service) GetByID(ctx context.Context, userID, id int64) (*WithItems, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.attachItems(ctx, []*Request{r})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}
