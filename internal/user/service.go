package user

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new user Service.
func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		validate: validator.New(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

func (s *service) checkEmail(email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	name, err := s.checkName(req.Name)
	if err != nil {
		return nil, err
	}
	email, err := s.checkEmail(req.Email)
	if err != nil {
		return nil, err
	}

	u := &User{Name: name, Email: email}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if u.Name, err = s.checkName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if u.Email, err = s.checkEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
