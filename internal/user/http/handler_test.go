package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit/internal/user"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	user.Service
	createFn func(ctx context.Context, req user.CreateRequest) (*user.User, error)
	getFn    func(ctx context.Context, id int64) (*user.User, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeService) Create(ctx context.Context, req user.CreateRequest) (*user.User, error) {
	return f.createFn(ctx, req)
}

func (f *fakeService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return f.getFn(ctx, id)
}

func (f *fakeService) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func newRouter(svc user.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(svc))
	return r
}

func TestCreate(t *testing.T) {
	svc := &fakeService{
		createFn: func(_ context.Context, req user.CreateRequest) (*user.User, error) {
			if req.Email == "taken@example.com" {
				return nil, user.ErrEmailAlreadyUsed
			}
			return &user.User{ID: 1, Name: req.Name, Email: req.Email}, nil
		},
	}
	r := newRouter(svc)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"OK", `{"name":"Alice","email":"alice@example.com"}`, http.StatusOK},
		{"MissingName", `{"email":"alice@example.com"}`, http.StatusBadRequest},
		{"BadEmail", `{"name":"Alice","email":"alice"}`, http.StatusBadRequest},
		{"Conflict", `{"name":"Alice","email":"taken@example.com"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestGet(t *testing.T) {
	svc := &fakeService{
		getFn: func(_ context.Context, id int64) (*user.User, error) {
			if id != 1 {
				return nil, user.ErrNotFound
			}
			return &user.User{ID: 1, Name: "Alice", Email: "alice@example.com"}, nil
		},
	}
	r := newRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alice","email":"alice@example.com"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/2", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete(t *testing.T) {
	var deleted int64
	svc := &fakeService{
		deleteFn: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	r := newRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/5", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), deleted)
}
