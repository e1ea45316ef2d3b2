package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/nekogravitycat/shareit/internal/auth"
	bookingHttp "github.com/nekogravitycat/shareit/internal/booking/http"
	itemHttp "github.com/nekogravitycat/shareit/internal/item/http"
	requestHttp "github.com/nekogravitycat/shareit/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit/internal/metrics"
	"github.com/nekogravitycat/shareit/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
	"github.com/nekogravitycat/shareit/internal/pkg/response"
	userHttp "github.com/nekogravitycat/shareit/internal/user/http"
)

var (
	ErrMissingUser = apperror.BadRequest("missing " + auth.UserIDHeader + " header")
	ErrInvalidUser = apperror.BadRequest("invalid " + auth.UserIDHeader + " header")
)

// check inspects a request and returns an error when it must not be forwarded.
type check func(c *gin.Context) error

// validated runs checks in order and rejects with 400 on the first failure.
func validated(checks ...check) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, chk := range checks {
			if err := chk(c); err != nil {
				metrics.IncGatewayRejection("validation")
				response.Error(c, err)
				return
			}
		}
		c.Next()
	}
}

func userHeader(c *gin.Context) error {
	raw := c.GetHeader(auth.UserIDHeader)
	if raw == "" {
		return ErrMissingUser
	}
	if _, ok := auth.ParseUserID(raw); !ok {
		return ErrInvalidUser
	}
	return nil
}

func pathID(c *gin.Context) error {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		return apperror.Wrap(err, http.StatusBadRequest, "invalid request")
	}
	return nil
}

// jsonBody binds the body into T, keeping the bytes for the proxy, then runs rule.
func jsonBody[T any](rule func(*T) error) check {
	return func(c *gin.Context) error {
		var v T
		if err := c.ShouldBindBodyWith(&v, binding.JSON); err != nil {
			return apperror.Wrap(err, http.StatusBadRequest, "invalid request body")
		}
		if rule == nil {
			return nil
		}
		return rule(&v)
	}
}

func query[T any](rule func(*T) error) check {
	return func(c *gin.Context) error {
		var v T
		if err := c.ShouldBindQuery(&v); err != nil {
			return apperror.Wrap(err, http.StatusBadRequest, "invalid query parameters")
		}
		if rule == nil {
			return nil
		}
		return rule(&v)
	}
}

func notBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.BadRequest(field + " must not be blank")
	}
	return nil
}

func notBlankPtr(field string, value *string) error {
	if value == nil {
		return nil
	}
	return notBlank(field, *value)
}

func validPage(p *request.Page) error {
	return p.Validate()
}

// rules holds the per-route checks. now and strict feed the booking time rules.
type rules struct {
	now    func() time.Time
	strict bool
}

func (r rules) createUser() gin.HandlerFunc {
	return validated(jsonBody(func(b *userHttp.CreateUserRequest) error {
		return notBlank("name", b.Name)
	}))
}

func (r rules) updateUser() gin.HandlerFunc {
	return validated(pathID, jsonBody(func(b *userHttp.UpdateUserRequest) error {
		return notBlankPtr("name", b.Name)
	}))
}

func (r rules) byID() gin.HandlerFunc {
	return validated(pathID)
}

func (r rules) user() gin.HandlerFunc {
	return validated(userHeader)
}

func (r rules) userByID() gin.HandlerFunc {
	return validated(userHeader, pathID)
}

func (r rules) userPage() gin.HandlerFunc {
	return validated(userHeader, query(validPage))
}

func (r rules) createItem() gin.HandlerFunc {
	return validated(userHeader, jsonBody(func(b *itemHttp.CreateItemRequest) error {
		if err := notBlank("name", b.Name); err != nil {
			return err
		}
		return notBlank("description", b.Description)
	}))
}

func (r rules) updateItem() gin.HandlerFunc {
	return validated(userHeader, pathID, jsonBody(func(b *itemHttp.UpdateItemRequest) error {
		if err := notBlankPtr("name", b.Name); err != nil {
			return err
		}
		return notBlankPtr("description", b.Description)
	}))
}

func (r rules) searchItems() gin.HandlerFunc {
	return validated(userHeader, query(func(q *itemHttp.SearchItemsRequest) error {
		return q.Page.Validate()
	}))
}

func (r rules) addComment() gin.HandlerFunc {
	return validated(userHeader, pathID, jsonBody(func(b *itemHttp.CreateCommentRequest) error {
		return notBlank("text", b.Text)
	}))
}

func (r rules) createRequest() gin.HandlerFunc {
	return validated(userHeader, jsonBody(func(b *requestHttp.CreateRequestBody) error {
		return notBlank("description", b.Description)
	}))
}

func (r rules) createBooking() gin.HandlerFunc {
	return validated(userHeader, jsonBody(func(b *bookingHttp.CreateBookingBody) error {
		return b.Validate(r.now(), r.strict)
	}))
}

func (r rules) decideBooking() gin.HandlerFunc {
	return validated(userHeader, pathID, query[bookingHttp.DecideQuery](nil))
}

func (r rules) listBookings() gin.HandlerFunc {
	return validated(userHeader, query(func(q *bookingHttp.ListBookingsQuery) error {
		return q.Validate()
	}))
}
