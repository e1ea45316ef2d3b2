//go:build integration

package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit/internal/auth"
	bookingHttp "github.com/nekogravitycat/shareit/internal/booking/http"
	"github.com/nekogravitycat/shareit/internal/db/dbtest"
	itemHttp "github.com/nekogravitycat/shareit/internal/item/http"
	requestHttp "github.com/nekogravitycat/shareit/internal/itemrequest/http"
	userHttp "github.com/nekogravitycat/shareit/internal/user/http"
)

type harness struct {
	t      *testing.T
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	gin.SetMode(gin.TestMode)

	container := NewContainer(Config{
		DBPool: dbtest.NewPool(t),
		Logger: zap.NewNop(),
		// Past windows are needed to reach a finished booking.
		StrictBookingStart: false,
	})
	return &harness{t: t, router: container.Router}
}

func (h *harness) do(method, path string, body any, userID int64) *httptest.ResponseRecorder {
	h.t.Helper()
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		require.NoError(h.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(auth.UserIDHeader, fmt.Sprint(userID))
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func window(start, end time.Time) map[string]string {
	return map[string]string{
		"start": start.Format(time.RFC3339),
		"end":   end.Format(time.RFC3339),
	}
}

func TestShareItFlow(t *testing.T) {
	h := newHarness(t)
	now := time.Now().UTC().Truncate(time.Second)

	// ==== Users ====
	w := h.do(http.MethodPost, "/users", userHttp.CreateUserRequest{Name: "Alice", Email: "alice@example.com"}, 0)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	alice := decode[userHttp.UserResponse](t, w)

	w = h.do(http.MethodPost, "/users", userHttp.CreateUserRequest{Name: "Bob", Email: "bob@example.com"}, 0)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bob := decode[userHttp.UserResponse](t, w)

	w = h.do(http.MethodPost, "/users", userHttp.CreateUserRequest{Name: "Eve", Email: "ALICE@example.com"}, 0)
	assert.Equal(t, http.StatusConflict, w.Code)

	// ==== Request answered by an item ====
	w = h.do(http.MethodPost, "/requests", requestHttp.CreateRequestBody{Description: "Need a drill"}, bob.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	req := decode[requestHttp.RequestResponse](t, w)

	available := true
	w = h.do(http.MethodPost, "/items", itemHttp.CreateItemRequest{
		Name: "Drill", Description: "Cordless drill", Available: &available, RequestID: &req.ID,
	}, alice.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	drill := decode[itemHttp.ItemResponse](t, w)

	w = h.do(http.MethodGet, "/requests", nil, bob.ID)
	require.Equal(t, http.StatusOK, w.Code)
	own := decode[[]requestHttp.RequestResponse](t, w)
	require.Len(t, own, 1)
	assert.Equal(t, []itemHttp.ItemTag{{ID: drill.ID, Name: "Drill", OwnerID: alice.ID}}, own[0].Items)

	// ==== Bookings ====
	past := window(now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	w = h.do(http.MethodPost, "/bookings", map[string]any{
		"itemId": drill.ID, "start": past["start"], "end": past["end"],
	}, bob.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	finished := decode[bookingHttp.BookingResponse](t, w)
	assert.Equal(t, "WAITING", finished.Status)
	assert.Equal(t, userHttp.UserTag{ID: bob.ID, Name: "Bob"}, finished.Booker)

	w = h.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", finished.ID), nil, bob.ID)
	assert.Equal(t, http.StatusNotFound, w.Code, "only the owner decides")

	w = h.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", finished.ID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "APPROVED", decode[bookingHttp.BookingResponse](t, w).Status)

	w = h.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=false", finished.ID), nil, alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	future := window(now.Add(24*time.Hour), now.Add(48*time.Hour))
	w = h.do(http.MethodPost, "/bookings", map[string]any{
		"itemId": drill.ID, "start": future["start"], "end": future["end"],
	}, bob.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	upcoming := decode[bookingHttp.BookingResponse](t, w)

	w = h.do(http.MethodPost, "/bookings", map[string]any{
		"itemId": drill.ID, "start": future["start"], "end": future["end"],
	}, alice.ID)
	assert.Equal(t, http.StatusNotFound, w.Code, "owners cannot book their own items")

	// ==== Listings ====
	for state, want := range map[string][]int64{
		"ALL":      {upcoming.ID, finished.ID},
		"PAST":     {finished.ID},
		"FUTURE":   {upcoming.ID},
		"CURRENT":  {},
		"WAITING":  {upcoming.ID},
		"REJECTED": {},
	} {
		w = h.do(http.MethodGet, "/bookings?state="+state, nil, bob.ID)
		require.Equal(t, http.StatusOK, w.Code, state)
		var ids []int64
		for _, b := range decode[[]bookingHttp.BookingResponse](t, w) {
			ids = append(ids, b.ID)
		}
		if len(want) == 0 {
			assert.Empty(t, ids, state)
		} else {
			assert.Equal(t, want, ids, state)
		}
	}

	w = h.do(http.MethodGet, "/bookings/owner?from=1&size=1", nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[[]bookingHttp.BookingResponse](t, w)
	require.Len(t, page, 1)
	assert.Equal(t, finished.ID, page[0].ID)

	w = h.do(http.MethodGet, "/bookings/owner", nil, bob.ID)
	assert.Equal(t, http.StatusNotFound, w.Code, "bob owns no items")

	w = h.do(http.MethodGet, "/bookings?state=later", nil, bob.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Unknown state: UNSUPPORTED_STATUS"}`, w.Body.String())

	// ==== Comments and item views ====
	w = h.do(http.MethodPost, fmt.Sprintf("/items/%d/comment", drill.ID), itemHttp.CreateCommentRequest{Text: "Great drill"}, alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code, "owner never booked it")

	w = h.do(http.MethodPost, fmt.Sprintf("/items/%d/comment", drill.ID), itemHttp.CreateCommentRequest{Text: "Great drill"}, bob.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	comment := decode[itemHttp.CommentResponse](t, w)
	assert.Equal(t, "Bob", comment.AuthorName)

	w = h.do(http.MethodGet, fmt.Sprintf("/items/%d", drill.ID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	ownerView := decode[itemHttp.ItemResponse](t, w)
	require.NotNil(t, ownerView.LastBooking)
	assert.Equal(t, finished.ID, ownerView.LastBooking.ID)
	assert.Nil(t, ownerView.NextBooking, "waiting bookings are not announced")
	require.Len(t, ownerView.Comments, 1)

	w = h.do(http.MethodGet, fmt.Sprintf("/items/%d", drill.ID), nil, bob.ID)
	require.Equal(t, http.StatusOK, w.Code)
	bookerView := decode[itemHttp.ItemResponse](t, w)
	assert.Nil(t, bookerView.LastBooking)
	assert.Len(t, bookerView.Comments, 1)

	w = h.do(http.MethodGet, "/items/search?text=DRI", nil, bob.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]itemHttp.ItemResponse](t, w), 1)
}
