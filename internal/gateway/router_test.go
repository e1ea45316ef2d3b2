package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit/internal/api"
	"github.com/nekogravitycat/shareit/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gatewayNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type forwarded struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Query     string `json:"query"`
	Body      string `json:"body"`
	User      string `json:"user"`
	RequestID string `json:"requestId"`
}

// newUpstream echoes what it received so tests can assert the forwarded request.
func newUpstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(forwarded{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Body:      string(body),
			User:      r.Header.Get(auth.UserIDHeader),
			RequestID: r.Header.Get(api.RequestIDHeader),
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newGateway(t *testing.T, cfg Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return gatewayNow }
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	r, err := NewRouter(cfg)
	require.NoError(t, err)
	return r
}

func send(r http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(auth.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewRouterRejectsBadServerURL(t *testing.T) {
	_, err := NewRouter(Config{ServerURL: "localhost:9090"})
	assert.Error(t, err)
}

func TestForwardsValidRequests(t *testing.T) {
	upstream, hits := newUpstream(t)
	r := newGateway(t, Config{ServerURL: upstream.URL, StrictBookingStart: true})

	body := `{"itemId":10,"start":"2026-06-01T10:00:00Z","end":"2026-06-01T12:00:00Z"}`
	w := send(r, http.MethodPost, "/bookings", "2", body)
	require.Equal(t, http.StatusOK, w.Code)

	var got forwarded
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	requestID := w.Header().Get(api.RequestIDHeader)
	require.NotEmpty(t, requestID)
	assert.Equal(t, forwarded{Method: "POST", Path: "/bookings", Body: body, User: "2", RequestID: requestID}, got)
	assert.Equal(t, int32(1), hits.Load())

	w = send(r, http.MethodPatch, "/bookings/5?approved=true", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "/bookings/5", got.Path)
	assert.Equal(t, "approved=true", got.Query)

	w = send(r, http.MethodGet, "/bookings/owner?state=WAITING&from=0&size=5", "1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodGet, "/items/search?text=drill", "1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/users", "", `{"name":"Ann","email":"ann@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int32(5), hits.Load())
}

func TestRejectsBeforeForwarding(t *testing.T) {
	upstream, hits := newUpstream(t)
	r := newGateway(t, Config{ServerURL: upstream.URL, StrictBookingStart: true})

	tests := []struct {
		name    string
		method  string
		target  string
		userID  string
		body    string
		wantErr string
	}{
		{
			name: "missing header", method: http.MethodGet, target: "/bookings",
			wantErr: "missing X-Sharer-User-Id header",
		},
		{
			name: "non numeric header", method: http.MethodGet, target: "/bookings", userID: "abc",
			wantErr: "invalid X-Sharer-User-Id header",
		},
		{
			name: "unknown state", method: http.MethodGet, target: "/bookings?state=SOMETIME", userID: "1",
			wantErr: "Unknown state: UNSUPPORTED_STATUS",
		},
		{
			name: "negative from", method: http.MethodGet, target: "/bookings/owner?from=-1", userID: "1",
			wantErr: "from must not be negative",
		},
		{
			name: "zero size", method: http.MethodGet, target: "/requests/all?size=0", userID: "1",
			wantErr: "size must be positive",
		},
		{
			name: "end before start", method: http.MethodPost, target: "/bookings", userID: "2",
			body:    `{"itemId":10,"start":"2026-06-01T12:00:00Z","end":"2026-06-01T10:00:00Z"}`,
			wantErr: "start must be before end",
		},
		{
			name: "start in past", method: http.MethodPost, target: "/bookings", userID: "2",
			body:    `{"itemId":10,"start":"2026-04-01T10:00:00Z","end":"2026-06-01T10:00:00Z"}`,
			wantErr: "start must not be in the past",
		},
		{
			name: "missing dates", method: http.MethodPost, target: "/bookings", userID: "2",
			body:    `{"itemId":10}`,
			wantErr: "invalid request body",
		},
		{
			name: "missing approved", method: http.MethodPatch, target: "/bookings/5", userID: "1",
			wantErr: "invalid query parameters",
		},
		{
			name: "bad id", method: http.MethodGet, target: "/bookings/0", userID: "1",
			wantErr: "invalid request",
		},
		{
			name: "blank item name", method: http.MethodPost, target: "/items", userID: "1",
			body:    `{"name":"  ","description":"d","available":true}`,
			wantErr: "name must not be blank",
		},
		{
			name: "blank comment", method: http.MethodPost, target: "/items/3/comment", userID: "1",
			body:    `{"text":" "}`,
			wantErr: "text must not be blank",
		},
		{
			name: "bad email", method: http.MethodPost, target: "/users",
			body:    `{"name":"Ann","email":"not-an-email"}`,
			wantErr: "invalid request body",
		},
		{
			name: "blank request description", method: http.MethodPost, target: "/requests", userID: "1",
			body:    `{"description":"\t"}`,
			wantErr: "description must not be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(r, tt.method, tt.target, tt.userID, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantErr+`"}`, w.Body.String())
		})
	}
	assert.Zero(t, hits.Load())
}

func TestLenientStartIsForwarded(t *testing.T) {
	upstream, hits := newUpstream(t)
	r := newGateway(t, Config{ServerURL: upstream.URL, StrictBookingStart: false})

	w := send(r, http.MethodPost, "/bookings", "2", `{"itemId":10,"start":"2026-04-01T10:00:00Z","end":"2026-06-01T10:00:00Z"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGatewayHealthz(t *testing.T) {
	upstream, hits := newUpstream(t)
	r := newGateway(t, Config{ServerURL: upstream.URL})

	w := send(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, hits.Load())
}

func TestRateLimitedRoutes(t *testing.T) {
	upstream, hits := newUpstream(t)
	r := newGateway(t, Config{ServerURL: upstream.URL, Limiter: NewLocalLimiter(1, 1)})

	w := send(r, http.MethodGet, "/requests", "4", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodGet, "/requests", "4", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())

	w = send(r, http.MethodGet, "/requests", "5", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodGet, "/healthz", "4", "")
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int32(2), hits.Load())
}
