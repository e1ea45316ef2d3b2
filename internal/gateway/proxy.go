package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Proxy forwards validated requests to the server tier.
type Proxy struct {
	target  *url.URL
	timeout time.Duration
	rp      *httputil.ReverseProxy
	logger  *zap.Logger
}

// NewProxy creates a reverse proxy to baseURL. A zero timeout disables the per-request deadline.
func NewProxy(baseURL string, timeout time.Duration, logger *zap.Logger) (*Proxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}

	p := &Proxy{target: target, timeout: timeout, logger: logger}

	rp := httputil.NewSingleHostReverseProxy(target)
	rp.Transport = &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	director := rp.Director
	rp.Director = func(req *http.Request) {
		director(req)
		req.Host = target.Host
	}
	rp.ErrorHandler = p.handleError
	p.rp = rp

	return p, nil
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusBadGateway, "server unavailable"
	if errors.Is(err, context.DeadlineExceeded) {
		status, msg = http.StatusGatewayTimeout, "server timed out"
	}
	p.logger.Warn("proxy error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `{"error":"`+msg+`"}`)
}

// Handler returns the terminal gin handler of every proxied route.
// Bodies consumed by ShouldBindBodyWith are restored before forwarding.
func (p *Proxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		if raw, ok := c.Get(gin.BodyBytesKey); ok {
			if body, ok := raw.([]byte); ok {
				req.Body = io.NopCloser(bytes.NewReader(body))
				req.ContentLength = int64(len(body))
			}
		}

		// The proxy watches ctx.Done for client disconnects, so every forwarded
		// request carries a cancelable context even without a deadline.
		var (
			ctx    context.Context
			cancel context.CancelFunc
		)
		if p.timeout > 0 {
			ctx, cancel = context.WithTimeout(req.Context(), p.timeout)
		} else {
			ctx, cancel = context.WithCancel(req.Context())
		}
		defer cancel()
		req = req.WithContext(ctx)

		p.rp.ServeHTTP(c.Writer, req)
	}
}
