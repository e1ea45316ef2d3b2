package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/shareit/internal/auth"
	"github.com/nekogravitycat/shareit/internal/metrics"
	"github.com/nekogravitycat/shareit/internal/pkg/response"
)

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	limiters sync.Map
	rps      int
	burst    int
}

func NewLocalLimiter(rps, burst int) *LocalLimiter {
	if burst <= 0 {
		burst = rps
	}
	return &LocalLimiter{rps: rps, burst: burst}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.limiter(key).Allow(), nil
}

func (l *LocalLimiter) limiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}

// RedisLimiter counts requests per key in fixed one-second windows shared by all gateway replicas.
// The window admits max(rps, burst) requests.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, rps, burst int) *RedisLimiter {
	limit := rps
	if burst > limit {
		limit = burst
	}
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		prefix: "shareit:ratelimit:",
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := l.now().Unix()
	redisKey := l.prefix + key + ":" + strconv.FormatInt(window, 10)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return incr.Val() <= l.limit, nil
}

// rateKey identifies the caller by user id when present, else by client IP.
func rateKey(c *gin.Context) string {
	if id, ok := auth.ParseUserID(c.GetHeader(auth.UserIDHeader)); ok {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects callers over their budget with 429. Limiter failures let the request through.
func RateLimit(l Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateKey(c)
		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			metrics.IncGatewayRejection("rate_limit")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{Error: "too many requests"})
			return
		}
		c.Next()
	}
}
