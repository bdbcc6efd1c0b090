package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/pkg/response"
)

const rateKeyPrefix = "sneakerhub:rl:"

// ipFromCtx prefers the address stored by RealIP.
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds the counter key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true when the request bypasses the limit.
type AllowFunc func(*gin.Context) bool

// KeyByIP counts per client address across all routes of the group.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return rateKeyPrefix + "ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndRoute counts per client address and route, so /auth/login and /auth/register
// have separate budgets.
func KeyByIPAndRoute() KeyFunc {
	return func(c *gin.Context) string {
		return rateKeyPrefix + "route:" + c.Request.Method + ":" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID counts per authenticated user; anonymous callers fall back to their address.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return rateKeyPrefix + "user:" + uid
		}
		return rateKeyPrefix + "anon:ip:" + ipFromCtx(c)
	}
}

// Policy describes one fixed-window limit.
type Policy struct {
	Name   string
	Max    int
	Window time.Duration
	Key    KeyFunc
	Allow  AllowFunc
}

// windowCounter increments key within a fixed window and reports the new count and the time left.
type windowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// INCR and arm the expiry on the first hit, atomically. Returns {count, pttl}.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type redisCounter struct{ rdb *redis.Client }

func (r redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("rate limit script returned %d values", len(res))
	}
	return res[0], time.Duration(res[1]) * time.Millisecond, nil
}

// RateLimit enforces p with a Redis counter. It is a no-op when rdb is nil and fails open on
// Redis errors; OPTIONS requests are never counted.
func RateLimit(rdb *redis.Client, p Policy, logger *logrus.Logger) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimit(redisCounter{rdb: rdb}, p, logger)
}

func rateLimit(counter windowCounter, p Policy, logger *logrus.Logger) gin.HandlerFunc {
	if p.Max <= 0 || p.Window <= 0 || p.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, http.MethodOptions) || (p.Allow != nil && p.Allow(c)) {
			c.Next()
			return
		}

		hits, pttl, err := counter.Hit(c.Request.Context(), p.Key(c), p.Window)
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithField("policy", p.Name).Warn("rate limit check failed, allowing request")
			}
			c.Next()
			return
		}
		count := int(hits)

		remaining := p.Max - count
		if remaining < 0 {
			remaining = 0
		}
		reset := int((pttl + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(p.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))

		if count > p.Max {
			if reset > 0 {
				c.Header("Retry-After", strconv.Itoa(reset))
			}
			response.Error[any](c, http.StatusTooManyRequests, "too many requests", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
