package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/tasknest/tasknest/internal/logger"
)

// RateLimiter throttles per client IP via redis_rate. Limiter errors
// fail open so a Redis outage never takes the API down with it.
type RateLimiter struct {
	limiter *redis_rate.Limiter
	rps     int
	burst   int
	log     *logger.Logger
}

func NewRateLimiter(redisClient *redis.Client, rps, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: redis_rate.NewLimiter(redisClient),
		rps:     rps,
		burst:   burst,
		log:     logger.New("rate-limiter"),
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		limit := redis_rate.Limit{
			Rate:   rl.rps,
			Burst:  rl.burst,
			Period: time.Second,
		}

		res, err := rl.limiter.Allow(r.Context(), "rate_limit:"+ip, limit)
		if err != nil {
			rl.log.Error("Rate limiter error: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.rps))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(res.ResetAfter.Seconds())))

		if res.Allowed == 0 {
			rl.log.Warn("Rate limit exceeded for %s", ip)
			writeMessage(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}
