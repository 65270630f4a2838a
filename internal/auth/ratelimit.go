package auth

import (
	"net/http"
	"sync"

	"Mooring/internal/httputil"

	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	ips        map[string]*rate.Limiter
	mu         sync.Mutex
	r          rate.Limit
	b          int
	trustProxy bool
}

func NewIPRateLimiter(r rate.Limit, b int, trustProxy bool) *IPRateLimiter {
	return &IPRateLimiter{
		ips:        make(map[string]*rate.Limiter),
		r:          r,
		b:          b,
		trustProxy: trustProxy,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := i.getLimiter(httputil.ClientIP(r, i.trustProxy))
		if !limiter.Allow() {
			httputil.WriteError(w, http.StatusTooManyRequests, "Too Many Requests. Try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
