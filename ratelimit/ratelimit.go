package ratelimit

import (
	"net"
	"net/http"
	"sync"

	"github.com/a-h/qadocs/auth"
	"github.com/a-h/qadocs/metrics"
	"golang.org/x/time/rate"
)

func New(rps float64, burst int, next http.Handler) *Limiter {
	return &Limiter{
		Next:     next,
		rps:      rps,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Limiter applies a token bucket per authenticated user, falling back to the
// remote address.
type Limiter struct {
	Next     http.Handler
	rps      float64
	burst    int
	m        sync.Mutex
	limiters map[string]*rate.Limiter
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.m.Lock()
	defer l.m.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[key] = lim
	}
	return lim
}

func (l *Limiter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if l.rps <= 0 {
		l.Next.ServeHTTP(w, r)
		return
	}
	if !l.get(key(r)).Allow() {
		metrics.RateLimitRejected.Inc()
		w.Header().Set("Retry-After", "1")
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}
	l.Next.ServeHTTP(w, r)
}

// key identifies the bucket of a request. The remote port is dropped so that
// every connection from one host shares a bucket.
func key(r *http.Request) string {
	if user, ok := auth.GetUser(r); ok {
		return "user:" + user.Tenant + "/" + user.Name
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
