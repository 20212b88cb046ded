package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"todoTracker/internal/logger"

	"go.uber.org/zap"
)

type clientInfo struct {
	count   int
	resetAt time.Time
}

// rateLimiter фиксированное окно на IP клиента
type rateLimiter struct {
	mtx     sync.Mutex
	clients map[string]*clientInfo
	limit   int
	window  time.Duration
	now     func() time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		clients: make(map[string]*clientInfo),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// allow возвращает остаток запросов и момент сброса окна
func (l *rateLimiter) allow(ip string) (bool, int, time.Time) {
	now := l.now()

	l.mtx.Lock()
	defer l.mtx.Unlock()

	if len(l.clients) > 1024 {
		l.evict(now)
	}

	info, exists := l.clients[ip]
	if !exists || now.After(info.resetAt) {
		info = &clientInfo{count: 1, resetAt: now.Add(l.window)}
		l.clients[ip] = info
		return true, l.limit - 1, info.resetAt
	}

	if info.count >= l.limit {
		return false, 0, info.resetAt
	}

	info.count++
	return true, l.limit - info.count, info.resetAt
}

func (l *rateLimiter) evict(now time.Time) {
	for ip, info := range l.clients {
		if now.After(info.resetAt) {
			delete(l.clients, ip)
		}
	}
}

// RateLimit ограничивает число запросов в минуту с одного IP; rpm <= 0 отключает лимит
func RateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := newRateLimiter(rpm, time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIp(r)
			ok, remaining, resetAt := limiter.allow(ip)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retryAfter := int(time.Until(resetAt).Seconds()) + 1
				logger.Warn("HTTP: Превышен лимит запросов",
					zap.String("client_ip", ip),
					zap.String("request_id", GetRequestID(r.Context())))

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"statusCode":    http.StatusTooManyRequests,
					"isSuccess":     false,
					"errorMessages": []string{"Too many requests. Try again later."},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
