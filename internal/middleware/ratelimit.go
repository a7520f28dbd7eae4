package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pet-manager/internal/http/respond"
	"pet-manager/internal/platform/logger"
)

// IPLimiter mantiene un token-bucket (x/time/rate) por IP con limpieza de entradas inactivas.
// Protege la cuota del upstream en las rutas públicas; no tiene relación con el throttle de login.
type IPLimiter struct {
	mu      sync.Mutex
	entries map[string]*ipEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type ipEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewIPLimiter(rps float64, burst int) *IPLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPLimiter{
		entries: make(map[string]*ipEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
}

func (l *IPLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.entries[ip]; ok {
		ent.lastSeen = l.now()
		return ent.lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.entries[ip] = &ipEntry{lim: lim, lastSeen: l.now()}
	return lim
}

// Reserve intenta consumir un token; si no hay, devuelve cuánto esperar.
func (l *IPLimiter) Reserve(ip string) (bool, time.Duration) {
	lim := l.get(ip)
	now := l.now()
	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return false, 0
	}
	delay := res.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, delay
}

func (l *IPLimiter) Cleanup() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// StartJanitor limpia periódicamente hasta que ctx se cancela.
func (l *IPLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}

// RateLimit responde 429 con Retry-After cuando la IP agotó su bucket.
func RateLimit(l *IPLimiter, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			ok, wait := l.Reserve(ip)
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				log.Warn("rate limit exceeded", map[string]any{"ip": ip, "path": r.URL.Path})
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				respond.Text(w, http.StatusTooManyRequests, respond.MsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP devuelve la IP del cliente tomada de RemoteAddr. Los headers de proxy solo cuentan
// si el router monta chimw.RealIP (config TrustProxy), que reescribe RemoteAddr antes.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
