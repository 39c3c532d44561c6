package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
)

// ── Login rate limiter ────────────────────────────────────────────────────────

const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter limita los intentos de login por IP con un token bucket.
type LoginLimiter struct {
	mu        sync.Mutex
	perMinute int
	ips       map[string]*ipLimiter
	lastPrune time.Time
	now       func() time.Time
}

// NewLoginLimiter perMinute <= 0 desactiva el límite.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	return &LoginLimiter{perMinute: perMinute, ips: make(map[string]*ipLimiter), now: time.Now}
}

// Allow consume un intento de ip.
func (l *LoginLimiter) Allow(ip string) bool {
	if l.perMinute <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > limiterIdleTTL {
		for k, e := range l.ips {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.ips, k)
			}
		}
		l.lastPrune = now
	}

	e, ok := l.ips[ip]
	if !ok {
		e = &ipLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.ips[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Handler middleware fiber; responde 429 al agotar el cupo.
func (l *LoginLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_ATTEMPTS",
				Message: "Demasiados intentos de inicio de sesión. Intenta de nuevo en un minuto.",
			})
		}
		return c.Next()
	}
}
