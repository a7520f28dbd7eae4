package auth

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Limiter cuenta intentos fallidos por clave dentro de una ventana.
//
// Hit incrementa y reinicia la ventana a now+decay. Un bucket vencido cuenta como cero.
type Limiter interface {
	TooManyAttempts(ctx context.Context, key string, maxAttempts int) (bool, error)
	Hit(ctx context.Context, key string, decay time.Duration) (int, error)
	Clear(ctx context.Context, key string) error
	AvailableIn(ctx context.Context, key string) (time.Duration, error)
}

// ThrottleKey deriva la clave del bucket: email en minúsculas + "|" + ip, transliterado a ASCII
// básico (sin diacríticos) para que "JOSÉ@x" y "jose@x" compartan bucket.
func ThrottleKey(email, ip string) string {
	return transliterate(strings.ToLower(strings.TrimSpace(email)) + "|" + ip)
}

func transliterate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ThrottledError: el par email+ip superó el máximo de intentos.
type ThrottledError struct {
	Seconds int
	Minutes int
}

func newThrottledError(wait time.Duration) *ThrottledError {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 0 {
		secs = 0
	}
	return &ThrottledError{
		Seconds: secs,
		Minutes: int(math.Ceil(float64(secs) / 60)),
	}
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many login attempts, retry in %d seconds", e.Seconds)
}

// Message es el texto que ve el cliente en errors.email.
func (e *ThrottledError) Message() string {
	return fmt.Sprintf("Demasiados intentos de acceso. Por favor intente nuevamente en %d segundos.", e.Seconds)
}
