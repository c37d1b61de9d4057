package otp

import (
	"crypto/subtle"
	"time"
)

const (
	// DefaultDigits is the standard 6-digit code length.
	DefaultDigits = 6
	// DefaultPeriod is the RFC 6238 standard 30-second time step.
	DefaultPeriod = 30 * time.Second
	// DefaultWindow accepts the previous, current and next time step to
	// tolerate client/server clock drift. Widening it grows the replay
	// surface; narrowing it locks out slightly skewed clocks.
	DefaultWindow = 1
)

// VerifyTOTP checks a submitted code against the secret for the time step
// containing now, plus window adjacent steps in each direction (RFC 6238).
// Comparison is exact string equality on the zero-padded form, in constant
// time per candidate. Returns false when no step matches; it never reveals
// which step matched.
func VerifyTOTP(secret []byte, code string, now time.Time, period time.Duration, window, digits int) bool {
	if len(code) != digits {
		return false
	}

	step := int64(period / time.Second)
	if step <= 0 {
		return false
	}
	counter := now.Unix() / step

	for delta := -window; delta <= window; delta++ {
		c := counter + int64(delta)
		if c < 0 {
			continue
		}
		candidate := HOTP(secret, uint64(c), digits)
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(code)) == 1 {
			return true
		}
	}
	return false
}
