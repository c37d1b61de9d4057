package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"math"
)

// HOTP implements the RFC 4226 HMAC-based one-time password algorithm.
// The counter is serialized as 8 big-endian bytes and hashed with
// HMAC-SHA1; dynamic truncation extracts a 31-bit value which is reduced
// to the requested number of digits. The result keeps leading zeros, so it
// is returned as a string. Pure function, no side effects.
func HOTP(secret []byte, counter uint64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Dynamic truncation: the low nibble of the last byte selects a 4-byte
	// window; masking the top bit keeps the value non-negative as a 31-bit
	// integer.
	offset := sum[len(sum)-1] & 0x0f
	value := uint32(sum[offset]&0x7f)<<24 |
		uint32(sum[offset+1])<<16 |
		uint32(sum[offset+2])<<8 |
		uint32(sum[offset+3])

	code := value % uint32(math.Pow10(digits))
	return fmt.Sprintf("%0*d", digits, code)
}
