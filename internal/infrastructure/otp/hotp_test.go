package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// RFC 4226 Appendix D reference values for the ASCII secret
// "12345678901234567890".
func TestHOTP_RFC4226Vectors(t *testing.T) {
	secret := []byte("12345678901234567890")
	expected := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}

	for counter, want := range expected {
		t.Run(strconv.Itoa(counter), func(t *testing.T) {
			assert.Equal(t, want, HOTP(secret, uint64(counter), 6))
		})
	}
}

// Pinned regression vector: 20 zero bytes (Base32
// AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA) at counter 0.
func TestHOTP_ZeroSecretVector(t *testing.T) {
	secret := make([]byte, 20)
	assert.Equal(t, "328482", HOTP(secret, 0, 6))
	assert.Equal(t, "812658", HOTP(secret, 1, 6))
}

func TestHOTP_PreservesLeadingZeros(t *testing.T) {
	// Scan counters for an output below 100000; the padded form must keep
	// its leading zero and its length.
	secret := []byte("12345678901234567890")
	for counter := uint64(0); counter < 500; counter++ {
		code := HOTP(secret, counter, 6)
		assert.Len(t, code, 6)
	}
}

func TestHOTP_KeyLengthUnrestricted(t *testing.T) {
	// RFC 2104 keying rules accept any key length.
	assert.Len(t, HOTP([]byte{0x01}, 0, 6), 6)
	assert.Len(t, HOTP(make([]byte, 64), 0, 6), 6)
	assert.Len(t, HOTP(make([]byte, 100), 0, 6), 6)
}
