package otp

import "strings"

// base32Alphabet is the RFC 4648 alphabet used by authenticator apps.
const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// EncodeBase32 encodes src into the RFC 4648 Base32 alphabet without
// padding. A trailing group of fewer than 5 bits is emitted left-aligned,
// matching how authenticator apps expect unpadded secrets.
func EncodeBase32(src []byte) string {
	var sb strings.Builder
	sb.Grow((len(src)*8 + 4) / 5)

	var value, bits uint
	for _, b := range src {
		value = value<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			sb.WriteByte(base32Alphabet[(value>>(bits-5))&31])
			bits -= 5
		}
	}
	if bits > 0 {
		sb.WriteByte(base32Alphabet[(value<<(5-bits))&31])
	}
	return sb.String()
}

// DecodeBase32 decodes text permissively: lookup is case-insensitive and
// any character outside the alphabet (whitespace, hyphens, padding) is
// skipped rather than rejected. Groups of 5 bits are packed into bytes and
// a trailing partial byte is discarded, not zero-padded.
func DecodeBase32(s string) []byte {
	s = strings.ToUpper(s)
	out := make([]byte, 0, len(s)*5/8)

	var value, bits uint
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(base32Alphabet, s[i])
		if idx < 0 {
			continue
		}
		value = value<<5 | uint(idx)
		bits += 5
		if bits >= 8 {
			out = append(out, byte(value>>(bits-8)))
			bits -= 8
		}
	}
	return out
}
