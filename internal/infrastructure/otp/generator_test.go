package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/domain"
)

func TestGenerator_GenerateSecret(t *testing.T) {
	generator := NewGenerator(zap.NewNop())

	secret, err := generator.GenerateSecret()

	assert.NoError(t, err)
	assert.Len(t, secret, 32) // 20 bytes encode to 32 Base32 characters
	assert.Regexp(t, "^[A-Z2-7]{32}$", secret)
	assert.Len(t, DecodeBase32(secret), 20)
}

func TestGenerator_SecretsAreUnique(t *testing.T) {
	generator := NewGenerator(zap.NewNop())

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		secret, err := generator.GenerateSecret()
		require.NoError(t, err)
		assert.False(t, seen[secret])
		seen[secret] = true
	}
}

func TestGenerator_GenerateBackupCodes(t *testing.T) {
	generator := NewGenerator(zap.NewNop())

	codes, err := generator.GenerateBackupCodes(10, 8)

	assert.NoError(t, err)
	assert.Len(t, codes, 10)
	for _, code := range codes {
		assert.Regexp(t, "^[0-9A-F]{8}$", code)
	}
}

func TestGenerator_ProvisioningURI(t *testing.T) {
	generator := NewGenerator(zap.NewNop())
	config := &domain.TOTPConfig{
		Issuer:       "Admin Dashboard",
		AccountLabel: "user@example.com",
		Secret:       "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		Period:       30 * time.Second,
		Digits:       6,
		Algorithm:    "SHA1",
	}

	uri := generator.ProvisioningURI(config)

	assert.Equal(t,
		"otpauth://totp/Admin Dashboard:user%40example.com"+
			"?secret=AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"+
			"&issuer=Admin%20Dashboard&algorithm=SHA1&digits=6&period=30",
		uri)
}

func TestGenerator_ProvisioningURIEscapesLabel(t *testing.T) {
	generator := NewGenerator(zap.NewNop())
	config := &domain.TOTPConfig{
		Issuer:       "Cenety",
		AccountLabel: "ops:admin@example.com",
		Secret:       "JBSWY3DPEHPK3PXP",
		Period:       30 * time.Second,
		Digits:       6,
		Algorithm:    "SHA1",
	}

	uri := generator.ProvisioningURI(config)

	assert.Contains(t, uri, "otpauth://totp/Cenety:ops%3Aadmin%40example.com?")
	assert.Contains(t, uri, "issuer=Cenety")
}

func TestGenerator_QRCodePNG(t *testing.T) {
	generator := NewGenerator(zap.NewNop())

	png, err := generator.QRCodePNG("otpauth://totp/Cenety:user%40example.com?secret=JBSWY3DPEHPK3PXP")

	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestGenerator_VerifyCode(t *testing.T) {
	generator := NewGenerator(zap.NewNop())
	secret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ" // "12345678901234567890"
	now := time.Unix(3000, 0)                   // counter 100
	valid := HOTP([]byte("12345678901234567890"), 100, 6)
	wrong := "000000"
	if wrong == valid {
		wrong = "000001"
	}

	tests := []struct {
		name   string
		secret string
		code   string
		want   bool
	}{
		{name: "valid code", secret: secret, code: valid, want: true},
		{name: "valid code with surrounding space", secret: secret, code: " " + valid + " ", want: true},
		{name: "wrong code", secret: secret, code: wrong, want: false},
		{name: "non-numeric code", secret: secret, code: "abcdef", want: false},
		{name: "empty secret", secret: "", code: valid, want: false},
		{name: "unusable secret", secret: "!!!", code: valid, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generator.VerifyCode(tt.secret, tt.code, now))
		})
	}
}
