package otp

import (
	"crypto/rand"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/domain"
)

// secretLength is the raw secret size in bytes (160 bits, RFC 4226
// recommendation).
const secretLength = 20

// qrImageSize is the side length in pixels of the rendered QR PNG.
const qrImageSize = 256

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Generator implements the domain.CodeGenerator interface. All random
// material comes from crypto/rand.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new code generator.
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

// GenerateSecret generates a new Base32-encoded 160-bit secret.
func (g *Generator) GenerateSecret() (string, error) {
	secret := make([]byte, secretLength)
	if _, err := rand.Read(secret); err != nil {
		g.logger.Error("failed to generate random secret", zap.Error(err))
		return "", domain.ErrSecretGeneration
	}
	return EncodeBase32(secret), nil
}

// GenerateBackupCodes generates count single-use codes of length uppercase
// hexadecimal characters each, drawn independently from crypto/rand.
func (g *Generator) GenerateBackupCodes(count, length int) ([]string, error) {
	codes := make([]string, count)
	for i := range codes {
		buf := make([]byte, (length+1)/2)
		if _, err := rand.Read(buf); err != nil {
			g.logger.Error("failed to generate random backup code", zap.Error(err))
			return nil, domain.ErrBackupCodeGeneration
		}
		codes[i] = fmt.Sprintf("%X", buf)[:length]
	}
	return codes, nil
}

// ProvisioningURI builds the otpauth:// URI consumed by authenticator
// apps. The shape must stay exactly
// otpauth://totp/<issuer>:<label>?secret=..&issuer=..&algorithm=..&digits=..&period=..
// for app compatibility, so the query string is assembled by hand rather
// than through url.Values (which would reorder the parameters).
func (g *Generator) ProvisioningURI(config *domain.TOTPConfig) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s&algorithm=%s&digits=%d&period=%d",
		config.Issuer,
		escapeComponent(config.AccountLabel),
		config.Secret,
		escapeComponent(config.Issuer),
		config.Algorithm,
		config.Digits,
		int(config.Period.Seconds()),
	)
}

// QRCodePNG renders a provisioning URI as a PNG image.
func (g *Generator) QRCodePNG(uri string) ([]byte, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, qrImageSize)
	if err != nil {
		g.logger.Error("failed to encode provisioning QR code", zap.Error(err))
		return nil, domain.ErrQRCodeGeneration
	}
	return png, nil
}

// VerifyCode checks a submitted TOTP code against the secret at the given
// time with the default period and skew window. Malformed input and any
// internal failure verify as false; the result is strictly binary.
func (g *Generator) VerifyCode(secret, code string, at time.Time) bool {
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return false
	}
	key := DecodeBase32(secret)
	if len(key) == 0 {
		return false
	}
	return VerifyTOTP(key, code, at, DefaultPeriod, DefaultWindow, DefaultDigits)
}

// escapeComponent percent-encodes a URI component the way browsers'
// encodeURIComponent does: '@' and ':' become %40 and %3A, spaces become
// %20 rather than '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
