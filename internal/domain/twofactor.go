package domain

import (
	"context"
	"time"
)

// TwoFactorCredential is the per-account 2FA record. The secret is stored
// Base32-encoded and is only returned to the caller once, at provisioning
// time. BackupCodes holds the not-yet-redeemed codes.
type TwoFactorCredential struct {
	AccountID   string
	Secret      string
	BackupCodes []string
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TwoFactorStatus is the non-destructive view of a credential.
type TwoFactorStatus struct {
	Enabled   bool
	HasSecret bool
}

// TwoFactorSetup is the one-time provisioning response. None of these
// values are retrievable again through the service.
type TwoFactorSetup struct {
	Secret          string
	ProvisioningURI string
	QRCodePNG       []byte
	BackupCodes     []string
}

// TOTPConfig holds the parameters baked into a provisioning URI.
type TOTPConfig struct {
	Issuer       string
	AccountLabel string
	Secret       string
	Period       time.Duration
	Digits       int
	Algorithm    string
}

// CredentialRepository defines the interface for credential data access.
type CredentialRepository interface {
	// GetCredential retrieves the credential for an account.
	// Returns ErrNotProvisioned when the account has no record.
	GetCredential(ctx context.Context, accountID string) (*TwoFactorCredential, error)
	// UpsertPending creates or replaces a pending (enabled=false) credential.
	// Returns ErrTwoFactorAlreadyEnabled when the account already has an
	// enabled credential; enabled records are never overwritten silently.
	UpsertPending(ctx context.Context, accountID, secret string, backupCodes []string) error
	// Enable flips enabled to true. The update is conditional on the record
	// still carrying the given secret and still being disabled, so a stale
	// provisioning response can never enable a re-provisioned credential.
	// Returns ErrNotProvisioned when no such record exists.
	Enable(ctx context.Context, accountID, secret string) error
	// Disable clears the secret and backup codes and flips enabled to false.
	// Returns ErrNotProvisioned when the account has no record.
	Disable(ctx context.Context, accountID string) error
	// ConsumeBackupCode atomically removes the code from the unused set.
	// Returns true only if the code was present; concurrent redemptions of
	// the same code succeed at most once.
	ConsumeBackupCode(ctx context.Context, accountID, code string) (bool, error)
	// ReplaceBackupCodes swaps the full backup-code set of an enabled
	// credential. Returns ErrTwoFactorNotEnabled otherwise.
	ReplaceBackupCodes(ctx context.Context, accountID string, codes []string) error
}

// CodeGenerator defines the interface for secret, code and URI generation
// and for TOTP verification.
type CodeGenerator interface {
	// GenerateSecret generates a new Base32-encoded 160-bit secret.
	GenerateSecret() (string, error)
	// GenerateBackupCodes generates count uppercase hex codes of the given length.
	GenerateBackupCodes(count, length int) ([]string, error)
	// ProvisioningURI builds the otpauth:// URI for authenticator apps.
	ProvisioningURI(config *TOTPConfig) string
	// QRCodePNG renders a provisioning URI as a PNG image.
	QRCodePNG(uri string) ([]byte, error)
	// VerifyCode checks a submitted code against the secret at the given
	// time, tolerating one step of clock skew in either direction.
	VerifyCode(secret, code string, at time.Time) bool
}

// TwoFactorService defines the operations exposed to the surrounding system.
type TwoFactorService interface {
	GetStatus(ctx context.Context, accountID string) (*TwoFactorStatus, error)
	Provision(ctx context.Context, accountID, label string) (*TwoFactorSetup, error)
	VerifyAndEnable(ctx context.Context, accountID, code string) error
	Disable(ctx context.Context, accountID string) error
	RedeemBackupCode(ctx context.Context, accountID, code string) (bool, error)
	VerifyLogin(ctx context.Context, accountID, code string) error
	RegenerateBackupCodes(ctx context.Context, accountID string) ([]string, error)
}
