package domain

import "errors"

var (
	// ErrNotProvisioned is returned when verification or enablement is
	// attempted with no credential on record
	ErrNotProvisioned = errors.New("two-factor credential not provisioned")

	// ErrInvalidCode is returned when a submitted code did not match any
	// accepted value. Expired and never-valid codes are indistinguishable
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrTwoFactorAlreadyEnabled is returned when provisioning or enabling
	// would overwrite an active credential
	ErrTwoFactorAlreadyEnabled = errors.New("two-factor authentication already enabled")

	// ErrTwoFactorNotEnabled is returned by operations that require an
	// enabled credential
	ErrTwoFactorNotEnabled = errors.New("two-factor authentication not enabled")

	// ErrStoreUnavailable is returned when the credential store could not be
	// reached within the allotted time
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrPolicyUnavailable is returned when the policy flag could not be read
	ErrPolicyUnavailable = errors.New("policy store unavailable")

	// ErrDatabaseQuery is returned by repositories when a query fails
	ErrDatabaseQuery = errors.New("database query failed")

	// ErrSecretGeneration is returned when the random source fails while
	// generating a secret
	ErrSecretGeneration = errors.New("failed to generate two-factor secret")

	// ErrBackupCodeGeneration is returned when the random source fails while
	// generating backup codes
	ErrBackupCodeGeneration = errors.New("failed to generate backup codes")

	// ErrQRCodeGeneration is returned when the provisioning QR image could
	// not be rendered
	ErrQRCodeGeneration = errors.New("failed to render provisioning QR code")
)
