package application

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/domain"
)

// TwoFactorOptions configures the two-factor service.
type TwoFactorOptions struct {
	// Issuer appears in provisioning URIs and authenticator apps.
	Issuer string
	// StoreTimeout bounds every call to the credential store. On expiry the
	// service fails closed: enablement and verification report the store as
	// unavailable, never as a valid code.
	StoreTimeout time.Duration
	// BackupCodeCount and BackupCodeLength shape the single-use code set.
	BackupCodeCount  int
	BackupCodeLength int
}

func (o TwoFactorOptions) withDefaults() TwoFactorOptions {
	if o.Issuer == "" {
		o.Issuer = "Admin Dashboard"
	}
	if o.StoreTimeout == 0 {
		o.StoreTimeout = 5 * time.Second
	}
	if o.BackupCodeCount == 0 {
		o.BackupCodeCount = 10
	}
	if o.BackupCodeLength == 0 {
		o.BackupCodeLength = 8
	}
	return o
}

// twoFactorServiceImpl implements the TwoFactorService interface
type twoFactorServiceImpl struct {
	repo        domain.CredentialRepository
	generator   domain.CodeGenerator
	audit       domain.AuditRecorder
	opts        TwoFactorOptions
	backupShape *regexp.Regexp
	logger      *zap.Logger
}

// NewTwoFactorService creates a new two-factor service
func NewTwoFactorService(repo domain.CredentialRepository, generator domain.CodeGenerator, audit domain.AuditRecorder, opts TwoFactorOptions, logger *zap.Logger) domain.TwoFactorService {
	opts = opts.withDefaults()
	return &twoFactorServiceImpl{
		repo:        repo,
		generator:   generator,
		audit:       audit,
		opts:        opts,
		backupShape: regexp.MustCompile(fmt.Sprintf(`^[0-9A-F]{%d}$`, opts.BackupCodeLength)),
		logger:      logger,
	}
}

// GetStatus reports whether the account has a secret on record and whether
// two-factor authentication is enabled. An account with no record is simply
// not enrolled, not an error.
func (s *twoFactorServiceImpl) GetStatus(ctx context.Context, accountID string) (*domain.TwoFactorStatus, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	cred, err := s.repo.GetCredential(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotProvisioned) {
			return &domain.TwoFactorStatus{}, nil
		}
		return nil, s.storeErr(err)
	}

	return &domain.TwoFactorStatus{
		Enabled:   cred.Enabled,
		HasSecret: cred.Secret != "",
	}, nil
}

// Provision generates a fresh secret and backup codes and persists them as
// a pending (disabled) credential, overwriting any prior pending state for
// the account. An enabled credential is never overwritten; callers must
// disable it first. The returned secret, URI, QR image and backup codes are
// not retrievable again through this interface.
func (s *twoFactorServiceImpl) Provision(ctx context.Context, accountID, label string) (*domain.TwoFactorSetup, error) {
	secret, err := s.generator.GenerateSecret()
	if err != nil {
		s.logger.Error("failed to generate secret",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, err
	}

	backupCodes, err := s.generator.GenerateBackupCodes(s.opts.BackupCodeCount, s.opts.BackupCodeLength)
	if err != nil {
		s.logger.Error("failed to generate backup codes",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, err
	}

	storeCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.repo.UpsertPending(storeCtx, accountID, secret, backupCodes); err != nil {
		if errors.Is(err, domain.ErrTwoFactorAlreadyEnabled) {
			return nil, err
		}
		s.logger.Error("failed to store pending credential",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, s.storeErr(err)
	}

	uri := s.generator.ProvisioningURI(&domain.TOTPConfig{
		Issuer:       s.opts.Issuer,
		AccountLabel: label,
		Secret:       secret,
		Period:       30 * time.Second,
		Digits:       6,
		Algorithm:    "SHA1",
	})

	png, err := s.generator.QRCodePNG(uri)
	if err != nil {
		s.logger.Error("failed to render QR code",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, err
	}

	return &domain.TwoFactorSetup{
		Secret:          secret,
		ProvisioningURI: uri,
		QRCodePNG:       png,
		BackupCodes:     backupCodes,
	}, nil
}

// VerifyAndEnable checks the submitted code against the secret currently on
// record and, on success, flips the credential to enabled. The flip is
// atomic and conditional on the verified secret, so a response from an
// earlier provisioning can never enable a re-provisioned credential. A
// failed verification leaves the credential untouched.
func (s *twoFactorServiceImpl) VerifyAndEnable(ctx context.Context, accountID, code string) error {
	readCtx, cancel := s.bound(ctx)
	defer cancel()
	cred, err := s.repo.GetCredential(readCtx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotProvisioned) {
			return err
		}
		return s.storeErr(err)
	}

	if cred.Enabled {
		return domain.ErrTwoFactorAlreadyEnabled
	}
	if cred.Secret == "" {
		return domain.ErrNotProvisioned
	}

	if !s.generator.VerifyCode(cred.Secret, code, time.Now()) {
		return domain.ErrInvalidCode
	}

	enableCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.repo.Enable(enableCtx, accountID, cred.Secret); err != nil {
		if errors.Is(err, domain.ErrNotProvisioned) {
			// The record changed between read and flip; the verified secret
			// is no longer the one on record.
			return err
		}
		return s.storeErr(err)
	}

	s.recordAudit(ctx, accountID, domain.AuditTwoFactorEnabled, nil)
	return nil
}

// Disable turns two-factor authentication off and discards the secret and
// remaining backup codes.
func (s *twoFactorServiceImpl) Disable(ctx context.Context, accountID string) error {
	storeCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.repo.Disable(storeCtx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotProvisioned) {
			return err
		}
		return s.storeErr(err)
	}

	s.recordAudit(ctx, accountID, domain.AuditTwoFactorDisabled, nil)
	return nil
}

// RedeemBackupCode consumes a single-use backup code. It reports true only
// if the code was present and this call removed it; a second redemption of
// the same code, concurrent or later, reports false.
func (s *twoFactorServiceImpl) RedeemBackupCode(ctx context.Context, accountID, code string) (bool, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !s.backupShape.MatchString(code) {
		return false, nil
	}

	storeCtx, cancel := s.bound(ctx)
	defer cancel()
	redeemed, err := s.repo.ConsumeBackupCode(storeCtx, accountID, code)
	if err != nil {
		return false, s.storeErr(err)
	}

	if redeemed {
		s.recordAudit(ctx, accountID, domain.AuditBackupCodeRedeemed, nil)
	}
	return redeemed, nil
}

// VerifyLogin validates a second factor during sign-in against an enabled
// credential. It accepts either a TOTP code or an unused backup code;
// backup codes are consumed. All mismatches report ErrInvalidCode without
// distinguishing why.
func (s *twoFactorServiceImpl) VerifyLogin(ctx context.Context, accountID, code string) error {
	readCtx, cancel := s.bound(ctx)
	defer cancel()
	cred, err := s.repo.GetCredential(readCtx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotProvisioned) {
			return err
		}
		return s.storeErr(err)
	}

	if !cred.Enabled {
		return domain.ErrTwoFactorNotEnabled
	}

	if s.backupShape.MatchString(strings.ToUpper(strings.TrimSpace(code))) {
		redeemed, err := s.RedeemBackupCode(ctx, accountID, code)
		if err != nil {
			return err
		}
		if redeemed {
			return nil
		}
		return domain.ErrInvalidCode
	}

	if !s.generator.VerifyCode(cred.Secret, code, time.Now()) {
		return domain.ErrInvalidCode
	}
	return nil
}

// RegenerateBackupCodes replaces the whole backup-code set of an enabled
// credential with fresh codes.
func (s *twoFactorServiceImpl) RegenerateBackupCodes(ctx context.Context, accountID string) ([]string, error) {
	codes, err := s.generator.GenerateBackupCodes(s.opts.BackupCodeCount, s.opts.BackupCodeLength)
	if err != nil {
		s.logger.Error("failed to generate backup codes",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, err
	}

	storeCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.repo.ReplaceBackupCodes(storeCtx, accountID, codes); err != nil {
		if errors.Is(err, domain.ErrTwoFactorNotEnabled) {
			return nil, err
		}
		return nil, s.storeErr(err)
	}

	s.recordAudit(ctx, accountID, domain.AuditBackupCodesRegenerate, nil)
	return codes, nil
}

// bound derives a context limited by the store timeout.
func (s *twoFactorServiceImpl) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.StoreTimeout)
}

// storeErr normalizes collaborator failures so callers can tell "store
// unreachable" apart from "wrong code".
func (s *twoFactorServiceImpl) storeErr(err error) error {
	if errors.Is(err, domain.ErrDatabaseQuery) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStoreUnavailable
	}
	return err
}

// recordAudit writes an audit entry; failures are logged, never surfaced.
func (s *twoFactorServiceImpl) recordAudit(ctx context.Context, accountID, action string, details map[string]any) {
	storeCtx, cancel := s.bound(ctx)
	defer cancel()
	entry := domain.NewAuditEntry(accountID, action, details)
	if err := s.audit.Record(storeCtx, entry); err != nil {
		s.logger.Warn("failed to record audit entry",
			zap.String("account_id", accountID),
			zap.String("action", action),
			zap.Error(err))
	}
}
