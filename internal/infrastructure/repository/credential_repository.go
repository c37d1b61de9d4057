package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/domain"
	"github.com/cenety/twofactor-service/internal/infrastructure/database"
)

// CredentialRepository implements the credential repository interface
type CredentialRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *database.Postgres, logger *zap.Logger) *CredentialRepository {
	return &CredentialRepository{
		db:     db,
		logger: logger,
	}
}

// GetCredential retrieves the credential for an account
func (r *CredentialRepository) GetCredential(ctx context.Context, accountID string) (*domain.TwoFactorCredential, error) {
	query := `
		SELECT account_id, secret, backup_codes, enabled, created_at, updated_at
		FROM two_factor_credentials
		WHERE account_id = $1
	`

	var cred domain.TwoFactorCredential
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&cred.AccountID,
		&cred.Secret,
		&cred.BackupCodes,
		&cred.Enabled,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotProvisioned
		}
		r.logger.Error("failed to get credential",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	return &cred, nil
}

// UpsertPending creates or replaces a pending credential. The conflict
// branch is conditional on enabled = FALSE so an active credential is never
// overwritten by a provisioning race.
func (r *CredentialRepository) UpsertPending(ctx context.Context, accountID, secret string, backupCodes []string) error {
	query := `
		INSERT INTO two_factor_credentials (account_id, secret, backup_codes, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, now(), now())
		ON CONFLICT (account_id) DO UPDATE
		SET secret = EXCLUDED.secret,
		    backup_codes = EXCLUDED.backup_codes,
		    enabled = FALSE,
		    updated_at = now()
		WHERE two_factor_credentials.enabled = FALSE
	`

	tag, err := r.db.ExecRaw(ctx, query, accountID, secret, backupCodes)
	if err != nil {
		r.logger.Error("failed to upsert pending credential",
			zap.String("account_id", accountID),
			zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTwoFactorAlreadyEnabled
	}

	return nil
}

// Enable flips enabled to true, conditional on the record still being
// disabled and still carrying the secret the caller verified against.
func (r *CredentialRepository) Enable(ctx context.Context, accountID, secret string) error {
	query := `
		UPDATE two_factor_credentials
		SET enabled = TRUE, updated_at = now()
		WHERE account_id = $1 AND secret = $2 AND enabled = FALSE
	`

	tag, err := r.db.ExecRaw(ctx, query, accountID, secret)
	if err != nil {
		r.logger.Error("failed to enable credential",
			zap.String("account_id", accountID),
			zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotProvisioned
	}

	return nil
}

// Disable clears the secret and backup codes and flips enabled to false
func (r *CredentialRepository) Disable(ctx context.Context, accountID string) error {
	query := `
		UPDATE two_factor_credentials
		SET enabled = FALSE, secret = '', backup_codes = '{}', updated_at = now()
		WHERE account_id = $1
	`

	tag, err := r.db.ExecRaw(ctx, query, accountID)
	if err != nil {
		r.logger.Error("failed to disable credential",
			zap.String("account_id", accountID),
			zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotProvisioned
	}

	return nil
}

// ConsumeBackupCode removes the code from the unused set in a single
// conditional update. Row-level locking makes the check-and-remove
// linearizable per account: of two concurrent redemptions of the same
// code, exactly one sees a non-zero row count.
func (r *CredentialRepository) ConsumeBackupCode(ctx context.Context, accountID, code string) (bool, error) {
	query := `
		UPDATE two_factor_credentials
		SET backup_codes = array_remove(backup_codes, $2), updated_at = now()
		WHERE account_id = $1 AND $2 = ANY(backup_codes)
	`

	tag, err := r.db.ExecRaw(ctx, query, accountID, code)
	if err != nil {
		r.logger.Error("failed to consume backup code",
			zap.String("account_id", accountID),
			zap.Error(err))
		return false, domain.ErrDatabaseQuery
	}

	return tag.RowsAffected() > 0, nil
}

// ReplaceBackupCodes swaps the full backup-code set of an enabled credential
func (r *CredentialRepository) ReplaceBackupCodes(ctx context.Context, accountID string, codes []string) error {
	query := `
		UPDATE two_factor_credentials
		SET backup_codes = $2, updated_at = now()
		WHERE account_id = $1 AND enabled = TRUE
	`

	tag, err := r.db.ExecRaw(ctx, query, accountID, codes)
	if err != nil {
		r.logger.Error("failed to replace backup codes",
			zap.String("account_id", accountID),
			zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTwoFactorNotEnabled
	}

	return nil
}
