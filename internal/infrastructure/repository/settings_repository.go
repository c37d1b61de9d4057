package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/domain"
	"github.com/cenety/twofactor-service/internal/infrastructure/database"
)

// SettingsRepository implements the policy repository interface over the
// key/value settings table. The enforcement flag is read-mostly; values are
// stored as the strings "true"/"false".
type SettingsRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.Postgres, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// IsTwoFactorRequired reads the global enforcement flag. A missing setting
// reads as false, the documented default.
func (r *SettingsRepository) IsTwoFactorRequired(ctx context.Context) (bool, error) {
	query := `
		SELECT value
		FROM settings
		WHERE key = $1
	`

	var value string
	err := r.db.QueryRow(ctx, query, domain.PolicyRequire2FAKey).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		r.logger.Error("failed to read enforcement flag", zap.Error(err))
		return false, domain.ErrDatabaseQuery
	}

	return value == "true", nil
}

// SetTwoFactorRequired toggles the global enforcement flag
func (r *SettingsRepository) SetTwoFactorRequired(ctx context.Context, required bool) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`

	err := r.db.Exec(ctx, query, domain.PolicyRequire2FAKey, strconv.FormatBool(required))
	if err != nil {
		r.logger.Error("failed to write enforcement flag",
			zap.Bool("required", required),
			zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	return nil
}
