package repository

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/domain"
	"github.com/cenety/twofactor-service/internal/infrastructure/database"
)

// AuditRepository implements the audit recorder interface
type AuditRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.Postgres, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts an audit entry
func (r *AuditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		r.logger.Error("failed to marshal audit details",
			zap.String("action", entry.Action),
			zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	query := `
		INSERT INTO audit_logs (id, account_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	err = r.db.Exec(ctx, query,
		entry.ID.String(),
		entry.AccountID,
		entry.Action,
		details,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to record audit entry",
			zap.String("account_id", entry.AccountID),
			zap.String("action", entry.Action),
			zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	return nil
}

// ListByAccount returns the audit trail for an account, newest first
func (r *AuditRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, account_id, action, details, created_at
		FROM audit_logs
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, accountID, limit)
	if err != nil {
		r.logger.Error("failed to list audit entries",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var (
			entry   domain.AuditEntry
			id      string
			details []byte
		)
		if err := rows.Scan(&id, &entry.AccountID, &entry.Action, &details, &entry.CreatedAt); err != nil {
			return nil, domain.ErrDatabaseQuery
		}
		entry.ID, err = domain.ParseULID(id)
		if err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, domain.ErrDatabaseQuery
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDatabaseQuery
	}

	return entries, nil
}
