package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Audit actions recorded by the 2FA engine.
const (
	AuditTwoFactorEnabled      = "TWO_FACTOR_ENABLED"
	AuditTwoFactorDisabled     = "TWO_FACTOR_DISABLED"
	AuditBackupCodesRegenerate = "BACKUP_CODES_REGENERATED"
	AuditBackupCodeRedeemed    = "BACKUP_CODE_REDEEMED"
)

// AuditEntry records a security-relevant 2FA state change.
type AuditEntry struct {
	ID        ulid.ULID
	AccountID string
	Action    string
	Details   map[string]any
	CreatedAt time.Time
}

// NewAuditEntry creates an entry with a fresh ULID and timestamp.
func NewAuditEntry(accountID, action string, details map[string]any) *AuditEntry {
	return &AuditEntry{
		ID:        ulid.Make(),
		AccountID: accountID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}
}

// AuditRecorder defines the interface for the audit log. Recording failures
// must never fail the operation being audited; implementations and callers
// log and continue.
type AuditRecorder interface {
	Record(ctx context.Context, entry *AuditEntry) error
}
