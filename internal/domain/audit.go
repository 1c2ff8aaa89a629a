package domain

import "time"

// AuditAction enumerates auditable actions written by this layer.
type AuditAction string

const (
	AuditPasswordResetRequested AuditAction = "password_reset_requested"
	AuditPasswordResetCompleted AuditAction = "password_reset_completed"
	AuditPasswordResetAdmin     AuditAction = "password_reset_admin"
)

// AuditEntry is a write-only audit log record.
type AuditEntry struct {
	ID        string
	UserID    string
	Action    AuditAction
	TableName string
	RecordID  string
	NewValues map[string]any
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
