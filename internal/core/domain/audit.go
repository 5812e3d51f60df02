package domain

import "time"

// Audit actions recorded for security-relevant operations.
const (
	AuditRegistered     = "registered"
	AuditLoginSucceeded = "login_succeeded"
	AuditLoginFailed    = "login_failed"
	AuditLoggedOut      = "logged_out"
	AuditRoleChanged    = "role_changed"
	AuditActiveChanged  = "active_changed"
	AuditUserDeleted    = "user_deleted"
	AuditStudentsPurged = "students_purged"
)

// AuditEvent is an append-only record of who did what. Actor is the email of
// the account performing the action (or the attempted email on failed logins).
type AuditEvent struct {
	Actor   string    `json:"actor"`
	Action  string    `json:"action"`
	Subject string    `json:"subject,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}
