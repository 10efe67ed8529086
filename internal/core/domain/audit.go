package domain

import "time"

// AuditAction names an auth-layer event worth keeping a trail of.
type AuditAction string

const (
	AuditSignup       AuditAction = "signup"
	AuditSigninOK     AuditAction = "signin_ok"
	AuditSigninFailed AuditAction = "signin_failed"
	AuditSigninLocked AuditAction = "signin_locked"
)

// AuditEvent records a single auth-layer occurrence for a username.
// Events for the same username are persisted in the order they happened.
type AuditEvent struct {
	Username  string      `json:"username"`
	Action    AuditAction `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
	Detail    string      `json:"detail,omitempty"` // e.g. requested role on signup
}
