package model

import (
	"time"
)

// AuthCode is one issued tenant credential, mirroring a row in the
// tupleap_auth_codes table.
type AuthCode struct {
	AuthCode   string     `db:"auth_code" json:"auth_code"`
	TenantID   string     `db:"tenant_id" json:"tenant_id"`
	Username   string     `db:"username" json:"username"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	UsageCount uint64     `db:"usage_count" json:"usage_count"`
	CreatedBy  string     `db:"created_by" json:"created_by"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expires_at,omitempty"`
}

// CreateAuthCodeParams contains parameters for issuing a new auth code
type CreateAuthCodeParams struct {
	AuthCode  string
	TenantID  string
	Username  string
	CreatedBy string
	ExpiresAt *time.Time
}

// IsExpired reports whether the code's optional expiry has passed.
func (c *AuthCode) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// IsValid reports whether the code may authorize a request right now.
func (c *AuthCode) IsValid(now time.Time) bool {
	return c.IsActive && !c.IsExpired(now)
}
