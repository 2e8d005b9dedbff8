package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tupleap/authgate/internal/model"
)

// AuthCodeRepository handles auth code data operations against the durable
// store. The store is write-once per row plus mutations for usage_count and
// is_active; rows are never deleted.
type AuthCodeRepository interface {
	Insert(ctx context.Context, params model.CreateAuthCodeParams) (*model.AuthCode, error)
	FindByCode(ctx context.Context, code string) (*model.AuthCode, error)
	List(ctx context.Context, filter ListFilter) ([]model.AuthCode, error)
	IncrementUsage(ctx context.Context, code string, delta uint64) error
	Deactivate(ctx context.Context, code string) error
}

// ListFilter narrows a listing; zero values mean no filtering.
type ListFilter struct {
	TenantID string
	Username string
	Limit    int
}

type authCodeRepo struct {
	db *sqlx.DB
}

// NewAuthCodeRepository creates a new auth code repository
func NewAuthCodeRepository(db *sqlx.DB) AuthCodeRepository {
	return &authCodeRepo{db: db}
}

const authCodeColumns = `
	auth_code, tenant_id, username, created_at,
	CAST(is_active, 'Bool') AS is_active,
	usage_count, created_by, expires_at
`

// Insert writes a freshly issued code. The write is synchronous; the admin
// path depends on the row being visible to the next lookup.
func (r *authCodeRepo) Insert(ctx context.Context, params model.CreateAuthCodeParams) (*model.AuthCode, error) {
	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tupleap_auth_codes
			(auth_code, tenant_id, username, created_at, is_active, usage_count, created_by, expires_at)
		VALUES (?, ?, ?, ?, 1, 0, ?, ?)
	`, params.AuthCode, params.TenantID, params.Username, createdAt, params.CreatedBy, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &model.AuthCode{
		AuthCode:   params.AuthCode,
		TenantID:   params.TenantID,
		Username:   params.Username,
		CreatedAt:  createdAt,
		IsActive:   true,
		UsageCount: 0,
		CreatedBy:  params.CreatedBy,
		ExpiresAt:  params.ExpiresAt,
	}, nil
}

// FindByCode does an exact point lookup by code.
func (r *authCodeRepo) FindByCode(ctx context.Context, code string) (*model.AuthCode, error) {
	var ac model.AuthCode
	err := r.db.GetContext(ctx, &ac, `
		SELECT `+authCodeColumns+`
		FROM tupleap_auth_codes
		WHERE auth_code = ?
	`, code)
	return HandleNotFound(&ac, err)
}

// List returns codes ordered by (tenant_id, auth_code), matching the table's
// sort key so a tenant filter becomes a range scan.
func (r *authCodeRepo) List(ctx context.Context, filter ListFilter) ([]model.AuthCode, error) {
	query := `SELECT ` + authCodeColumns + ` FROM tupleap_auth_codes WHERE 1 = 1`
	args := make([]interface{}, 0, 3)

	if filter.TenantID != "" {
		query += ` AND tenant_id = ?`
		args = append(args, filter.TenantID)
	}
	if filter.Username != "" {
		query += ` AND username = ?`
		args = append(args, filter.Username)
	}

	query += ` ORDER BY tenant_id, auth_code`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	codes := []model.AuthCode{}
	if err := r.db.SelectContext(ctx, &codes, query, args...); err != nil {
		return nil, err
	}
	return codes, nil
}

// IncrementUsage adds delta to a code's usage counter. Issued as a mutation
// because MergeTree has no cheap single-row update; callers batch deltas so
// this runs once per code per flush window, not once per request.
func (r *authCodeRepo) IncrementUsage(ctx context.Context, code string, delta uint64) error {
	_, err := r.db.ExecContext(ctx, `
		ALTER TABLE tupleap_auth_codes
		UPDATE usage_count = usage_count + ?
		WHERE auth_code = ?
	`, delta, code)
	return err
}

// Deactivate flips is_active off. The row stays for audit history.
func (r *authCodeRepo) Deactivate(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `
		ALTER TABLE tupleap_auth_codes
		UPDATE is_active = 0
		WHERE auth_code = ?
	`, code)
	return err
}
