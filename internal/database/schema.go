package database

import (
	"context"
	"fmt"
	"strings"
)

// The auth code table is MergeTree ordered by (tenant_id, auth_code) so that
// per-tenant listings are range scans, with a bloom filter index making the
// point lookup by auth_code cheap despite the column's high cardinality.
const createAuthCodeTable = `
CREATE TABLE IF NOT EXISTS tupleap_auth_codes (
	auth_code String,
	tenant_id String,
	username String,
	created_at DateTime64(3),
	is_active UInt8 DEFAULT 1,
	usage_count UInt64 DEFAULT 0,
	created_by String,
	expires_at Nullable(DateTime64(3))
) ENGINE = MergeTree()
ORDER BY (tenant_id, auth_code)
`

const createAuthCodeIndex = `
ALTER TABLE tupleap_auth_codes
ADD INDEX IF NOT EXISTS idx_auth_code auth_code TYPE bloom_filter(0.01) GRANULARITY 1
`

// EnsureSchema creates the auth code table and its lookup index if missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, createAuthCodeTable); err != nil {
		return fmt.Errorf("create tupleap_auth_codes: %w", err)
	}
	if _, err := db.ExecContext(ctx, createAuthCodeIndex); err != nil {
		// Older ClickHouse versions reject IF NOT EXISTS on ADD INDEX.
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("create auth_code index: %w", err)
		}
	}
	return nil
}
